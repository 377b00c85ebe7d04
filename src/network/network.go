package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"seasonality-dashboard/src/helpers"
	"seasonality-dashboard/src/interfaces"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"
)

// NetworkManager issues single-attempt GET requests against the backend.
// Requests carry no client timeout; callers bound them with their context.
type NetworkManager struct {
	Config       *models.MConfig
	ProxyManager interfaces.IProxyManager
	Client       *http.Client
	Logger       *logger.Logger
}

// -----------------------------------------------------------------------------

func NewNetworkManager(cfg *models.MConfig, log *logger.Logger) (*NetworkManager, error) {
	pm, err := helpers.NewProxyManager(cfg.Backend)
	if err != nil {
		return nil, err
	}

	nm := &NetworkManager{
		Config:       cfg,
		ProxyManager: pm,
		Logger:       log,
	}
	nm.Client = nm.createClient()
	return nm, nil
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) createClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if nm.ProxyManager.HasProxies() {
		proxyStr, err := nm.ProxyManager.GetCurrentProxy()
		if err == nil && proxyStr != "" {
			proxyURL, err := url.Parse(proxyStr)
			if err == nil {
				transport.Proxy = http.ProxyURL(proxyURL)
			}
		}
	}

	return &http.Client{Transport: transport}
}

// -----------------------------------------------------------------------------

// Get performs one GET request. Transport failures and non-2xx statuses come
// back as *helpers.NetworkError.
func (nm *NetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, helpers.NewNetworkError(fmt.Sprintf("invalid url %q", urlStr), err)
	}

	if len(params) > 0 {
		q := reqURL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		reqURL.RawQuery = q.Encode()
	}
	finalURL := reqURL.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return nil, helpers.NewNetworkError(fmt.Sprintf("build request %s", finalURL), err)
	}
	req.Header.Set("User-Agent", nm.ProxyManager.GetUserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := nm.Client.Do(req)
	if err != nil {
		nm.Logger.Warning("Request to %s failed: %v", finalURL, err)
		return nil, helpers.NewNetworkError(fmt.Sprintf("GET %s failed", finalURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		nm.Logger.Info("Bad status %d from %s", resp.StatusCode, finalURL)
		return nil, helpers.NewNetworkError(fmt.Sprintf("bad status: %s", resp.Status), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, helpers.NewNetworkError(fmt.Sprintf("read body from %s", finalURL), err)
	}

	nm.Logger.Debug("GET %s -> %d bytes", finalURL, len(body))
	return body, nil
}
