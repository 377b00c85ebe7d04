package helpers

import (
	"fmt"
	"net/url"
	"strings"

	"seasonality-dashboard/src/models"
)

const DefaultUserAgent = "seasonality-dashboard/1.0"

// -----------------------------------------------------------------------------

// ProxyManager resolves the outbound proxy and User-Agent for backend calls.
type ProxyManager struct {
	proxy     string
	userAgent string
}

// -----------------------------------------------------------------------------

func NewProxyManager(cfg models.MBackendConfig) (*ProxyManager, error) {
	pm := &ProxyManager{userAgent: cfg.UserAgent}
	if pm.userAgent == "" {
		pm.userAgent = DefaultUserAgent
	}

	if cfg.Proxy != "" {
		if !ValidateProxy(cfg.Proxy) {
			return nil, fmt.Errorf("invalid proxy %q", cfg.Proxy)
		}
		pm.proxy = FormatProxy(cfg.Proxy)
	}
	return pm, nil
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) GetCurrentProxy() (string, error) {
	return pm.proxy, nil
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) HasProxies() bool {
	return pm.proxy != ""
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) GetUserAgent() string {
	return pm.userAgent
}

// -----------------------------------------------------------------------------

// ValidateProxy checks if a proxy string is roughly valid.
func ValidateProxy(proxyStr string) bool {
	u, err := url.Parse(FormatProxy(proxyStr))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "socks5"
}

// -----------------------------------------------------------------------------

// FormatProxy ensures the proxy has a scheme.
func FormatProxy(proxyStr string) string {
	if !strings.Contains(proxyStr, "://") {
		return "http://" + proxyStr
	}
	return proxyStr
}
