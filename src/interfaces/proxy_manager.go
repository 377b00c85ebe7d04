package interfaces

// -----------------------------------------------------------------------------
// IProxyManager resolves outbound connection settings for backend requests.
// -----------------------------------------------------------------------------

type IProxyManager interface {

	// -----------------------------------------------------------------------------

	// GetCurrentProxy returns the configured proxy URL (or empty if none).
	GetCurrentProxy() (string, error)

	// -----------------------------------------------------------------------------

	// HasProxies returns true if a proxy is configured.
	HasProxies() bool

	// -----------------------------------------------------------------------------

	// GetUserAgent returns the User-Agent sent with every request.
	GetUserAgent() string
}
