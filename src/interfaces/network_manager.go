package interfaces

import "context"

// -----------------------------------------------------------------------------
// INetworkManager defines the contract for plain HTTP GET requests.
// -----------------------------------------------------------------------------

type INetworkManager interface {

	// -----------------------------------------------------------------------------

	// Get performs one GET request to the specified URL with query parameters.
	// Returns the response body, or an error for transport failures and
	// non-2xx statuses.
	Get(ctx context.Context, url string, params map[string]string) ([]byte, error)
}
