package interfaces

import (
	"context"

	"seasonality-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// ISeriesFetcher retrieves one time series for a ticker from the backend.
// -----------------------------------------------------------------------------

type ISeriesFetcher interface {

	// Fetch requests endpointBase/ticker and never returns a Go error:
	// every failure is captured in the returned result. Rows without a
	// numeric metric field fail the whole response. years may be nil.
	Fetch(ctx context.Context, endpointBase, ticker, metric string, years *models.MYearRange) models.MFetchResult
}
