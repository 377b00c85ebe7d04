package interfaces

import "seasonality-dashboard/src/models"

// -----------------------------------------------------------------------------
// IChartController is the surface the HTTP, websocket and gRPC layers drive.
// -----------------------------------------------------------------------------

type IChartController interface {
	ChooseAsset(ticker string) (models.MSelection, error)
	ClickYear(year int) (models.MSelection, error)
	SetTimeRange(preset string) (models.MSelection, error)
	Submit() (uint64, error)
	Selection() models.MSelection
	Catalog() []models.MAsset
	View() models.MCombinedView
	Stats() models.MControllerStats
}
