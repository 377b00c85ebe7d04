package interfaces

import (
	"context"

	"seasonality-dashboard/src/models"
)

// IDataExchanger pushes the combined view to connected renderers.
type IDataExchanger interface {
	// Broadcast queues the view for every connected client without blocking.
	Broadcast(view models.MCombinedView)
	Start() error
	Stop(ctx context.Context) error
}
