package interfaces

import "seasonality-dashboard/src/models"

// -----------------------------------------------------------------------------
// IFetchJournal defines the contract for the session fetch journal.
// -----------------------------------------------------------------------------

type IFetchJournal interface {

	// -----------------------------------------------------------------------------

	// Initialize opens the connection and recreates the journal table.
	Initialize() error

	// -----------------------------------------------------------------------------

	// Record appends one fetch outcome.
	Record(rec models.MFetchRecord) error

	// -----------------------------------------------------------------------------

	// Recent returns the newest records first.
	Recent(limit int) ([]models.MFetchRecord, error)

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
