package models

import "time"

// MFetchRecord is one row of the session fetch journal.
type MFetchRecord struct {
	ID         string      `json:"id"`
	Generation uint64      `json:"generation"`
	Ticker     string      `json:"ticker"`
	Series     string      `json:"series"`
	Status     FetchStatus `json:"status"`
	Reason     string      `json:"reason,omitempty"`
	Points     int         `json:"points"`
	DurationMs int64       `json:"duration_ms"`
	CreatedAt  time.Time   `json:"created_at"`
}
