package models

// -----------------------------------------------------------------------------
// Combined view pushed to the chart renderer
// -----------------------------------------------------------------------------

type MCombinedView struct {
	Type          string                    `json:"type"` // "INITIAL" or "UPDATE"
	Generation    uint64                    `json:"generation"`
	Ticker        string                    `json:"ticker"`
	Label         string                    `json:"label"`
	Range         *MYearRange               `json:"range"`
	TimeRange     string                    `json:"time_range"`
	Seasonality   MFetchResult              `json:"seasonality"`
	Volume        MFetchResult              `json:"volume"`
	SkippedPoints int                       `json:"skipped_points"`
	Summaries     map[string]MSeriesSummary `json:"summaries"`
	Timestamp     int64                     `json:"timestamp"`
}

// MSeriesSummary describes the primary metric of a filtered series. Min and
// Max double as the Y-axis domain for the renderer.
type MSeriesSummary struct {
	Metric string  `json:"metric"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// -----------------------------------------------------------------------------
// Commands sent by websocket clients
// -----------------------------------------------------------------------------

const (
	CommandChooseAsset = "choose_asset"
	CommandClickYear   = "click_year"
	CommandTimeRange   = "time_range"
	CommandSubmit      = "submit"
	CommandView        = "view"
)

type MCommand struct {
	Command   string `json:"command"`
	Ticker    string `json:"ticker,omitempty"`
	Year      int    `json:"year,omitempty"`
	TimeRange string `json:"time_range,omitempty"`
}

// MCommandReply is sent back to a single client when its command fails.
type MCommandReply struct {
	Type    string `json:"type"` // "ERROR"
	Command string `json:"command"`
	Error   string `json:"error"`
}
