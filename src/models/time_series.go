package models

import (
	"encoding/json"
	"fmt"
)

// Series names used by the backend, the journal and the combined view.
const (
	SeriesSeasonality = "seasonality"
	SeriesVolume      = "volume"
)

// MTimeSeriesPoint is one dated row of a series. Metrics holds every numeric
// field the backend sent next to the date.
type MTimeSeriesPoint struct {
	Date    string
	Metrics map[string]float64
}

// -----------------------------------------------------------------------------

// MarshalJSON flattens the metrics next to "date" so the renderer receives
// the same row shape the backend produced.
func (p MTimeSeriesPoint) MarshalJSON() ([]byte, error) {
	row := make(map[string]interface{}, len(p.Metrics)+1)
	for k, v := range p.Metrics {
		row[k] = v
	}
	row["date"] = p.Date
	return json.Marshal(row)
}

// -----------------------------------------------------------------------------

func (p *MTimeSeriesPoint) UnmarshalJSON(data []byte) error {
	var row map[string]json.RawMessage
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}

	rawDate, ok := row["date"]
	if !ok {
		return fmt.Errorf("point has no date")
	}
	if err := json.Unmarshal(rawDate, &p.Date); err != nil {
		return fmt.Errorf("point date is not a string: %w", err)
	}

	p.Metrics = make(map[string]float64, len(row)-1)
	for k, raw := range row {
		if k == "date" {
			continue
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			// Non-numeric auxiliary fields are not metrics
			continue
		}
		p.Metrics[k] = v
	}
	return nil
}
