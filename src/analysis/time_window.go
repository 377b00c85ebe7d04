package analysis

import (
	"fmt"
	"strings"
	"time"

	"seasonality-dashboard/src/models"
)

// DateLayouts are the point date forms the backend emits.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// -----------------------------------------------------------------------------

// Window selects points by date. Days > 0 keeps [Reference - Days, Reference];
// Years keeps [From-01-01, To-12-31], or everything from From-01-01 on while
// the range is open. Both constraints apply when both are set. The zero
// Window keeps every point with a parsable date.
type Window struct {
	Days      int
	Reference time.Time
	Years     *models.MYearRange
}

func RelativeWindow(days int, reference time.Time) Window {
	return Window{Days: days, Reference: reference}
}

func YearWindow(r models.MYearRange) Window {
	years := r.Clone()
	return Window{Years: &years}
}

func AllWindow() Window {
	return Window{}
}

// -----------------------------------------------------------------------------

// FilterSeries returns the points inside w in their original order together
// with the number of points dropped because their date did not parse.
func FilterSeries(series []models.MTimeSeriesPoint, w Window) ([]models.MTimeSeriesPoint, int) {
	out := make([]models.MTimeSeriesPoint, 0, len(series))
	skipped := 0

	var lo, hi time.Time
	hasLo, hasHi := false, false

	if w.Years != nil {
		lo, hasLo = time.Date(w.Years.From, time.January, 1, 0, 0, 0, 0, time.UTC), true
		if w.Years.To != nil {
			hi, hasHi = time.Date(*w.Years.To, time.December, 31, 0, 0, 0, 0, time.UTC), true
		}
	}
	if w.Days > 0 {
		ref := truncateDay(w.Reference)
		start := ref.AddDate(0, 0, -w.Days)
		if !hasLo || start.After(lo) {
			lo, hasLo = start, true
		}
		if !hasHi || ref.Before(hi) {
			hi, hasHi = ref, true
		}
	}

	for _, p := range series {
		day, err := ParseDate(p.Date)
		if err != nil {
			skipped++
			continue
		}
		if hasLo && day.Before(lo) {
			continue
		}
		if hasHi && day.After(hi) {
			continue
		}
		out = append(out, p)
	}
	return out, skipped
}

// -----------------------------------------------------------------------------

// ParseDate parses a point date in any of DateLayouts and returns the
// calendar day it names, as UTC midnight. Offset timestamps keep their own
// day.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// -----------------------------------------------------------------------------

// TimeRangeDays maps a time range preset onto a day count; "all" and unknown
// presets return 0 (no relative constraint).
func TimeRangeDays(preset string) int {
	switch preset {
	case "90d":
		return 90
	case "30d":
		return 30
	case "7d":
		return 7
	default:
		return 0
	}
}
