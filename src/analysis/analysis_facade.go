package analysis

import (
	"time"

	"seasonality-dashboard/src/analysis/core"
	"seasonality-dashboard/src/helpers"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"
)

// AnalysisFacade turns raw fetch results into what the chart renderer draws:
// windowed series plus a per-series summary of the primary metric.
type AnalysisFacade struct {
	Logger *logger.Logger
	Errors *helpers.ErrorHandler
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(log *logger.Logger) *AnalysisFacade {
	return &AnalysisFacade{Logger: log, Errors: helpers.NewErrorHandler(log)}
}

// -----------------------------------------------------------------------------

// ViewWindow builds the window for a year range and a time range preset.
// reference is only consulted for relative presets.
func ViewWindow(years *models.MYearRange, preset string, reference time.Time) Window {
	w := AllWindow()
	if years != nil {
		w = YearWindow(*years)
	}
	if days := TimeRangeDays(preset); days > 0 {
		w.Days = days
		w.Reference = reference
	}
	return w
}

// -----------------------------------------------------------------------------

// ApplyWindow filters a successful result through w. Pending and failed
// results pass through untouched.
func (a *AnalysisFacade) ApplyWindow(series string, result models.MFetchResult, w Window) (models.MFetchResult, int) {
	if !result.IsSuccess() {
		return result, 0
	}

	filtered, skipped := FilterSeries(result.Data, w)
	if skipped > 0 {
		for _, p := range result.Data {
			if _, err := ParseDate(p.Date); err != nil {
				a.Errors.Handle(helpers.NewMalformedPointError(p.Date, err), series)
			}
		}
	}
	return models.NewSuccessResult(filtered), skipped
}

// -----------------------------------------------------------------------------

// SummarizeSeries computes count, mean, std and min/max of one metric.
// Points missing the metric are ignored.
func SummarizeSeries(series []models.MTimeSeriesPoint, metric string) models.MSeriesSummary {
	values := make([]float64, 0, len(series))
	for _, p := range series {
		if v, ok := p.Metrics[metric]; ok {
			values = append(values, v)
		}
	}

	mean, std := core.CalculateMeanStd(values)
	lo, hi := core.CalculateMinMax(values)
	return models.MSeriesSummary{
		Metric: metric,
		Count:  len(values),
		Mean:   mean,
		Std:    std,
		Min:    lo,
		Max:    hi,
	}
}

// -----------------------------------------------------------------------------

// Summaries returns one summary per successful series keyed by series name.
// The primary metric of a series carries the series' own name.
func (a *AnalysisFacade) Summaries(results map[string]models.MFetchResult) map[string]models.MSeriesSummary {
	out := make(map[string]models.MSeriesSummary, len(results))
	for series, result := range results {
		if !result.IsSuccess() {
			continue
		}
		out[series] = SummarizeSeries(result.Data, series)
	}
	return out
}
