package seasonality

import (
	"context"
	"fmt"
	"strconv"

	"seasonality-dashboard/src/helpers"
	"seasonality-dashboard/src/interfaces"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"

	"github.com/tidwall/gjson"
)

// SeriesFetcher requests one seasonality or volume series from the backend.
type SeriesFetcher struct {
	Network       interfaces.INetworkManager
	Logger        *logger.Logger
	PassYearRange bool
}

// -----------------------------------------------------------------------------

func NewSeriesFetcher(netMgr interfaces.INetworkManager, passYearRange bool, log *logger.Logger) *SeriesFetcher {
	return &SeriesFetcher{
		Network:       netMgr,
		Logger:        log,
		PassYearRange: passYearRange,
	}
}

// -----------------------------------------------------------------------------

// BuildURL returns endpointBase/<escaped ticker>.
func BuildURL(endpointBase, ticker string) (string, error) {
	encoded, err := helpers.EncodeTicker(ticker)
	if err != nil {
		return "", err
	}
	return helpers.JoinEndpoint(endpointBase, encoded), nil
}

// -----------------------------------------------------------------------------

// Fetch performs a single GET and captures every outcome in the result.
// metric names the numeric field every row must carry.
func (f *SeriesFetcher) Fetch(ctx context.Context, endpointBase, ticker, metric string, years *models.MYearRange) models.MFetchResult {
	target, err := BuildURL(endpointBase, ticker)
	if err != nil {
		f.Logger.Warning("Rejected ticker %q: %v", ticker, err)
		return failure(err)
	}

	var params map[string]string
	if f.PassYearRange && years != nil {
		params = map[string]string{"start": strconv.Itoa(years.From)}
		if years.To != nil {
			params["end"] = strconv.Itoa(*years.To)
		}
	}

	body, err := f.Network.Get(ctx, target, params)
	if err != nil {
		if !helpers.IsNetworkError(err) {
			err = helpers.NewNetworkError(fmt.Sprintf("GET %s failed", target), err)
		}
		f.Logger.Warning("Fetch %s failed: %v", target, err)
		return failure(err)
	}

	points, err := ParseSeries(body, metric)
	if err != nil {
		f.Logger.Warning("Response from %s rejected: %v", target, err)
		return failure(err)
	}

	f.Logger.Debug("Fetched %d points from %s", len(points), target)
	return models.NewSuccessResult(points)
}

// -----------------------------------------------------------------------------

// ParseSeries decodes a JSON array of objects that each carry a string
// "date" and a numeric metric. Other numeric fields become extra metrics;
// the rest are ignored.
func ParseSeries(body []byte, metric string) ([]models.MTimeSeriesPoint, error) {
	if !gjson.ValidBytes(body) {
		return nil, helpers.NewParseError("response is not valid JSON", nil)
	}

	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, helpers.NewParseError(fmt.Sprintf("response is a JSON %s, want an array", jsonKind(root)), nil)
	}

	rows := root.Array()
	points := make([]models.MTimeSeriesPoint, 0, len(rows))
	for i, row := range rows {
		if !row.IsObject() {
			return nil, helpers.NewParseError(fmt.Sprintf("element %d is a JSON %s, want an object", i, jsonKind(row)), nil)
		}

		date := row.Get("date")
		if date.Type != gjson.String {
			return nil, helpers.NewParseError(fmt.Sprintf("element %d has no string date", i), nil)
		}

		if value := row.Get(metric); value.Type != gjson.Number {
			return nil, helpers.NewParseError(fmt.Sprintf("element %d has no numeric %s", i, metric), nil)
		}

		point := models.MTimeSeriesPoint{Date: date.String(), Metrics: make(map[string]float64)}
		row.ForEach(func(key, value gjson.Result) bool {
			if key.String() != "date" && value.Type == gjson.Number {
				point.Metrics[key.String()] = value.Float()
			}
			return true
		})
		points = append(points, point)
	}
	return points, nil
}

// -----------------------------------------------------------------------------

func failure(err error) models.MFetchResult {
	return models.NewFailureResult(helpers.Kind(err), err.Error())
}

func jsonKind(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "object"
	case r.IsArray():
		return "array"
	case r.Type == gjson.String:
		return "string"
	case r.Type == gjson.Number:
		return "number"
	case r.Type == gjson.True, r.Type == gjson.False:
		return "boolean"
	default:
		return "null"
	}
}
