package seasonality

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"seasonality-dashboard/src/helpers"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"
	"seasonality-dashboard/src/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFetcher(t *testing.T, passYears bool) *SeriesFetcher {
	t.Helper()
	nm, err := network.NewNetworkManager(&models.MConfig{}, logger.NewNop())
	require.NoError(t, err)
	return NewSeriesFetcher(nm, passYears, logger.NewNop())
}

func TestBuildURL(t *testing.T) {
	got, err := BuildURL("http://localhost:8000/get-seasonality/", "^GSPC")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/get-seasonality/%5EGSPC", got)

	got, err = BuildURL("http://localhost:8000/get-volume", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/get-volume/AAPL", got)

	_, err = BuildURL("http://localhost:8000/get-volume", "../admin")
	assert.True(t, helpers.IsValidationError(err))
}

func TestFetchSuccess(t *testing.T) {
	var path, query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, query = r.URL.Path, r.URL.RawQuery
		_, _ = w.Write([]byte(`[
			{"date":"2024-01-02","seasonality":0.5,"note":"x"},
			{"date":"2024-01-03","seasonality":-1.25,"smoothed":-1}
		]`))
	}))
	defer srv.Close()

	res := newFetcher(t, false).Fetch(context.Background(), srv.URL+"/get-seasonality", "AAPL", models.SeriesSeasonality, nil)
	require.True(t, res.IsSuccess(), res.Reason)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "/get-seasonality/AAPL", path)
	assert.Empty(t, query)

	assert.Equal(t, "2024-01-02", res.Data[0].Date)
	assert.Equal(t, map[string]float64{"seasonality": 0.5}, res.Data[0].Metrics)
	assert.Equal(t, map[string]float64{"seasonality": -1.25, "smoothed": -1}, res.Data[1].Metrics)
}

func TestFetchPassesYearRange(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	years := models.ClosedRange(2021, 2023)
	res := newFetcher(t, true).Fetch(context.Background(), srv.URL+"/get-volume", "GM", models.SeriesVolume, &years)
	require.True(t, res.IsSuccess())
	assert.Empty(t, res.Data)
	assert.Equal(t, "end=2023&start=2021", query)
}

func TestFetchHTTP500IsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := newFetcher(t, false).Fetch(context.Background(), srv.URL+"/get-seasonality", "AAPL", models.SeriesSeasonality, nil)
	assert.True(t, res.IsFailure())
	assert.Equal(t, helpers.KindNetwork, res.ErrorKind)
	assert.Contains(t, res.Reason, "500")
}

func TestFetchParseFailures(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"date":"2024-01-01"}`,
		`[1,2,3]`,
		`[{"seasonality":1}]`,
		`[{"date":20240101}]`,
		`[{"date":"2024-01-01","price":3}]`,
		`[{"date":"2024-01-01","seasonality":"12"}]`,
		`[{"date":"2024-01-01"}]`,
		`[{"date":"2024-01-01","seasonality":1},{"date":"2024-01-02","volume":5}]`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			res := newFetcher(t, false).Fetch(context.Background(), srv.URL+"/s", "AAPL", models.SeriesSeasonality, nil)
			assert.True(t, res.IsFailure())
			assert.Equal(t, helpers.KindParse, res.ErrorKind)
		})
	}
}

func TestFetchInvalidTickerMakesNoRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	res := newFetcher(t, false).Fetch(context.Background(), srv.URL+"/s", "AA PL", models.SeriesSeasonality, nil)
	assert.True(t, res.IsFailure())
	assert.Equal(t, helpers.KindValidation, res.ErrorKind)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestParseSeriesRequiresMetric(t *testing.T) {
	points, err := ParseSeries([]byte(`[{"date":"2024-01-01","volume":12,"price":3}]`), models.SeriesVolume)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"volume": 12, "price": 3}, points[0].Metrics)

	for _, body := range []string{
		`[{"date":"2024-01-01","price":3}]`,
		`[{"date":"2024-01-01","volume":"12"}]`,
		`[{"date":"2024-01-01"}]`,
	} {
		_, err := ParseSeries([]byte(body), models.SeriesVolume)
		assert.True(t, helpers.IsParseError(err), body)
	}
}
