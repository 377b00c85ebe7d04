package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"seasonality-dashboard/src/controller"
	"seasonality-dashboard/src/helpers"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// Fakes
// -----------------------------------------------------------------------------

type fakeController struct {
	mu         sync.Mutex
	ticker     string
	generation uint64
	stopped    bool
}

func (f *fakeController) selection() models.MSelection {
	sel := models.MSelection{AssetLabel: "Select asset...", RangeLabel: "2024 - 2025", TimeRange: "all"}
	if f.ticker != "" {
		sel.Asset = &models.MAsset{Ticker: f.ticker, Label: f.ticker}
		sel.AssetLabel = f.ticker
	}
	return sel
}

func (f *fakeController) ChooseAsset(ticker string) (models.MSelection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ticker != "AAPL" && ticker != "GM" {
		return f.selection(), helpers.NewValidationError("unknown ticker %q", ticker)
	}
	f.ticker = ticker
	return f.selection(), nil
}

func (f *fakeController) ClickYear(year int) (models.MSelection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selection(), nil
}

func (f *fakeController) SetTimeRange(preset string) (models.MSelection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if preset != "all" && preset != "30d" {
		return f.selection(), helpers.NewValidationError("unknown time range %q", preset)
	}
	return f.selection(), nil
}

func (f *fakeController) Submit() (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return 0, controller.ErrStopped
	}
	if f.ticker == "" {
		return 0, helpers.ErrIncompleteSelection()
	}
	f.generation++
	return f.generation, nil
}

func (f *fakeController) Selection() models.MSelection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selection()
}

func (f *fakeController) Catalog() []models.MAsset {
	return []models.MAsset{{Ticker: "AAPL", Label: "Apple"}, {Ticker: "GM", Label: "General Motors"}}
}

func (f *fakeController) View() models.MCombinedView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.MCombinedView{
		Type:        "UPDATE",
		Generation:  f.generation,
		Ticker:      f.ticker,
		Seasonality: models.NewIdleResult(),
		Volume:      models.NewIdleResult(),
	}
}

func (f *fakeController) Stats() models.MControllerStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.MControllerStats{Generation: f.generation}
}

type fakeJournal struct{ records []models.MFetchRecord }

func (j *fakeJournal) Initialize() error                    { return nil }
func (j *fakeJournal) Close() error                         { return nil }
func (j *fakeJournal) Record(rec models.MFetchRecord) error { j.records = append(j.records, rec); return nil }
func (j *fakeJournal) Recent(limit int) ([]models.MFetchRecord, error) {
	if limit > len(j.records) {
		limit = len(j.records)
	}
	return j.records[:limit], nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func newTestServer(t *testing.T) (*DashboardServer, *fakeController) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := &fakeController{}
	journal := &fakeJournal{records: []models.MFetchRecord{
		{ID: "1", Ticker: "AAPL", Series: models.SeriesVolume, Status: models.FetchSuccess},
		{ID: "2", Ticker: "AAPL", Series: models.SeriesSeasonality, Status: models.FetchFailure},
	}}
	cfg := &models.MConfig{Host: "127.0.0.1", Port: 8080, LogLevel: "INFO"}
	srv := NewDashboardServer(cfg, ctrl, journal, logger.NewNop())
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })
	return srv, ctrl
}

func do(t *testing.T, srv *DashboardServer, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

// -----------------------------------------------------------------------------
// REST
// -----------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCatalogUsesValueLabelShape(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"value":"AAPL","label":"Apple"},{"value":"GM","label":"General Motors"}]`, rec.Body.String())
}

func TestChooseAsset(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/selection/asset", `{"ticker":"GM"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"value":"GM"`)

	rec = do(t, srv, http.MethodPost, "/api/selection/asset", `{"ticker":"TSLA"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/selection/asset", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimeRange(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/selection/time-range", `{"time_range":"30d"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPost, "/api/selection/time-range", `{"time_range":"2y"}`).Code)
}

func TestSubmit(t *testing.T) {
	srv, ctrl := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/submit", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "incomplete selection")

	do(t, srv, http.MethodPost, "/api/selection/asset", `{"ticker":"AAPL"}`)
	rec = do(t, srv, http.MethodPost, "/api/submit", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"generation":1}`, rec.Body.String())

	ctrl.mu.Lock()
	ctrl.stopped = true
	ctrl.mu.Unlock()
	assert.Equal(t, http.StatusServiceUnavailable, do(t, srv, http.MethodPost, "/api/submit", "").Code)
}

func TestFetches(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/fetches?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var records []models.MFetchRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 1)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/fetches?limit=abc", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/submit", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

// -----------------------------------------------------------------------------
// WebSocket
// -----------------------------------------------------------------------------

func dialWS(t *testing.T, srv *DashboardServer) *websocket.Conn {
	t.Helper()
	srv.startHub()
	ts := httptest.NewServer(srv.Engine())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketInitialAndBroadcast(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWS(t, srv)

	initial := readJSON(t, conn)
	assert.Equal(t, "INITIAL", initial["type"])

	srv.Broadcast(models.MCombinedView{Generation: 7, Ticker: "GM"})
	update := readJSON(t, conn)
	assert.Equal(t, "UPDATE", update["type"])
	assert.Equal(t, float64(7), update["generation"])
	assert.Equal(t, "GM", update["ticker"])
}

func TestBroadcastCoalescesWhenQueueFull(t *testing.T) {
	srv, _ := newTestServer(t)
	client := &Client{hub: srv, send: make(chan interface{}, 1024)}
	srv.clients[client] = struct{}{}

	last := uint64(cap(srv.broadcast) + 5)
	for gen := uint64(1); gen <= last; gen++ {
		srv.Broadcast(models.MCombinedView{Generation: gen})
	}
	srv.startHub()

	var got uint64
	require.Eventually(t, func() bool {
		for {
			select {
			case msg := <-client.send:
				got = msg.(models.MCombinedView).Generation
			default:
				return got == last
			}
		}
	}, time.Second, 5*time.Millisecond)
}

func TestClientCoalescesQueuedViews(t *testing.T) {
	client := &Client{send: make(chan interface{}, 8)}
	client.send <- models.MCombinedView{Type: "UPDATE", Generation: 2}
	client.send <- models.MCommandReply{Type: "ERROR", Command: "submit"}
	client.send <- models.MCombinedView{Type: "UPDATE", Generation: 3}
	client.send <- models.MCombinedView{Type: "UPDATE", Generation: 4}

	out := client.coalesce(models.MCombinedView{Type: "INITIAL", Generation: 1})
	require.Len(t, out, 4)
	assert.Equal(t, "INITIAL", out[0].(models.MCombinedView).Type)
	assert.Equal(t, uint64(2), out[1].(models.MCombinedView).Generation)
	assert.Equal(t, "submit", out[2].(models.MCommandReply).Command)
	assert.Equal(t, uint64(4), out[3].(models.MCombinedView).Generation)
	assert.Empty(t, client.send)
}

func TestWebSocketCommandErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWS(t, srv)
	readJSON(t, conn) // initial

	require.NoError(t, conn.WriteJSON(models.MCommand{Command: models.CommandSubmit}))
	reply := readJSON(t, conn)
	assert.Equal(t, "ERROR", reply["type"])
	assert.Equal(t, models.CommandSubmit, reply["command"])
	assert.Contains(t, reply["error"], "incomplete selection")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	reply = readJSON(t, conn)
	assert.Equal(t, "ERROR", reply["type"])

	require.NoError(t, conn.WriteJSON(models.MCommand{Command: "dance"}))
	reply = readJSON(t, conn)
	assert.Equal(t, "unknown command", reply["error"])
}

func TestWebSocketViewCommand(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWS(t, srv)
	readJSON(t, conn)

	require.NoError(t, conn.WriteJSON(models.MCommand{Command: models.CommandChooseAsset, Ticker: "AAPL"}))
	require.NoError(t, conn.WriteJSON(models.MCommand{Command: models.CommandView}))

	view := readJSON(t, conn)
	assert.Equal(t, "INITIAL", view["type"])
	assert.Equal(t, "AAPL", view["ticker"])
}
