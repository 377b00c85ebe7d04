package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"seasonality-dashboard/src/analysis"
	"seasonality-dashboard/src/interfaces"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"
	"seasonality-dashboard/src/state"

	"github.com/google/uuid"
)

// ErrStopped is returned by every command once Run has exited.
var ErrStopped = errors.New("controller stopped")

// ReferenceSource supplies the date relative time ranges end at.
type ReferenceSource interface {
	ReferenceDate(ticker string, now time.Time) time.Time
}

type completion struct {
	generation uint64
	series     string
	result     models.MFetchResult
}

// -----------------------------------------------------------------------------

// Controller owns the selection and the two series results. All mutable
// state lives on the goroutine running Run; public methods post closures to
// it and wait. Readers get the last published snapshot.
type Controller struct {
	Config    *models.MConfig
	Fetcher   interfaces.ISeriesFetcher
	Journal   interfaces.IFetchJournal // optional
	Analysis  *analysis.AnalysisFacade
	Reference ReferenceSource
	Logger    *logger.Logger
	Now       func() time.Time

	commands    chan func()
	completions chan completion
	stopped     chan struct{}
	runCtx      context.Context

	// loop-owned
	state       *state.SelectionState
	generation  uint64
	submission  *models.MSubmission
	seasonality models.MFetchResult
	volume      models.MFetchResult
	applied     uint64
	dropped     uint64

	mu        sync.RWMutex
	view      models.MCombinedView
	selection models.MSelection
	stats     models.MControllerStats
	listeners []func(models.MCombinedView)
}

// -----------------------------------------------------------------------------

func NewController(
	cfg *models.MConfig,
	fetcher interfaces.ISeriesFetcher,
	journal interfaces.IFetchJournal,
	reference ReferenceSource,
	log *logger.Logger,
) *Controller {
	c := &Controller{
		Config:      cfg,
		Fetcher:     fetcher,
		Journal:     journal,
		Analysis:    analysis.NewAnalysisFacade(log.Named("Analysis")),
		Reference:   reference,
		Logger:      log,
		Now:         time.Now,
		commands:    make(chan func()),
		completions: make(chan completion, 8),
		stopped:     make(chan struct{}),
		seasonality: models.NewIdleResult(),
		volume:      models.NewIdleResult(),
	}
	c.state = state.NewSelectionState(cfg.Selection, cfg.Catalog, cfg.Window.DefaultTimeRange, c.Now().Year())
	c.publish()
	return c
}

// -----------------------------------------------------------------------------

// OnChange registers a listener called with every published view. Listeners
// run on the controller goroutine and must not block; register them before
// Run.
func (c *Controller) OnChange(fn func(models.MCombinedView)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// -----------------------------------------------------------------------------

// Run processes commands and fetch completions until ctx is done.
func (c *Controller) Run(ctx context.Context) {
	c.runCtx = ctx
	defer close(c.stopped)

	c.Logger.Info("Controller loop started")
	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Controller loop stopped")
			return
		case fn := <-c.commands:
			fn()
		case done := <-c.completions:
			if c.apply(done) {
				c.publish()
			}
		}
	}
}

// -----------------------------------------------------------------------------

func (c *Controller) do(fn func()) error {
	done := make(chan struct{})
	select {
	case c.commands <- func() { fn(); c.publish(); close(done) }:
	case <-c.stopped:
		return ErrStopped
	}

	select {
	case <-done:
		return nil
	case <-c.stopped:
		return ErrStopped
	}
}

// -----------------------------------------------------------------------------
// Commands
// -----------------------------------------------------------------------------

// Initialize preselects ticker (when set) and submits if the selection is
// complete. It is the startup hook of the hosting process.
func (c *Controller) Initialize(ticker string) (uint64, error) {
	var gen uint64
	var cmdErr error
	err := c.do(func() {
		if ticker != "" {
			if cmdErr = c.state.SelectAsset(ticker); cmdErr != nil {
				return
			}
		}
		gen, cmdErr = c.submit()
	})
	if err != nil {
		return 0, err
	}
	return gen, cmdErr
}

func (c *Controller) ChooseAsset(ticker string) (models.MSelection, error) {
	return c.mutate(func() error { return c.state.ChooseAsset(ticker) })
}

func (c *Controller) ClickYear(year int) (models.MSelection, error) {
	return c.mutate(func() error { return c.state.ClickYear(year) })
}

func (c *Controller) SetTimeRange(preset string) (models.MSelection, error) {
	return c.mutate(func() error { return c.state.SetTimeRange(preset) })
}

// Submit starts a new generation and returns its number.
func (c *Controller) Submit() (uint64, error) {
	var gen uint64
	var cmdErr error
	if err := c.do(func() { gen, cmdErr = c.submit() }); err != nil {
		return 0, err
	}
	return gen, cmdErr
}

func (c *Controller) mutate(fn func() error) (models.MSelection, error) {
	var snap models.MSelection
	var cmdErr error
	err := c.do(func() {
		cmdErr = fn()
		snap = c.state.Snapshot()
	})
	if err != nil {
		return models.MSelection{}, err
	}
	return snap, cmdErr
}

// -----------------------------------------------------------------------------

func (c *Controller) submit() (uint64, error) {
	sub, err := c.state.Submit()
	if err != nil {
		c.Logger.Debug("Submit rejected: %v", err)
		return 0, err
	}

	c.generation++
	gen := c.generation
	c.submission = &sub
	c.seasonality = models.NewPendingResult()
	c.volume = models.NewPendingResult()

	c.Logger.Info("Generation %d: fetching %s for %s", gen, sub.Asset.Ticker, sub.Range.Label())
	c.launch(gen, models.SeriesSeasonality, c.Config.Backend.SeasonalityURL, sub)
	c.launch(gen, models.SeriesVolume, c.Config.Backend.VolumeURL, sub)
	return gen, nil
}

// -----------------------------------------------------------------------------

func (c *Controller) launch(gen uint64, series, endpoint string, sub models.MSubmission) {
	ctx := c.runCtx
	if ctx == nil {
		ctx = context.Background()
	}
	years := sub.Range.Clone()

	go func() {
		start := time.Now()
		result := c.Fetcher.Fetch(ctx, endpoint, sub.Asset.Ticker, series, &years)
		c.record(gen, sub.Asset.Ticker, series, result, time.Since(start))

		select {
		case c.completions <- completion{generation: gen, series: series, result: result}:
		case <-c.stopped:
		}
	}()
}

// -----------------------------------------------------------------------------

func (c *Controller) record(gen uint64, ticker, series string, result models.MFetchResult, took time.Duration) {
	if c.Journal == nil {
		return
	}
	rec := models.MFetchRecord{
		ID:         uuid.NewString(),
		Generation: gen,
		Ticker:     ticker,
		Series:     series,
		Status:     result.Status,
		Reason:     result.Reason,
		Points:     len(result.Data),
		DurationMs: took.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := c.Journal.Record(rec); err != nil {
		c.Logger.Warning("Failed to journal %s fetch for %s: %v", series, ticker, err)
	}
}

// -----------------------------------------------------------------------------

// apply stores a completion if it belongs to the current generation.
func (c *Controller) apply(done completion) bool {
	if done.generation != c.generation {
		c.dropped++
		c.Logger.Debug("Dropped stale %s result of generation %d (current %d)",
			done.series, done.generation, c.generation)
		c.publishStats()
		return false
	}

	switch done.series {
	case models.SeriesSeasonality:
		c.seasonality = done.result
	case models.SeriesVolume:
		c.volume = done.result
	default:
		return false
	}
	c.applied++

	if done.result.IsFailure() {
		c.Logger.Warning("Generation %d: %s failed (%s): %s",
			done.generation, done.series, done.result.ErrorKind, done.result.Reason)
	}
	return true
}

// -----------------------------------------------------------------------------
// Publishing
// -----------------------------------------------------------------------------

func (c *Controller) publish() {
	view := c.buildView()
	selection := c.state.Snapshot()

	c.mu.Lock()
	c.view = view
	c.selection = selection
	c.stats = c.currentStats()
	listeners := append(([]func(models.MCombinedView))(nil), c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(view)
	}
}

func (c *Controller) publishStats() {
	c.mu.Lock()
	c.stats = c.currentStats()
	c.mu.Unlock()
}

func (c *Controller) currentStats() models.MControllerStats {
	return models.MControllerStats{Generation: c.generation, Applied: c.applied, Dropped: c.dropped}
}

// -----------------------------------------------------------------------------

func (c *Controller) buildView() models.MCombinedView {
	view := models.MCombinedView{
		Type:        "UPDATE",
		Generation:  c.generation,
		Range:       c.state.Range(),
		TimeRange:   c.state.TimeRange(),
		Seasonality: c.seasonality,
		Volume:      c.volume,
		Summaries:   map[string]models.MSeriesSummary{},
		Timestamp:   c.Now().Unix(),
	}
	if c.submission == nil {
		return view
	}
	view.Ticker = c.submission.Asset.Ticker
	view.Label = c.submission.Asset.Label

	reference := c.Now()
	if analysis.TimeRangeDays(view.TimeRange) > 0 && c.Reference != nil {
		reference = c.Reference.ReferenceDate(view.Ticker, reference)
	}
	window := analysis.ViewWindow(view.Range, view.TimeRange, reference)

	var skipped int
	view.Seasonality, skipped = c.Analysis.ApplyWindow(models.SeriesSeasonality, c.seasonality, window)
	view.SkippedPoints += skipped
	view.Volume, skipped = c.Analysis.ApplyWindow(models.SeriesVolume, c.volume, window)
	view.SkippedPoints += skipped

	view.Summaries = c.Analysis.Summaries(map[string]models.MFetchResult{
		models.SeriesSeasonality: view.Seasonality,
		models.SeriesVolume:      view.Volume,
	})
	return view
}

// -----------------------------------------------------------------------------
// Readers
// -----------------------------------------------------------------------------

func (c *Controller) View() models.MCombinedView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

func (c *Controller) Selection() models.MSelection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selection
}

func (c *Controller) Stats() models.MControllerStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

func (c *Controller) Catalog() []models.MAsset {
	return append([]models.MAsset(nil), c.Config.Catalog...)
}
