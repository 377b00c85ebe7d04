package scheduler

import (
	"fmt"
	"time"

	"seasonality-dashboard/src/helpers"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"

	"github.com/robfig/cron/v3"
)

type submitter interface {
	Submit() (uint64, error)
	Selection() models.MSelection
}

type tradingDays interface {
	IsTradingDay(ticker string, now time.Time) bool
}

// RefreshScheduler re-submits the current selection on a cron schedule so the
// charts pick up new backend data without user action.
type RefreshScheduler struct {
	Cron    *cron.Cron
	Target  submitter
	Markets tradingDays // optional; skips refreshes while the asset's market is closed
	Logger  *logger.Logger
	Now     func() time.Time
}

// -----------------------------------------------------------------------------

func NewRefreshScheduler(target submitter, markets tradingDays, log *logger.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		Cron:    cron.New(),
		Target:  target,
		Markets: markets,
		Logger:  log,
		Now:     time.Now,
	}
}

// Register adds the refresh job under a standard five-field spec.
func (s *RefreshScheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.Refresh() }); err != nil {
		return fmt.Errorf("register refresh task %q: %w", spec, err)
	}
	s.Logger.Info("Refresh scheduled with %q", spec)
	return nil
}

func (s *RefreshScheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("Refresh scheduler started")
}

// Stop waits for a running refresh to finish.
func (s *RefreshScheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("Refresh scheduler stopped")
}

// -----------------------------------------------------------------------------

// Refresh submits once. It returns the new generation, or 0 when the refresh
// was skipped.
func (s *RefreshScheduler) Refresh() uint64 {
	sel := s.Target.Selection()
	if sel.Asset == nil || sel.Range == nil {
		s.Logger.Info("Refresh skipped: %s", helpers.IncompleteSelectionMessage)
		return 0
	}

	if s.Markets != nil && !s.Markets.IsTradingDay(sel.Asset.Ticker, s.Now()) {
		s.Logger.Debug("Refresh skipped: %s market closed today", sel.Asset.Ticker)
		return 0
	}

	gen, err := s.Target.Submit()
	if err != nil {
		if helpers.IsValidationError(err) {
			s.Logger.Info("Refresh skipped: %v", err)
		} else {
			s.Logger.Error("Refresh failed: %v", err)
		}
		return 0
	}

	s.Logger.Info("Refresh started generation %d for %s", gen, sel.Asset.Ticker)
	return gen
}
