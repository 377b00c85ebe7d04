package utils

import (
	"fmt"
	"sync"
	"time"

	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"
)

// MarketScheduler resolves per-asset trading calendars and the reference date
// relative windows are measured back from.
type MarketScheduler struct {
	Calendars map[string]*TradingCalendar
	Fixed     *time.Time // configured reference date, overrides calendars
	Logger    *logger.Logger
	mu        sync.RWMutex
}

// -----------------------------------------------------------------------------

// NewMarketScheduler maps the catalog onto calendars. referenceDate is the
// optional YYYY-MM-DD override from configuration.
func NewMarketScheduler(catalog []models.MAsset, referenceDate string, l *logger.Logger) (*MarketScheduler, error) {
	ms := &MarketScheduler{
		Calendars: make(map[string]*TradingCalendar),
		Logger:    l,
	}

	if referenceDate != "" {
		fixed, err := time.Parse("2006-01-02", referenceDate)
		if err != nil {
			return nil, fmt.Errorf("invalid reference date %q: %w", referenceDate, err)
		}
		ms.Fixed = &fixed
	}

	ms.MapAssetsToCalendars(catalog)
	return ms, nil
}

// -----------------------------------------------------------------------------

// MapAssetsToCalendars maps a list of assets to their respective calendars
func (ms *MarketScheduler) MapAssetsToCalendars(catalog []models.MAsset) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.Calendars = make(map[string]*TradingCalendar, len(catalog))
	for _, asset := range catalog {
		ms.Calendars[asset.Ticker] = CalendarForAsset(asset)
	}

	ms.Logger.Info("MarketScheduler: Mapped %d assets to calendars.", len(catalog))
}

// -----------------------------------------------------------------------------

func (ms *MarketScheduler) calendarFor(ticker string) *TradingCalendar {
	ms.mu.RLock()
	cal, ok := ms.Calendars[ticker]
	ms.mu.RUnlock()
	if ok {
		return cal
	}

	cal = GetCalendar(ticker)
	ms.mu.Lock()
	ms.Calendars[ticker] = cal
	ms.mu.Unlock()
	return cal
}

// -----------------------------------------------------------------------------

// ReferenceDate is the configured date if any, otherwise the last trading
// day of the ticker's exchange at now.
func (ms *MarketScheduler) ReferenceDate(ticker string, now time.Time) time.Time {
	if ms.Fixed != nil {
		return *ms.Fixed
	}
	return ms.calendarFor(ticker).LastTradingDay(now)
}

// -----------------------------------------------------------------------------

// IsTradingDay reports whether the ticker's market has a session on now's date.
func (ms *MarketScheduler) IsTradingDay(ticker string, now time.Time) bool {
	cal := ms.calendarFor(ticker)
	if cal.Timezone != nil {
		now = now.In(cal.Timezone)
	}
	return cal.IsTradingDay(now)
}
