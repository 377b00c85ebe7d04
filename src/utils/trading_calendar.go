package utils

import (
	"strings"
	"time"

	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"

	"github.com/scmhub/calendar"
)

// TradingCalendar calculates trading days using scmhub/calendar.
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool // Mon-Fri without holidays
	AllDays  bool // crypto and other 24/7 markets
	Timezone *time.Location
}

var suffixMICs = map[string]string{
	".L": "xlon", ".PA": "xpar", ".DE": "xfra", ".AS": "xams", ".BR": "xbru",
	".MI": "xmil", ".MC": "xmad", ".ST": "xsto", ".CO": "xcse", ".HE": "xhel",
	".VI": "xwbo", ".SW": "xswx", ".TO": "xtse", ".V": "xtsx", ".T": "xtks",
	".HK": "xhkg", ".AX": "xasx", ".KS": "xkrx", ".TW": "xtai", ".SS": "xshg",
	".SZ": "xshe",
}

// -----------------------------------------------------------------------------

// GetCalendar guesses the exchange from the ticker suffix. Pairs quoted
// against a currency (BTC-USD) trade every day.
func GetCalendar(symbol string) *TradingCalendar {
	if isCurrencyPair(symbol) {
		return &TradingCalendar{AllDays: true, Timezone: time.UTC}
	}

	mic := "xnys"
	for suffix, m := range suffixMICs {
		if strings.HasSuffix(symbol, suffix) {
			mic = m
			break
		}
	}
	return CalendarForMIC(mic)
}

// -----------------------------------------------------------------------------

// CalendarForAsset prefers the MIC configured in the catalog and falls back
// to the ticker suffix.
func CalendarForAsset(asset models.MAsset) *TradingCalendar {
	if asset.MIC != "" {
		return CalendarForMIC(asset.MIC)
	}
	return GetCalendar(asset.Ticker)
}

// -----------------------------------------------------------------------------

func CalendarForMIC(mic string) *TradingCalendar {
	mic = strings.ToLower(mic)
	cal := calendar.GetCalendar(mic)
	if cal == nil {
		cal = calendar.GetCalendar("xnys")
	}

	if cal == nil {
		logger.NewLogger(nil, "TradingCalendar").Warning(
			"Failed to load calendar for MIC '%s' and fallback 'xnys'. Using Mon-Fri fallback.", mic)
		nyLoc, _ := time.LoadLocation("America/New_York")
		if nyLoc == nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{Calendar: cal, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

// IsTradingDay reports whether the calendar day of date (as written, not
// converted) is a session day.
func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.AllDays {
		return true
	}

	loc := tc.Timezone
	if loc == nil {
		loc = time.UTC
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc)

	if tc.Fallback || tc.Calendar == nil {
		weekday := day.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(day)
}

// -----------------------------------------------------------------------------

// LastTradingDay walks back from now to the most recent session day and
// returns it as a UTC midnight date.
func (tc *TradingCalendar) LastTradingDay(now time.Time) time.Time {
	if tc.Timezone != nil {
		now = now.In(tc.Timezone)
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// Longest exchange closures are well under two weeks
	for i := 0; i < 14; i++ {
		if tc.IsTradingDay(day) {
			return day
		}
		day = day.AddDate(0, 0, -1)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// -----------------------------------------------------------------------------

func isCurrencyPair(symbol string) bool {
	for _, quote := range []string{"-USD", "-EUR", "-USDT", "-BTC"} {
		if strings.HasSuffix(strings.ToUpper(symbol), quote) {
			return true
		}
	}
	return false
}
