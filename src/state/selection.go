package state

import (
	"seasonality-dashboard/src/config"
	"seasonality-dashboard/src/helpers"
	"seasonality-dashboard/src/models"
)

const (
	AssetPlaceholder = "Select asset..."
	RangePlaceholder = "Pick a year range"
)

// SelectionState holds the asset and year range the user is building up.
// It is not safe for concurrent use; the controller owns it from its loop.
type SelectionState struct {
	catalog     []models.MAsset
	byTicker    map[string]models.MAsset
	asset       *models.MAsset
	yearRange   *models.MYearRange
	timeRange   string
	currentYear int
	pickerYears int
}

// -----------------------------------------------------------------------------

// NewSelectionState seeds the selection from the configured defaults. Zero
// default years resolve to the previous and current year of currentYear.
func NewSelectionState(cfg models.MSelectionConfig, catalog []models.MAsset, defaultTimeRange string, currentYear int) *SelectionState {
	s := &SelectionState{
		catalog:     append([]models.MAsset(nil), catalog...),
		byTicker:    make(map[string]models.MAsset, len(catalog)),
		timeRange:   config.DefaultTimeRange,
		currentYear: currentYear,
		pickerYears: cfg.PickerYears,
	}
	if s.pickerYears <= 0 {
		s.pickerYears = config.DefaultPickerYears
	}
	for _, a := range catalog {
		s.byTicker[a.Ticker] = a
	}

	if a, ok := s.byTicker[cfg.DefaultTicker]; ok {
		s.asset = &a
	}

	from, to := cfg.DefaultFrom, cfg.DefaultTo
	if from == 0 {
		from = currentYear - 1
	}
	if to == 0 {
		to = currentYear
	}
	if from <= to {
		r := models.ClosedRange(from, to)
		s.yearRange = &r
	}

	if config.IsTimeRange(defaultTimeRange) {
		s.timeRange = defaultTimeRange
	}
	return s
}

// -----------------------------------------------------------------------------

// ChooseAsset toggles the asset: choosing the current ticker clears it.
func (s *SelectionState) ChooseAsset(ticker string) error {
	a, ok := s.byTicker[ticker]
	if !ok {
		return helpers.NewValidationError("unknown ticker %q", ticker)
	}
	if s.asset != nil && s.asset.Ticker == ticker {
		s.asset = nil
		return nil
	}
	s.asset = &a
	return nil
}

// SelectAsset sets the asset without toggling.
func (s *SelectionState) SelectAsset(ticker string) error {
	a, ok := s.byTicker[ticker]
	if !ok {
		return helpers.NewValidationError("unknown ticker %q", ticker)
	}
	s.asset = &a
	return nil
}

// -----------------------------------------------------------------------------

// ClickYear applies the two-click rule. A closed or absent range restarts at
// {from: year}; an open range closes when year >= from and otherwise stays
// as it is.
func (s *SelectionState) ClickYear(year int) error {
	if year <= 0 {
		return helpers.NewValidationError("invalid year %d", year)
	}

	if s.yearRange == nil || s.yearRange.IsClosed() {
		s.yearRange = &models.MYearRange{From: year}
		return nil
	}
	if year >= s.yearRange.From {
		r := models.ClosedRange(s.yearRange.From, year)
		s.yearRange = &r
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *SelectionState) SetTimeRange(preset string) error {
	if !config.IsTimeRange(preset) {
		return helpers.NewValidationError("unknown time range %q", preset)
	}
	s.timeRange = preset
	return nil
}

// -----------------------------------------------------------------------------

// Submit returns what to fetch, or a ValidationError when the asset or the
// range is missing.
func (s *SelectionState) Submit() (models.MSubmission, error) {
	if s.asset == nil || s.yearRange == nil {
		return models.MSubmission{}, helpers.ErrIncompleteSelection()
	}
	return models.MSubmission{Asset: *s.asset, Range: s.yearRange.Clone()}, nil
}

// -----------------------------------------------------------------------------

func (s *SelectionState) Asset() *models.MAsset {
	if s.asset == nil {
		return nil
	}
	a := *s.asset
	return &a
}

func (s *SelectionState) Range() *models.MYearRange {
	if s.yearRange == nil {
		return nil
	}
	r := s.yearRange.Clone()
	return &r
}

func (s *SelectionState) TimeRange() string {
	return s.timeRange
}

// Years lists the picker grid, oldest first, ending at the current year.
func (s *SelectionState) Years() []int {
	years := make([]int, s.pickerYears)
	first := s.currentYear - s.pickerYears + 1
	for i := range years {
		years[i] = first + i
	}
	return years
}

func (s *SelectionState) AssetLabel() string {
	if s.asset == nil {
		return AssetPlaceholder
	}
	return s.asset.Label
}

func (s *SelectionState) RangeLabel() string {
	if s.yearRange == nil {
		return RangePlaceholder
	}
	return s.yearRange.Label()
}

func (s *SelectionState) Catalog() []models.MAsset {
	return append([]models.MAsset(nil), s.catalog...)
}

// -----------------------------------------------------------------------------

// Snapshot returns a copy safe to hand to other goroutines.
func (s *SelectionState) Snapshot() models.MSelection {
	return models.MSelection{
		Asset:      s.Asset(),
		Range:      s.Range(),
		AssetLabel: s.AssetLabel(),
		RangeLabel: s.RangeLabel(),
		Years:      s.Years(),
		TimeRange:  s.timeRange,
	}
}
