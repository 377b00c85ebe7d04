package models

import "fmt"

// MYearRange is an inclusive pair of calendar years. To is nil while the
// range is still open (only the first year has been picked).
type MYearRange struct {
	From int  `json:"from"`
	To   *int `json:"to"`
}

// -----------------------------------------------------------------------------

// IsClosed reports whether both ends of the range are set.
func (r MYearRange) IsClosed() bool {
	return r.To != nil
}

// -----------------------------------------------------------------------------

// Label renders the range the way the year picker button shows it.
func (r MYearRange) Label() string {
	if r.To == nil {
		return fmt.Sprintf("%d", r.From)
	}
	return fmt.Sprintf("%d - %d", r.From, *r.To)
}

// -----------------------------------------------------------------------------

// Clone returns a deep copy so callers never share the To pointer.
func (r MYearRange) Clone() MYearRange {
	if r.To == nil {
		return MYearRange{From: r.From}
	}
	to := *r.To
	return MYearRange{From: r.From, To: &to}
}

// -----------------------------------------------------------------------------

// ClosedRange builds a closed range.
func ClosedRange(from, to int) MYearRange {
	return MYearRange{From: from, To: &to}
}
