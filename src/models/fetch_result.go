package models

// FetchStatus tags the variant held by MFetchResult.
type FetchStatus string

const (
	FetchIdle    FetchStatus = "idle" // nothing requested yet
	FetchPending FetchStatus = "pending"
	FetchSuccess FetchStatus = "success"
	FetchFailure FetchStatus = "failure"
)

// MFetchResult is the outcome of one series request. It is replaced
// wholesale on every new fetch, never mutated in place.
type MFetchResult struct {
	Status    FetchStatus        `json:"status"`
	Data      []MTimeSeriesPoint `json:"data,omitempty"`
	Reason    string             `json:"reason,omitempty"`
	ErrorKind string             `json:"error_kind,omitempty"` // network, parse, validation
}

// -----------------------------------------------------------------------------

func NewIdleResult() MFetchResult {
	return MFetchResult{Status: FetchIdle}
}

func NewPendingResult() MFetchResult {
	return MFetchResult{Status: FetchPending}
}

func NewSuccessResult(data []MTimeSeriesPoint) MFetchResult {
	if data == nil {
		data = []MTimeSeriesPoint{}
	}
	return MFetchResult{Status: FetchSuccess, Data: data}
}

func NewFailureResult(kind, reason string) MFetchResult {
	return MFetchResult{Status: FetchFailure, ErrorKind: kind, Reason: reason}
}

// -----------------------------------------------------------------------------

func (r MFetchResult) IsSuccess() bool { return r.Status == FetchSuccess }
func (r MFetchResult) IsPending() bool { return r.Status == FetchPending }
func (r MFetchResult) IsFailure() bool { return r.Status == FetchFailure }
