package models

// MSelection is a read-only snapshot of the user's current choices.
type MSelection struct {
	Asset      *MAsset     `json:"asset"`
	Range      *MYearRange `json:"range"`
	AssetLabel string      `json:"asset_label"`
	RangeLabel string      `json:"range_label"`
	Years      []int       `json:"years"`
	TimeRange  string      `json:"time_range"`
}

// MSubmission is what a valid submit hands to the fetch pipeline.
type MSubmission struct {
	Asset MAsset
	Range MYearRange
}
