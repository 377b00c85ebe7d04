package models

// MAsset is one entry of the static asset catalog.
type MAsset struct {
	Ticker string `json:"value" yaml:"value"`
	Label  string `json:"label" yaml:"label"`
	MIC    string `json:"mic,omitempty" yaml:"mic"` // Optional exchange code for the trading calendar
}
