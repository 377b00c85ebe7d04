package models

// MControllerStats counts how the generation guard treated completions.
type MControllerStats struct {
	Generation uint64 `json:"generation"`
	Applied    uint64 `json:"applied"`
	Dropped    uint64 `json:"dropped"`
}
