// Package domain defines DTOs for the stats API
package domain

// KindsInput asks for per-day per-kind rollups over an inclusive window
type KindsInput struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

// DayKindOut is one rollup bucket
type DayKindOut struct {
	Day   string `json:"day"`
	Kind  string `json:"kind"`
	Count int64  `json:"count"`
}
