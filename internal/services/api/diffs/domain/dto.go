// Package domain defines DTOs for the diffs API
package domain

// RunInput asks for a diff between two stored snapshots
type RunInput struct {
	OldBookID string `json:"old_book_id" validate:"required,uuid"`
	NewBookID string `json:"new_book_id" validate:"required,uuid"`

	// zero values fall back to the module configuration
	Workers        int  `json:"workers" validate:"omitempty,min=1,max=32"`
	FuzzyThreshold int  `json:"fuzzy_threshold" validate:"omitempty,min=1,max=100"`
	DisableFuzzy   bool `json:"disable_fuzzy"`

	// DryRun computes the result without persisting anything
	DryRun bool `json:"dry_run"`
}

// RunOut is one diff run record
type RunOut struct {
	ID        string `json:"id"`
	OldBookID string `json:"old_book_id"`
	NewBookID string `json:"new_book_id"`
	Status    string `json:"status"`
	DryRun    bool   `json:"dry_run"`

	Matches     int `json:"matches"`
	Changes     int `json:"changes"`
	ReviewItems int `json:"review_items"`
	Unprocessed int `json:"unprocessed"`

	Error      string  `json:"error,omitempty"`
	StartedAt  string  `json:"started_at"`
	FinishedAt *string `json:"finished_at,omitempty"`
}

// RunResultOut is the response to a run request
type RunResultOut struct {
	Run          RunOut         `json:"run"`
	CountsByKind map[string]int `json:"counts_by_kind"`

	// Changes carries the full change list for dry runs, which persist
	// nothing the caller could fetch afterwards
	Changes []ChangeOut `json:"changes,omitempty"`
}

// ChangeOut is one flattened change-log row
type ChangeOut struct {
	ID         string  `json:"id"`
	RunID      string  `json:"run_id"`
	Kind       string  `json:"kind"`
	Key        string  `json:"key"`
	Confidence float64 `json:"confidence"`
	Tier       string  `json:"tier"`
	Review     bool    `json:"review"`

	Description string `json:"description"`

	OldPrice  *float64 `json:"old_price,omitempty"`
	NewPrice  *float64 `json:"new_price,omitempty"`
	ChangePct *float64 `json:"change_pct,omitempty"`

	OldModel string `json:"old_model,omitempty"`
	NewModel string `json:"new_model,omitempty"`

	OptionCode string   `json:"option_code,omitempty"`
	OldAdder   *float64 `json:"old_adder,omitempty"`
	NewAdder   *float64 `json:"new_adder,omitempty"`
}

// GetInput fetches one run by id
type GetInput struct {
	RunID string `json:"run_id" validate:"required,uuid"`
}

// ListInput pages recent runs, newest first
type ListInput struct {
	Limit int `json:"limit" validate:"omitempty,min=1,max=200"`
}

// ChangesInput lists persisted changes for a run
type ChangesInput struct {
	RunID string `json:"run_id" validate:"required,uuid"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=1000"`
}

// SummaryInput asks for per-kind counts for a run
type SummaryInput struct {
	RunID string `json:"run_id" validate:"required,uuid"`
}

// KindCountOut is one per-kind count
type KindCountOut struct {
	Kind  string `json:"kind"`
	Count int64  `json:"count"`
}
