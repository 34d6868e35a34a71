// Package domain defines the core types and interfaces for the diffs service
package domain

import "time"

// RunInput controls one diff run. Zero Workers and FuzzyThreshold fall
// back to the module configuration
type RunInput struct {
	OldBookID string
	NewBookID string

	Workers        int
	FuzzyThreshold int
	DisableFuzzy   bool

	// DryRun computes the full result without persisting anything
	DryRun bool
}

// Run statuses
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Run is the persisted record of one diff run
type Run struct {
	ID        string
	OldBookID string
	NewBookID string
	Status    string
	DryRun    bool

	Matches     int
	Changes     int
	ReviewItems int
	Unprocessed int

	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}
