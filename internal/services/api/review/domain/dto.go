// Package domain defines DTOs for the review API
package domain

// QueueInput lists queue items for a run
type QueueInput struct {
	RunID  string `json:"run_id" validate:"required,uuid"`
	Status string `json:"status" validate:"omitempty,oneof=open accepted rejected"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=500"`
}

// DecideInput records a verdict on an open item
type DecideInput struct {
	ItemID    string `json:"item_id" validate:"required,uuid"`
	Verdict   string `json:"verdict" validate:"required,oneof=accepted rejected"`
	Note      string `json:"note" validate:"omitempty,max=2000"`
	DecidedBy string `json:"decided_by" validate:"omitempty,max=255"`
}

// QueueOut is the queue listing plus how many items remain open
type QueueOut struct {
	Open  int64     `json:"open"`
	Items []ItemOut `json:"items"`
}

// ItemOut is one review queue row
type ItemOut struct {
	ID         string   `json:"id"`
	RunID      string   `json:"run_id"`
	MatchID    *string  `json:"match_id,omitempty"`
	ChangeID   *string  `json:"change_id,omitempty"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
	Detail     string   `json:"detail,omitempty"`
	Status     string   `json:"status"`
	Note       string   `json:"note,omitempty"`
	DecidedBy  string   `json:"decided_by,omitempty"`
	DecidedAt  *string  `json:"decided_at,omitempty"`
	CreatedAt  string   `json:"created_at"`
}
