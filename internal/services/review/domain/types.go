// Package domain defines the types and interfaces for the review service
package domain

import (
	"time"

	"github.com/google/uuid"

	"pricebook/internal/core/diff"
)

// Statuses a queue item moves through. Decisions record judgement only;
// matching is never re-run
const (
	StatusOpen     = "open"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Item is one review queue row
type Item struct {
	ID         string
	RunID      string
	MatchID    *string
	ChangeID   *string
	Confidence float64
	Reasons    []string
	Detail     string
	Status     string
	Note       string
	DecidedBy  string
	DecidedAt  *time.Time
	CreatedAt  time.Time
}

// DecisionInput records an accept or reject verdict on an open item
type DecisionInput struct {
	ItemID    string
	Verdict   string // accepted | rejected
	Note      string
	DecidedBy string
}

// idSpace namespaces queue item ids so re-enqueueing the same run's
// flags is idempotent
var idSpace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("pricebook/review"))

// FromDiff converts a diff result's review queue into storable items
func FromDiff(runID string, res *diff.Result) []Item {
	out := make([]Item, 0, len(res.ReviewQueue))
	for _, q := range res.ReviewQueue {
		it := Item{
			RunID:      runID,
			Confidence: q.Confidence,
			Reasons:    q.Reasons,
			Detail:     q.Detail,
			Status:     StatusOpen,
			CreatedAt:  res.GeneratedAt,
		}
		ref := ""
		if q.MatchID != nil {
			s := q.MatchID.String()
			it.MatchID = &s
			ref = "m:" + s
		}
		if q.ChangeID != nil {
			s := q.ChangeID.String()
			it.ChangeID = &s
			ref = "c:" + s
		}
		it.ID = uuid.NewSHA1(idSpace, []byte(runID+"\x00"+ref)).String()
		out = append(out, it)
	}
	return out
}
