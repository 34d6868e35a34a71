// Package diff is the catalog diff engine: given two in-memory price
// book snapshots it returns a classified, confidence-scored DiffResult.
// The engine performs no I/O; persistence, reporting, and review
// workflows consume the result
package diff

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"pricebook/internal/core/catalog"
	"pricebook/internal/core/classify"
	"pricebook/internal/core/confidence"
	"pricebook/internal/core/match"
	"pricebook/internal/core/normalize"
	perr "pricebook/internal/platform/errors"
)

// Config is the run configuration. Thresholds are validated once at
// engine construction, never per record
type Config struct {
	Thresholds confidence.Thresholds

	// FuzzyThreshold is the minimum similarity percentage (default 70)
	FuzzyThreshold int

	// EnableFuzzy toggles the fuzzy phase (default on)
	EnableFuzzy bool

	// Workers bounds per-block fuzzy concurrency (default 1)
	Workers int
}

// DefaultConfig returns the standard engine configuration
func DefaultConfig() Config {
	return Config{
		Thresholds:     confidence.Default(),
		FuzzyThreshold: 70,
		EnableFuzzy:    true,
		Workers:        1,
	}
}

// Validate fails fast on a bad configuration
func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.FuzzyThreshold < 1 || c.FuzzyThreshold > 100 {
		return perr.Newf(perr.ErrorCodeConfig, "fuzzy threshold %d outside 1..100", c.FuzzyThreshold)
	}
	return nil
}

// Match is a finalized pairing with its stable identifier and the keys
// downstream consumers address products by
type Match struct {
	ID         uuid.UUID
	OldKey     string
	NewKey     string
	OldModel   string
	NewModel   string
	Method     match.Method
	Similarity int
	Confidence float64
	Tier       confidence.Tier
	Reasons    []string
	Review     bool
}

// Change is a classified delta with its stable identifier. The ID is
// derived from book IDs and change content, so re-applying the same
// DiffResult is idempotent for any consumer keyed on it
type Change struct {
	classify.Change

	ID     uuid.UUID
	Tier   confidence.Tier
	Review bool
}

// ReviewItem flags a match or change under the review threshold.
// Flagged, not excluded: the item stays in the main lists
type ReviewItem struct {
	MatchID    *uuid.UUID
	ChangeID   *uuid.UUID
	Confidence float64
	Reasons    []string
	Detail     string
}

// Summary is the single-pass count rollup
type Summary struct {
	ExactMatches  int
	FuzzyMatches  int
	Additions     int
	Removals      int
	PriceChanges  int
	Renames       int
	OptionChanges int
	RuleChanges   int
}

// Result is the immutable output of one diff run. Ordering is
// deterministic; only GeneratedAt is wall clock and it never affects
// ordering or content
type Result struct {
	OldBookID   string
	NewBookID   string
	GeneratedAt time.Time

	Matches     []Match
	Changes     []Change
	ReviewQueue []ReviewItem
	Summary     Summary

	// CountsByKind has an entry for every change kind, including zeros
	CountsByKind map[string]int

	// Unprocessed lists records excluded from matching with reasons
	Unprocessed []catalog.Unprocessed
}

// Engine runs diffs. Safe for concurrent use; all run state lives on
// the stack of Diff
type Engine struct {
	cfg  Config
	norm *normalize.Normalizer
}

// New constructs an Engine, failing fast on configuration errors
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, norm: normalize.New()}, nil
}

// idSpace namespaces the stable SHA1 identifiers this engine emits
var idSpace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("pricebook/diff"))

// Diff compares two snapshots and builds the report. Empty catalogs are
// valid inputs and yield all-added or all-removed results
func (e *Engine) Diff(oldBook, newBook catalog.Catalog) *Result {
	arena, unprocessed := match.NewArena(e.norm, oldBook.Records, newBook.Records)

	res := match.New(match.Options{
		FuzzyThreshold: e.cfg.FuzzyThreshold,
		EnableFuzzy:    e.cfg.EnableFuzzy,
		Workers:        e.cfg.Workers,
	}).Run(arena)

	changes := classify.Classify(arena, res)

	out := &Result{
		OldBookID:   oldBook.BookID,
		NewBookID:   newBook.BookID,
		GeneratedAt: time.Now().UTC(),
		Unprocessed: unprocessed,
	}

	out.Matches = e.buildMatches(oldBook.BookID, newBook.BookID, arena, res)
	out.Changes = e.buildChanges(oldBook.BookID, newBook.BookID, changes)
	e.routeReview(out)
	e.summarize(out)
	return out
}

func (e *Engine) buildMatches(oldID, newID string, a *match.Arena, res match.Result) []Match {
	ms := make([]Match, 0, len(res.Pairs))
	for _, p := range res.Pairs {
		ms = append(ms, Match{
			OldKey:     a.OldKey[p.Old],
			NewKey:     a.NewKey[p.New],
			OldModel:   a.Old[p.Old].Model,
			NewModel:   a.New[p.New].Model,
			Method:     p.Method,
			Similarity: p.Similarity,
			Confidence: p.Confidence,
			Tier:       e.cfg.Thresholds.Tier(p.Confidence),
			Reasons:    p.Reasons,
		})
	}
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].OldKey != ms[j].OldKey {
			return ms[i].OldKey < ms[j].OldKey
		}
		return ms[i].NewKey < ms[j].NewKey
	})
	for i := range ms {
		ms[i].ID = stableID(oldID, newID, "match", ms[i].OldKey, ms[i].NewKey, fmt.Sprint(i))
	}
	return ms
}

func (e *Engine) buildChanges(oldID, newID string, changes []classify.Change) []Change {
	cs := make([]Change, 0, len(changes))
	for _, c := range changes {
		cs = append(cs, Change{
			Change: c,
			Tier:   e.cfg.Thresholds.Tier(c.Confidence),
		})
	}
	// canonical report order: kind enum order, then product key, then
	// option code / description to pin multi-change pairs
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Kind != cs[j].Kind {
			return cs[i].Kind < cs[j].Kind
		}
		if cs[i].Key != cs[j].Key {
			return cs[i].Key < cs[j].Key
		}
		ci, cj := optionCode(cs[i]), optionCode(cs[j])
		if ci != cj {
			return ci < cj
		}
		return cs[i].Description < cs[j].Description
	})
	for i := range cs {
		cs[i].ID = stableID(oldID, newID, "change",
			cs[i].Kind.String(), cs[i].Key, optionCode(cs[i]), cs[i].Description, fmt.Sprint(i))
	}
	return cs
}

// routeReview flags every match and change under the review gate and
// copies it into the review queue; nothing is removed from the main lists
func (e *Engine) routeReview(out *Result) {
	for i := range out.Matches {
		m := &out.Matches[i]
		if !e.cfg.Thresholds.NeedsReview(m.Confidence) {
			continue
		}
		m.Review = true
		id := m.ID
		out.ReviewQueue = append(out.ReviewQueue, ReviewItem{
			MatchID:    &id,
			Confidence: m.Confidence,
			Reasons:    m.Reasons,
			Detail:     fmt.Sprintf("match %s -> %s (%s)", m.OldModel, m.NewModel, m.Method),
		})
	}
	for i := range out.Changes {
		c := &out.Changes[i]
		if !e.cfg.Thresholds.NeedsReview(c.Confidence) {
			continue
		}
		c.Review = true
		id := c.ID
		out.ReviewQueue = append(out.ReviewQueue, ReviewItem{
			ChangeID:   &id,
			Confidence: c.Confidence,
			Reasons:    c.Reasons,
			Detail:     c.Description,
		})
	}
}

// summarize derives counts in a single pass over matches and changes
func (e *Engine) summarize(out *Result) {
	for _, m := range out.Matches {
		if m.Method == match.MethodExact {
			out.Summary.ExactMatches++
		} else {
			out.Summary.FuzzyMatches++
		}
	}

	counts := make(map[string]int, 7)
	for _, k := range classify.Kinds() {
		counts[k.String()] = 0
	}
	for _, c := range out.Changes {
		counts[c.Kind.String()]++
		switch c.Kind {
		case classify.KindAdded:
			out.Summary.Additions++
		case classify.KindRemoved:
			out.Summary.Removals++
		case classify.KindPriceChanged:
			out.Summary.PriceChanges++
		case classify.KindRenamed:
			out.Summary.Renames++
		case classify.KindOptionAdded, classify.KindOptionRemoved:
			out.Summary.OptionChanges++
		case classify.KindRuleChanged:
			out.Summary.RuleChanges++
		}
	}
	out.CountsByKind = counts
}

func optionCode(c Change) string {
	if c.Option != nil {
		return c.Option.Code
	}
	return ""
}

// stableID derives a deterministic UUID from run-stable parts
func stableID(parts ...string) uuid.UUID {
	buf := make([]byte, 0, 64)
	for i, p := range parts {
		if i > 0 {
			buf = append(buf, 0)
		}
		buf = append(buf, p...)
	}
	return uuid.NewSHA1(idSpace, buf)
}
