// Package match resolves record identity across two price book snapshots
// in two phases: an exact hash join over match keys, then blocked fuzzy
// matching over the remainder
package match

import (
	"pricebook/internal/core/catalog"
	"pricebook/internal/core/normalize"
)

// Arena snapshots both catalogs with keys precomputed once per run.
// Records are addressed by index; indexes are stable for the run and
// the arena is read-only after construction
type Arena struct {
	Old []catalog.ProductRecord
	New []catalog.ProductRecord

	OldKey []string
	NewKey []string

	OldBlock []string
	NewBlock []string

	OldClean []string
	NewClean []string
}

// NewArena validates and indexes both sides. Records failing validation
// are excluded from matching and returned as unprocessed diagnostics
func NewArena(n *normalize.Normalizer, oldRecs, newRecs []catalog.ProductRecord) (*Arena, []catalog.Unprocessed) {
	a := &Arena{}
	var bad []catalog.Unprocessed

	for _, r := range oldRecs {
		if reason := catalog.Validate(r); reason != "" {
			bad = append(bad, catalog.Unprocessed{Side: catalog.SideOld, Record: r, Reason: reason})
			continue
		}
		a.Old = append(a.Old, r)
		a.OldKey = append(a.OldKey, n.Key(r))
		a.OldBlock = append(a.OldBlock, n.BlockKey(r))
		a.OldClean = append(a.OldClean, n.CleanIdentifier(r.Model))
	}
	for _, r := range newRecs {
		if reason := catalog.Validate(r); reason != "" {
			bad = append(bad, catalog.Unprocessed{Side: catalog.SideNew, Record: r, Reason: reason})
			continue
		}
		a.New = append(a.New, r)
		a.NewKey = append(a.NewKey, n.Key(r))
		a.NewBlock = append(a.NewBlock, n.BlockKey(r))
		a.NewClean = append(a.NewClean, n.CleanIdentifier(r.Model))
	}

	return a, bad
}
