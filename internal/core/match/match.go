package match

import (
	"fmt"
	"sort"
	"sync"

	"pricebook/internal/core/catalog"
	"pricebook/internal/core/confidence"
	"pricebook/internal/core/similarity"
)

// Method indicates how a pair was resolved
type Method string

const (
	// MethodExact is a match-key hash join
	MethodExact Method = "exact"
	// MethodFuzzy is a similarity resolution inside a block
	MethodFuzzy Method = "fuzzy"
)

// Pair is a finalized non-overlapping pairing of arena indexes.
// Each old and each new index appears in at most one Pair
type Pair struct {
	Old        int
	New        int
	Method     Method
	Similarity int // 0-100; 100 for exact joins
	Confidence float64
	Reasons    []string
}

// Result partitions the arena: every valid record lands in exactly one
// of Pairs, UnmatchedOld, or UnmatchedNew
type Result struct {
	Pairs        []Pair
	UnmatchedOld []int
	UnmatchedNew []int
}

// Options tunes the matcher
type Options struct {
	// FuzzyThreshold is the minimum similarity percentage, default 70
	FuzzyThreshold int
	// MinCommonShare is the secondary validation floor on shared
	// characters, default 0.2
	MinCommonShare float64
	// EnableFuzzy toggles the second phase
	EnableFuzzy bool
	// Workers bounds per-block fuzzy concurrency, default 1
	Workers int
}

func (o Options) withDefaults() Options {
	if o.FuzzyThreshold <= 0 {
		o.FuzzyThreshold = 70
	}
	if o.MinCommonShare <= 0 {
		o.MinCommonShare = 0.2
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	return o
}

// Matcher runs both phases over an arena
type Matcher struct {
	opts Options
}

// New constructs a Matcher
func New(opts Options) *Matcher { return &Matcher{opts: opts.withDefaults()} }

// Run resolves pairs across the arena. Deterministic for a given arena:
// candidate ordering, tie-breaks, and merge order are all fixed
func (m *Matcher) Run(a *Arena) Result {
	assignedOld := make([]bool, len(a.Old))
	assignedNew := make([]bool, len(a.New))

	pairs := m.exactPhase(a, assignedOld, assignedNew)

	if m.opts.EnableFuzzy {
		pairs = append(pairs, m.fuzzyPhase(a, assignedOld, assignedNew)...)
	}

	var res Result
	res.Pairs = pairs
	for i := range a.Old {
		if !assignedOld[i] {
			res.UnmatchedOld = append(res.UnmatchedOld, i)
		}
	}
	for j := range a.New {
		if !assignedNew[j] {
			res.UnmatchedNew = append(res.UnmatchedNew, j)
		}
	}
	return res
}

// exactPhase hash-joins match keys. When several records share a key,
// pairing follows insertion order; the remainder within that key group
// stays unmatched for the fuzzy phase or the added/removed buckets
func (m *Matcher) exactPhase(a *Arena, assignedOld, assignedNew []bool) []Pair {
	newByKey := make(map[string][]int, len(a.New))
	for j, k := range a.NewKey {
		newByKey[k] = append(newByKey[k], j)
	}

	taken := make(map[string]int, len(newByKey)) // per-key cursor into newByKey
	var pairs []Pair
	for i, k := range a.OldKey {
		js := newByKey[k]
		cur := taken[k]
		if cur >= len(js) {
			continue
		}
		j := js[cur]
		taken[k] = cur + 1

		drift := compareNonKey(a.Old[i], a.New[j])
		p := Pair{
			Old:        i,
			New:        j,
			Method:     MethodExact,
			Similarity: 100,
			Confidence: confidence.ExactScore(len(drift)),
			Reasons:    append([]string{"match key join"}, drift...),
		}
		assignedOld[i] = true
		assignedNew[j] = true
		pairs = append(pairs, p)
	}
	return pairs
}

// candidate is a scored old/new pairing inside one block
type candidate struct {
	old, new     int
	sim          int
	dist         int
	share        float64
	corroborated bool
}

// fuzzyPhase partitions the remainder into manufacturer#family blocks,
// scores candidates per block (independently, so blocks may run on
// separate workers), then assigns greedily during a sequential merge in
// block key sort order. Assignment state is only touched in the merge
func (m *Matcher) fuzzyPhase(a *Arena, assignedOld, assignedNew []bool) []Pair {
	type block struct{ old, new []int }
	blocks := make(map[string]*block)
	for i := range a.Old {
		if assignedOld[i] {
			continue
		}
		b := blocks[a.OldBlock[i]]
		if b == nil {
			b = &block{}
			blocks[a.OldBlock[i]] = b
		}
		b.old = append(b.old, i)
	}
	for j := range a.New {
		if assignedNew[j] {
			continue
		}
		b := blocks[a.NewBlock[j]]
		if b == nil {
			b = &block{}
			blocks[a.NewBlock[j]] = b
		}
		b.new = append(b.new, j)
	}

	keys := make([]string, 0, len(blocks))
	for k, b := range blocks {
		if len(b.old) > 0 && len(b.new) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	// score blocks concurrently; results land in per-block slots
	out := make([][]candidate, len(keys))
	sem := make(chan struct{}, m.opts.Workers)
	var wg sync.WaitGroup
	for bi, k := range keys {
		wg.Add(1)
		sem <- struct{}{}
		go func(bi int, b *block) {
			defer func() { <-sem; wg.Done() }()
			out[bi] = m.scoreBlock(a, b.old, b.new)
		}(bi, blocks[k])
	}
	wg.Wait()

	// deterministic merge: sorted block order, greedy within each block
	var pairs []Pair
	for _, cands := range out {
		for _, c := range cands {
			if assignedOld[c.old] || assignedNew[c.new] {
				continue
			}
			assignedOld[c.old] = true
			assignedNew[c.new] = true

			reasons := []string{
				fmt.Sprintf("similarity=%d%%", c.sim),
				fmt.Sprintf("common characters %d%%", int(c.share*100+0.5)),
			}
			if !c.corroborated {
				reasons = append(reasons, "token-set corroboration failed")
			}
			pairs = append(pairs, Pair{
				Old:        c.old,
				New:        c.new,
				Method:     MethodFuzzy,
				Similarity: c.sim,
				Confidence: confidence.FuzzyScore(c.sim, c.corroborated),
				Reasons:    reasons,
			})
		}
	}
	return pairs
}

// scoreBlock computes accepted candidates for one block, sorted by score
// descending with ties broken by smaller edit distance, then lexical new
// identifier, then arena index. Pairs whose similarity cannot be scored
// (empty cleaned identifier) are treated as similarity 0 and dropped
func (m *Matcher) scoreBlock(a *Arena, old, new []int) []candidate {
	var cands []candidate
	for _, i := range old {
		co := a.OldClean[i]
		if co == "" {
			continue
		}
		for _, j := range new {
			cn := a.NewClean[j]
			if cn == "" {
				continue
			}
			sim := similarity.Ratio(co, cn)
			if sim < m.opts.FuzzyThreshold {
				continue
			}
			share := similarity.CommonCharShare(co, cn)
			if share < m.opts.MinCommonShare {
				continue
			}
			cands = append(cands, candidate{
				old:          i,
				new:          j,
				sim:          sim,
				dist:         similarity.Distance(co, cn),
				share:        share,
				corroborated: similarity.TokenSetRatio(a.Old[i].Model, a.New[j].Model) >= m.opts.FuzzyThreshold,
			})
		}
	}
	sort.Slice(cands, func(x, y int) bool {
		cx, cy := cands[x], cands[y]
		if cx.sim != cy.sim {
			return cx.sim > cy.sim
		}
		if cx.dist != cy.dist {
			return cx.dist < cy.dist
		}
		if a.NewClean[cx.new] != a.NewClean[cy.new] {
			return a.NewClean[cx.new] < a.NewClean[cy.new]
		}
		if cx.old != cy.old {
			return cx.old < cy.old
		}
		return cx.new < cy.new
	})
	return cands
}

// compareNonKey reports which compared non-key fields drifted between an
// exact-key pair. The count drives the exact confidence haircut
func compareNonKey(o, n catalog.ProductRecord) []string {
	var drift []string
	if o.SKU != n.SKU {
		drift = append(drift, "sku drift")
	}
	if o.Model != n.Model {
		drift = append(drift, "identifier drift")
	}
	if !catalog.PriceEq(o.BasePrice, n.BasePrice) {
		drift = append(drift, "price drift")
	}
	if !optionsEqual(o.Options, n.Options) {
		drift = append(drift, "options drift")
	}
	if o.RuleText != n.RuleText {
		drift = append(drift, "rule drift")
	}
	return drift
}

func optionsEqual(a, b map[string]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for code, adder := range a {
		v, ok := b[code]
		if !ok || !catalog.PriceEq(adder, v) {
			return false
		}
	}
	return true
}
