// Package classify turns resolved matches and unmatched remainders into
// typed change records. A single pair may yield several independent
// changes; a rename and a price change on the same pair are never merged
package classify

import (
	"fmt"
	"sort"

	"pricebook/internal/core/catalog"
	"pricebook/internal/core/match"
)

// Kind enumerates the change variants. The numeric order is the
// canonical report ordering
type Kind uint8

const (
	// KindAdded is a record present only in the new book
	KindAdded Kind = iota
	// KindRemoved is a record present only in the old book
	KindRemoved
	// KindPriceChanged is a base price delta beyond the epsilon
	KindPriceChanged
	// KindRenamed is an identifier drift on a matched pair
	KindRenamed
	// KindOptionAdded is an option code present only on the new side
	KindOptionAdded
	// KindOptionRemoved is an option code present only on the old side
	KindOptionRemoved
	// KindRuleChanged is a pricing rule content delta
	KindRuleChanged

	kindCount
)

var kindNames = [kindCount]string{
	"ADDED", "REMOVED", "PRICE_CHANGED", "RENAMED",
	"OPTION_ADDED", "OPTION_REMOVED", "RULE_CHANGED",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Kinds returns all change kinds in canonical order
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// PriceDelta is the payload of a PRICE_CHANGED change
type PriceDelta struct {
	OldPrice  float64
	NewPrice  float64
	ChangePct float64
}

// RenameDelta is the payload of a RENAMED change, raw identifiers
type RenameDelta struct {
	OldModel string
	NewModel string
}

// OptionDelta is the payload of an option change. A nil adder marks the
// absent side; both set with different values is an adder drift folded
// into the same record
type OptionDelta struct {
	Code     string
	OldAdder *float64
	NewAdder *float64
}

// RuleDelta is the payload of a RULE_CHANGED change
type RuleDelta struct {
	OldRule string
	NewRule string
}

// Change is one classified delta. Kind selects which payload is set;
// Old/New reference the involved records (nil on the absent side)
type Change struct {
	Kind        Kind
	Key         string // match key of the product involved
	Confidence  float64
	Description string
	Reasons     []string // validation notes carried over from the resolving match

	Old *catalog.ProductRecord
	New *catalog.ProductRecord

	Price  *PriceDelta
	Rename *RenameDelta
	Option *OptionDelta
	Rule   *RuleDelta
}

// ruleHaircut is the confidence reduction for rule diffs; the rule
// representation is text only, so the diff needed extra inference
const ruleHaircut = 0.05

// Classify walks a match result and emits changes for every pair and
// every unmatched record. Output order follows pair order then
// unmatched index order; the report builder owns the final sort
func Classify(a *match.Arena, res match.Result) []Change {
	var out []Change

	for _, p := range res.Pairs {
		out = append(out, classifyPair(a, p)...)
	}
	for _, i := range res.UnmatchedOld {
		r := a.Old[i]
		out = append(out, Change{
			Kind:        KindRemoved,
			Key:         a.OldKey[i],
			Confidence:  1,
			Description: fmt.Sprintf("%s removed from book", r.Model),
			Old:         &r,
		})
	}
	for _, j := range res.UnmatchedNew {
		r := a.New[j]
		out = append(out, Change{
			Kind:        KindAdded,
			Key:         a.NewKey[j],
			Confidence:  1,
			Description: fmt.Sprintf("%s added to book", r.Model),
			New:         &r,
		})
	}
	return out
}

func classifyPair(a *match.Arena, p match.Pair) []Change {
	o := a.Old[p.Old]
	n := a.New[p.New]
	key := a.NewKey[p.New]
	var out []Change

	emit := func(c Change) {
		c.Key = key
		c.Old = &o
		c.New = &n
		c.Reasons = p.Reasons
		out = append(out, c)
	}

	if !catalog.PriceEq(o.BasePrice, n.BasePrice) {
		pct := 0.0
		if o.BasePrice != 0 {
			pct = (n.BasePrice - o.BasePrice) / o.BasePrice * 100
		}
		emit(Change{
			Kind:       KindPriceChanged,
			Confidence: p.Confidence,
			Price:      &PriceDelta{OldPrice: o.BasePrice, NewPrice: n.BasePrice, ChangePct: pct},
			Description: fmt.Sprintf("%s base price %.2f -> %.2f (%+.1f%%)",
				n.Model, o.BasePrice, n.BasePrice, pct),
		})
	}

	// Renames show up as fuzzy resolutions or as raw identifier drift
	// hiding under an exact match key. A fuzzy pair with identical
	// models still renamed on another identifier field, so every fuzzy
	// pair gets the record
	if p.Method == match.MethodFuzzy || o.Model != n.Model {
		desc := fmt.Sprintf("%s renamed to %s", o.Model, n.Model)
		if o.Model == n.Model {
			desc = fmt.Sprintf("%s identifier drift (%s -> %s)", n.Model, a.OldKey[p.Old], key)
		}
		emit(Change{
			Kind:        KindRenamed,
			Confidence:  p.Confidence,
			Rename:      &RenameDelta{OldModel: o.Model, NewModel: n.Model},
			Description: desc,
		})
	}

	for _, oc := range optionDiff(o.Options, n.Options) {
		oc := oc
		switch {
		case oc.OldAdder == nil:
			emit(Change{
				Kind:        KindOptionAdded,
				Confidence:  p.Confidence,
				Option:      &oc,
				Description: fmt.Sprintf("%s option %s added (%.2f)", n.Model, oc.Code, *oc.NewAdder),
			})
		case oc.NewAdder == nil:
			emit(Change{
				Kind:        KindOptionRemoved,
				Confidence:  p.Confidence,
				Option:      &oc,
				Description: fmt.Sprintf("%s option %s removed", n.Model, oc.Code),
			})
		default:
			// adder drift folds into an option-added record carrying both values
			emit(Change{
				Kind:       KindOptionAdded,
				Confidence: p.Confidence,
				Option:     &oc,
				Description: fmt.Sprintf("%s option %s adder %.2f -> %.2f",
					n.Model, oc.Code, *oc.OldAdder, *oc.NewAdder),
			})
		}
	}

	if o.RuleText != n.RuleText {
		conf := p.Confidence - ruleHaircut
		if conf < 0 {
			conf = 0
		}
		emit(Change{
			Kind:        KindRuleChanged,
			Confidence:  conf,
			Rule:        &RuleDelta{OldRule: o.RuleText, NewRule: n.RuleText},
			Description: fmt.Sprintf("%s pricing rule changed", n.Model),
		})
	}

	return out
}

// optionDiff compares option sets by code, sorted for determinism
func optionDiff(old, new map[string]float64) []OptionDelta {
	codes := make(map[string]struct{}, len(old)+len(new))
	for c := range old {
		codes[c] = struct{}{}
	}
	for c := range new {
		codes[c] = struct{}{}
	}
	sorted := make([]string, 0, len(codes))
	for c := range codes {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)

	var out []OptionDelta
	for _, c := range sorted {
		ov, inOld := old[c]
		nv, inNew := new[c]
		switch {
		case inOld && !inNew:
			ov := ov
			out = append(out, OptionDelta{Code: c, OldAdder: &ov})
		case !inOld && inNew:
			nv := nv
			out = append(out, OptionDelta{Code: c, NewAdder: &nv})
		case !catalog.PriceEq(ov, nv):
			ov, nv := ov, nv
			out = append(out, OptionDelta{Code: c, OldAdder: &ov, NewAdder: &nv})
		}
	}
	return out
}
