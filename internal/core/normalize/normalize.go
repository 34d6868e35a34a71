// Package normalize derives canonical match keys and cleaned identifiers
// from raw product fields
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKD decomposition
// 3 Case folding
// 4 Remove zero-width and combining marks
// 5 Width fold fullwidth to ASCII then NFC recompose
// 6 Punctuation folded to single spaces
// 7 Collapse whitespace and trim
//
// The pipeline is idempotent: Fold(Fold(x)) == Fold(x)
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"pricebook/internal/core/catalog"
)

// KeySep joins the natural key fields of a match key.
// '#' is punctuation and folds to a space inside fields, so the joiner
// can never collide with field content
const KeySep = "#"

// Normalizer is concurrency safe when used with the pool below
type Normalizer struct{}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline:
		// decompose before stripping marks so precomposed letters
		// (é as a single rune) lose their accents too, recompose at the end
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
			norm.NFC,
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Fold returns the normalized form of one raw field following the pipeline above
func (n *Normalizer) Fold(s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-5 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 6 punctuation to spaces
	ns = punctFold(ns)

	// 7 collapse whitespace and trim
	ns = collapseSpaces(ns)

	return ns
}

// Key derives the match key manufacturer#family#model#size#finish.
// Two records with equal keys are exact-match candidates
func (n *Normalizer) Key(r catalog.ProductRecord) string {
	parts := [5]string{
		n.Fold(r.Manufacturer),
		n.Fold(r.Family),
		n.Fold(r.Model),
		n.Fold(r.Size),
		n.Fold(r.Finish),
	}
	return strings.Join(parts[:], KeySep)
}

// BlockKey derives the coarse manufacturer#family key used to bound
// fuzzy comparisons
func (n *Normalizer) BlockKey(r catalog.ProductRecord) string {
	return n.Fold(r.Manufacturer) + KeySep + n.Fold(r.Family)
}

// CleanIdentifier uppercases an identifier and strips separators
// ('-', '_', whitespace and other punctuation), keeping it apart from
// the raw identifier for fuzzy scoring
func (n *Normalizer) CleanIdentifier(s string) string {
	folded := n.Fold(s)
	if folded == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// punctFold maps punctuation and symbol runes to spaces so that
// "CTW-4" and "CTW 4" derive the same key field
func punctFold(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
