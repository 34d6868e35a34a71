// Package catalog defines the price book snapshot types the diff engine reads
package catalog

// ProductRecord is one immutable row of a price book snapshot.
// The engine only reads it; the caller owns the backing data
type ProductRecord struct {
	Manufacturer string
	Family       string
	Model        string
	SKU          string
	Finish       string
	Size         string
	BasePrice    float64

	// Options maps option code to its price adder
	Options map[string]float64

	// RuleText is the pricing rule content as extracted, possibly unstructured
	RuleText string

	// Meta carries arbitrary provenance (page, table, extractor tag)
	// the engine never inspects it
	Meta map[string]string
}

// Catalog is one versioned price book snapshot
type Catalog struct {
	BookID  string
	Records []ProductRecord
}

// Side tags which snapshot a record came from
type Side string

const (
	// SideOld is the older snapshot of a diff run
	SideOld Side = "old"
	// SideNew is the newer snapshot of a diff run
	SideNew Side = "new"
)

// Unprocessed records a row that failed validation and was excluded from
// matching, with the reason; the diff still completes for all valid rows
type Unprocessed struct {
	Side   Side
	Record ProductRecord
	Reason string
}

// PriceEpsilon is the negligible price delta ignored by comparisons,
// half a cent, below any real price book increment
const PriceEpsilon = 0.005

// PriceEq reports whether two prices agree within PriceEpsilon
func PriceEq(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < PriceEpsilon
}

// Validate reports why r cannot participate in matching, or "" when it can.
// Manufacturer, family, and model are the natural key and are required
func Validate(r ProductRecord) string {
	switch {
	case r.Manufacturer == "":
		return "missing manufacturer"
	case r.Family == "":
		return "missing family"
	case r.Model == "":
		return "missing model"
	}
	return ""
}
