package normalize

import (
	"testing"

	"pricebook/internal/core/catalog"
)

// Test table covers each stage and combined pipelines.
func TestFold_Table(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "identity ascii",
			in:   "kohler cimarron",
			out:  "kohler cimarron",
		},
		{
			name: "utf8 repair drops invalid bytes",
			in:   string([]byte{0xff, 'K', '-', '4', 0x80, '2', '9', '6'}),
			out:  "k 4296",
		},
		{
			name: "case fold",
			in:   "CiMaRRoN",
			out:  "cimarron",
		},
		{
			name: "remove zero-widths",
			in:   "BB​11‍00", // ZERO WIDTH SPACE + ZERO WIDTH JOINER
			out:  "bb1100",
		},
		{
			name: "remove combining marks",
			in:   "lavé", // combining acute accent
			out:  "lave",
		},
		{
			name: "strip accents from precomposed letters",
			in:   "lavé", // single precomposed rune
			out:  "lave",
		},
		{
			name: "width fold fullwidth",
			in:   "ＢＢ１１００ elite", // fullwidth letters/digits
			out:  "bb1100 elite",
		},
		{
			name: "punctuation to spaces",
			in:   "CTW-4 / rev_2",
			out:  "ctw 4 rev 2",
		},
		{
			name: "collapse whitespace",
			in:   "a\t\tb\nc   d",
			out:  "a b c d",
		},
		{
			name: "idempotent",
			in:   n.Fold("Ｋ-4296\t\tTall  "),
			out:  "k 4296 tall",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := n.Fold(tc.in)
			if got != tc.out {
				t.Fatalf("Fold(%q) = %q, want %q", tc.in, got, tc.out)
			}
			if again := n.Fold(got); again != got {
				t.Fatalf("Fold not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestKey_JoinsNaturalKeyFields(t *testing.T) {
	n := New()
	r := catalog.ProductRecord{
		Manufacturer: "Kohler ",
		Family:       "Cimarron",
		Model:        "K-4296",
		Size:         `1.28 GPF`,
		Finish:       "White",
	}
	want := "kohler#cimarron#k 4296#1 28 gpf#white"
	if got := n.Key(r); got != want {
		t.Fatalf("Key = %q, want %q", got, want)
	}
}

func TestKey_SurfaceFormattingCollapses(t *testing.T) {
	n := New()
	a := catalog.ProductRecord{Manufacturer: "ACME", Family: "Basin", Model: "BB 1100"}
	b := catalog.ProductRecord{Manufacturer: "acme", Family: "basin", Model: "BB.1100"}
	if n.Key(a) != n.Key(b) {
		t.Fatalf("expected equal keys, got %q vs %q", n.Key(a), n.Key(b))
	}
}

func TestBlockKey(t *testing.T) {
	n := New()
	r := catalog.ProductRecord{Manufacturer: "Elkay", Family: "Crosstown", Model: "CTW-4"}
	if got := n.BlockKey(r); got != "elkay#crosstown" {
		t.Fatalf("BlockKey = %q", got)
	}
}

func TestCleanIdentifier(t *testing.T) {
	n := New()
	tests := []struct{ in, out string }{
		{"CTW-4", "CTW4"},
		{"ctw4", "CTW4"},
		{"bb_11 00", "BB1100"},
		{"", ""},
		{"Ｋ-4296", "K4296"},
	}
	for _, tc := range tests {
		if got := n.CleanIdentifier(tc.in); got != tc.out {
			t.Fatalf("CleanIdentifier(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}
