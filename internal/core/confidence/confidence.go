// Package confidence centralizes the confidence model shared by the
// matchers and the change classifier so every change carries a score
// consistent with its originating match
package confidence

import (
	perr "pricebook/internal/platform/errors"
)

// Tier buckets a [0,1] confidence score for reviewers
type Tier string

const (
	// TierExact is >= the exact threshold, reserved for match-key joins
	TierExact Tier = "EXACT"
	// TierHigh is a trustworthy fuzzy resolution
	TierHigh Tier = "HIGH"
	// TierMedium usually lands in the review queue boundary zone
	TierMedium Tier = "MEDIUM"
	// TierLow needs human eyes
	TierLow Tier = "LOW"
	// TierVeryLow is close to noise
	TierVeryLow Tier = "VERY_LOW"
)

// Thresholds are the tier cut points plus the review gate.
// Zero value is not usable; start from Default and validate
type Thresholds struct {
	Exact  float64
	High   float64
	Medium float64
	Low    float64
	Review float64
}

// Default returns the standard cut points
func Default() Thresholds {
	return Thresholds{
		Exact:  0.98,
		High:   0.80,
		Medium: 0.60,
		Low:    0.40,
		Review: 0.60,
	}
}

// Validate fails fast on non-monotonic or out-of-range thresholds.
// This is a construction-time check, never a per-record condition
func (t Thresholds) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"exact", t.Exact},
		{"high", t.High},
		{"medium", t.Medium},
		{"low", t.Low},
		{"review", t.Review},
	} {
		if v.val < 0 || v.val > 1 {
			return perr.Newf(perr.ErrorCodeConfig, "threshold %s=%v outside [0,1]", v.name, v.val)
		}
	}
	if !(t.Exact > t.High && t.High > t.Medium && t.Medium > t.Low) {
		return perr.Newf(perr.ErrorCodeConfig,
			"thresholds must satisfy exact > high > medium > low (got %v > %v > %v > %v)",
			t.Exact, t.High, t.Medium, t.Low)
	}
	if t.Review > t.Medium {
		return perr.Newf(perr.ErrorCodeConfig,
			"review threshold %v above medium threshold %v", t.Review, t.Medium)
	}
	return nil
}

// Tier maps a score into its tier
func (t Thresholds) Tier(score float64) Tier {
	switch {
	case score >= t.Exact:
		return TierExact
	case score >= t.High:
		return TierHigh
	case score >= t.Medium:
		return TierMedium
	case score >= t.Low:
		return TierLow
	default:
		return TierVeryLow
	}
}

// NeedsReview reports whether a score falls under the review gate
func (t Thresholds) NeedsReview(score float64) bool { return score < t.Review }

// ExactScore scores a match-key join. drifted counts compared non-key
// fields (sku, raw model, price, options, rule text) that disagreed
func ExactScore(drifted int) float64 {
	if drifted <= 0 {
		return 0.99
	}
	s := 0.97 - 0.01*float64(drifted-1)
	if s < 0.90 {
		s = 0.90
	}
	return s
}

// FuzzyScore maps a 0-100 similarity into [0,1].
// corroborated is false when only the primary validation check passed,
// which costs a tenth. Fuzzy scores never reach the exact tier
func FuzzyScore(similarity int, corroborated bool) float64 {
	s := float64(similarity) / 100
	if !corroborated {
		s -= 0.10
	}
	if s > 0.97 {
		s = 0.97
	}
	if s < 0 {
		s = 0
	}
	return s
}
