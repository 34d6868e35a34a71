package module

import "pricebook/internal/platform/config"

// Options holds configuration settings for the diffs module
type Options struct {
	Workers        int
	FuzzyThreshold int
	DisableFuzzy   bool
	ListLimit      int
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	df := cfg.Prefix("CORE_DIFF_")
	return Options{
		Workers:        df.MayInt("WORKERS", 2),
		FuzzyThreshold: df.MayInt("FUZZY_THRESHOLD", 70),
		DisableFuzzy:   !df.MayBool("ENABLE_FUZZY", true),
		ListLimit:      df.MayInt("LIST_LIMIT", 50),
	}
}
