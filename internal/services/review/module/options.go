package module

import "pricebook/internal/platform/config"

// Options holds configuration settings for the review module
type Options struct {
	HardLimit int
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	rf := cfg.Prefix("CORE_REVIEW_")
	return Options{
		HardLimit: rf.MayInt("HARD_LIMIT", 200),
	}
}
