package module

import "pricebook/internal/platform/config"

// Options holds configuration settings for the changes module
type Options struct {
	HardLimit int
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	cf := cfg.Prefix("CORE_CHANGES_")
	return Options{
		HardLimit: cf.MayInt("HARD_LIMIT", 500),
	}
}
