package module

import "pricebook/internal/platform/config"

// Options holds configuration settings for the books module
type Options struct {
	ListLimit  int
	MaxRecords int
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	bf := cfg.Prefix("CORE_BOOKS_")
	return Options{
		ListLimit:  bf.MayInt("LIST_LIMIT", 100),
		MaxRecords: bf.MayInt("MAX_RECORDS", 0),
	}
}
