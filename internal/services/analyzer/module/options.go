package module

import (
	"tmload/internal/platform/config"
)

// Options for the analyzer module
type Options struct {
	Workers int
}

// FromConfig fills options from environment
// TM_ANALYZE_WORKERS (default 0 = 2x GOMAXPROCS) is the number of concurrent file scanners
func FromConfig(cfg config.Conf) Options {
	n := cfg.Prefix("TM_ANALYZE_")
	return Options{
		Workers: n.MayInt("WORKERS", 0),
	}
}
