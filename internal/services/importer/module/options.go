package module

import (
	"tmload/internal/platform/config"
)

// Options for the importer module
type Options struct {
	Workers   int
	Batch     int
	ErrorsDir string
}

// FromConfig fills options from environment
// TM_IMPORT_WORKERS (default 0 = 2x GOMAXPROCS), TM_IMPORT_BATCH (default
// 20 files), TM_IMPORT_ERRORS_DIR (default ./import_errors)
func FromConfig(cfg config.Conf) Options {
	n := cfg.Prefix("TM_IMPORT_")
	return Options{
		Workers:   n.MayInt("WORKERS", 0),
		Batch:     n.MayInt("BATCH", 20),
		ErrorsDir: n.MayString("ERRORS_DIR", "import_errors"),
	}
}
