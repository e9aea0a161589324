package domain

import "context"

// Scanner walks a corpus and returns the discovered lookup universe.
// The scan is read-only; no database writes happen in this phase
type Scanner interface {
	Analyze(ctx context.Context, corpusPath string) (*DiscoveredValues, error)
}
