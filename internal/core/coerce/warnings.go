package coerce

import (
	"fmt"
	"sync"
)

// Sink receives human-readable warnings from coercion failures.
// Implementations must be safe for concurrent use
type Sink interface {
	Warn(msg string)
}

// Warnings is an append-safe warnings collection shared across import tasks
type Warnings struct {
	mu   sync.Mutex
	msgs []string
}

// NewWarnings returns an empty collection
func NewWarnings() *Warnings { return &Warnings{} }

// Warn appends one message
func (w *Warnings) Warn(msg string) {
	w.mu.Lock()
	w.msgs = append(w.msgs, msg)
	w.mu.Unlock()
}

// Warnf appends one formatted message
func (w *Warnings) Warnf(format string, a ...any) {
	w.Warn(fmt.Sprintf(format, a...))
}

// Len returns the number of recorded warnings
func (w *Warnings) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.msgs)
}

// Snapshot returns a copy of all recorded warnings
func (w *Warnings) Snapshot() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.msgs))
	copy(out, w.msgs)
	return out
}

// Bounded returns at most n warnings plus a truncation note when more exist
func (w *Warnings) Bounded(n int) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n <= 0 || len(w.msgs) <= n {
		out := make([]string, len(w.msgs))
		copy(out, w.msgs)
		return out
	}
	out := make([]string, n, n+1)
	copy(out, w.msgs[:n])
	out = append(out, fmt.Sprintf("... and %d more", len(w.msgs)-n))
	return out
}
