// Package domain holds the in-memory lookup cache used during import
package domain

import (
	"strings"
	"sync/atomic"

	andom "tmload/internal/services/analyzer/domain"
)

// UnknownValue is the sentinel row every lookup table carries so facts can
// always reference something
const UnknownValue = "Unknown"

// Cache maps lookup text (or compound code) to database ids, folded
// case-insensitively. Built once before import and read-only afterwards,
// so lookups need no locking
type Cache struct {
	ids     map[andom.Category]map[string]int64
	unknown map[andom.Category]int64
	misses  atomic.Int64
}

// NewCache returns an empty cache
func NewCache() *Cache {
	return &Cache{
		ids:     map[andom.Category]map[string]int64{},
		unknown: map[andom.Category]int64{},
	}
}

// Put records one lookup row under its folded key
func (c *Cache) Put(cat andom.Category, text string, id int64) {
	m := c.ids[cat]
	if m == nil {
		m = map[string]int64{}
		c.ids[cat] = m
	}
	m[andom.Fold(text)] = id
}

// SetUnknown records the sentinel id for cat
func (c *Cache) SetUnknown(cat andom.Category, id int64) {
	c.unknown[cat] = id
	c.Put(cat, UnknownValue, id)
}

// Unknown returns the sentinel id for cat
func (c *Cache) Unknown(cat andom.Category) int64 { return c.unknown[cat] }

// ResolveKnown returns the id for text and whether it was present.
// Blank text reports not present without counting a miss
func (c *Cache) ResolveKnown(cat andom.Category, text string) (int64, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}
	id, ok := c.ids[cat][andom.Fold(text)]
	if !ok {
		c.misses.Add(1)
	}
	return id, ok
}

// Resolve returns the id for text, falling back to the Unknown sentinel
// when text is blank or was never discovered. Never fails
func (c *Cache) Resolve(cat andom.Category, text string) int64 {
	if id, ok := c.ResolveKnown(cat, text); ok {
		return id
	}
	return c.unknown[cat]
}

// MayResolve returns nil for blank text, otherwise the resolved id
// (Unknown sentinel when undiscovered)
func (c *Cache) MayResolve(cat andom.Category, text string) *int64 {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	id := c.Resolve(cat, text)
	return &id
}

// Size returns the number of cached rows for cat
func (c *Cache) Size(cat andom.Category) int { return len(c.ids[cat]) }

// Misses returns how many non-blank resolutions fell through to the sentinel
func (c *Cache) Misses() int64 { return c.misses.Load() }
