// Package domain holds the discovered lookup universe produced by the
// corpus analysis phase
package domain

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// Category identifies one lookup vocabulary. The value doubles as the lookup
// table name inside the lookup schema
type Category string

// Lookup categories
const (
	CategoryMovementType     Category = "movement_type"
	CategoryStatus           Category = "status"
	CategoryBanner           Category = "banner"
	CategoryBrand            Category = "brand"
	CategoryDepartment       Category = "department"
	CategoryCostCentre       Category = "cost_centre"
	CategoryRole             Category = "role"
	CategoryEmployeeGroup    Category = "employee_group"
	CategoryEmployeeSubGroup Category = "employee_subgroup"
	CategoryBusinessGroup    Category = "business_group"
	CategoryMutualFlag       Category = "mutual_flag"
	CategoryBreakType        Category = "break_type"
	CategoryEventType        Category = "event_type"
)

// Categories lists every category in a stable order
func Categories() []Category {
	return []Category{
		CategoryMovementType,
		CategoryStatus,
		CategoryBanner,
		CategoryBrand,
		CategoryDepartment,
		CategoryCostCentre,
		CategoryRole,
		CategoryEmployeeGroup,
		CategoryEmployeeSubGroup,
		CategoryBusinessGroup,
		CategoryMutualFlag,
		CategoryBreakType,
		CategoryEventType,
	}
}

// Compound reports whether the category's values carry code+name (+geo)
// columns instead of a single text value
func (c Category) Compound() bool {
	switch c {
	case CategoryBrand, CategoryDepartment, CategoryCostCentre:
		return true
	}
	return false
}

// Fold normalizes lookup text for case-insensitive equality
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// CompoundValue is one discovered compound lookup row. Code is the natural
// key; the geo fields only ever appear on cost centres
type CompoundValue struct {
	Code             string
	Name             string
	FormattedAddress string
	Latitude         *float64
	Longitude        *float64
}

// merge keeps existing non-empty fields and fills gaps from other
// (monotonic, mirrors the database enrichment policy)
func (v CompoundValue) merge(other CompoundValue) CompoundValue {
	if v.Name == "" {
		v.Name = other.Name
	}
	if v.FormattedAddress == "" {
		v.FormattedAddress = other.FormattedAddress
	}
	if v.Latitude == nil {
		v.Latitude = other.Latitude
	}
	if v.Longitude == nil {
		v.Longitude = other.Longitude
	}
	return v
}

// DiscoveredValues accumulates the complete lookup universe across the
// corpus. Safe for concurrent use; dedup is case-insensitive on the natural
// text (simple categories) or natural code (compound categories)
type DiscoveredValues struct {
	mu       sync.Mutex
	simple   map[Category]map[string]string        // folded text -> first-seen spelling
	compound map[Category]map[string]CompoundValue // folded code -> merged value
	files    int
	failures int
}

// NewDiscoveredValues returns an empty accumulator
func NewDiscoveredValues() *DiscoveredValues {
	return &DiscoveredValues{
		simple:   map[Category]map[string]string{},
		compound: map[Category]map[string]CompoundValue{},
	}
}

// AddSimple records one plain text value; blank input is ignored
func (d *DiscoveredValues) AddSimple(cat Category, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	key := Fold(text)
	d.mu.Lock()
	m := d.simple[cat]
	if m == nil {
		m = map[string]string{}
		d.simple[cat] = m
	}
	if _, seen := m[key]; !seen {
		m[key] = text
	}
	d.mu.Unlock()
}

// AddCompound records one compound value; blank codes are ignored and
// repeated codes merge monotonically
func (d *DiscoveredValues) AddCompound(cat Category, v CompoundValue) {
	v.Code = strings.TrimSpace(v.Code)
	if v.Code == "" {
		return
	}
	key := Fold(v.Code)
	d.mu.Lock()
	m := d.compound[cat]
	if m == nil {
		m = map[string]CompoundValue{}
		d.compound[cat] = m
	}
	if prev, seen := m[key]; seen {
		m[key] = prev.merge(v)
	} else {
		m[key] = v
	}
	d.mu.Unlock()
}

// Simple returns the discovered plain values for cat in map form
func (d *DiscoveredValues) Simple(cat Category) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.simple[cat]))
	for _, v := range d.simple[cat] {
		out = append(out, v)
	}
	return out
}

// Compound returns the discovered compound values for cat
func (d *DiscoveredValues) Compound(cat Category) []CompoundValue {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]CompoundValue, 0, len(d.compound[cat]))
	for _, v := range d.compound[cat] {
		out = append(out, v)
	}
	return out
}

// Count returns the number of distinct values discovered for cat
func (d *DiscoveredValues) Count(cat Category) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cat.Compound() {
		return len(d.compound[cat])
	}
	return len(d.simple[cat])
}

// RecordFile counts one scanned file; failed marks a parse failure
func (d *DiscoveredValues) RecordFile(failed bool) {
	d.mu.Lock()
	d.files++
	if failed {
		d.failures++
	}
	d.mu.Unlock()
}

// Stats returns scanned file and parse failure counts
func (d *DiscoveredValues) Stats() (files, failures int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.files, d.failures
}
