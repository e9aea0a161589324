// Package domain declares the schema creation ports
package domain

import (
	"context"

	andom "tmload/internal/services/analyzer/domain"
)

// Creator builds the relational schema and seeds the lookup universe
type Creator interface {
	// CreateSchema is idempotent: creates schemas, tables and indexes if
	// absent, then seeds every lookup table with the Unknown sentinel plus
	// the discovered values. Safe to re-run; existing rows are never
	// overwritten
	CreateSchema(ctx context.Context, dv *andom.DiscoveredValues) error
}

// Repo is the storage surface schema creation needs
type Repo interface {
	// EnsureSchema runs all idempotent DDL (schemas, lookup and fact
	// tables, indexes)
	EnsureSchema(ctx context.Context) error

	// SeedSimple inserts plain lookup values, skipping natural keys that
	// already exist (case-insensitive)
	SeedSimple(ctx context.Context, cat andom.Category, values []string) error

	// SeedCompound inserts compound lookup values by natural code,
	// skipping codes that already exist (case-insensitive)
	SeedCompound(ctx context.Context, cat andom.Category, values []andom.CompoundValue) error
}
