package domain

import (
	"context"

	andom "tmload/internal/services/analyzer/domain"
)

// Loader builds the lookup cache from the database
type Loader interface {
	// Preload reads every lookup table into memory. Must complete before
	// any fact rows are written
	Preload(ctx context.Context) (*Cache, error)
}

// Repo is the storage surface the loader needs
type Repo interface {
	// LoadCategory fills cache with every row of cat's lookup table
	LoadCategory(ctx context.Context, cat andom.Category, cache *Cache) error
}
