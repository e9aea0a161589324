// Package service builds the lookup cache ahead of an import run
package service

import (
	"context"
	"time"

	"tmload/internal/modkit/repokit"
	"tmload/internal/platform/logger"
	andom "tmload/internal/services/analyzer/domain"
	"tmload/internal/services/lookup/domain"
)

// Svc implements domain.Loader
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]
}

// Compile-time assertion
var _ domain.Loader = (*Svc)(nil)

// New constructs the lookup loader
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Svc {
	if db == nil {
		panic("lookup.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("lookup.Service requires a non-nil Repo binder")
	}
	return &Svc{db: db, binder: binder}
}

// Preload reads every lookup table into a fresh cache. A single failed
// category aborts the whole preload since importing against a partial
// cache would silently route real values to the Unknown sentinel
func (s *Svc) Preload(ctx context.Context) (*domain.Cache, error) {
	start := time.Now()
	cache := domain.NewCache()
	repo := repokit.MustBind(s.binder, s.db)

	total := 0
	for _, cat := range andom.Categories() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := repo.LoadCategory(ctx, cat, cache); err != nil {
			return nil, err
		}
		total += cache.Size(cat)
	}

	logger.C(ctx).Info().
		Int("categories", len(andom.Categories())).
		Int("rows", total).
		Dur("elapsed", time.Since(start)).
		Msg("lookup cache preloaded")
	return cache, nil
}
