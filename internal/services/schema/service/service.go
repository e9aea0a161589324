// Package service creates and seeds the relational schema from an analyzer run
package service

import (
	"context"
	"sort"
	"time"

	"tmload/internal/modkit/repokit"
	"tmload/internal/platform/logger"
	andom "tmload/internal/services/analyzer/domain"
	ldom "tmload/internal/services/lookup/domain"
	"tmload/internal/services/schema/domain"
)

// Svc implements domain.Creator
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]
}

// Compile-time assertion
var _ domain.Creator = (*Svc)(nil)

// New constructs the schema creator
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Svc {
	if db == nil {
		panic("schema.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("schema.Service requires a non-nil Repo binder")
	}
	return &Svc{db: db, binder: binder}
}

// CreateSchema runs DDL then seeds every lookup table, all inside one
// transaction so a half-created schema is never visible. The Unknown
// sentinel goes in first so its id is the lowest in every table on a
// fresh database
func (s *Svc) CreateSchema(ctx context.Context, dv *andom.DiscoveredValues) error {
	start := time.Now()
	log := logger.C(ctx)

	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		repo := repokit.MustBind(s.binder, q)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		for _, cat := range andom.Categories() {
			if err := seedCategory(ctx, repo, cat, dv); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("schema created and seeded")
	return nil
}

// seedCategory inserts the sentinel then the discovered values, sorted for
// deterministic insertion order
func seedCategory(ctx context.Context, repo domain.Repo, cat andom.Category, dv *andom.DiscoveredValues) error {
	if cat.Compound() {
		if err := repo.SeedCompound(ctx, cat, []andom.CompoundValue{
			{Code: ldom.UnknownValue, Name: ldom.UnknownValue},
		}); err != nil {
			return err
		}
		values := dv.Compound(cat)
		sort.Slice(values, func(i, j int) bool { return values[i].Code < values[j].Code })
		if len(values) == 0 {
			return nil
		}
		return repo.SeedCompound(ctx, cat, values)
	}

	if err := repo.SeedSimple(ctx, cat, []string{ldom.UnknownValue}); err != nil {
		return err
	}
	values := dv.Simple(cat)
	sort.Strings(values)
	if len(values) == 0 {
		return nil
	}
	return repo.SeedSimple(ctx, cat, values)
}
