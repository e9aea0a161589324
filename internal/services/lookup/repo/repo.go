// Package repo provides Postgres bindings for the lookup cache loader
package repo

import (
	"context"
	"fmt"

	"tmload/internal/modkit/repokit"
	perr "tmload/internal/platform/errors"
	"tmload/internal/platform/store"
	andom "tmload/internal/services/analyzer/domain"
	"tmload/internal/services/lookup/domain"
)

type (
	// PG is a Postgres binder for domain.Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// Compile-time assertion: queries implements domain.Repo
var _ domain.Repo = (*queries)(nil)

// NewPG returns a Postgres binder for Repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

// lookupRow is one (id, natural text) pair read at preload
type lookupRow struct {
	ID   int64
	Text string
}

func scanLookupRow(row repokit.Row) (lookupRow, error) {
	var lr lookupRow
	err := row.Scan(&lr.ID, &lr.Text)
	return lr, err
}

// LoadCategory reads every row of one lookup table into cache.
// Compound categories key on code, simple categories on value
func (r *queries) LoadCategory(ctx context.Context, cat andom.Category, cache *domain.Cache) error {
	col := "value"
	if cat.Compound() {
		col = "code"
	}
	// cat is a closed enum whose values are the table names, safe to splice
	rows, err := store.Many(ctx, r.q, scanLookupRow,
		fmt.Sprintf(`SELECT id, %s FROM lookup.%s`, col, cat))
	if err != nil {
		return perr.FromPostgresf(err, "load lookup %s", cat)
	}

	unknownSeen := false
	for _, lr := range rows {
		if andom.Fold(lr.Text) == andom.Fold(domain.UnknownValue) {
			cache.SetUnknown(cat, lr.ID)
			unknownSeen = true
			continue
		}
		cache.Put(cat, lr.Text, lr.ID)
	}
	if !unknownSeen {
		return perr.Newf(perr.ErrorCodeValidation, "lookup %s has no %q sentinel, schema not seeded", cat, domain.UnknownValue)
	}
	return nil
}
