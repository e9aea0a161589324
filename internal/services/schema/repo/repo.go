// Package repo provides Postgres bindings for schema creation and seeding
package repo

import (
	"context"
	"fmt"

	"tmload/internal/modkit/repokit"
	perr "tmload/internal/platform/errors"
	pstrings "tmload/internal/platform/strings"
	andom "tmload/internal/services/analyzer/domain"
	"tmload/internal/services/schema/domain"
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

// EnsureSchema runs every DDL statement in order. All statements are
// IF NOT EXISTS so re-runs are no-ops
func (r *queries) EnsureSchema(ctx context.Context) error {
	for _, stmt := range ddlStatements {
		if _, err := r.q.Exec(ctx, stmt); err != nil {
			return perr.FromPostgresf(err, "ddl: %s", firstLine(stmt))
		}
	}
	return nil
}

// SeedSimple inserts plain lookup values, ignoring case-insensitive
// natural-key conflicts
func (r *queries) SeedSimple(ctx context.Context, cat andom.Category, values []string) error {
	sql := fmt.Sprintf(`
		INSERT INTO lookup.%s (value)
		SELECT v FROM unnest($1::text[]) AS t(v)
		ON CONFLICT ((lower(value))) DO NOTHING
	`, cat)
	if _, err := r.q.Exec(ctx, sql, values); err != nil {
		return perr.FromPostgresf(err, "seed lookup %s", cat)
	}
	return nil
}

// SeedCompound inserts compound lookup values by natural code, ignoring
// conflicts. Cost centres additionally carry their discovered geo fields
func (r *queries) SeedCompound(ctx context.Context, cat andom.Category, values []andom.CompoundValue) error {
	if cat == andom.CategoryCostCentre {
		return r.seedCostCentres(ctx, values)
	}
	codes := make([]string, len(values))
	names := make([]string, len(values))
	for i, v := range values {
		codes[i] = v.Code
		names[i] = v.Name
	}
	sql := fmt.Sprintf(`
		INSERT INTO lookup.%s (code, name)
		SELECT c, n FROM unnest($1::text[], $2::text[]) AS t(c, n)
		ON CONFLICT ((lower(code))) DO NOTHING
	`, cat)
	if _, err := r.q.Exec(ctx, sql, codes, names); err != nil {
		return perr.FromPostgresf(err, "seed lookup %s", cat)
	}
	return nil
}

func (r *queries) seedCostCentres(ctx context.Context, values []andom.CompoundValue) error {
	codes := make([]string, len(values))
	names := make([]string, len(values))
	addrs := make([]*string, len(values))
	lats := make([]*float64, len(values))
	lngs := make([]*float64, len(values))
	for i, v := range values {
		codes[i] = v.Code
		names[i] = v.Name
		addrs[i] = pstrings.Ptr(v.FormattedAddress)
		lats[i] = v.Latitude
		lngs[i] = v.Longitude
	}
	if _, err := r.q.Exec(ctx, `
		INSERT INTO lookup.cost_centre (code, name, formatted_address, latitude, longitude)
		SELECT c, n, a, la, lo
		FROM unnest($1::text[], $2::text[], $3::text[], $4::float8[], $5::float8[]) AS t(c, n, a, la, lo)
		ON CONFLICT ((lower(code))) DO NOTHING
	`, codes, names, addrs, lats, lngs); err != nil {
		return perr.FromPostgres(err, "seed lookup cost_centre")
	}
	return nil
}

// firstLine trims a DDL statement down to something loggable
func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
