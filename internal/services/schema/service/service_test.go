package service

import (
	"context"
	"sort"
	"testing"

	"tmload/internal/modkit/repokit"
	perr "tmload/internal/platform/errors"
	andom "tmload/internal/services/analyzer/domain"
	"tmload/internal/services/schema/domain"
)

// fakeTx satisfies repokit.TxRunner without a database
type fakeTx struct{ repokit.Queryer }

func (f *fakeTx) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error { return fn(f) }

type seedCall struct {
	cat    andom.Category
	simple []string
	codes  []string
}

type fakeRepo struct {
	ddl   int
	seeds []seedCall
	fail  andom.Category
}

func (f *fakeRepo) EnsureSchema(context.Context) error { f.ddl++; return nil }

func (f *fakeRepo) SeedSimple(_ context.Context, cat andom.Category, values []string) error {
	if cat == f.fail {
		return perr.DBf("boom")
	}
	f.seeds = append(f.seeds, seedCall{cat: cat, simple: values})
	return nil
}

func (f *fakeRepo) SeedCompound(_ context.Context, cat andom.Category, values []andom.CompoundValue) error {
	if cat == f.fail {
		return perr.DBf("boom")
	}
	codes := make([]string, len(values))
	for i, v := range values {
		codes[i] = v.Code
	}
	f.seeds = append(f.seeds, seedCall{cat: cat, codes: codes})
	return nil
}

func binderFor(r domain.Repo) repokit.Binder[domain.Repo] {
	return repokit.BindFunc[domain.Repo](func(repokit.Queryer) domain.Repo { return r })
}

func TestCreateSchema_SeedsSentinelFirst(t *testing.T) {
	dv := andom.NewDiscoveredValues()
	dv.AddSimple(andom.CategoryStatus, "Declined")
	dv.AddSimple(andom.CategoryStatus, "Approved")
	dv.AddCompound(andom.CategoryCostCentre, andom.CompoundValue{Code: "S123", Name: "Store"})

	fr := &fakeRepo{}
	svc := New(&fakeTx{}, binderFor(fr))
	if err := svc.CreateSchema(context.Background(), dv); err != nil {
		t.Fatal(err)
	}
	if fr.ddl != 1 {
		t.Fatalf("ddl ran %d times", fr.ddl)
	}

	// every category gets at least its sentinel seed
	seen := map[andom.Category][]seedCall{}
	for _, c := range fr.seeds {
		seen[c.cat] = append(seen[c.cat], c)
	}
	for _, cat := range andom.Categories() {
		calls := seen[cat]
		if len(calls) == 0 {
			t.Fatalf("category %s never seeded", cat)
		}
		first := calls[0]
		if cat.Compound() {
			if len(first.codes) != 1 || first.codes[0] != "Unknown" {
				t.Fatalf("%s sentinel seed = %v", cat, first.codes)
			}
		} else if len(first.simple) != 1 || first.simple[0] != "Unknown" {
			t.Fatalf("%s sentinel seed = %v", cat, first.simple)
		}
	}

	// discovered values follow the sentinel, sorted
	status := seen[andom.CategoryStatus]
	if len(status) != 2 {
		t.Fatalf("status seeds = %d", len(status))
	}
	if !sort.StringsAreSorted(status[1].simple) {
		t.Fatalf("status values not sorted: %v", status[1].simple)
	}
	cc := seen[andom.CategoryCostCentre]
	if len(cc) != 2 || cc[1].codes[0] != "S123" {
		t.Fatalf("cost centre seeds = %+v", cc)
	}
}

func TestCreateSchema_SeedFailureAborts(t *testing.T) {
	fr := &fakeRepo{fail: andom.CategoryRole}
	svc := New(&fakeTx{}, binderFor(fr))
	err := svc.CreateSchema(context.Background(), andom.NewDiscoveredValues())
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("want DB error, got %v", err)
	}
}
