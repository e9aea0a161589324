// Package module wires up the importer as a modkit.Module
package module

import (
	"tmload/internal/modkit"
	"tmload/internal/services/importer/domain"
	"tmload/internal/services/importer/repo"
	"tmload/internal/services/importer/service"
	ldom "tmload/internal/services/lookup/domain"
)

// Ports exported by the importer module
type Ports struct {
	Runner domain.Runner
}

// Module implements modkit.Module for the importer
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs and wires the importer module. lookups must already be
// preloaded; that ordering lives with the caller
func New(deps modkit.Deps, lookups *ldom.Cache) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), lookups, service.Config{
		Workers:   opts.Workers,
		Batch:     opts.Batch,
		ErrorsDir: opts.ErrorsDir,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "importer" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
