// Package module wires up the lookup loader as a modkit.Module
package module

import (
	"tmload/internal/modkit"
	"tmload/internal/services/lookup/domain"
	"tmload/internal/services/lookup/repo"
	"tmload/internal/services/lookup/service"
)

// Ports exported by the lookup module
type Ports struct {
	Loader domain.Loader
}

// Module implements modkit.Module for lookups
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs and wires the lookup module
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG())

	m := &Module{deps: deps}
	m.ports = Ports{Loader: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "lookup" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
