// Package module wires up schema creation as a modkit.Module
package module

import (
	"tmload/internal/modkit"
	"tmload/internal/services/schema/domain"
	"tmload/internal/services/schema/repo"
	"tmload/internal/services/schema/service"
)

// Ports exported by the schema module
type Ports struct {
	Creator domain.Creator
}

// Module implements modkit.Module for schema creation
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs and wires the schema module
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG())

	m := &Module{deps: deps}
	m.ports = Ports{Creator: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "schema" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
