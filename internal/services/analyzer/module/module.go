// Package module wires up the analyzer service as a modkit.Module
package module

import (
	"tmload/internal/modkit"
	"tmload/internal/services/analyzer/domain"
	"tmload/internal/services/analyzer/service"
)

// Ports exported by the analyzer module
type Ports struct {
	Scanner domain.Scanner
}

// Module implements modkit.Module for the analyzer
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs and wires the analyzer module using deps.Cfg
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(service.Config{Workers: opts.Workers})

	m := &Module{deps: deps}
	m.ports = Ports{Scanner: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "analyzer" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
