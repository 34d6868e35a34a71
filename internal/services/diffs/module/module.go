// Package module implements the diffs module
package module

import (
	"net/http"

	"pricebook/internal/modkit"
	"pricebook/internal/modkit/httpkit"
	"pricebook/internal/modkit/repokit"
	"pricebook/internal/services/diffs/domain"
	"pricebook/internal/services/diffs/repo"
	"pricebook/internal/services/diffs/service"
)

// Ports exposed by the diffs module
type Ports struct {
	Runner domain.RunnerPort
	Query  domain.QueryPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new diffs module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("diffs"),
	}, opts...)...)

	// Basic guardrails against incorrect wiring
	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("diffs module: expected WithPorts(diffs/domain.Ports)")
	}
	if ports.Books == nil {
		panic("diffs module: Ports missing Books reader")
	}

	// Merge config + overrides
	cfg := FromConfig(deps.Cfg)
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}
	if overrides.FuzzyThreshold != 0 {
		cfg.FuzzyThreshold = overrides.FuzzyThreshold
	}
	if overrides.DisableFuzzy {
		cfg.DisableFuzzy = true
	}
	if overrides.ListLimit != 0 {
		cfg.ListLimit = overrides.ListLimit
	}

	svc := service.New(
		repokit.TxRunner(deps.PG),
		repo.NewPG(),
		ports,
		service.Config{
			Workers:        cfg.Workers,
			FuzzyThreshold: cfg.FuzzyThreshold,
			EnableFuzzy:    !cfg.DisableFuzzy,
			ListLimit:      cfg.ListLimit,
		},
		deps.Log,
	)

	m := &Module{deps: deps}
	m.ports = Ports{
		Runner: svc,
		Query:  svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "diffs" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares satisfies modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
