// Package module wires diff endpoints into the API using modkit
package module

import (
	"net/http"

	modkit "pricebook/internal/modkit"
	"pricebook/internal/modkit/httpkit"

	diffshttp "pricebook/internal/services/api/diffs/http"
	changesdom "pricebook/internal/services/changes/domain"
	diffsdom "pricebook/internal/services/diffs/domain"
)

// Ports declares the required injected worker port(s) for this API module
type Ports struct {
	Runner  diffsdom.RunnerPort
	Query   diffsdom.QueryPort
	Changes changesdom.QueryPort
}

// Module implements the diffs API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the diffs API module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("diffs"),
		modkit.WithPrefix("/diffs"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Runner == nil || injected.Query == nil || injected.Changes == nil {
		panic("diffs API module requires Runner, Query and Changes ports")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
	}
	m.ports = injected

	external := b.Register
	m.register = func(r httpkit.Router) {
		diffshttp.Register(r, diffshttp.Ports{
			Runner:  injected.Runner,
			Query:   injected.Query,
			Changes: injected.Changes,
		})
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, func(rr httpkit.Router) {
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
