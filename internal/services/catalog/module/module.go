// Package module wires the story catalog into the API using modkit
package module

import (
	"hnagent/internal/modkit"
	"hnagent/internal/modkit/httpkit"
	"hnagent/internal/services/catalog/domain"
	cataloghttp "hnagent/internal/services/catalog/http"
	"hnagent/internal/services/catalog/resolver"
	catalogsvc "hnagent/internal/services/catalog/service"
)

// Ports is what the catalog exposes to other modules
type Ports struct {
	Catalog domain.ServicePort
}

// Module implements the catalog module
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs the catalog over deps.HN, or over an ItemSource injected with modkit.WithPorts
func New(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("catalog"), modkit.WithPrefix("/stories")}, opts...)...)

	src, ok := modkit.InjectedPorts[domain.ItemSource](b)
	if !ok {
		if deps.HN == nil {
			panic("catalog module requires deps.HN or an injected ItemSource")
		}
		src = deps.HN
	}

	res := resolver.New(src,
		resolver.Options{MaxWorkers: o.MaxWorkers},
		resolver.WithLogger(deps.Log),
		resolver.WithMetrics(deps.Metrics),
	)
	svc := catalogsvc.New(src, res, deps.Log)

	m := &Module{ports: Ports{Catalog: svc}}
	m.Base = modkit.NewBase(b, func(r httpkit.Router) { cataloghttp.Register(r, svc) })
	return m
}

// Ports returns the catalog port set
func (m *Module) Ports() any { return m.ports }

// Catalog returns the service port directly for in-process callers
func (m *Module) Catalog() domain.ServicePort { return m.ports.Catalog }

// Document describes the module routes for the API docs
func (m *Module) Document(spec map[string]any) {
	cataloghttp.Document(m.Prefix())(spec)
}
