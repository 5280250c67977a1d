// Package module wires the tool registry into the API using modkit
package module

import (
	"hnagent/internal/modkit"
	"hnagent/internal/modkit/httpkit"
	"hnagent/internal/services/catalog/domain"
	"hnagent/internal/services/tools"
	toolshttp "hnagent/internal/services/tools/http"
)

// Ports is what the tools module needs from other modules
type Ports struct {
	Catalog domain.ServicePort
}

// Exposed is what the tools module offers to other modules
type Exposed struct {
	Registry *tools.Registry
}

// Module implements the tools module
type Module struct {
	modkit.Base
	reg *tools.Registry
}

// New builds the registry over the catalog injected with modkit.WithPorts(Ports{...})
// It panics when the catalog is missing or the descriptor set is invalid
func New(deps modkit.Deps, o tools.Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("tools"), modkit.WithPrefix("/tools")}, opts...)...)

	in, ok := modkit.InjectedPorts[Ports](b)
	if !ok || in.Catalog == nil {
		panic("tools module requires modkit.WithPorts(Ports{Catalog: ...})")
	}

	reg := tools.MustNew(
		tools.Descriptors(in.Catalog, o),
		tools.WithLogger(deps.Log),
		tools.WithMetrics(deps.Metrics),
	)

	m := &Module{reg: reg}
	m.Base = modkit.NewBase(b, func(r httpkit.Router) { toolshttp.Register(r, reg) })
	return m
}

// Ports returns the exposed port set
func (m *Module) Ports() any { return Exposed{Registry: m.reg} }

// Registry returns the validated registry
func (m *Module) Registry() *tools.Registry { return m.reg }

// Document describes the module routes for the API docs
func (m *Module) Document(spec map[string]any) {
	toolshttp.Document(m.Prefix(), m.reg)(spec)
}
