// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"hnagent/internal/core/version"
	"hnagent/internal/modkit"
	"hnagent/internal/modkit/httpkit"
	metahttp "hnagent/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
	startedAt time.Time
}

// New constructs a meta module; readiness checks deps.HN when present
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{startedAt: time.Now()}

	d := metahttp.Deps{
		ServiceName:  version.Info().Service,
		StartedAt:    m.startedAt,
		ReadyTimeout: deps.Cfg.Prefix("API_").MayDuration("READY_TIMEOUT", 10*time.Second),
	}
	if deps.HN != nil {
		d.Upstream = deps.HN
	}
	m.Base = modkit.NewBase(b, func(r httpkit.Router) { metahttp.Register(r, d) })
	return m
}

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }

// Document describes the module routes for the API docs
func (m *Module) Document(spec map[string]any) {
	metahttp.Document(m.Prefix())(spec)
}
