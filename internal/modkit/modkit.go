package modkit

import (
	"net/http"

	"hnagent/internal/modkit/httpkit"
	str "hnagent/internal/platform/strings"
)

// Module is the common surface for API modules that can mount routes and expose ports
// keep this tiny so modules stay decoupled
type Module interface {
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r httpkit.Router)
	// Ports returns a module specific port set for cross wiring
	Ports() any
	// Name returns the module name
	Name() string
}

// Base carries the Built fields every module repeats; embed it and supply Ports
type Base struct {
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)
}

// NewBase validates b and wraps own so the module's endpoints mount before any WithRegister extras
func NewBase(b Built, own func(httpkit.Router)) Base {
	extra := b.Register
	return Base{
		name:   str.MustString(b.Name, "module name"),
		prefix: str.MustPrefix(b.Prefix),
		mws:    b.Mw,
		register: func(r httpkit.Router) {
			if own != nil {
				own(r)
			}
			if extra != nil {
				extra(r)
			}
		},
	}
}

// MountRoutes mounts the module under its prefix with its middlewares
func (m Base) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, m.register)
}

// Name returns the module name
func (m Base) Name() string { return m.name }

// Prefix returns the normalized mount prefix
func (m Base) Prefix() string { return m.prefix }
