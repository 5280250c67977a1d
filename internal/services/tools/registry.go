// Package tools exposes the catalog as named, text returning tools
// The set is static: descriptors are enumerated once and validated at startup
package tools

import (
	"context"
	"fmt"
	"regexp"
	"runtime/debug"
	"time"

	perr "hnagent/internal/platform/errors"
	"hnagent/internal/platform/logger"
	"hnagent/internal/platform/metrics"

	"github.com/google/uuid"
)

// Handler runs a tool; it always answers with text, never an error
type Handler func(ctx context.Context, args Args) string

// Param describes one integer argument
type Param struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Default     int    `json:"default,omitempty"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
}

// Descriptor is one tool: its schema plus the handler behind it
type Descriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`
	// FailMessage prefixes the text returned when the handler panics
	FailMessage string  `json:"-"`
	Handler     Handler `json:"-"`
}

func (d Descriptor) failMessage() string {
	if d.FailMessage != "" {
		return d.FailMessage
	}
	return "Error running " + d.Name
}

var snakeCase = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

// Registry holds validated descriptors keyed by name
type Registry struct {
	descs   []Descriptor
	byName  map[string]Descriptor
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option customizes a Registry
type Option func(*Registry)

// WithLogger sets the registry logger
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) { r.log = logger.Named(l, "tools") }
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// NewRegistry builds a registry; call Validate before serving
func NewRegistry(descs []Descriptor, opts ...Option) *Registry {
	r := &Registry{
		descs:  append([]Descriptor(nil), descs...),
		byName: make(map[string]Descriptor, len(descs)),
		log:    logger.Nop(),
		now:    time.Now,
	}
	for _, d := range r.descs {
		if _, dup := r.byName[d.Name]; !dup {
			r.byName[d.Name] = d
		}
	}
	for _, fn := range opts {
		fn(r)
	}
	return r
}

// MustNew builds and validates a registry, panicking on a bad descriptor set
func MustNew(descs []Descriptor, opts ...Option) *Registry {
	r := NewRegistry(descs, opts...)
	if err := r.Validate(); err != nil {
		panic(err)
	}
	return r
}

// Validate checks names, handlers and parameter bounds
func (r *Registry) Validate() error {
	seen := make(map[string]struct{}, len(r.descs))
	for i, d := range r.descs {
		switch {
		case d.Name == "":
			return perr.WithField(perr.Validationf("tool %d has an empty name", i), "name")
		case !snakeCase.MatchString(d.Name):
			return perr.WithField(perr.Validationf("tool %q is not snake_case", d.Name), "name")
		case d.Handler == nil:
			return perr.WithField(perr.Validationf("tool %q has no handler", d.Name), "handler")
		}
		if _, dup := seen[d.Name]; dup {
			return perr.WithField(perr.Validationf("tool %q is registered twice", d.Name), "name")
		}
		seen[d.Name] = struct{}{}

		params := make(map[string]struct{}, len(d.Params))
		for _, p := range d.Params {
			field := d.Name + "." + p.Name
			if !snakeCase.MatchString(p.Name) {
				return perr.WithField(perr.Validationf("tool %q param %q is not snake_case", d.Name, p.Name), field)
			}
			if _, dup := params[p.Name]; dup {
				return perr.WithField(perr.Validationf("tool %q declares param %q twice", d.Name, p.Name), field)
			}
			params[p.Name] = struct{}{}
			if p.Min > p.Max {
				return perr.WithField(perr.Validationf("tool %q param %q has min %d above max %d", d.Name, p.Name, p.Min, p.Max), field)
			}
			if !p.Required && (p.Default < p.Min || p.Default > p.Max) {
				return perr.WithField(perr.Validationf("tool %q param %q default %d outside [%d,%d]", d.Name, p.Name, p.Default, p.Min, p.Max), field)
			}
		}
	}
	return nil
}

// List returns descriptors in registration order
func (r *Registry) List() []Descriptor { return append([]Descriptor(nil), r.descs...) }

// Lookup finds a descriptor by name
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Invoke runs the named tool and returns its text
// Unknown names and handler panics become explanatory text
func (r *Registry) Invoke(ctx context.Context, name string, args Args) (out string) {
	d, ok := r.byName[name]
	if !ok {
		r.log.Warn().Str("tool", name).Msg("unknown tool requested")
		return fmt.Sprintf("Unknown tool: %s", name)
	}

	log := r.log.With().Str("tool", name).Str("invocation_id", uuid.NewString()).Logger()
	start := r.now()
	result := "ok"
	defer func() {
		if rec := recover(); rec != nil {
			result = "panic"
			out = fmt.Sprintf("%s: %v", d.failMessage(), rec)
			log.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("tool panicked")
		}
		took := r.now().Sub(start)
		r.metrics.ObserveTool(name, result, took, len(out))
		log.Info().
			Str("result", result).
			Dur("took", took).
			Int("bytes", len(out)).
			Msg("tool finished")
	}()

	log.Info().Interface("args", map[string]any(args)).Msg("tool started")
	return d.Handler(logger.WithContext(ctx, &log), args)
}
