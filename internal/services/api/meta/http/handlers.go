// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"hnagent/internal/core/version"
	"hnagent/internal/modkit/httpkit"
	"hnagent/internal/modkit/swaggerkit"
)

// Upstream is the readiness seam; the hn client satisfies it
type Upstream interface {
	TopStoryIDs(stdctx.Context) ([]int64, error)
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName  string
	StartedAt    time.Time
	Upstream     Upstream
	ReadyTimeout time.Duration
	Now          func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 10 * time.Second
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"hnagent"`
	Started string `json:"started"  example:"2026-10-03T13:00:00Z"`
	Now     string `json:"now"      example:"2026-10-03T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name      string `json:"name"   example:"hn"`
	Status    string `json:"status" example:"ok"` // ok fail skipped
	LatencyMS int64  `json:"latency_ms" example:"84"`
	Error     string `json:"error,omitempty" example:"hn /topstories.json failed after 2 attempts"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-03T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"hnagent"`
	Started string `json:"started" example:"2026-10-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// @Summary Readiness probe; fetches the ranked id list upstream through the retrying client
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Failure 503 {object} ReadyResponse "upstream unreachable"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), h.deps.ReadyTimeout)
	defer cancel()

	check := ReadyCheck{Name: "hn", Status: "skipped"}
	if h.deps.Upstream != nil {
		start := h.deps.Now()
		_, err := h.deps.Upstream.TopStoryIDs(ctx)
		check.LatencyMS = h.deps.Now().Sub(start).Milliseconds()
		check.Status = "ok"
		if err != nil {
			check.Status = "fail"
			check.Error = err.Error()
		}
	}

	out := ReadyResponse{
		Status: "ok",
		Checks: []ReadyCheck{check},
		Now:    h.deps.Now().UTC().Format(time.RFC3339),
	}
	switch check.Status {
	case "fail":
		out.Status = "fail"
		return httpkit.Unavailable(out), nil
	case "skipped":
		out.Status = "degraded"
	}
	return out, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.deps.Now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

// Document describes the meta routes mounted under prefix
func Document(prefix string) swaggerkit.SpecMutator {
	now := "2026-10-03T13:05:00Z"
	return func(spec map[string]any) {
		for _, e := range []struct {
			path, summary string
			example       any
		}{
			{"/health", "Health check", HealthResponse{OK: true, Service: "hnagent", Started: now, Now: now}},
			{"/ready", "Readiness probe against the upstream id list", ReadyResponse{Status: "ok", Checks: []ReadyCheck{{Name: "hn", Status: "ok", LatencyMS: 84}}, Now: now}},
			{"/version", "Build and version info", version.Info()},
			{"/service", "Service info and uptime", ServiceResponse{Name: "hnagent", Started: now, Uptime: 300}},
		} {
			swaggerkit.AddOperation(spec, prefix+e.path, "GET", map[string]any{
				"summary":   e.summary,
				"tags":      []any{"Meta"},
				"responses": map[string]any{"200": swaggerkit.JSONResponse("ok", e.example)},
			})
		}
	}
}
