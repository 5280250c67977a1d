// Package http provides http transport for the story catalog
package http

import (
	stdhttp "net/http"
	"strconv"

	"hnagent/internal/modkit/httpkit"
	"hnagent/internal/modkit/swaggerkit"
	perr "hnagent/internal/platform/errors"
	"hnagent/internal/services/catalog/domain"
)

// Register mounts catalog endpoints on the given router
func Register(r httpkit.Router, svc domain.ServicePort) {
	h := &handlers{svc: svc}

	httpkit.GetQuery(r, "/top", h.top)
	httpkit.GetQuery(r, "/{id}/comments", h.comments)
}

type handlers struct{ svc domain.ServicePort }

// @Summary Top stories
// @Tags Stories
// @Produce json
// @Param count query int false "How many stories (1-10, default 5)"
// @Success 200 {array} domain.Story "ok"
// @Router /stories/top [get]
func (h *handlers) top(r *stdhttp.Request, in domain.TopStoriesQuery) (any, error) {
	n := in.Count
	if n == 0 {
		n = domain.DefaultStories
	}
	return h.svc.TopStories(r.Context(), n), nil
}

// @Summary Comments of a story
// @Tags Stories
// @Produce json
// @Param id path int true "Story ID"
// @Param max query int false "How many comments (1-20, default 5)"
// @Success 200 {array} domain.Comment "ok"
// @Router /stories/{id}/comments [get]
func (h *handlers) comments(r *stdhttp.Request, in domain.CommentsQuery) (any, error) {
	raw := httpkit.Param(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return nil, perr.WithField(perr.Validationf("id must be a positive integer, got %q", raw), "id")
	}
	n := in.Max
	if n == 0 {
		n = domain.DefaultComments
	}
	return h.svc.Comments(r.Context(), id, n), nil
}

// Document describes the catalog routes mounted under prefix
func Document(prefix string) swaggerkit.SpecMutator {
	return func(spec map[string]any) {
		swaggerkit.AddOperation(spec, prefix+"/top", "GET", map[string]any{
			"summary": "Top stories",
			"tags":    []any{"Stories"},
			"parameters": []any{
				swaggerkit.QueryParam("count", "How many stories (default 5)", 1, 10),
			},
			"responses": map[string]any{
				"200": swaggerkit.JSONResponse("Ranked stories; unavailable items are omitted", []any{
					domain.Story{ID: 42415051, Title: "Show HN: a thing", Score: 120, Author: "pg", ChildCount: 31},
				}),
			},
		})
		swaggerkit.AddOperation(spec, prefix+"/{id}/comments", "GET", map[string]any{
			"summary": "Top level comments of a story",
			"tags":    []any{"Stories"},
			"parameters": []any{
				swaggerkit.PathParam("id", "Numeric story id", "integer"),
				swaggerkit.QueryParam("max", "How many comments (default 5)", 1, 20),
			},
			"responses": map[string]any{
				"200": swaggerkit.JSONResponse("Comments in thread order", []any{
					domain.Comment{ID: 42415100, Text: "<p>Nice work", Author: "dang"},
				}),
			},
		})
	}
}
