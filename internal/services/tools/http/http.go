// Package http exposes the tool registry over the JSON API
package http

import (
	stdhttp "net/http"

	"hnagent/internal/modkit/httpkit"
	"hnagent/internal/modkit/swaggerkit"
	perr "hnagent/internal/platform/errors"
	"hnagent/internal/services/tools"
)

// InvokeResponse is the body of a tool call
type InvokeResponse struct {
	Tool   string `json:"tool" example:"fetch_top_stories"`
	Output string `json:"output" example:"#1\nStory ID: 42415051\n..."`
}

// Register mounts tool endpoints on the given router
func Register(r httpkit.Router, reg *tools.Registry) {
	h := &handlers{reg: reg}

	httpkit.Get(r, "/", h.list)
	httpkit.PostJSON(r, "/{name}", h.invoke, httpkit.JSONOptions{
		MaxBytes:       1 << 16,
		AllowEmptyBody: true,
		UseNumber:      true,
	})
}

type handlers struct{ reg *tools.Registry }

// @Summary List tools
// @Tags Tools
// @Produce json
// @Success 200 {array} tools.Descriptor "ok"
// @Router /tools [get]
func (h *handlers) list(_ *stdhttp.Request) (any, error) {
	return h.reg.List(), nil
}

// @Summary Invoke a tool
// @Tags Tools
// @Accept json
// @Produce json
// @Param name path string true "Tool name"
// @Param args body object false "Tool arguments"
// @Success 200 {object} InvokeResponse "ok"
// @Router /tools/{name} [post]
func (h *handlers) invoke(r *stdhttp.Request, args tools.Args) (any, error) {
	name := httpkit.Param(r, "name")
	if _, ok := h.reg.Lookup(name); !ok {
		return nil, perr.WithField(perr.NotFoundf("Unknown tool: %s", name), "name")
	}
	if args == nil {
		args = tools.Args{}
	}
	return InvokeResponse{Tool: name, Output: h.reg.Invoke(r.Context(), name, args)}, nil
}

// Document describes the tool routes mounted under prefix
func Document(prefix string, reg *tools.Registry) swaggerkit.SpecMutator {
	return func(spec map[string]any) {
		swaggerkit.AddOperation(spec, prefix, "GET", map[string]any{
			"summary":   "List tools with their parameter schemas",
			"tags":      []any{"Tools"},
			"responses": map[string]any{"200": swaggerkit.JSONResponse("Tool descriptors", reg.List())},
		})

		names := make([]any, 0, len(reg.List()))
		for _, d := range reg.List() {
			names = append(names, d.Name)
		}
		param := swaggerkit.PathParam("name", "Tool name", "string")
		param["schema"].(map[string]any)["enum"] = names

		swaggerkit.AddOperation(spec, prefix+"/{name}", "POST", map[string]any{
			"summary":    "Invoke a tool; the output is the same text an MCP client receives",
			"tags":       []any{"Tools"},
			"parameters": []any{param},
			"requestBody": map[string]any{
				"required": false,
				"content": map[string]any{
					"application/json": map[string]any{
						"schema":  map[string]any{"type": "object", "additionalProperties": true},
						"example": map[string]any{"num_stories": 3},
					},
				},
			},
			"responses": map[string]any{
				"200": swaggerkit.JSONResponse("Tool output", InvokeResponse{Tool: tools.FetchTopStories, Output: "#1\nStory ID: 42415051\n"}),
			},
		})
	}
}
