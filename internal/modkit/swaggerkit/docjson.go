// Package swaggerkit serves an OpenAPI 3 document assembled from module contributions
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"
)

// SpecMutator lets modules add paths or tweak the OpenAPI document before it is served
type SpecMutator func(map[string]any)

// Documenter is implemented by modules that describe their own endpoints
type Documenter interface {
	Document(spec map[string]any)
}

// Info names the document
type Info struct {
	Title       string
	Version     string
	Description string
	BasePath    string // default /api/v1
}

// Spec builds the document: base info, module paths, then shared error responses
func Spec(info Info, mutators ...SpecMutator) map[string]any {
	if info.Title == "" {
		info.Title = "API"
	}
	if info.Version == "" {
		info.Version = "0.0.0"
	}
	if info.BasePath == "" {
		info.BasePath = "/api/v1"
	}
	spec := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       info.Title,
			"version":     info.Version,
			"description": info.Description,
		},
		"paths": map[string]any{},
	}
	for _, m := range mutators {
		if m != nil {
			m(spec)
		}
	}
	ensureServers(spec, info.BasePath)
	ensureErrorResponseDefinition(spec)
	addDefaultError(spec)
	addDefaultBadRequest(spec)
	return spec
}

// serveDocJSON serves the document; it is rebuilt per request so it never drifts from the modules
func serveDocJSON(info Info, mutators []SpecMutator) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(Spec(info, mutators...))
	}
}

// AddOperation registers op under path and method, creating the path node when needed
func AddOperation(spec map[string]any, path, method string, op map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		paths = map[string]any{}
		spec["paths"] = paths
	}
	node, ok := paths[path].(map[string]any)
	if !ok {
		node = map[string]any{}
		paths[path] = node
	}
	node[strings.ToLower(method)] = op
}

// QueryParam describes an optional integer query parameter
func QueryParam(name, desc string, minimum, maximum int) map[string]any {
	return map[string]any{
		"name":        name,
		"in":          "query",
		"description": desc,
		"schema":      map[string]any{"type": "integer", "minimum": minimum, "maximum": maximum},
	}
}

// PathParam describes a required path parameter
func PathParam(name, desc, typ string) map[string]any {
	return map[string]any{
		"name":        name,
		"in":          "path",
		"required":    true,
		"description": desc,
		"schema":      map[string]any{"type": typ},
	}
}

// JSONResponse wraps an example payload in the success envelope
func JSONResponse(desc string, example any) map[string]any {
	return map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"example": map[string]any{
					"status_code": 200,
					"status":      "OK",
					"request_id":  "579f33bf50b1/abc-000001",
					"data":        example,
				},
			},
		},
	}
}

// ensureServers keeps the document OAS 3.0.3 with a servers array; the swagger UI cannot render 3.1
func ensureServers(spec map[string]any, url string) {
	if _, hasSwagger := spec["swagger"]; hasSwagger {
		delete(spec, "swagger")
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{
			map[string]any{"url": url},
		}
	}
}

// ensureErrorResponseDefinition creates a simple error envelope model if missing
// kept minimal so it does not drift from the runtime wire
func ensureErrorResponseDefinition(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

func errorResponse(desc string, example map[string]any) map[string]any {
	return map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
}

// eachOperation visits every operation's responses map, creating it when absent
func eachOperation(spec map[string]any, fn func(responses map[string]any)) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			fn(responses)
		}
	}
}

// addDefaultError injects a 500 response into every operation lacking one
func addDefaultError(spec map[string]any) {
	resp := errorResponse("Internal Server Error", map[string]any{
		"status_code": 500,
		"status":      "Internal Server Error",
		"code":        1,
		"error":       "panic recovered",
		"request_id":  "579f33bf50b1/abc-000001",
	})
	eachOperation(spec, func(responses map[string]any) {
		if _, exists := responses["500"]; !exists {
			responses["500"] = resp
		}
	})
}

// addDefaultBadRequest mirrors the binder's validation output
func addDefaultBadRequest(spec map[string]any) {
	resp := errorResponse("Bad Request", map[string]any{
		"status_code": 400,
		"status":      "Bad Request",
		"code":        6,
		"error":       "count must be at most 10",
		"field":       "count",
		"request_id":  "579f33bf50b1/abc-000001",
	})
	eachOperation(spec, func(responses map[string]any) {
		if _, exists := responses["400"]; !exists {
			responses["400"] = resp
		}
	})
}
