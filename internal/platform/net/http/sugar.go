package http

import (
	"net/http"

	"hnagent/internal/platform/net/http/bind"
)

// GetJSON mounts a bodiless JSON handler for GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, JSONHandlerNoBody(h))
}

// GetQuery mounts a GET handler whose query string binds into T
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Get(path, QueryHandler(h))
}

// PostJSON mounts a POST handler whose body binds into T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...bind.JSONOptions) {
	r.Post(path, JSONHandler(h, opts...))
}
