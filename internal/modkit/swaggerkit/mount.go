package swaggerkit

import (
	"net/http"

	phttp "hnagent/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount the Swagger UI and JSON spec under /api/docs if enabled
func Mount(r phttp.Router, enabled bool, info Info, mutators ...SpecMutator) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(info, mutators))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/api/docs/doc.json"),
	))
}

// MutatorsOf collects the Document hooks of values implementing Documenter
func MutatorsOf[T any](items ...T) []SpecMutator {
	var out []SpecMutator
	for _, it := range items {
		if d, ok := any(it).(Documenter); ok {
			out = append(out, d.Document)
		}
	}
	return out
}
