// Package api provides the HTTP API for the application
package api

import (
	"hnagent/internal/core/version"
	"hnagent/internal/modkit"
	"hnagent/internal/modkit/httpkit"
	"hnagent/internal/modkit/module"
	"hnagent/internal/modkit/swaggerkit"
	"hnagent/internal/platform/config"
	phttp "hnagent/internal/platform/net/http"
	"hnagent/internal/platform/net/middleware"
	"hnagent/internal/services/tools"

	metamod "hnagent/internal/services/api/meta/module"
	catalogmod "hnagent/internal/services/catalog/module"
	toolsmod "hnagent/internal/services/tools/module"
)

// Options are the API options
type Options struct {
	Deps           modkit.Deps
	Catalog        catalogmod.Options
	Tools          tools.Options
	EnableSwagger  bool
	EnableProfiler bool
	CORSOrigins    []string
}

// OptionsFromConfig reads the API_ toggles plus each module's own options
func OptionsFromConfig(cfg config.Conf, deps modkit.Deps) Options {
	c := cfg.Prefix("API_")
	return Options{
		Deps:           deps,
		Catalog:        catalogmod.FromConfig(cfg),
		Tools:          tools.FromConfig(cfg),
		EnableSwagger:  c.MayBool("SWAGGER", true),
		EnableProfiler: c.MayBool("PROFILER", false),
		CORSOrigins:    c.MayCSV("CORS_ORIGINS", nil),
	}
}

// Mount mounts the API service onto the given router and returns the mounted modules
// r must be fresh: root middleware is installed before any route
func Mount(r phttp.Router, opt Options) []modkit.Module {
	deps := opt.Deps

	r.Use(middleware.Heartbeat("/health"))

	catalog := catalogmod.New(deps, opt.Catalog)
	toolsMod := toolsmod.New(
		deps,
		opt.Tools,
		modkit.WithPorts(toolsmod.Ports{
			Catalog: catalog.Catalog(),
		}),
	)

	mods := []modkit.Module{
		metamod.New(deps),
		catalog,
		toolsMod,
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Log:         deps.Log,
		Metrics:     deps.Metrics,
		CORSOrigins: opt.CORSOrigins,
	})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}
	bi := version.Info()
	swaggerkit.Mount(r, opt.EnableSwagger, swaggerkit.Info{
		Title:       bi.Service,
		Version:     bi.Version,
		Description: "Hacker News stories, comments and the agent tools built on them",
	}, swaggerkit.MutatorsOf(mods...)...)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	deps.Logger("api").Info().
		Int("modules", len(mods)).
		Bool("swagger", opt.EnableSwagger).
		Bool("profiler", opt.EnableProfiler).
		Msg("api mounted")
	return mods
}
