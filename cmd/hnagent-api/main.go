// @title         hnagent API
// @version       0.1.0
// @description   Hacker News stories, comments and agent tools over HTTP

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"hnagent/internal/adapters/hn"
	"hnagent/internal/modkit"
	"hnagent/internal/platform/config"
	"hnagent/internal/platform/logger"
	"hnagent/internal/platform/metrics"
	phttp "hnagent/internal/platform/net/http"

	"hnagent/internal/services/api"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	// flags win over env; they are exported so every FromConfig sees them
	var (
		fPort     = flag.String("port", "", "listen port or :port (API_PORT)")
		fSwagger  = flag.String("swagger", "", "serve /api/docs: true | false (API_SWAGGER)")
		fProfiler = flag.String("profiler", "", "serve /debug/pprof: true | false (API_PROFILER)")
		fBaseURL  = flag.String("hn-base-url", "", "Hacker News API base URL (HN_BASE_URL)")
		fWorkers  = flag.Int("workers", 0, "concurrent item fetches per request (HN_MAX_WORKERS)")
	)
	flag.Parse()

	mustSetEnv("API_PORT", *fPort)
	mustSetEnv("API_SWAGGER", *fSwagger)
	mustSetEnv("API_PROFILER", *fProfiler)
	mustSetEnv("HN_BASE_URL", *fBaseURL)
	if *fWorkers > 0 {
		mustSetEnv("HN_MAX_WORKERS", strconv.Itoa(*fWorkers))
	}

	// bring up logging early
	lo := logger.FromEnv()
	if lo.Component == "" {
		lo.Component = "api"
	}
	l := logger.New(lo)

	root := config.New().WithLogger(l)
	m := metrics.NewWithRuntime()

	client := hn.NewClient(hn.FromConfig(root), hn.WithLogger(l), hn.WithMetrics(m))
	l.Info().
		Str("base_url", client.Options().BaseURL).
		Int("max_attempts", client.Options().MaxAttempts).
		Msg("hn client ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// http server (reads API_PORT and the API_ timeouts)
	srv := phttp.NewServer(phttp.ServerOptionsFromConfig(root), l)

	// mount our API
	api.Mount(srv.Router(), api.OptionsFromConfig(root, modkit.Deps{
		Log:     l,
		Cfg:     root,
		Metrics: m,
		HN:      client,
	}))

	// run until SIGINT or SIGTERM
	if err := srv.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
}
