package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"hnagent/internal/adapters/hn"
	"hnagent/internal/core/version"
	"hnagent/internal/modkit"
	"hnagent/internal/platform/config"
	"hnagent/internal/platform/logger"
	"hnagent/internal/platform/metrics"
	"hnagent/internal/services/tools"
	"hnagent/internal/services/tools/mcpserver"

	catalogmod "hnagent/internal/services/catalog/module"
)

func main() {
	var (
		fName    = flag.String("name", "", "server name announced during the handshake (MCP_NAME)")
		fBaseURL = flag.String("hn-base-url", "", "Hacker News API base URL (HN_BASE_URL)")
	)
	flag.Parse()
	if *fBaseURL != "" {
		_ = os.Setenv("HN_BASE_URL", *fBaseURL)
	}

	// stdout carries protocol frames; logs go to stderr
	lo := logger.FromEnv()
	lo.Writer = os.Stderr
	if lo.Component == "" {
		lo.Component = "mcp"
	}
	l := logger.New(lo)

	root := config.New().WithLogger(l)
	mcpCfg := root.Prefix("MCP_")
	m := metrics.New(nil)

	deps := modkit.Deps{
		Log:     l,
		Cfg:     root,
		Metrics: m,
		HN:      hn.NewClient(hn.FromConfig(root), hn.WithLogger(l), hn.WithMetrics(m)),
	}
	catalog := catalogmod.New(deps, catalogmod.FromConfig(root))

	toolOpts := tools.FromConfig(root)
	reg := tools.MustNew(
		tools.Descriptors(catalog.Catalog(), toolOpts),
		tools.WithLogger(l),
		tools.WithMetrics(m),
	)

	name := *fName
	if name == "" {
		name = mcpCfg.MayString("NAME", "hnagent")
	}
	s := mcpserver.New(reg, mcpserver.Options{
		Name:    name,
		Version: mcpCfg.MayString("VERSION", version.Info().Version),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpserver.Serve(ctx, s, os.Stdin, os.Stdout, l); err != nil {
		l.Fatal().Err(err).Msg("mcp server stopped")
	}
}
