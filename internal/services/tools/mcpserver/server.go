// Package mcpserver serves the tool registry over the Model Context Protocol
package mcpserver

import (
	"context"
	"io"
	stdlog "log"

	"hnagent/internal/platform/logger"
	"hnagent/internal/services/tools"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const instructions = "Use fetch_top_stories to list what is trending on Hacker News, " +
	"then pass a Story ID from its output to extract_comment_insights."

// Options names the server during the MCP handshake
type Options struct {
	Name    string
	Version string
}

// New registers every descriptor in reg on a fresh MCP server
func New(reg *tools.Registry, o Options) *server.MCPServer {
	if reg == nil {
		panic("mcpserver.New requires a non nil Registry")
	}
	if o.Name == "" {
		o.Name = "hnagent"
	}
	if o.Version == "" {
		o.Version = "dev"
	}

	s := server.NewMCPServer(
		o.Name,
		o.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	for _, d := range reg.List() {
		s.AddTool(ToolFor(d), handlerFor(reg, d.Name))
	}
	return s
}

// ToolFor translates a descriptor into an MCP tool schema
func ToolFor(d tools.Descriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(d.Description)}
	for _, p := range d.Params {
		popts := []mcp.PropertyOption{
			mcp.Description(p.Description),
			mcp.Min(float64(p.Min)),
			mcp.Max(float64(p.Max)),
		}
		if p.Required {
			popts = append(popts, mcp.Required())
		} else {
			popts = append(popts, mcp.DefaultNumber(float64(p.Default)))
		}
		opts = append(opts, mcp.WithNumber(p.Name, popts...))
	}
	return mcp.NewTool(d.Name, opts...)
}

// handlerFor adapts Registry.Invoke; tools answer with text even on failure
func handlerFor(reg *tools.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(reg.Invoke(ctx, name, tools.Args(req.GetArguments()))), nil
	}
}

// Serve speaks MCP over in and out until ctx is canceled or in closes
// Protocol frames own out, so diagnostics go to the injected logger only
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer, log *logger.Logger) error {
	log = logger.Named(log, "mcp")
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(stdlog.New(log, "", 0))

	log.Info().Msg("mcp stdio server listening")
	err := stdio.Listen(ctx, in, out)
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("mcp stdio server stopped")
		return err
	}
	log.Info().Msg("mcp stdio server stopped")
	return nil
}
