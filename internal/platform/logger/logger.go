// Package logger provides a zerolog wrapper with opinionated defaults and
// request-scoped logging support. Loggers are built once in main and injected
// into components; there is no process-wide root
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"hnagent/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the logger
type Options struct {
	Level        string
	Format       string
	Service      string
	Component    string
	Writer       io.Writer
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string
}

// FromEnv builds Options using the logging-free raw config view (no cycles)
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(rc.Get("LEVEL", "info")),
		Format:      rc.GetEnum("FORMAT", "console", "console", "json"),
		Service:     rc.Get("SERVICE", ""),
		Component:   rc.Get("COMPONENT", ""),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
	}
}

// Logger is the project-wide logging type - today it's just a zerolog.Logger, but it can be swapped later
type Logger = zerolog.Logger

var globalsOnce sync.Once

// setGlobals applies the zerolog package settings shared by every instance
func setGlobals() {
	globalsOnce.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
	})
}

// New builds a logger from opt. Callers own the returned instance and pass it down
func New(opt Options) *Logger {
	setGlobals()

	lvl := parseLevel(opt.Level)

	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: opt.Writer != nil}
	}

	ctx := zerolog.New(w).Level(lvl).With().Timestamp()

	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		ctx = ctx.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}
	if opt.Component != "" {
		ctx = ctx.Str("component", opt.Component)
	}
	for k, v := range opt.StaticFields {
		ctx = ctx.Str(k, v)
	}

	log := ctx.Logger()
	if opt.WithCaller {
		log = log.With().Caller().Logger()
	}
	if opt.SampleEvery > 1 {
		log = log.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return &log
}

// Nop returns a disabled logger, handy as a default and in tests
func Nop() *Logger {
	l := zerolog.Nop()
	return &l
}

// OrNop returns l, or a disabled logger when l is nil
func OrNop(l *Logger) *Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// parseLevel supports string-only levels
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// Named returns a child of l with a component field
func Named(l *Logger, component string) *Logger {
	l = OrNop(l)
	if component == "" {
		return l
	}
	ll := l.With().Str("component", component).Logger()
	return &ll
}

// WithContext stores l on ctx so C can find it downstream
func WithContext(ctx context.Context, l *Logger) context.Context {
	return OrNop(l).WithContext(ctx)
}

// WithRequest stores a child of l annotated with the request id on ctx
func WithRequest(ctx context.Context, l *Logger, reqID string) context.Context {
	l = OrNop(l)
	if reqID == "" {
		return l.WithContext(ctx)
	}
	ll := l.With().Str("request_id", reqID).Logger()
	return ll.WithContext(ctx)
}

// C returns the logger stored on ctx, or a disabled logger when none was attached
func C(ctx context.Context) *Logger {
	return zerolog.Ctx(ctx)
}
