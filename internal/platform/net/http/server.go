package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"time"

	"hnagent/internal/platform/config"
	"hnagent/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// ServerOptions holds listener settings
type ServerOptions struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownGrace     time.Duration
}

// ServerOptionsFromConfig reads API_PORT and the API_*_TIMEOUT knobs
func ServerOptionsFromConfig(cfg config.Conf) ServerOptions {
	c := cfg.Prefix("API_")
	return ServerOptions{
		Addr:              c.MayPort("PORT", ":4000"),
		ReadHeaderTimeout: c.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      c.MayDuration("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       c.MayDuration("IDLE_TIMEOUT", 120*time.Second),
		ShutdownGrace:     c.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
	}
}

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	opts ServerOptions
	mux  *chi.Mux
	srv  *stdhttp.Server
	log  *logger.Logger
}

// NewServer builds a server; opts receive the *chi.Mux so callers can mount routes and middleware
func NewServer(o ServerOptions, log *logger.Logger, opts ...func(*chi.Mux)) *Server {
	if o.Addr == "" {
		o.Addr = ":4000"
	}
	if o.ShutdownGrace <= 0 {
		o.ShutdownGrace = 10 * time.Second
	}
	m := chi.NewRouter()
	for _, fn := range opts {
		fn(m)
	}
	return &Server{
		opts: o,
		mux:  m,
		log:  logger.Named(log, "http"),
		srv: &stdhttp.Server{
			Addr:              o.Addr,
			Handler:           m,
			ReadHeaderTimeout: o.ReadHeaderTimeout,
			WriteTimeout:      o.WriteTimeout,
			IdleTimeout:       o.IdleTimeout,
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the configured listening address
func (s *Server) Addr() string { return s.opts.Addr }

// Run listens on the configured address until ctx is canceled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run over an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("http listening")
		errc <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownGrace)
	defer cancel()
	s.log.Info().Dur("grace", s.opts.ShutdownGrace).Msg("http shutting down")
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
