package http_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hnagent/internal/platform/config"
	phttp "hnagent/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestRouterRoutesGroupsAndParams(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())

	var order []string
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			order = append(order, "root")
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/stories", func(sr phttp.Router) {
		sr.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			_, _ = io.WriteString(w, "story "+phttp.URLParam(req, "id"))
		})
		sr.Group(func(g phttp.Router) {
			g.Post("/echo", func(w http.ResponseWriter, req *http.Request) {
				b, _ := io.ReadAll(req.Body)
				_, _ = w.Write(b)
			})
		})
	})
	r.Handle("/raw", http.NotFoundHandler())

	tests := []struct {
		method, path, body string
		status             int
		want               string
	}{
		{"GET", "/stories/42", "", 200, "story 42"},
		{"POST", "/stories/echo", "hi", 200, "hi"},
		{"POST", "/stories/42", "", 405, ""},
		{"GET", "/raw", "", 404, ""},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
		if rec.Code != tc.status {
			t.Fatalf("%s %s status got %d want %d", tc.method, tc.path, rec.Code, tc.status)
		}
		if tc.want != "" && rec.Body.String() != tc.want {
			t.Fatalf("%s %s body got %q", tc.method, tc.path, rec.Body.String())
		}
	}
	if len(order) != len(tests) {
		t.Fatalf("root middleware ran %d times", len(order))
	}
}

func TestServerOptionsFromConfig(t *testing.T) {
	t.Setenv("API_PORT", "8081")
	t.Setenv("API_WRITE_TIMEOUT", "5s")

	o := phttp.ServerOptionsFromConfig(config.New())
	if o.Addr != ":8081" || o.WriteTimeout != 5*time.Second || o.ReadHeaderTimeout != 10*time.Second {
		t.Fatalf("got %+v", o)
	}
}

func TestServerServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := phttp.NewServer(phttp.ServerOptions{Addr: ln.Addr().String(), ShutdownGrace: time.Second}, nil)
	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(b) != "pong" {
		t.Fatalf("body got %q", b)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not stop")
	}
}

func TestMountProfiler(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	phttp.MountProfiler(r, "/debug", true)
	phttp.MountProfiler(r, "/off", false)

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest("GET", "/debug/pprof/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("pprof index status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest("GET", "/off/pprof/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("disabled profiler should 404, got %d", rec.Code)
	}
}
