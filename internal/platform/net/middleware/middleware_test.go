package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hnagent/internal/platform/logger"
	"hnagent/internal/platform/metrics"
	"hnagent/internal/platform/net/middleware"
	"hnagent/internal/platform/testkit"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func jsonLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{Level: "debug", Format: "json", Writer: buf})
}

func TestRequestLoggerAndAccessLog(t *testing.T) {
	var buf bytes.Buffer
	m := metrics.New(nil)

	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.C(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}),
		middleware.RequestID(),
		middleware.RequestLogger(jsonLogger(&buf)),
		middleware.AccessLog(middleware.AccessLogOptions{Metrics: m}),
	)

	req := httptest.NewRequest("GET", "/stories/top", nil)
	req.Header.Set("X-Request-Id", "rid-77")
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 log lines, got %d: %s", len(lines), buf.String())
	}
	var inner, access map[string]any
	_ = json.Unmarshal([]byte(lines[0]), &inner)
	_ = json.Unmarshal([]byte(lines[1]), &access)

	if inner["request_id"] != "rid-77" || inner["component"] != "http" {
		t.Fatalf("handler log missing request fields: %v", inner)
	}
	if access["message"] != "request done" || access["status"] != float64(418) || access["bytes"] != float64(15) {
		t.Fatalf("bad access line: %v", access)
	}
	if access["path"] != "/stories/top" || access["request_id"] != "rid-77" {
		t.Fatalf("bad access line: %v", access)
	}
	got, err := testutil.GatherAndCount(m.Registry(), "hnagent_http_requests_total")
	if err != nil || got != 1 {
		t.Fatalf("want one http series, got %d (%v)", got, err)
	}
}

func TestAccessLogSlowIsWarn(t *testing.T) {
	var buf bytes.Buffer
	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		time.Sleep(5 * time.Millisecond)
	}),
		middleware.RequestLogger(jsonLogger(&buf)),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: time.Millisecond}),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("slow request should log warn: %s", buf.String())
	}
}

func TestRecoverJSON(t *testing.T) {
	var buf bytes.Buffer
	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}),
		middleware.RequestLogger(jsonLogger(&buf)),
		middleware.RecoverJSON,
	)

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(testkit.WithRequestID(req.Context(), "rid-p"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") != "rid-p" {
		t.Fatalf("request id header not mirrored")
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if body["request_id"] != "rid-p" || body["error"] != "panic recovered" {
		t.Fatalf("bad body: %v", body)
	}
	if !strings.Contains(buf.String(), "kaboom") || !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("panic not logged: %s", buf.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	h := chain(http.NotFoundHandler(), middleware.CORS(middleware.CORSOptions{}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tools", nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin got %q", got)
	}
}

func TestHeartbeat(t *testing.T) {
	h := chain(http.NotFoundHandler(), middleware.Heartbeat("/health"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("heartbeat status %d", rec.Code)
	}
}
