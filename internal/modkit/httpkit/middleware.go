package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"hnagent/internal/platform/logger"
	"hnagent/internal/platform/metrics"
	"hnagent/internal/platform/net/middleware"
)

// StackOptions feeds CommonStack
type StackOptions struct {
	Log         *logger.Logger
	Metrics     *metrics.Metrics
	CORSOrigins []string
	Timeout     time.Duration // default 30s
	Slow        time.Duration // access log warn threshold, default 2s
}

// CommonStack returns the baseline middleware slice for the versioned API
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Slow <= 0 {
		o.Slow = 2 * time.Second
	}
	return []func(http.Handler) http.Handler{
		// correlation
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RequestLogger(o.Log),

		// observability
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.Slow, Metrics: o.Metrics}),

		// safety
		middleware.RecoverJSON,

		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
