// Package hn provides a polite, retrying client for the Hacker News Firebase API
package hn

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	perr "hnagent/internal/platform/errors"
	"hnagent/internal/platform/logger"
	"hnagent/internal/platform/metrics"

	"golang.org/x/time/rate"
)

const (
	baseURLDefault     = "https://hacker-news.firebaseio.com/v0"
	defaultTimeout     = 5 * time.Second
	defaultUA          = "HNAgent/1.0"
	defaultMaxAttempts = 2
	defaultRetryDelay  = time.Second
	defaultBurst       = 10
	maxBodyBytes       = 1 << 20
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Retry config: flat delay between attempts, no growth
	MaxAttempts int
	RetryDelay  time.Duration

	// RatePerSec > 0 gates every attempt on a shared token bucket
	RatePerSec float64
	Burst      int

	Cache CacheOptions
}

// Client is the single long lived transport shared by every fetch
type Client struct {
	http    *http.Client
	opts    Options
	log     *logger.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter
	cache   *ItemCache
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
}

// Option customizes a Client at construction
type Option func(*Client)

// WithLogger sets the client logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = logger.Named(l, "hn") }
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient swaps the underlying http.Client (tests, custom transports)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithSleep swaps the retry wait; fn must honor ctx
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options, opts ...Option) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.RetryDelay < 0 {
		o.RetryDelay = 0
	} else if o.RetryDelay == 0 {
		o.RetryDelay = defaultRetryDelay
	}
	if o.Burst <= 0 {
		o.Burst = defaultBurst
	}

	c := &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   logger.Nop(),
		now:   time.Now,
		sleep: sleepCtx,
	}
	for _, fn := range opts {
		fn(c)
	}
	if o.RatePerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(o.RatePerSec), o.Burst)
	}
	if o.Cache.Enabled {
		c.cache = NewItemCache(o.Cache, c.metrics)
	}
	return c
}

// Options returns the effective options after defaults
func (c *Client) Options() Options { return c.opts }

// Get performs exactly one GET against BaseURL+path and returns the body and status
// Transport failures are wrapped with a Timeout or Unavailable code; non-2xx statuses are not errors here
func (c *Client) Get(ctx context.Context, path string) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, perr.Wrapf(err, perr.ErrorCodeTooManyRequests, "hn rate limiter wait failed")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+path, nil)
	if err != nil {
		return nil, 0, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "hn new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, perr.FromTransport(err, "hn do failed")
	}
	defer func() {
		if cerr := drainAndClose(resp.Body); cerr != nil {
			c.log.Debug().Err(cerr).Str("path", path).Msg("hn close body failed")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, perr.FromTransport(err, "hn read body failed")
	}
	return body, resp.StatusCode, nil
}

// FetchJSON GETs path and decodes the accepted body into a T with a bounded retry loop
//
//   - 404 or a JSON null body returns NotFound immediately
//   - transport errors, non-404 statuses, and undecodable bodies are retried after a flat delay
//   - running out of attempts returns Unavailable wrapping the last failure
//
// Every attempt decodes into a zero T, so a rejected body never leaks fields into the result
func FetchJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.fetch(ctx, path, func(body []byte) error {
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// fetch runs the retry loop; decode sees each 2xx non null body and fails the attempt on error
func (c *Client) fetch(ctx context.Context, path string, decode func([]byte) error) error {
	endpoint := endpointOf(path)
	max := c.opts.MaxAttempts

	var last error
	for attempt := 1; attempt <= max; attempt++ {
		if err := ctx.Err(); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "hn fetch %s canceled", path)
		}

		start := c.now()
		body, status, err := c.Get(ctx, path)
		lat := c.now().Sub(start)

		switch {
		case err != nil:
			last = err
			c.metrics.ObserveFetch(endpoint, resultTransport, lat)
			c.log.Warn().
				Err(err).
				Str("path", path).
				Int("attempt", attempt).
				Int("max_attempts", max).
				Bool("timeout", perr.IsTimeout(err)).
				Msg("hn transport error")

		case status == http.StatusNotFound:
			c.metrics.ObserveFetch(endpoint, resultNotFound, lat)
			return perr.NotFoundf("hn %s not found", path)

		case status >= 200 && status < 300:
			if isJSONNull(body) {
				c.metrics.ObserveFetch(endpoint, resultNotFound, lat)
				return perr.NotFoundf("hn %s is null", path)
			}
			if derr := decode(body); derr != nil {
				last = perr.Wrapf(derr, perr.ErrorCodeJSON, "hn decode %s failed", path)
				c.metrics.ObserveFetch(endpoint, resultDecode, lat)
				c.log.Warn().
					Err(derr).
					Str("path", path).
					Int("attempt", attempt).
					Int("max_attempts", max).
					Msg("hn decode error")
				break
			}
			c.metrics.ObserveFetch(endpoint, resultOK, lat)
			c.log.Debug().
				Str("path", path).
				Int("status", status).
				Int("attempt", attempt).
				Dur("latency", lat).
				Msg("hn http response")
			return nil

		default:
			last = perr.FromHTTPStatus(status, "hn %s status %d", path, status)
			c.metrics.ObserveFetch(endpoint, resultHTTP, lat)
			c.log.Warn().
				Str("path", path).
				Int("status", status).
				Bool("transient", perr.IsTransientStatus(status)).
				Int("attempt", attempt).
				Int("max_attempts", max).
				Msg("hn http error")
		}

		if attempt < max {
			if err := c.sleep(ctx, c.opts.RetryDelay); err != nil {
				return perr.Wrapf(err, perr.ErrorCodeUnavailable, "hn retry wait for %s canceled", path)
			}
		}
	}

	c.log.Error().Err(last).Str("path", path).Int("attempts", max).Msg("hn fetch failed after retries")
	return perr.Wrapf(last, perr.ErrorCodeUnavailable, "hn %s failed after %d attempts", path, max)
}

// sleepCtx waits for d or until ctx is done
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
