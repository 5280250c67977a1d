// Package config handles application configuration via environment variables
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	perr "hnagent/internal/platform/errors"
	"hnagent/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g., "HN_", "API_")
// Use New() for global access, or Prefix("HN_") for module scopes.
// Invalid values are reported through the attached logger (WithLogger)
type Conf struct {
	prefix string
	log    *logger.Logger
}

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// WithLogger returns a copy of c that reports fallbacks and failures through l
func (c Conf) WithLogger(l *logger.Logger) Conf { return Conf{prefix: c.prefix, log: l} }

// Prefix creates a child Conf with an additional prefix, e.g. cfg.Prefix("API_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p, log: c.log} }

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) logger() *logger.Logger { return logger.OrNop(c.log) }

// lookup returns the trimmed env value for key
func (c Conf) lookup(key string) string { return strings.TrimSpace(os.Getenv(c.key(key))) }

// fail logs and panics with an invalid argument error
func (c Conf) fail(key, value, msg string) {
	k := c.key(key)
	c.logger().Error().Str("key", k).Str("value", value).Msg(msg)
	panic(perr.InvalidArgf("config %s: %s", k, msg))
}

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		c.fail(key, v, "missing required env")
	}
	return v
}

// MustInt panics if the given key is missing, empty, or not an int
func (c Conf) MustInt(key string) int {
	s := c.MustString(key)
	v, err := strconv.Atoi(s)
	if err != nil {
		c.fail(key, s, "invalid int value")
	}
	return v
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	v := c.lookup(key)
	if v == "" {
		return def
	}
	return v
}

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	c.logger().Warn().Str("key", c.key(key)).Str("value", s).Int("default", def).Msg("invalid int; using default")
	return def
}

// MayFloat64 returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayFloat64(key string, def float64) float64 {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	c.logger().Warn().Str("key", c.key(key)).Str("value", s).Float64("default", def).
		Msg("invalid float64; using default")
	return def
}

// MayBool returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayBool(key string, def bool) bool {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	c.logger().Warn().Str("key", c.key(key)).Str("value", s).Bool("default", def).Msg("invalid bool; using default")
	return def
}

// MayDuration returns the value or def if missing/empty; logs and returns def if invalid.
// Bare integers are read as seconds so CACHE_TTL=300 works
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	c.logger().Warn().Str("key", c.key(key)).Str("value", s).Dur("default", def).Msg("invalid duration; using default")
	return def
}

// MayURL returns the value when it is an absolute URL; logs and returns def otherwise.
// A trailing slash is trimmed so callers can append paths
func (c Conf) MayURL(key, def string) string {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		c.logger().Warn().Str("key", c.key(key)).Str("value", s).Str("default", def).Msg("invalid absolute URL; using default")
		return def
	}
	return strings.TrimRight(s, "/")
}

// MayPort returns a Go net/http addr like ":4000". Accepts "4000" or ":4000"; panics when out of range
func (c Conf) MayPort(key, def string) string {
	s := strings.TrimPrefix(c.MayString(key, def), ":")
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		c.fail(key, s, "invalid TCP port; expected 1..65535")
	}
	return fmt.Sprintf(":%d", p)
}

// MayCSV returns a slice of strings from a comma-separated env var; def if missing/empty
func (c Conf) MayCSV(key string, def []string) []string {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
