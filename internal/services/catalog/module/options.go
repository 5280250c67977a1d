package module

import (
	"hnagent/internal/platform/config"
	"hnagent/internal/services/catalog/resolver"
)

// Options configures the catalog module
type Options struct {
	MaxWorkers int
}

// FromConfig reads HN_MAX_WORKERS
func FromConfig(cfg config.Conf) Options {
	return Options{MaxWorkers: cfg.Prefix("HN_").MayInt("MAX_WORKERS", resolver.DefaultMaxWorkers)}
}
