package hn

import "hnagent/internal/platform/config"

// FromConfig reads client options with the HN_ prefix; unset keys keep the package defaults
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("HN_")
	return Options{
		BaseURL:     c.MayURL("BASE_URL", baseURLDefault),
		UserAgent:   c.MayString("USER_AGENT", defaultUA),
		Timeout:     c.MayDuration("TIMEOUT", defaultTimeout),
		MaxAttempts: c.MayInt("MAX_ATTEMPTS", defaultMaxAttempts),
		RetryDelay:  c.MayDuration("RETRY_DELAY", defaultRetryDelay),
		RatePerSec:  c.MayFloat64("RATE_PER_SEC", 0),
		Burst:       c.MayInt("RATE_BURST", defaultBurst),
		Cache: CacheOptions{
			Enabled: c.MayBool("CACHE_ENABLED", false),
			TTL:     c.MayDuration("CACHE_TTL", defaultCacheTTL),
			Size:    c.MayInt("CACHE_SIZE", defaultCacheSize),
		},
	}
}
