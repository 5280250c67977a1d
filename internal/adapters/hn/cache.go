package hn

import (
	"time"

	"hnagent/internal/platform/metrics"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultCacheTTL  = 5 * time.Minute
	defaultCacheSize = 1024
)

// CacheOptions configures the optional raw item cache
type CacheOptions struct {
	Enabled bool
	TTL     time.Duration
	Size    int
}

// ItemCache holds successfully decoded items for a short TTL
// Failures are never stored so a missing or flaky id is always re-fetched
type ItemCache struct {
	lru     *expirable.LRU[int64, Item]
	metrics *metrics.Metrics
}

// NewItemCache builds a bounded, expiring cache
func NewItemCache(o CacheOptions, m *metrics.Metrics) *ItemCache {
	if o.TTL <= 0 {
		o.TTL = defaultCacheTTL
	}
	if o.Size <= 0 {
		o.Size = defaultCacheSize
	}
	return &ItemCache{
		lru:     expirable.NewLRU[int64, Item](o.Size, nil, o.TTL),
		metrics: m,
	}
}

// Get returns a cached item and records the lookup
func (c *ItemCache) Get(id int64) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	it, ok := c.lru.Get(id)
	c.metrics.ObserveCache(ok)
	return it, ok
}

// Put stores an item
func (c *ItemCache) Put(it Item) {
	if c == nil {
		return
	}
	c.lru.Add(it.ID, it)
}

// Len reports the number of live entries
func (c *ItemCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
