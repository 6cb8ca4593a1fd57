// Package cache memoizes per-MSISDN results between requests.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Defaults applied when Options leaves a field zero
const (
	DefaultTTL        = 300 * time.Second
	DefaultSweepEvery = 10
)

// Options configures a TTL cache
type Options struct {
	TTL        time.Duration
	SweepEvery int // operations between opportunistic sweeps
	Clock      clockwork.Clock
}

func (o *Options) setDefaults() {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.SweepEvery <= 0 {
		o.SweepEvery = DefaultSweepEvery
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
}

type entry[V any] struct {
	value    V
	inserted time.Time
}

// TTL is a map whose entries are valid for a fixed time after insertion.
// Expired entries are dropped when read and by a sweep that runs every
// SweepEvery operations.
type TTL[K comparable, V any] struct {
	name string
	opts Options

	mu      sync.Mutex
	entries map[K]entry[V]
	ops     int
}

// NewTTL creates a named TTL cache
func NewTTL[K comparable, V any](name string, opts Options) *TTL[K, V] {
	opts.setDefaults()
	return &TTL[K, V]{
		name:    name,
		opts:    opts,
		entries: make(map[K]entry[V]),
	}
}

// Name returns the metrics label of the cache
func (c *TTL[K, V]) Name() string {
	return c.name
}

func (c *TTL[K, V]) valid(e entry[V], now time.Time) bool {
	return now.Sub(e.inserted) < c.opts.TTL
}

// tick counts an operation and sweeps when due. Caller holds mu.
func (c *TTL[K, V]) tick(now time.Time) {
	c.ops++
	if c.ops%c.opts.SweepEvery == 0 {
		c.sweepLocked(now)
	}
}

// Get returns the value stored under key if it has not expired
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Clock.Now()
	c.tick(now)

	e, ok := c.entries[key]
	if ok && !c.valid(e, now) {
		delete(c.entries, key)
		cacheEvictionsTotal.WithLabelValues(c.name).Inc()
		ok = false
	}
	if !ok {
		cacheMissesTotal.WithLabelValues(c.name).Inc()
		var zero V
		return zero, false
	}
	cacheHitsTotal.WithLabelValues(c.name).Inc()
	return e.value, true
}

// Set stores value under key, stamped with the current time
func (c *TTL[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Clock.Now()
	c.entries[key] = entry[V]{value: value, inserted: now}
	c.tick(now)
}

// Delete removes key
func (c *TTL[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of stored entries, expired ones included
func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep removes every expired entry and returns how many were removed
func (c *TTL[K, V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(c.opts.Clock.Now())
}

func (c *TTL[K, V]) sweepLocked(now time.Time) int {
	removed := 0
	for k, e := range c.entries {
		if !c.valid(e, now) {
			delete(c.entries, k)
			removed++
		}
	}
	if removed > 0 {
		cacheEvictionsTotal.WithLabelValues(c.name).Add(float64(removed))
	}
	return removed
}

// GetOrLoad returns the cached value for key or stores the result of load.
// Errors are returned as is and nothing is cached.
func (c *TTL[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}
