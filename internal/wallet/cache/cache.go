// Package cache provides the bounded, TTL-based resolution cache mapping
// external identities to resolved payout addresses.
package cache

import (
	"container/list"
	"sync"
	"time"
)

const (
	// DefaultCapacity bounds the number of cached resolutions.
	DefaultCapacity = 1000
	// DefaultTTL bounds how long a resolution stays fresh.
	DefaultTTL = 30 * time.Minute
)

// Resolution is a cached lookup outcome. Found=false entries record that the
// identity is known to have no linked wallet, so the external service is not
// hammered for known-absent identities.
type Resolution struct {
	Address string
	Found   bool
}

type entry struct {
	key       string
	value     Resolution
	createdAt time.Time
	ttl       time.Duration
}

// ResolutionCache is a mutex-guarded LRU with per-entry TTL. Expired entries
// are evicted on read; the least-recently-used entry is evicted when an
// insert would exceed capacity.
type ResolutionCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List               // front = most recently used
	items    map[string]*list.Element // key -> element holding *entry
	now      func() time.Time
}

// Option customises the cache instance.
type Option func(*ResolutionCache)

// WithCapacity overrides the entry bound.
func WithCapacity(n int) Option {
	return func(c *ResolutionCache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *ResolutionCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the function used to derive timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *ResolutionCache) { c.now = clock }
}

// New creates a resolution cache with the default capacity and TTL.
func New(opts ...Option) *ResolutionCache {
	c := &ResolutionCache{
		capacity: DefaultCapacity,
		ttl:      DefaultTTL,
		order:    list.New(),
		items:    make(map[string]*list.Element),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached resolution and whether it was present and fresh.
// A hit marks the entry most-recently-used; an expired entry is evicted.
func (c *ResolutionCache) Get(key string) (Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return Resolution{}, false
	}
	ent := elem.Value.(*entry)
	if c.expired(ent) {
		c.remove(elem)
		return Resolution{}, false
	}
	c.order.MoveToFront(elem)
	return ent.value, true
}

// Has reports presence with the same expiry semantics as Get, without
// touching recency.
func (c *ResolutionCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}
	if c.expired(elem.Value.(*entry)) {
		c.remove(elem)
		return false
	}
	return true
}

// Set stores a resolution under the default TTL.
func (c *ResolutionCache) Set(key string, value Resolution) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a resolution with an explicit lifetime. At capacity the
// least-recently-used entry is evicted first; insertion marks the entry
// most-recently-used.
func (c *ResolutionCache) SetWithTTL(key string, value Resolution, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*entry)
		ent.value = value
		ent.createdAt = c.now()
		ent.ttl = ttl
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}

	elem := c.order.PushFront(&entry{
		key:       key,
		value:     value,
		createdAt: c.now(),
		ttl:       ttl,
	})
	c.items[key] = elem
}

// Delete drops an entry if present.
func (c *ResolutionCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
}

// Len reports the number of live entries, counting expired-but-unevicted
// entries until their next read.
func (c *ResolutionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *ResolutionCache) expired(ent *entry) bool {
	return c.now().Sub(ent.createdAt) >= ent.ttl
}

// remove must be called while holding c.mu.
func (c *ResolutionCache) remove(elem *list.Element) {
	ent := elem.Value.(*entry)
	c.order.Remove(elem)
	delete(c.items, ent.key)
}
