package cache

import (
	"sync"
	"time"
)

// node is an entry in the recency ring. The ring's sentinel is the
// LRUCache.root node: root.next is the most recent entry, root.prev the least.
type node[K comparable, V any] struct {
	prev, next *node[K, V]
	key        K
	value      V
	expires    time.Time
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
}

// LRUCache is a size-bounded cache safe for concurrent use. Writing past
// capacity evicts the least recently used entry.
type LRUCache[K comparable, V any] struct {
	mu      sync.Mutex
	max     int
	ttl     time.Duration
	now     func() time.Time
	index   map[K]*node[K, V]
	root    node[K, V]
	onEvict func(K, V)
	stats   Stats
}

type Option func(*settings)

type settings struct {
	ttl time.Duration
	now func() time.Time
}

// WithTTL expires entries d after their last Put. Zero keeps them until
// evicted.
func WithTTL(d time.Duration) Option {
	return func(s *settings) { s.ttl = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// NewLRUCache panics unless capacity is positive.
func NewLRUCache[K comparable, V any](capacity int, opts ...Option) *LRUCache[K, V] {
	if capacity <= 0 {
		panic("cache: LRU capacity must be positive")
	}
	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	c := &LRUCache[K, V]{
		max:   capacity,
		ttl:   s.ttl,
		now:   s.now,
		index: make(map[K]*node[K, V], capacity),
	}
	c.root.next, c.root.prev = &c.root, &c.root
	return c
}

// SetEvictCallback registers fn for every entry that leaves the cache,
// whether evicted, expired, removed or cleared.
func (c *LRUCache[K, V]) SetEvictCallback(fn func(key K, value V)) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Get returns the value for key and marks it most recently used. An
// expired entry is dropped and counts as a miss.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.index[key]
	if n != nil && c.expired(n) {
		c.drop(n)
		n = nil
	}
	if n == nil {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.touch(n)
	c.stats.Hits++
	return n.value, true
}

// Put stores value under key, refreshing its expiry, and returns the value
// it replaced.
func (c *LRUCache[K, V]) Put(key K, value V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if c.ttl > 0 {
		expires = c.now().Add(c.ttl)
	}

	if n := c.index[key]; n != nil {
		old := n.value
		n.value, n.expires = value, expires
		c.touch(n)
		return old, true
	}

	n := &node[K, V]{key: key, value: value, expires: expires}
	c.index[key] = n
	c.link(n)
	if len(c.index) > c.max {
		c.drop(c.root.prev)
		c.stats.Evictions++
	}
	var zero V
	return zero, false
}

// Remove deletes key and returns its value.
func (c *LRUCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.index[key]
	if n == nil {
		var zero V
		return zero, false
	}
	c.drop(n)
	return n.value, true
}

func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

func (c *LRUCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Len = len(c.index)
	return s
}

// Clear empties the cache. Counters are kept.
func (c *LRUCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.root.next != &c.root {
		c.drop(c.root.next)
	}
}

// The helpers below expect c.mu to be held.

func (c *LRUCache[K, V]) expired(n *node[K, V]) bool {
	return !n.expires.IsZero() && !c.now().Before(n.expires)
}

func (c *LRUCache[K, V]) link(n *node[K, V]) {
	n.prev, n.next = &c.root, c.root.next
	c.root.next.prev = n
	c.root.next = n
}

func (c *LRUCache[K, V]) unlink(n *node[K, V]) {
	n.prev.next, n.next.prev = n.next, n.prev
	n.prev, n.next = nil, nil
}

func (c *LRUCache[K, V]) touch(n *node[K, V]) {
	if c.root.next == n {
		return
	}
	c.unlink(n)
	c.link(n)
}

func (c *LRUCache[K, V]) drop(n *node[K, V]) {
	c.unlink(n)
	delete(c.index, n.key)
	if c.onEvict != nil {
		c.onEvict(n.key, n.value)
	}
}
