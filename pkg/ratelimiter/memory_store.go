package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// memBucket is the in-memory state of one key.
type memBucket struct {
	tokens  int
	refill  time.Time // start of the current refill interval
	expires time.Time // when an untouched bucket is full again
}

// advance credits every whole interval elapsed since the last refill. The
// interval count is capped first so long idle periods cannot overflow.
func (b *memBucket) advance(now time.Time, cfg Config) {
	n := int64(now.Sub(b.refill) / cfg.RefillInterval)
	if n <= 0 {
		return
	}
	n = min(n, int64(cfg.Capacity/cfg.RefillRate+1))
	b.tokens = min(b.tokens+int(n)*cfg.RefillRate, cfg.Capacity)
	b.refill = b.refill.Add(time.Duration(n) * cfg.RefillInterval)
}

// MemoryStore keeps buckets in process memory, for single-instance
// deployments. RedisStore shares limits between replicas.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*memBucket
	now     func() time.Time

	sweepEvery time.Duration
	done       chan struct{}
	closeOnce  sync.Once
}

type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often expired buckets are swept. Zero turns
// the sweeper off.
func WithCleanupInterval(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) { ms.sweepEvery = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStore starts a store that sweeps every five minutes unless
// configured otherwise. Call Close to stop the sweeper.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:    make(map[string]*memBucket),
		now:        time.Now,
		sweepEvery: 5 * time.Minute,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ms)
	}
	if ms.sweepEvery > 0 {
		go ms.sweep()
	}
	return ms
}

func (ms *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	b := ms.buckets[key]
	if b == nil {
		b = &memBucket{tokens: cfg.Capacity, refill: now}
		ms.buckets[key] = b
	}
	b.advance(now, cfg)
	b.expires = now.Add(cfg.idleTTL())

	left := b.tokens - tokens
	if left >= 0 {
		b.tokens = left
	}
	return left, b.refill.Add(cfg.RefillInterval), nil
}

func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	delete(ms.buckets, key)
	ms.mu.Unlock()
	return nil
}

// Len returns the number of tracked keys.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.buckets)
}

// RemoveStale drops buckets that would be full by now; they are
// indistinguishable from fresh ones.
func (ms *MemoryStore) RemoveStale() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	now := ms.now()
	for key, b := range ms.buckets {
		if now.After(b.expires) {
			delete(ms.buckets, key)
		}
	}
}

// Close stops the sweeper. It may be called more than once.
func (ms *MemoryStore) Close() {
	ms.closeOnce.Do(func() { close(ms.done) })
}

func (ms *MemoryStore) sweep() {
	t := time.NewTicker(ms.sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			ms.RemoveStale()
		case <-ms.done:
			return
		}
	}
}
