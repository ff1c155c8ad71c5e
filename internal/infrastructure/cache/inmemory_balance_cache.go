package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultBalanceTTL      = 10 * time.Minute
	defaultCleanupInterval = 30 * time.Second
)

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e *cacheEntry[T]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryBalanceCache keeps balances in process memory. It is used when
// Redis is disabled or unreachable, and in tests.
type InMemoryBalanceCache struct {
	mu       sync.RWMutex
	buckets  map[uuid.UUID]map[int64]*cacheEntry[int64]
	gens     map[uuid.UUID]uint64
	ttl      time.Duration
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once

	hits   int64
	misses int64
}

// InMemoryBalanceCacheOption is a functional option for configuring the cache
type InMemoryBalanceCacheOption func(*InMemoryBalanceCache)

// WithInMemoryTTL sets how long a balance stays cached
func WithInMemoryTTL(ttl time.Duration) InMemoryBalanceCacheOption {
	return func(c *InMemoryBalanceCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryBalanceCacheOption {
	return func(c *InMemoryBalanceCache) {
		c.logger = logger
	}
}

// NewInMemoryBalanceCache creates the cache and starts its cleanup goroutine
func NewInMemoryBalanceCache(opts ...InMemoryBalanceCacheOption) *InMemoryBalanceCache {
	c := &InMemoryBalanceCache{
		buckets: make(map[uuid.UUID]map[int64]*cacheEntry[int64]),
		gens:    make(map[uuid.UUID]uint64),
		ttl:     defaultBalanceTTL,
		logger:  zap.NewNop(),
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupExpired()
	return c
}

func (c *InMemoryBalanceCache) Get(ctx context.Context, bucketID uuid.UUID, at time.Time) (int64, bool, error) {
	c.mu.RLock()
	entry, ok := c.buckets[bucketID][at.UnixNano()]
	c.mu.RUnlock()

	if !ok || entry.isExpired() {
		atomic.AddInt64(&c.misses, 1)
		return 0, false, nil
	}
	atomic.AddInt64(&c.hits, 1)
	return entry.value, true, nil
}

func (c *InMemoryBalanceCache) Generation(ctx context.Context, bucketID uuid.UUID) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[bucketID], nil
}

func (c *InMemoryBalanceCache) Set(ctx context.Context, bucketID uuid.UUID, at time.Time, balance int64, generation uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[bucketID] != generation {
		c.logger.Debug("stale balance discarded", zap.String("bucket_id", bucketID.String()))
		return nil
	}

	entries, ok := c.buckets[bucketID]
	if !ok {
		entries = make(map[int64]*cacheEntry[int64])
		c.buckets[bucketID] = entries
	}
	entries[at.UnixNano()] = &cacheEntry[int64]{value: balance, expiresAt: time.Now().Add(c.ttl)}
	return nil
}

func (c *InMemoryBalanceCache) InvalidateBucket(ctx context.Context, bucketID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.buckets, bucketID)
	c.gens[bucketID]++
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryBalanceCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	return nil
}

// Stats returns hit and miss counters
func (c *InMemoryBalanceCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

func (c *InMemoryBalanceCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *InMemoryBalanceCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for bucketID, entries := range c.buckets {
		for at, entry := range entries {
			if entry.isExpired() {
				delete(entries, at)
				removed++
			}
		}
		if len(entries) == 0 {
			delete(c.buckets, bucketID)
		}
	}
	if removed > 0 {
		c.logger.Debug("expired balances removed", zap.Int("count", removed))
	}
}

var _ BalanceCache = (*InMemoryBalanceCache)(nil)
