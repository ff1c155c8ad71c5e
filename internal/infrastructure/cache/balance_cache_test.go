package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/bucketledger/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestInMemoryBalanceCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryBalanceCache()
	defer c.Close()

	bucketID := uuid.New()

	_, ok, err := c.Get(ctx, bucketID, jan1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, bucketID, jan1, 8500, 0))
	balance, ok, err := c.Get(ctx, bucketID, jan1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(8500), balance)

	_, ok, _ = c.Get(ctx, bucketID, jan1.Add(time.Nanosecond))
	assert.False(t, ok, "cut-offs are matched exactly")

	require.NoError(t, c.InvalidateBucket(ctx, bucketID))
	_, ok, _ = c.Get(ctx, bucketID, jan1)
	assert.False(t, ok)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(3), misses)
}

func TestInMemoryBalanceCache_Generation(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryBalanceCache()
	defer c.Close()

	bucketID, other := uuid.New(), uuid.New()

	gen, err := c.Generation(ctx, bucketID)
	require.NoError(t, err)
	assert.Zero(t, gen)

	// a write lands while a reader is still computing under gen
	require.NoError(t, c.InvalidateBucket(ctx, bucketID))
	require.NoError(t, c.Set(ctx, bucketID, jan1, 100, gen))
	_, ok, _ := c.Get(ctx, bucketID, jan1)
	assert.False(t, ok, "a balance computed before the invalidation is dropped")

	gen, err = c.Generation(ctx, bucketID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), gen)
	require.NoError(t, c.Set(ctx, bucketID, jan1, 150, gen))
	balance, ok, _ := c.Get(ctx, bucketID, jan1)
	assert.True(t, ok)
	assert.Equal(t, int64(150), balance)

	otherGen, _ := c.Generation(ctx, other)
	assert.Zero(t, otherGen, "generations are per bucket")
}

func TestInMemoryBalanceCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryBalanceCache(WithInMemoryTTL(time.Millisecond))
	defer c.Close()

	bucketID := uuid.New()
	require.NoError(t, c.Set(ctx, bucketID, jan1, 1, 0))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := c.Get(ctx, bucketID, jan1)
	require.NoError(t, err)
	assert.False(t, ok)

	c.removeExpired()
	c.mu.RLock()
	assert.Empty(t, c.buckets)
	c.mu.RUnlock()
}

func TestInMemoryBalanceCache_CloseTwice(t *testing.T) {
	c := NewInMemoryBalanceCache()
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

// unreachableRedis returns a client pointed at a port nothing listens on
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisBalanceCache_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	client := unreachableRedis()
	defer client.Close()

	c := NewRedisBalanceCacheWithClient(client, "", 0)
	assert.Equal(t, defaultBalanceTTL, c.ttl)
	assert.Equal(t, "ledger:balance:"+uuid.Nil.String(), c.key(uuid.Nil))
	assert.Equal(t, "ledger:balance:gen:"+uuid.Nil.String(), c.genKey(uuid.Nil))

	_, ok, err := c.Get(ctx, uuid.New(), jan1)
	assert.False(t, ok)
	assert.Error(t, err)
	_, err = c.Generation(ctx, uuid.New())
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, uuid.New(), jan1, 1, 0))
	assert.Error(t, c.InvalidateBucket(ctx, uuid.New()))
	assert.NoError(t, c.Close(), "borrowed clients are not closed")
}

func TestBalanceCacheFactory(t *testing.T) {
	unreachable := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1, BalanceCacheTTL: time.Minute}

	t.Run("disabled Redis yields the in-memory cache", func(t *testing.T) {
		c, err := NewBalanceCacheFactory(config.RedisConfig{}).CreateCache()
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &InMemoryBalanceCache{}, c)
	})

	t.Run("falls back when Redis is unreachable", func(t *testing.T) {
		c, err := NewBalanceCacheFactory(unreachable, WithLogger(zap.NewNop())).CreateCache()
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &InMemoryBalanceCache{}, c)
	})

	t.Run("fails without fallback", func(t *testing.T) {
		_, err := NewBalanceCacheFactory(unreachable, WithInMemoryFallback(false)).CreateCache()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Redis required")
	})
}

type failingBalanceCache struct {
	NoopBalanceCache
	invalidated []uuid.UUID
	err         error
}

func (f *failingBalanceCache) InvalidateBucket(ctx context.Context, bucketID uuid.UUID) error {
	f.invalidated = append(f.invalidated, bucketID)
	return f.err
}

func TestBalanceInvalidator(t *testing.T) {
	ctx := context.Background()
	from, to := uuid.New(), uuid.New()

	txn, err := ledger.NewTransaction(ledger.TransactionInput{
		BucketID: from,
		Amount:   100,
		Type:     ledger.TransactionTypeDeposit,
		Status:   ledger.TransactionStatusCompleted,
		Date:     jan1,
	})
	require.NoError(t, err)
	txn.ClearDomainEvents()
	in := ledger.TransactionInput{BucketID: to, Amount: 100, Type: ledger.TransactionTypeDeposit, Status: ledger.TransactionStatusCompleted, Date: jan1}
	require.NoError(t, txn.Update(in))

	t.Run("invalidates every affected bucket", func(t *testing.T) {
		fake := &failingBalanceCache{}
		h := NewBalanceInvalidator(fake, zap.NewNop())
		require.NoError(t, h.Handle(ctx, txn.GetDomainEvents()[0]))
		assert.ElementsMatch(t, []uuid.UUID{from, to}, fake.invalidated)
		assert.Nil(t, h.EventTypes())
	})

	t.Run("keeps going after a failure and reports it", func(t *testing.T) {
		fake := &failingBalanceCache{err: errors.New("redis down")}
		h := NewBalanceInvalidator(fake, zap.NewNop())
		err := h.Handle(ctx, txn.GetDomainEvents()[0])
		assert.EqualError(t, err, "redis down")
		assert.Len(t, fake.invalidated, 2)
	})

	t.Run("ignores foreign events", func(t *testing.T) {
		fake := &failingBalanceCache{}
		h := NewBalanceInvalidator(fake, zap.NewNop())
		base := shared.NewBaseDomainEvent("other", "other", uuid.New())
		require.NoError(t, h.Handle(ctx, &base))
		assert.Empty(t, fake.invalidated)
	})
}
