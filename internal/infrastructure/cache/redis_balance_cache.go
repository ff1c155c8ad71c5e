package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultBalanceKeyPrefix = "ledger:balance:"

// RedisBalanceCache stores the balances of each bucket in one Redis hash,
// field = cut-off in unix nanoseconds. The whole hash shares a TTL.
// A separate counter key per bucket holds its generation; invalidation
// deletes the hash and increments the counter in one transaction, and Set
// WATCHes the counter so a write racing an invalidation is dropped.
type RedisBalanceCache struct {
	client     *redis.Client
	ownsClient bool
	keyPrefix  string
	ttl        time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisBalanceCache connects to Redis and verifies the connection
func NewRedisBalanceCache(cfg RedisConfig) (*RedisBalanceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisBalanceCacheWithClient(client, "", cfg.TTL)
	c.ownsClient = true
	return c, nil
}

// NewRedisBalanceCacheWithClient wraps an existing client. The caller keeps
// ownership of the client.
func NewRedisBalanceCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisBalanceCache {
	if keyPrefix == "" {
		keyPrefix = defaultBalanceKeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultBalanceTTL
	}
	return &RedisBalanceCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (c *RedisBalanceCache) key(bucketID uuid.UUID) string {
	return c.keyPrefix + bucketID.String()
}

func (c *RedisBalanceCache) genKey(bucketID uuid.UUID) string {
	return c.keyPrefix + "gen:" + bucketID.String()
}

func field(at time.Time) string {
	return strconv.FormatInt(at.UnixNano(), 10)
}

func (c *RedisBalanceCache) Get(ctx context.Context, bucketID uuid.UUID, at time.Time) (int64, bool, error) {
	balance, err := c.client.HGet(ctx, c.key(bucketID), field(at)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read cached balance: %w", err)
	}
	return balance, true, nil
}

func (c *RedisBalanceCache) Generation(ctx context.Context, bucketID uuid.UUID) (uint64, error) {
	return readGeneration(ctx, c.client, c.genKey(bucketID))
}

func readGeneration(ctx context.Context, r redis.Cmdable, key string) (uint64, error) {
	gen, err := r.Get(ctx, key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance generation: %w", err)
	}
	return gen, nil
}

func (c *RedisBalanceCache) Set(ctx context.Context, bucketID uuid.UUID, at time.Time, balance int64, generation uint64) error {
	key, genKey := c.key(bucketID), c.genKey(bucketID)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, genKey)
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, field(at), balance)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, genKey)
	// the generation moved between WATCH and EXEC
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to cache balance: %w", err)
	}
	return nil
}

func (c *RedisBalanceCache) InvalidateBucket(ctx context.Context, bucketID uuid.UUID) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, c.key(bucketID))
	pipe.Incr(ctx, c.genKey(bucketID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate cached balances: %w", err)
	}
	return nil
}

// Ping checks that Redis is reachable
func (c *RedisBalanceCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the client if the cache created it
func (c *RedisBalanceCache) Close() error {
	if !c.ownsClient {
		return nil
	}
	return c.client.Close()
}

var _ BalanceCache = (*RedisBalanceCache)(nil)
