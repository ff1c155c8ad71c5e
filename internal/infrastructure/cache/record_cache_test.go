package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// bucketStore is a map-backed loader that counts its calls
type bucketStore struct {
	buckets  map[uuid.UUID]*ledger.Bucket
	oneCalls atomic.Int32
	allCalls atomic.Int32
	err      error
}

func newBucketStore(buckets ...*ledger.Bucket) *bucketStore {
	s := &bucketStore{buckets: make(map[uuid.UUID]*ledger.Bucket)}
	for _, b := range buckets {
		s.buckets[b.ID] = b
	}
	return s
}

func (s *bucketStore) loader() RecordLoader[*ledger.Bucket] {
	return RecordLoader[*ledger.Bucket]{
		One: func(ctx context.Context, id uuid.UUID) (*ledger.Bucket, error) {
			s.oneCalls.Add(1)
			if s.err != nil {
				return nil, s.err
			}
			b, ok := s.buckets[id]
			if !ok {
				return nil, ledger.ErrBucketNotFound
			}
			return b, nil
		},
		All: func(ctx context.Context) ([]*ledger.Bucket, error) {
			s.allCalls.Add(1)
			if s.err != nil {
				return nil, s.err
			}
			out := make([]*ledger.Bucket, 0, len(s.buckets))
			for _, b := range s.buckets {
				out = append(out, b)
			}
			return out, nil
		},
	}
}

func newBucket(t *testing.T, name string) *ledger.Bucket {
	t.Helper()
	b, err := ledger.NewBucket(name, "", ledger.BucketTypeDebit)
	require.NoError(t, err)
	return b
}

func TestRecordCache_Get(t *testing.T) {
	ctx := context.Background()
	checking := newBucket(t, "Checking")
	store := newBucketStore(checking)
	c := NewRecordCache(ledger.AggregateBucket, store.loader(), nil, zap.NewNop())

	got, err := c.Get(ctx, checking.ID)
	require.NoError(t, err)
	assert.Same(t, checking, got)

	_, err = c.Get(ctx, checking.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), store.oneCalls.Load(), "second read is served from memory")

	_, err = c.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ledger.ErrBucketNotFound)
}

func TestRecordCache_GetAll(t *testing.T) {
	ctx := context.Background()
	store := newBucketStore(newBucket(t, "Checking"), newBucket(t, "Savings"))
	c := NewRecordCache(ledger.AggregateBucket, store.loader(), nil, zap.NewNop())

	all, err := c.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = c.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), store.allCalls.Load())

	t.Run("invalidate forces a reload", func(t *testing.T) {
		c.Invalidate(all[0].ID)
		assert.Equal(t, 1, c.Len())

		_, err := c.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int32(2), store.allCalls.Load())
	})

	t.Run("loader errors are returned", func(t *testing.T) {
		c.InvalidateAll()
		store.err = errors.New("db down")
		_, err := c.GetAll(ctx)
		assert.EqualError(t, err, "db down")
		store.err = nil
	})
}

func TestRecordCache_FollowsBusEvents(t *testing.T) {
	ctx := context.Background()
	bus := event.NewInMemoryEventBus(zap.NewNop())
	store := newBucketStore()
	c := NewRecordCache(ledger.AggregateBucket, store.loader(), bus, zap.NewNop())
	defer c.Close()

	b := newBucket(t, "Checking")
	require.NoError(t, bus.Publish(ctx, b.GetDomainEvents()...))
	b.ClearDomainEvents()

	got, err := c.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Same(t, b, got)
	assert.Zero(t, store.oneCalls.Load(), "created record came from the event")

	renamed := *b
	require.NoError(t, renamed.Update("Main", "", ledger.BucketTypeDebit))
	require.NoError(t, bus.Publish(ctx, renamed.GetDomainEvents()...))

	got, err = c.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main", got.Name)

	renamed.ClearDomainEvents()
	renamed.Archive()
	require.NoError(t, bus.Publish(ctx, renamed.GetDomainEvents()...))
	assert.Zero(t, c.Len())

	t.Run("events of other aggregates are ignored", func(t *testing.T) {
		txn, err := ledger.NewTransaction(ledger.TransactionInput{
			BucketID: b.ID,
			Amount:   1,
			Type:     ledger.TransactionTypeDeposit,
			Status:   ledger.TransactionStatusCompleted,
			Date:     ledger.Epoch,
		})
		require.NoError(t, err)
		require.NoError(t, bus.Publish(ctx, txn.GetDomainEvents()...))
		assert.Zero(t, c.Len())
	})
}

func TestRecordCache_Close(t *testing.T) {
	bus := event.NewInMemoryEventBus(zap.NewNop())
	c := NewRecordCache(ledger.AggregateBucket, newBucketStore().loader(), bus, zap.NewNop())
	assert.Equal(t, 5, bus.HandlerCount())

	require.NoError(t, c.Close())
	assert.Equal(t, 0, bus.HandlerCount())

	_, err := c.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCacheClosed)
	_, err = c.GetAll(context.Background())
	assert.ErrorIs(t, err, ErrCacheClosed)
}

func TestRecordCache_LoadRacingAnUpdate(t *testing.T) {
	ctx := context.Background()
	checking := newBucket(t, "Checking")
	archived := *checking
	archived.Archived = true

	t.Run("Get keeps the record an event delivered during the load", func(t *testing.T) {
		var c *RecordCache[*ledger.Bucket]
		var loads atomic.Int32
		c = NewRecordCache(ledger.AggregateBucket, RecordLoader[*ledger.Bucket]{
			One: func(ctx context.Context, id uuid.UUID) (*ledger.Bucket, error) {
				loads.Add(1)
				// the store read happened, then the archive committed
				c.Upsert(&archived)
				return checking, nil
			},
		}, nil, zap.NewNop())

		got, err := c.Get(ctx, checking.ID)
		require.NoError(t, err)
		assert.True(t, got.Archived)

		got, err = c.Get(ctx, checking.ID)
		require.NoError(t, err)
		assert.True(t, got.Archived)
		assert.Equal(t, int32(1), loads.Load())
	})

	t.Run("Get does not cache a load that raced an invalidation", func(t *testing.T) {
		var c *RecordCache[*ledger.Bucket]
		var loads atomic.Int32
		c = NewRecordCache(ledger.AggregateBucket, RecordLoader[*ledger.Bucket]{
			One: func(ctx context.Context, id uuid.UUID) (*ledger.Bucket, error) {
				if loads.Add(1) == 1 {
					c.Invalidate(id)
					return checking, nil
				}
				return &archived, nil
			},
		}, nil, zap.NewNop())

		got, err := c.Get(ctx, checking.ID)
		require.NoError(t, err)
		assert.False(t, got.Archived)
		assert.Zero(t, c.Len())

		got, err = c.Get(ctx, checking.ID)
		require.NoError(t, err)
		assert.True(t, got.Archived)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("GetAll does not replace records upserted during the load", func(t *testing.T) {
		var c *RecordCache[*ledger.Bucket]
		var loads atomic.Int32
		c = NewRecordCache(ledger.AggregateBucket, RecordLoader[*ledger.Bucket]{
			All: func(ctx context.Context) ([]*ledger.Bucket, error) {
				if loads.Add(1) == 1 {
					c.Upsert(&archived)
					return []*ledger.Bucket{checking}, nil
				}
				return []*ledger.Bucket{&archived}, nil
			},
		}, nil, zap.NewNop())

		all, err := c.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)

		got, err := c.Get(ctx, checking.ID)
		require.NoError(t, err)
		assert.True(t, got.Archived, "the upserted record survived the stale load")

		all, err = c.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.True(t, all[0].Archived)
		assert.Equal(t, int32(2), loads.Load(), "the stale set was not marked complete")
	})
}
