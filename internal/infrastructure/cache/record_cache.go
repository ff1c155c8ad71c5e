package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/bucketledger/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCacheClosed is returned by a RecordCache after Close
var ErrCacheClosed = errors.New("record cache is closed")

// RecordLoader reads records of one aggregate from the backing store
type RecordLoader[T ledger.Record] struct {
	// One loads a single record by ID.
	One func(ctx context.Context, id uuid.UUID) (T, error)
	// All loads the full set the cache mirrors.
	All func(ctx context.Context) ([]T, error)
}

// RecordCache is an in-process mirror of one aggregate's records. It fills
// lazily from its loader and stays current by listening to that aggregate's
// events on the bus: Created and Updated upsert the carried record, Archived,
// Restored and Deleted drop the entry so the next read reloads it.
//
// Every upsert or invalidation advances epoch. A load that started under an
// older epoch may have read the store before that change, so its result is
// returned to the caller but not kept.
type RecordCache[T ledger.Record] struct {
	mu       sync.RWMutex
	records  map[uuid.UUID]T
	complete bool
	closed   bool
	epoch    uint64

	load   RecordLoader[T]
	subs   []*event.Subscription
	logger *zap.Logger
}

// NewRecordCache creates a cache for the aggregate named aggregate and
// subscribes it to bus. Pass a nil bus for a cache fed only through Upsert.
func NewRecordCache[T ledger.Record](aggregate string, load RecordLoader[T], bus shared.EventSubscriber, logger *zap.Logger) *RecordCache[T] {
	c := &RecordCache[T]{
		records: make(map[uuid.UUID]T),
		load:    load,
		logger:  logger.Named("record_cache").With(zap.String("aggregate", aggregate)),
	}
	if bus != nil {
		c.subs = []*event.Subscription{
			event.SubscribeTyped(bus, c.onCreated, ledger.EventName(aggregate, ledger.ActionCreated)),
			event.SubscribeTyped(bus, c.onUpdated, ledger.EventName(aggregate, ledger.ActionUpdated)),
			event.SubscribeTyped(bus, c.onArchived, ledger.EventName(aggregate, ledger.ActionArchived)),
			event.SubscribeTyped(bus, c.onRestored, ledger.EventName(aggregate, ledger.ActionRestored)),
			event.SubscribeTyped(bus, c.onDeleted, ledger.EventName(aggregate, ledger.ActionDeleted)),
		}
	}
	return c
}

// Get returns the record with id, loading it on a miss
func (c *RecordCache[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return zero, ErrCacheClosed
	}
	rec, ok := c.records[id]
	epoch := c.epoch
	c.mu.RUnlock()
	if ok {
		return rec, nil
	}

	rec, err := c.load.One(ctx, id)
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.epoch != epoch {
		if newer, ok := c.records[id]; ok {
			return newer, nil
		}
		return rec, nil
	}
	c.records[id] = rec
	return rec, nil
}

// GetAll returns every record, loading the full set once
func (c *RecordCache[T]) GetAll(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return nil, ErrCacheClosed
	}
	if c.complete {
		out := c.snapshot()
		c.mu.RUnlock()
		return out, nil
	}
	epoch := c.epoch
	c.mu.RUnlock()

	all, err := c.load.All(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrCacheClosed
	}
	if c.epoch != epoch {
		c.logger.Debug("record cache changed during load, result not kept")
		return append([]T(nil), all...), nil
	}
	c.records = make(map[uuid.UUID]T, len(all))
	for _, rec := range all {
		c.records[rec.GetID()] = rec
	}
	c.complete = true
	c.logger.Debug("record cache filled", zap.Int("records", len(all)))
	return append([]T(nil), all...), nil
}

// Upsert stores rec, replacing any entry with the same ID
func (c *RecordCache[T]) Upsert(rec T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.records[rec.GetID()] = rec
	c.epoch++
}

// Invalidate drops the entry for id. The next GetAll reloads the full set.
func (c *RecordCache[T]) Invalidate(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, id)
	c.complete = false
	c.epoch++
}

// InvalidateAll empties the cache
func (c *RecordCache[T]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = make(map[uuid.UUID]T)
	c.complete = false
	c.epoch++
}

// Len returns the number of cached records
func (c *RecordCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Close unsubscribes from the bus and drops every entry
func (c *RecordCache[T]) Close() error {
	for _, sub := range c.subs {
		sub.Close()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.records = nil
	c.complete = false
	return nil
}

// snapshot must be called with c.mu held
func (c *RecordCache[T]) snapshot() []T {
	out := make([]T, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, rec)
	}
	return out
}

func (c *RecordCache[T]) onCreated(_ context.Context, e *ledger.Created[T]) error {
	c.Upsert(e.Record)
	return nil
}

func (c *RecordCache[T]) onUpdated(_ context.Context, e *ledger.Updated[T]) error {
	c.Upsert(e.Record)
	return nil
}

func (c *RecordCache[T]) onArchived(_ context.Context, e *ledger.Archived[T]) error {
	c.Invalidate(e.RecordID)
	return nil
}

func (c *RecordCache[T]) onRestored(_ context.Context, e *ledger.Restored[T]) error {
	c.Invalidate(e.RecordID)
	return nil
}

func (c *RecordCache[T]) onDeleted(_ context.Context, e *ledger.Deleted[T]) error {
	c.Invalidate(e.RecordID)
	return nil
}
