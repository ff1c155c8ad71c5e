package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BalanceCache stores computed balances keyed by bucket and cut-off instant.
// A miss is reported as ok == false with a nil error.
//
// Each bucket carries a generation that InvalidateBucket advances. A reader
// takes the generation before querying the stores and passes it to Set, which
// discards the balance if the bucket was invalidated in between.
type BalanceCache interface {
	Get(ctx context.Context, bucketID uuid.UUID, at time.Time) (balance int64, ok bool, err error)
	Generation(ctx context.Context, bucketID uuid.UUID) (uint64, error)
	Set(ctx context.Context, bucketID uuid.UUID, at time.Time, balance int64, generation uint64) error
	// InvalidateBucket drops every cached balance of the bucket.
	InvalidateBucket(ctx context.Context, bucketID uuid.UUID) error
	Close() error
}

// NoopBalanceCache never stores anything
type NoopBalanceCache struct{}

func (NoopBalanceCache) Get(context.Context, uuid.UUID, time.Time) (int64, bool, error) {
	return 0, false, nil
}
func (NoopBalanceCache) Generation(context.Context, uuid.UUID) (uint64, error) { return 0, nil }
func (NoopBalanceCache) Set(context.Context, uuid.UUID, time.Time, int64, uint64) error {
	return nil
}
func (NoopBalanceCache) InvalidateBucket(context.Context, uuid.UUID) error { return nil }
func (NoopBalanceCache) Close() error                                      { return nil }

var _ BalanceCache = NoopBalanceCache{}
