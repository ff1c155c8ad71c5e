package cache

import (
	"context"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BalanceInvalidator drops cached balances of every bucket a ledger event
// reports as affected. Subscribe it to the bus without event types.
type BalanceInvalidator struct {
	cache  BalanceCache
	logger *zap.Logger
}

// NewBalanceInvalidator creates the handler
func NewBalanceInvalidator(cache BalanceCache, logger *zap.Logger) *BalanceInvalidator {
	return &BalanceInvalidator{cache: cache, logger: logger.Named("balance_invalidator")}
}

// Handle implements shared.EventHandler
func (h *BalanceInvalidator) Handle(ctx context.Context, e shared.DomainEvent) error {
	le, ok := e.(ledger.Event)
	if !ok {
		return nil
	}
	var firstErr error
	for _, bucketID := range le.AffectedBuckets() {
		if err := h.cache.InvalidateBucket(ctx, bucketID); err != nil {
			h.logger.Warn("failed to invalidate cached balance",
				zap.String("bucket_id", bucketID.String()),
				zap.String("event_type", e.EventType()),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// EventTypes returns nil: every event is inspected
func (h *BalanceInvalidator) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*BalanceInvalidator)(nil)
