package ledger

import (
	"context"

	"github.com/bucketledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// publishEvents publishes the pending events of aggregates and clears them.
// The write has already been stored, so a publish failure is logged rather
// than returned.
func publishEvents(ctx context.Context, bus shared.EventPublisher, logger *zap.Logger, aggregates ...shared.AggregateRoot) {
	var events []shared.DomainEvent
	for _, agg := range aggregates {
		events = append(events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
	if bus == nil || len(events) == 0 {
		return
	}
	if err := bus.Publish(ctx, events...); err != nil {
		logger.Error("Failed to publish domain events",
			zap.Int("count", len(events)),
			zap.Error(err))
	}
}
