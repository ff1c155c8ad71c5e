package event

import (
	"context"

	"github.com/bucketledger/backend/internal/domain/shared"
)

// TypedHandler adapts a function over a concrete event type E to
// shared.EventHandler. Events of any other type are ignored.
type TypedHandler[E shared.DomainEvent] struct {
	fn         func(ctx context.Context, event E) error
	eventTypes []string
}

// NewTypedHandler wraps fn. eventTypes narrows the subscription; leave it
// empty to receive every event and filter on E alone.
func NewTypedHandler[E shared.DomainEvent](fn func(ctx context.Context, event E) error, eventTypes ...string) *TypedHandler[E] {
	return &TypedHandler[E]{fn: fn, eventTypes: eventTypes}
}

// Handle implements shared.EventHandler
func (h *TypedHandler[E]) Handle(ctx context.Context, event shared.DomainEvent) error {
	typed, ok := event.(E)
	if !ok {
		return nil
	}
	return h.fn(ctx, typed)
}

// EventTypes implements shared.EventHandler
func (h *TypedHandler[E]) EventTypes() []string {
	return h.eventTypes
}

// Subscription is a handle returned by SubscribeTyped
type Subscription struct {
	subscriber shared.EventSubscriber
	handler    shared.EventHandler
}

// Close removes the handler from the bus. It is safe to call more than once.
func (s *Subscription) Close() {
	if s == nil || s.handler == nil {
		return
	}
	s.subscriber.Unsubscribe(s.handler)
	s.handler = nil
}

// SubscribeTyped registers fn for events whose dynamic type is E.
func SubscribeTyped[E shared.DomainEvent](bus shared.EventSubscriber, fn func(ctx context.Context, event E) error, eventTypes ...string) *Subscription {
	h := NewTypedHandler(fn, eventTypes...)
	bus.Subscribe(h, eventTypes...)
	return &Subscription{subscriber: bus, handler: h}
}
