package event

import (
	"context"
	"testing"

	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

type mockHandler struct {
	eventTypes []string
}

func newMockHandler(eventTypes ...string) *mockHandler {
	return &mockHandler{eventTypes: eventTypes}
}

func (h *mockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	return nil
}

func (h *mockHandler) EventTypes() []string {
	return h.eventTypes
}

func TestHandlerRegistry_Register(t *testing.T) {
	registry := NewHandlerRegistry()
	specific := newMockHandler()
	wildcard := newMockHandler()

	registry.Register(specific, "buckets:created", "buckets:updated")
	registry.Register(wildcard)

	assert.Equal(t, []shared.EventHandler{specific, wildcard}, registry.GetHandlers("buckets:created"))
	assert.Equal(t, []shared.EventHandler{specific, wildcard}, registry.GetHandlers("buckets:updated"))
	assert.Equal(t, []shared.EventHandler{wildcard}, registry.GetHandlers("miles:created"))
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	h1 := newMockHandler()
	h2 := newMockHandler()

	registry.Register(h1, "transactions:created")
	registry.Register(h2, "transactions:created")
	registry.Register(h1)

	registry.Unregister(h1)

	assert.Equal(t, []shared.EventHandler{h2}, registry.GetHandlers("transactions:created"))
	assert.Len(t, registry.GetAllHandlers(), 1)

	registry.Unregister(h2)
	assert.Empty(t, registry.GetHandlers("transactions:created"))
}

func TestHandlerRegistry_GetAllHandlers_NoDuplicates(t *testing.T) {
	registry := NewHandlerRegistry()
	h := newMockHandler()

	registry.Register(h, "a", "b", "c")
	registry.Register(h)

	assert.Len(t, registry.GetAllHandlers(), 1)
}
