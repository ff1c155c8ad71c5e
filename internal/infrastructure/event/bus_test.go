package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testHandler records every event it receives
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

type panicHandler struct{}

func (panicHandler) Handle(ctx context.Context, event shared.DomainEvent) error { panic("boom") }
func (panicHandler) EventTypes() []string                                       { return nil }

func newTransaction(t *testing.T) *ledger.Transaction {
	t.Helper()
	txn, err := ledger.NewTransaction(ledger.TransactionInput{
		BucketID: uuid.New(),
		Amount:   1500,
		Type:     ledger.TransactionTypeDeposit,
		Status:   ledger.TransactionStatusCompleted,
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return txn
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("transactions:created")
	bus.Subscribe(handler)

	txn := newTransaction(t)
	require.NoError(t, bus.Publish(context.Background(), txn.GetDomainEvents()...))

	handled := handler.getHandled()
	require.Len(t, handled, 1)
	assert.Equal(t, txn.ID, handled[0].AggregateID())
}

func TestInMemoryEventBus_Publish_FiltersByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	archived := newTestHandler()
	all := newTestHandler()
	bus.Subscribe(archived, "transactions:archived")
	bus.Subscribe(all)

	txn := newTransaction(t)
	txn.Archive()
	require.NoError(t, bus.Publish(context.Background(), txn.GetDomainEvents()...))

	assert.Len(t, archived.getHandled(), 1)
	assert.Len(t, all.getHandled(), 2)
}

func TestInMemoryEventBus_Publish_HandlerFailuresAreIsolated(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := newTestHandler()
	failing.err = errors.New("handler failed")
	ok := newTestHandler()

	bus.Subscribe(failing)
	bus.Subscribe(panicHandler{})
	bus.Subscribe(ok)

	err := bus.Publish(context.Background(), newTransaction(t).GetDomainEvents()...)
	require.NoError(t, err)
	assert.Len(t, failing.getHandled(), 1)
	assert.Len(t, ok.getHandled(), 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler()
	bus.Subscribe(handler)
	assert.Equal(t, 1, bus.HandlerCount())

	bus.Unsubscribe(handler)
	assert.Equal(t, 0, bus.HandlerCount())

	require.NoError(t, bus.Publish(context.Background(), newTransaction(t).GetDomainEvents()...))
	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	assert.False(t, bus.IsRunning())

	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.IsRunning())

	require.NoError(t, bus.Stop(context.Background()))
	assert.False(t, bus.IsRunning())
}

func TestInMemoryEventBus_Ping(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())
	assert.ErrorIs(t, bus.Ping(ctx), ErrBusStopped)

	require.NoError(t, bus.Start(ctx))
	assert.ErrorIs(t, bus.Ping(ctx), ErrNoHandlers)

	bus.Subscribe(newTestHandler())
	assert.NoError(t, bus.Ping(ctx))

	require.NoError(t, bus.Stop(ctx))
	assert.ErrorIs(t, bus.Ping(ctx), ErrBusStopped)
}

func TestSubscribeTyped(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	var created []*ledger.Created[*ledger.Transaction]
	sub := SubscribeTyped(bus, func(ctx context.Context, e *ledger.Created[*ledger.Transaction]) error {
		created = append(created, e)
		return nil
	})

	var archivedIDs []uuid.UUID
	SubscribeTyped(bus, func(ctx context.Context, e *ledger.Archived[*ledger.Transaction]) error {
		archivedIDs = append(archivedIDs, e.RecordID)
		return nil
	}, ledger.EventName(ledger.AggregateTransaction, ledger.ActionArchived))

	txn := newTransaction(t)
	txn.Archive()
	bucket, err := ledger.NewBucket("Checking", "", ledger.BucketTypeDebit)
	require.NoError(t, err)

	events := append(txn.GetDomainEvents(), bucket.GetDomainEvents()...)
	require.NoError(t, bus.Publish(context.Background(), events...))

	require.Len(t, created, 1)
	assert.Same(t, txn, created[0].Record)
	assert.Equal(t, []uuid.UUID{txn.ID}, archivedIDs)

	sub.Close()
	sub.Close()
	require.NoError(t, bus.Publish(context.Background(), newTransaction(t).GetDomainEvents()...))
	assert.Len(t, created, 1)
}
