package ledger

import (
	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Action is the lifecycle transition an event reports
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionArchived Action = "archived"
	ActionRestored Action = "restored"
	ActionDeleted  Action = "deleted"
)

// Record is implemented by every ledger aggregate that emits events.
type Record interface {
	GetID() uuid.UUID
	AggregateName() string
	// BucketRefs lists the buckets whose balance depends on this record.
	BucketRefs() []uuid.UUID
}

// Event is the closed set of ledger events. Only the types in this file implement it.
type Event interface {
	shared.DomainEvent
	Action() Action
	AffectedBuckets() []uuid.UUID
	ledgerEvent()
}

// EventName builds the wire name of an event, e.g. "transactions:created".
func EventName(aggregate string, action Action) string {
	return aggregate + ":" + string(action)
}

type envelope struct {
	shared.BaseDomainEvent
	Buckets []uuid.UUID `json:"bucket_ids,omitempty"`
}

func newEnvelope(rec Record, action Action, extraBuckets ...uuid.UUID) envelope {
	return envelope{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventName(rec.AggregateName(), action), rec.AggregateName(), rec.GetID()),
		Buckets:         mergeBuckets(rec.BucketRefs(), extraBuckets),
	}
}

// AffectedBuckets returns the buckets whose derived balance may have changed.
func (e *envelope) AffectedBuckets() []uuid.UUID {
	return e.Buckets
}

func (e *envelope) ledgerEvent() {}

// Created carries the full record that was created.
type Created[T Record] struct {
	envelope
	Record T `json:"record"`
}

func (e *Created[T]) Action() Action { return ActionCreated }

// NewCreated builds a Created event for rec.
func NewCreated[T Record](rec T) *Created[T] {
	return &Created[T]{envelope: newEnvelope(rec, ActionCreated), Record: rec}
}

// Updated carries the record after the update.
type Updated[T Record] struct {
	envelope
	Record T `json:"record"`
}

func (e *Updated[T]) Action() Action { return ActionUpdated }

// NewUpdated builds an Updated event. previousBuckets are the buckets the
// record referenced before the update; they are reported as affected too.
func NewUpdated[T Record](rec T, previousBuckets ...uuid.UUID) *Updated[T] {
	return &Updated[T]{envelope: newEnvelope(rec, ActionUpdated, previousBuckets...), Record: rec}
}

// Archived reports that the record with RecordID was soft-deleted.
type Archived[T Record] struct {
	envelope
	RecordID uuid.UUID `json:"record_id"`
}

func (e *Archived[T]) Action() Action { return ActionArchived }

func NewArchived[T Record](rec T) *Archived[T] {
	return &Archived[T]{envelope: newEnvelope(rec, ActionArchived), RecordID: rec.GetID()}
}

// Restored reports that the record with RecordID was brought back from the archive.
type Restored[T Record] struct {
	envelope
	RecordID uuid.UUID `json:"record_id"`
}

func (e *Restored[T]) Action() Action { return ActionRestored }

func NewRestored[T Record](rec T) *Restored[T] {
	return &Restored[T]{envelope: newEnvelope(rec, ActionRestored), RecordID: rec.GetID()}
}

// Deleted reports a hard delete. Only balance corrections are hard-deleted.
type Deleted[T Record] struct {
	envelope
	RecordID uuid.UUID `json:"record_id"`
}

func (e *Deleted[T]) Action() Action { return ActionDeleted }

func NewDeleted[T Record](rec T) *Deleted[T] {
	return &Deleted[T]{envelope: newEnvelope(rec, ActionDeleted), RecordID: rec.GetID()}
}

func mergeBuckets(primary, extra []uuid.UUID) []uuid.UUID {
	if len(primary) == 0 && len(extra) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(primary)+len(extra))
	out := make([]uuid.UUID, 0, len(primary)+len(extra))
	for _, id := range append(append([]uuid.UUID{}, primary...), extra...) {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Compile-time checks that each variant belongs to the closed set
var (
	_ Event = (*Created[*Transaction])(nil)
	_ Event = (*Updated[*Transaction])(nil)
	_ Event = (*Archived[*Transaction])(nil)
	_ Event = (*Restored[*Transaction])(nil)
	_ Event = (*Deleted[*BalanceCorrection])(nil)
)
