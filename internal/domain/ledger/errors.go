package ledger

import (
	"fmt"

	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Error codes surfaced by the balance engine
const (
	CodeInvalidRange    = "INVALID_RANGE"
	CodeStoreFailure    = "STORE_FAILURE"
	CodeMalformedRecord = "MALFORMED_RECORD"
)

var (
	// ErrInvalidRange is returned when a window has from after to
	ErrInvalidRange = shared.NewDomainError(CodeInvalidRange, "Range start must not be after range end")
	// ErrSeriesTooLong is returned when a series range spans more than time.Duration can hold
	ErrSeriesTooLong = shared.NewDomainError(CodeInvalidRange, "Series range is too long")
	// ErrStoreFailure matches every StoreFailure via errors.Is
	ErrStoreFailure = shared.NewDomainError(CodeStoreFailure, "Balance unavailable: a store query failed")
	// ErrMalformedRecord matches every MalformedRecordError via errors.Is
	ErrMalformedRecord = shared.NewDomainError(CodeMalformedRecord, "A stored record has a field outside its domain")

	ErrBucketNotFound       = shared.NewDomainError("NOT_FOUND", "Bucket not found")
	ErrTransactionNotFound  = shared.NewDomainError("NOT_FOUND", "Transaction not found")
	ErrCorrectionNotFound   = shared.NewDomainError("NOT_FOUND", "Balance correction not found")
	ErrSubscriptionNotFound = shared.NewDomainError("NOT_FOUND", "Subscription not found")
	ErrMilesNotFound        = shared.NewDomainError("NOT_FOUND", "Miles entry not found")
	ErrCategoryNotFound     = shared.NewDomainError("NOT_FOUND", "Transaction category not found")
	ErrSubtypeNotFound      = shared.NewDomainError("NOT_FOUND", "Transaction subtype not found")
)

// StoreFailure wraps an error returned by one of the balance engine's store queries.
type StoreFailure struct {
	Query string
	Err   error
}

func (e *StoreFailure) Error() string {
	return fmt.Sprintf("store query %q failed: %v", e.Query, e.Err)
}

// Unwrap exposes both the ErrStoreFailure sentinel and the underlying cause.
func (e *StoreFailure) Unwrap() []error {
	return []error{ErrStoreFailure, e.Err}
}

// NewStoreFailure wraps err, or returns nil when err is nil.
func NewStoreFailure(query string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreFailure{Query: query, Err: err}
}

// MalformedRecordError reports a fetched record whose field lies outside its declared domain.
type MalformedRecordError struct {
	Kind     string
	RecordID uuid.UUID
	Field    string
	Value    string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s %s: field %s has invalid value %q", e.Kind, e.RecordID, e.Field, e.Value)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}
