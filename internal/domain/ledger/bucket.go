package ledger

import (
	"strings"

	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Bucket is a named financial container. It stores no balance; the balance
// is always derived from its transactions, corrections and subscriptions.
type Bucket struct {
	shared.BaseAggregateRoot
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        BucketType `json:"type"`
	Archived    bool       `json:"archived"`
}

// NewBucket creates an active bucket
func NewBucket(name, description string, bucketType BucketType) (*Bucket, error) {
	if err := validateBucket(name, bucketType); err != nil {
		return nil, err
	}

	b := &Bucket{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       description,
		Type:              bucketType,
	}
	b.AddDomainEvent(NewCreated(b))
	return b, nil
}

// Update replaces the editable fields of the bucket
func (b *Bucket) Update(name, description string, bucketType BucketType) error {
	if err := validateBucket(name, bucketType); err != nil {
		return err
	}
	b.Name = strings.TrimSpace(name)
	b.Description = description
	b.Type = bucketType
	b.Touch()
	b.AddDomainEvent(NewUpdated(b))
	return nil
}

// Archive soft-deletes the bucket. Archiving an archived bucket is a no-op.
func (b *Bucket) Archive() {
	if b.Archived {
		return
	}
	b.Archived = true
	b.Touch()
	b.AddDomainEvent(NewArchived(b))
}

// Restore reverses Archive. Restoring an active bucket is a no-op.
func (b *Bucket) Restore() {
	if !b.Archived {
		return
	}
	b.Archived = false
	b.Touch()
	b.AddDomainEvent(NewRestored(b))
}

func (b *Bucket) AggregateName() string {
	return AggregateBucket
}

func (b *Bucket) BucketRefs() []uuid.UUID {
	return []uuid.UUID{b.ID}
}

func validateBucket(name string, bucketType BucketType) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Bucket name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Bucket name cannot exceed 100 characters")
	}
	if !bucketType.IsValid() {
		return shared.NewDomainError("INVALID_BUCKET_TYPE", "Bucket type must be debit, credit or savings")
	}
	return nil
}
