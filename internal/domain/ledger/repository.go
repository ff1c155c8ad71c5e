package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransactionStore is the read side the balance engine needs from transactions.
// Results include archived rows; callers filter them.
type TransactionStore interface {
	FindByBucketBetween(ctx context.Context, bucketID uuid.UUID, from, to time.Time) ([]Transaction, error)
}

// CorrectionStore is the read side the balance engine needs from corrections.
type CorrectionStore interface {
	FindByBucketBetween(ctx context.Context, bucketID uuid.UUID, from, to time.Time) ([]BalanceCorrection, error)
}

// SubscriptionStore is the read side the balance engine needs from subscriptions.
type SubscriptionStore interface {
	FindByBucket(ctx context.Context, bucketID uuid.UUID) ([]Subscription, error)
}

// BucketRepository persists buckets
type BucketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Bucket, error)
	FindAll(ctx context.Context, archived bool) ([]Bucket, error)
	Save(ctx context.Context, bucket *Bucket) error
}

// TransactionRepository persists transactions
type TransactionRepository interface {
	TransactionStore
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Save(ctx context.Context, tx *Transaction) error
	// SaveAll stores every transaction or none of them.
	SaveAll(ctx context.Context, txs ...*Transaction) error
}

// BalanceCorrectionRepository persists corrections
type BalanceCorrectionRepository interface {
	CorrectionStore
	FindByID(ctx context.Context, id uuid.UUID) (*BalanceCorrection, error)
	FindAll(ctx context.Context) ([]BalanceCorrection, error)
	FindByBucket(ctx context.Context, bucketID uuid.UUID) ([]BalanceCorrection, error)
	Save(ctx context.Context, correction *BalanceCorrection) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriptionRepository persists subscriptions
type SubscriptionRepository interface {
	SubscriptionStore
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	FindAll(ctx context.Context, archived bool) ([]Subscription, error)
	Save(ctx context.Context, sub *Subscription) error
}

// MilesRepository persists mileage entries
type MilesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Miles, error)
	FindAll(ctx context.Context, archived bool) ([]Miles, error)
	Save(ctx context.Context, miles *Miles) error
}

// CategoryRepository persists categories and their subtypes
type CategoryRepository interface {
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAllCategories(ctx context.Context) ([]Category, error)
	SaveCategory(ctx context.Context, category *Category) error
	FindSubtypeByID(ctx context.Context, id uuid.UUID) (*Subtype, error)
	FindAllSubtypes(ctx context.Context) ([]Subtype, error)
	SaveSubtype(ctx context.Context, subtype *Subtype) error
}
