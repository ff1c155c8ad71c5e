package ledger

import (
	"time"

	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BalanceCorrection is a manually recorded adjustment tied to a bucket and a
// date. Corrections accumulate: each one adds its Balance to every balance
// computed at or after Date.
type BalanceCorrection struct {
	shared.BaseAggregateRoot
	BucketID uuid.UUID `json:"bucket_id"`
	Date     time.Time `json:"date"`
	Balance  int64     `json:"balance"`
}

// NewBalanceCorrection creates a correction for bucketID
func NewBalanceCorrection(bucketID uuid.UUID, date time.Time, balance int64) (*BalanceCorrection, error) {
	if err := validateCorrection(bucketID, date); err != nil {
		return nil, err
	}
	c := &BalanceCorrection{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BucketID:          bucketID,
		Date:              date,
		Balance:           balance,
	}
	c.AddDomainEvent(NewCreated(c))
	return c, nil
}

// Update replaces bucket, date and balance
func (c *BalanceCorrection) Update(bucketID uuid.UUID, date time.Time, balance int64) error {
	if err := validateCorrection(bucketID, date); err != nil {
		return err
	}
	previous := c.BucketID
	c.BucketID = bucketID
	c.Date = date
	c.Balance = balance
	c.Touch()
	c.AddDomainEvent(NewUpdated(c, previous))
	return nil
}

// MarkDeleted records the Deleted event; the repository removes the row.
func (c *BalanceCorrection) MarkDeleted() {
	c.AddDomainEvent(NewDeleted(c))
}

func (c *BalanceCorrection) AggregateName() string {
	return AggregateCorrection
}

func (c *BalanceCorrection) BucketRefs() []uuid.UUID {
	return []uuid.UUID{c.BucketID}
}

func validateCorrection(bucketID uuid.UUID, date time.Time) error {
	if bucketID == uuid.Nil {
		return shared.NewDomainError("INVALID_BUCKET", "Balance correction must belong to a bucket")
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Balance correction date is required")
	}
	return nil
}
