package ledger

import (
	"time"

	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Miles is an entry in the mileage log. It does not affect any bucket balance.
type Miles struct {
	shared.BaseAggregateRoot
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
	Archived bool            `json:"archived"`
}

// NewMiles creates a mileage entry
func NewMiles(amount decimal.Decimal, date time.Time) (*Miles, error) {
	if err := validateMiles(amount, date); err != nil {
		return nil, err
	}
	m := &Miles{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Amount:            amount.Round(2),
		Date:              date,
	}
	m.AddDomainEvent(NewCreated(m))
	return m, nil
}

func (m *Miles) Update(amount decimal.Decimal, date time.Time) error {
	if err := validateMiles(amount, date); err != nil {
		return err
	}
	m.Amount = amount.Round(2)
	m.Date = date
	m.Touch()
	m.AddDomainEvent(NewUpdated(m))
	return nil
}

func (m *Miles) Archive() {
	if m.Archived {
		return
	}
	m.Archived = true
	m.Touch()
	m.AddDomainEvent(NewArchived(m))
}

func (m *Miles) Restore() {
	if !m.Archived {
		return
	}
	m.Archived = false
	m.Touch()
	m.AddDomainEvent(NewRestored(m))
}

func (m *Miles) AggregateName() string {
	return AggregateMiles
}

// BucketRefs is empty: miles are not tied to a bucket.
func (m *Miles) BucketRefs() []uuid.UUID {
	return nil
}

func validateMiles(amount decimal.Decimal, date time.Time) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Miles cannot be negative")
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Miles date is required")
	}
	return nil
}
