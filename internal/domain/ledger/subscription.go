package ledger

import (
	"strings"
	"time"

	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Subscription is a recurring obligation attached to a bucket.
type Subscription struct {
	shared.BaseAggregateRoot
	BucketID       uuid.UUID  `json:"bucket_id"`
	Name           string     `json:"name"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	IntervalMillis int64      `json:"interval"`
	Amount         int64      `json:"amount"`
	SubtypeID      *uuid.UUID `json:"subtype_id,omitempty"`
	Description    string     `json:"description"`
	Picture        *string    `json:"picture,omitempty"`
	TaxDeductible  bool       `json:"tax_deductible"`
	Archived       bool       `json:"archived"`
}

// SubscriptionInput holds the editable fields of a subscription
type SubscriptionInput struct {
	BucketID      uuid.UUID
	Name          string
	StartDate     time.Time
	EndDate       *time.Time
	Interval      time.Duration
	Amount        int64
	SubtypeID     *uuid.UUID
	Description   string
	Picture       *string
	TaxDeductible bool
}

func (in SubscriptionInput) validate() error {
	if in.BucketID == uuid.Nil {
		return shared.NewDomainError("INVALID_BUCKET", "Subscription must belong to a bucket")
	}
	if strings.TrimSpace(in.Name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Subscription name cannot be empty")
	}
	if in.StartDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Subscription start date is required")
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return shared.NewDomainError("INVALID_DATE", "Subscription end date cannot be before its start date")
	}
	if in.Interval <= 0 {
		return shared.NewDomainError("INVALID_INTERVAL", "Subscription interval must be positive")
	}
	return nil
}

// NewSubscription creates an active subscription
func NewSubscription(in SubscriptionInput) (*Subscription, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	s := &Subscription{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	s.apply(in)
	s.AddDomainEvent(NewCreated(s))
	return s, nil
}

// Update replaces every editable field
func (s *Subscription) Update(in SubscriptionInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	previous := s.BucketID
	s.apply(in)
	s.Touch()
	s.AddDomainEvent(NewUpdated(s, previous))
	return nil
}

func (s *Subscription) apply(in SubscriptionInput) {
	s.BucketID = in.BucketID
	s.Name = strings.TrimSpace(in.Name)
	s.StartDate = in.StartDate
	s.EndDate = in.EndDate
	s.IntervalMillis = in.Interval.Milliseconds()
	s.Amount = in.Amount
	s.SubtypeID = in.SubtypeID
	s.Description = in.Description
	s.Picture = in.Picture
	s.TaxDeductible = in.TaxDeductible
}

func (s *Subscription) Archive() {
	if s.Archived {
		return
	}
	s.Archived = true
	s.Touch()
	s.AddDomainEvent(NewArchived(s))
}

func (s *Subscription) Restore() {
	if !s.Archived {
		return
	}
	s.Archived = false
	s.Touch()
	s.AddDomainEvent(NewRestored(s))
}

// Interval returns the recurrence period
func (s *Subscription) Interval() time.Duration {
	return time.Duration(s.IntervalMillis) * time.Millisecond
}

// ActiveDuring reports whether the subscription has started by to and has
// not ended before from.
func (s *Subscription) ActiveDuring(from, to time.Time) bool {
	if s.StartDate.After(to) {
		return false
	}
	return s.EndDate == nil || !s.EndDate.Before(from)
}

func (s *Subscription) AggregateName() string {
	return AggregateSubscription
}

func (s *Subscription) BucketRefs() []uuid.UUID {
	return []uuid.UUID{s.BucketID}
}
