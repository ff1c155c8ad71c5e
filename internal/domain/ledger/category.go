package ledger

import (
	"strings"

	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Category groups subtypes, e.g. "Housing" or "Income". CreatedAt and
// UpdatedAt double as the date created and date modified shown to users.
type Category struct {
	shared.BaseAggregateRoot
	Name string `json:"name"`
}

func NewCategory(name string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	c := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
	}
	c.AddDomainEvent(NewCreated(c))
	return c, nil
}

func (c *Category) Rename(name string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Touch()
	c.AddDomainEvent(NewUpdated(c))
	return nil
}

func (c *Category) AggregateName() string {
	return AggregateCategory
}

func (c *Category) BucketRefs() []uuid.UUID {
	return nil
}

// Subtype is the category attached to transactions and subscriptions. It
// only applies to one direction of money.
type Subtype struct {
	shared.BaseAggregateRoot
	Name       string          `json:"name"`
	CategoryID uuid.UUID       `json:"category_id"`
	Type       TransactionType `json:"type"`
}

func NewSubtype(name string, categoryID uuid.UUID, txType TransactionType) (*Subtype, error) {
	if err := validateSubtype(name, categoryID, txType); err != nil {
		return nil, err
	}
	s := &Subtype{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		CategoryID:        categoryID,
		Type:              txType,
	}
	s.AddDomainEvent(NewCreated(s))
	return s, nil
}

func (s *Subtype) Update(name string, categoryID uuid.UUID, txType TransactionType) error {
	if err := validateSubtype(name, categoryID, txType); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.CategoryID = categoryID
	s.Type = txType
	s.Touch()
	s.AddDomainEvent(NewUpdated(s))
	return nil
}

func (s *Subtype) AggregateName() string {
	return AggregateSubtype
}

func (s *Subtype) BucketRefs() []uuid.UUID {
	return nil
}

func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}

func validateSubtype(name string, categoryID uuid.UUID, txType TransactionType) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Subtype must belong to a category")
	}
	if !txType.IsValid() {
		return shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Subtype type must be withdrawal or deposit")
	}
	return nil
}
