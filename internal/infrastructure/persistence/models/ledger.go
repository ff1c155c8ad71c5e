package models

import (
	"time"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BucketModel is the persistence model for ledger.Bucket
type BucketModel struct {
	BaseModel
	Name        string            `gorm:"type:varchar(100);not null"`
	Description string            `gorm:"type:text"`
	Type        ledger.BucketType `gorm:"type:varchar(20);not null"`
	Archived    bool              `gorm:"not null;default:false;index"`
}

func (BucketModel) TableName() string {
	return "buckets"
}

func (m *BucketModel) ToDomain() *ledger.Bucket {
	return &ledger.Bucket{
		BaseAggregateRoot: m.aggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Type:              m.Type,
		Archived:          m.Archived,
	}
}

func (m *BucketModel) FromDomain(b *ledger.Bucket) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.Name = b.Name
	m.Description = b.Description
	m.Type = b.Type
	m.Archived = b.Archived
}

func BucketModelFromDomain(b *ledger.Bucket) *BucketModel {
	m := &BucketModel{}
	m.FromDomain(b)
	return m
}

// TransactionModel is the persistence model for ledger.Transaction.
// Type and status are stored as plain strings; the engine rejects values
// outside their domain when it reads them back.
type TransactionModel struct {
	BaseModel
	BucketID      uuid.UUID                `gorm:"type:uuid;not null;index:idx_transactions_bucket_date,priority:1"`
	Amount        int64                    `gorm:"not null"`
	Type          ledger.TransactionType   `gorm:"type:varchar(20);not null"`
	Status        ledger.TransactionStatus `gorm:"type:varchar(20);not null"`
	Date          time.Time                `gorm:"not null;index:idx_transactions_bucket_date,priority:2"`
	Description   string                   `gorm:"type:varchar(500)"`
	SubtypeID     *uuid.UUID               `gorm:"type:uuid"`
	TaxDeductible bool                     `gorm:"not null;default:false"`
	Archived      bool                     `gorm:"not null;default:false"`
	Picture       *string                  `gorm:"type:text"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

func (m *TransactionModel) ToDomain() *ledger.Transaction {
	return &ledger.Transaction{
		BaseAggregateRoot: m.aggregateRoot(),
		BucketID:          m.BucketID,
		Amount:            m.Amount,
		Type:              m.Type,
		Status:            m.Status,
		Date:              m.Date.UTC(),
		Description:       m.Description,
		SubtypeID:         m.SubtypeID,
		TaxDeductible:     m.TaxDeductible,
		Archived:          m.Archived,
		Picture:           m.Picture,
	}
}

func (m *TransactionModel) FromDomain(t *ledger.Transaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.BucketID = t.BucketID
	m.Amount = t.Amount
	m.Type = t.Type
	m.Status = t.Status
	m.Date = t.Date.UTC()
	m.Description = t.Description
	m.SubtypeID = t.SubtypeID
	m.TaxDeductible = t.TaxDeductible
	m.Archived = t.Archived
	m.Picture = t.Picture
}

func TransactionModelFromDomain(t *ledger.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}

// BalanceCorrectionModel is the persistence model for ledger.BalanceCorrection
type BalanceCorrectionModel struct {
	BaseModel
	BucketID uuid.UUID `gorm:"type:uuid;not null;index:idx_balance_corrections_bucket_date,priority:1"`
	Date     time.Time `gorm:"not null;index:idx_balance_corrections_bucket_date,priority:2"`
	Balance  int64     `gorm:"not null"`
}

func (BalanceCorrectionModel) TableName() string {
	return "balance_corrections"
}

func (m *BalanceCorrectionModel) ToDomain() *ledger.BalanceCorrection {
	return &ledger.BalanceCorrection{
		BaseAggregateRoot: m.aggregateRoot(),
		BucketID:          m.BucketID,
		Date:              m.Date.UTC(),
		Balance:           m.Balance,
	}
}

func (m *BalanceCorrectionModel) FromDomain(c *ledger.BalanceCorrection) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.BucketID = c.BucketID
	m.Date = c.Date.UTC()
	m.Balance = c.Balance
}

func BalanceCorrectionModelFromDomain(c *ledger.BalanceCorrection) *BalanceCorrectionModel {
	m := &BalanceCorrectionModel{}
	m.FromDomain(c)
	return m
}

// SubscriptionModel is the persistence model for ledger.Subscription
type SubscriptionModel struct {
	BaseModel
	BucketID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name           string     `gorm:"type:varchar(100);not null"`
	StartDate      time.Time  `gorm:"not null"`
	EndDate        *time.Time
	IntervalMillis int64      `gorm:"column:interval_ms;not null"`
	Amount         int64      `gorm:"not null"`
	SubtypeID      *uuid.UUID `gorm:"type:uuid"`
	Description    string     `gorm:"type:text"`
	Picture        *string    `gorm:"type:text"`
	TaxDeductible  bool       `gorm:"not null;default:false"`
	Archived       bool       `gorm:"not null;default:false;index"`
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

func (m *SubscriptionModel) ToDomain() *ledger.Subscription {
	s := &ledger.Subscription{
		BaseAggregateRoot: m.aggregateRoot(),
		BucketID:          m.BucketID,
		Name:              m.Name,
		StartDate:         m.StartDate.UTC(),
		IntervalMillis:    m.IntervalMillis,
		Amount:            m.Amount,
		SubtypeID:         m.SubtypeID,
		Description:       m.Description,
		Picture:           m.Picture,
		TaxDeductible:     m.TaxDeductible,
		Archived:          m.Archived,
	}
	if m.EndDate != nil {
		end := m.EndDate.UTC()
		s.EndDate = &end
	}
	return s
}

func (m *SubscriptionModel) FromDomain(s *ledger.Subscription) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.BucketID = s.BucketID
	m.Name = s.Name
	m.StartDate = s.StartDate.UTC()
	m.EndDate = nil
	if s.EndDate != nil {
		end := s.EndDate.UTC()
		m.EndDate = &end
	}
	m.IntervalMillis = s.IntervalMillis
	m.Amount = s.Amount
	m.SubtypeID = s.SubtypeID
	m.Description = s.Description
	m.Picture = s.Picture
	m.TaxDeductible = s.TaxDeductible
	m.Archived = s.Archived
}

func SubscriptionModelFromDomain(s *ledger.Subscription) *SubscriptionModel {
	m := &SubscriptionModel{}
	m.FromDomain(s)
	return m
}

// MilesModel is the persistence model for ledger.Miles
type MilesModel struct {
	BaseModel
	Amount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Date     time.Time       `gorm:"not null;index"`
	Archived bool            `gorm:"not null;default:false;index"`
}

func (MilesModel) TableName() string {
	return "miles"
}

func (m *MilesModel) ToDomain() *ledger.Miles {
	return &ledger.Miles{
		BaseAggregateRoot: m.aggregateRoot(),
		Amount:            m.Amount,
		Date:              m.Date.UTC(),
		Archived:          m.Archived,
	}
}

func (m *MilesModel) FromDomain(mi *ledger.Miles) {
	m.FromDomainBaseEntity(mi.BaseEntity)
	m.Amount = mi.Amount
	m.Date = mi.Date.UTC()
	m.Archived = mi.Archived
}

func MilesModelFromDomain(mi *ledger.Miles) *MilesModel {
	m := &MilesModel{}
	m.FromDomain(mi)
	return m
}

// CategoryModel is the persistence model for ledger.Category
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null"`
}

func (CategoryModel) TableName() string {
	return "transaction_types"
}

func (m *CategoryModel) ToDomain() *ledger.Category {
	return &ledger.Category{BaseAggregateRoot: m.aggregateRoot(), Name: m.Name}
}

func (m *CategoryModel) FromDomain(c *ledger.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
}

func CategoryModelFromDomain(c *ledger.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// SubtypeModel is the persistence model for ledger.Subtype
type SubtypeModel struct {
	BaseModel
	Name       string                 `gorm:"type:varchar(100);not null"`
	CategoryID uuid.UUID              `gorm:"column:type_id;type:uuid;not null;index"`
	Type       ledger.TransactionType `gorm:"column:direction;type:varchar(20);not null"`
}

func (SubtypeModel) TableName() string {
	return "transaction_subtypes"
}

func (m *SubtypeModel) ToDomain() *ledger.Subtype {
	return &ledger.Subtype{
		BaseAggregateRoot: m.aggregateRoot(),
		Name:              m.Name,
		CategoryID:        m.CategoryID,
		Type:              m.Type,
	}
}

func (m *SubtypeModel) FromDomain(s *ledger.Subtype) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Name = s.Name
	m.CategoryID = s.CategoryID
	m.Type = s.Type
}

func SubtypeModelFromDomain(s *ledger.Subtype) *SubtypeModel {
	m := &SubtypeModel{}
	m.FromDomain(s)
	return m
}
