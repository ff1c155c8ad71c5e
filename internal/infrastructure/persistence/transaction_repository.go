package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements ledger.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrTransactionNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBucketBetween returns the bucket's transactions dated in [from, to],
// archived ones included, ordered by date.
func (r *GormTransactionRepository) FindByBucketBetween(ctx context.Context, bucketID uuid.UUID, from, to time.Time) ([]ledger.Transaction, error) {
	var rows []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("bucket_id = ? AND date >= ? AND date <= ?", bucketID, from.UTC(), to.UTC()).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	txs := make([]ledger.Transaction, len(rows))
	for i := range rows {
		txs[i] = *rows[i].ToDomain()
	}
	return txs, nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *ledger.Transaction) error {
	return r.db.WithContext(ctx).Save(models.TransactionModelFromDomain(tx)).Error
}

// SaveAll stores every transaction in a single database transaction
func (r *GormTransactionRepository) SaveAll(ctx context.Context, txs ...*ledger.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		for _, t := range txs {
			if err := db.Save(models.TransactionModelFromDomain(t)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)
