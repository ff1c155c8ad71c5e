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

// GormBalanceCorrectionRepository implements ledger.BalanceCorrectionRepository using GORM
type GormBalanceCorrectionRepository struct {
	db *gorm.DB
}

// NewGormBalanceCorrectionRepository creates a new GormBalanceCorrectionRepository
func NewGormBalanceCorrectionRepository(db *gorm.DB) *GormBalanceCorrectionRepository {
	return &GormBalanceCorrectionRepository{db: db}
}

func (r *GormBalanceCorrectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.BalanceCorrection, error) {
	var model models.BalanceCorrectionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrCorrectionNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormBalanceCorrectionRepository) FindAll(ctx context.Context) ([]ledger.BalanceCorrection, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *GormBalanceCorrectionRepository) FindByBucket(ctx context.Context, bucketID uuid.UUID) ([]ledger.BalanceCorrection, error) {
	return r.find(r.db.WithContext(ctx).Where("bucket_id = ?", bucketID))
}

// FindByBucketBetween returns the bucket's corrections dated in [from, to]
func (r *GormBalanceCorrectionRepository) FindByBucketBetween(ctx context.Context, bucketID uuid.UUID, from, to time.Time) ([]ledger.BalanceCorrection, error) {
	return r.find(r.db.WithContext(ctx).
		Where("bucket_id = ? AND date >= ? AND date <= ?", bucketID, from.UTC(), to.UTC()))
}

func (r *GormBalanceCorrectionRepository) find(query *gorm.DB) ([]ledger.BalanceCorrection, error) {
	var rows []models.BalanceCorrectionModel
	if err := query.Order("date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ledger.BalanceCorrection, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormBalanceCorrectionRepository) Save(ctx context.Context, correction *ledger.BalanceCorrection) error {
	return r.db.WithContext(ctx).Save(models.BalanceCorrectionModelFromDomain(correction)).Error
}

// Delete removes the correction row. A missing row is ErrCorrectionNotFound.
func (r *GormBalanceCorrectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BalanceCorrectionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrCorrectionNotFound
	}
	return nil
}

var _ ledger.BalanceCorrectionRepository = (*GormBalanceCorrectionRepository)(nil)
