package persistence

import (
	"context"
	"errors"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBucketRepository implements ledger.BucketRepository using GORM
type GormBucketRepository struct {
	db *gorm.DB
}

// NewGormBucketRepository creates a new GormBucketRepository
func NewGormBucketRepository(db *gorm.DB) *GormBucketRepository {
	return &GormBucketRepository{db: db}
}

// FindByID finds a bucket by its ID
func (r *GormBucketRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Bucket, error) {
	var model models.BucketModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrBucketNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns the active or the archived buckets ordered by name
func (r *GormBucketRepository) FindAll(ctx context.Context, archived bool) ([]ledger.Bucket, error) {
	var rows []models.BucketModel
	if err := r.db.WithContext(ctx).
		Where("archived = ?", archived).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	buckets := make([]ledger.Bucket, len(rows))
	for i := range rows {
		buckets[i] = *rows[i].ToDomain()
	}
	return buckets, nil
}

// Save creates or updates a bucket
func (r *GormBucketRepository) Save(ctx context.Context, bucket *ledger.Bucket) error {
	return r.db.WithContext(ctx).Save(models.BucketModelFromDomain(bucket)).Error
}

var _ ledger.BucketRepository = (*GormBucketRepository)(nil)
