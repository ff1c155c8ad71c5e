package persistence

import (
	"context"
	"errors"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements ledger.SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormSubscriptionRepository) FindAll(ctx context.Context, archived bool) ([]ledger.Subscription, error) {
	return r.find(r.db.WithContext(ctx).Where("archived = ?", archived))
}

// FindByBucket returns every subscription of the bucket, archived ones included
func (r *GormSubscriptionRepository) FindByBucket(ctx context.Context, bucketID uuid.UUID) ([]ledger.Subscription, error) {
	return r.find(r.db.WithContext(ctx).Where("bucket_id = ?", bucketID))
}

func (r *GormSubscriptionRepository) find(query *gorm.DB) ([]ledger.Subscription, error) {
	var rows []models.SubscriptionModel
	if err := query.Order("start_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ledger.Subscription, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormSubscriptionRepository) Save(ctx context.Context, sub *ledger.Subscription) error {
	return r.db.WithContext(ctx).Save(models.SubscriptionModelFromDomain(sub)).Error
}

var _ ledger.SubscriptionRepository = (*GormSubscriptionRepository)(nil)
