package persistence

import (
	"context"
	"errors"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMilesRepository implements ledger.MilesRepository using GORM
type GormMilesRepository struct {
	db *gorm.DB
}

func NewGormMilesRepository(db *gorm.DB) *GormMilesRepository {
	return &GormMilesRepository{db: db}
}

func (r *GormMilesRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Miles, error) {
	var model models.MilesModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrMilesNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns the active or archived entries, newest first
func (r *GormMilesRepository) FindAll(ctx context.Context, archived bool) ([]ledger.Miles, error) {
	var rows []models.MilesModel
	if err := r.db.WithContext(ctx).
		Where("archived = ?", archived).
		Order("date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ledger.Miles, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormMilesRepository) Save(ctx context.Context, miles *ledger.Miles) error {
	return r.db.WithContext(ctx).Save(models.MilesModelFromDomain(miles)).Error
}

var _ ledger.MilesRepository = (*GormMilesRepository)(nil)
