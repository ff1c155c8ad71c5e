package persistence

import (
	"context"
	"errors"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements ledger.CategoryRepository using GORM.
// Categories live in transaction_types, subtypes in transaction_subtypes.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*ledger.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrCategoryNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormCategoryRepository) FindAllCategories(ctx context.Context) ([]ledger.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ledger.Category, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormCategoryRepository) SaveCategory(ctx context.Context, category *ledger.Category) error {
	return r.db.WithContext(ctx).Save(models.CategoryModelFromDomain(category)).Error
}

func (r *GormCategoryRepository) FindSubtypeByID(ctx context.Context, id uuid.UUID) (*ledger.Subtype, error) {
	var model models.SubtypeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrSubtypeNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormCategoryRepository) FindAllSubtypes(ctx context.Context) ([]ledger.Subtype, error) {
	var rows []models.SubtypeModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ledger.Subtype, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormCategoryRepository) SaveSubtype(ctx context.Context, subtype *ledger.Subtype) error {
	return r.db.WithContext(ctx).Save(models.SubtypeModelFromDomain(subtype)).Error
}

var _ ledger.CategoryRepository = (*GormCategoryRepository)(nil)
