package ledger

import (
	"context"
	"errors"
	"sort"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService handles transaction types and subtypes
type CategoryService struct {
	repo   ledger.CategoryRepository
	bus    shared.EventPublisher
	logger *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(repo ledger.CategoryRepository, bus shared.EventPublisher, logger *zap.Logger) *CategoryService {
	return &CategoryService{repo: repo, bus: bus, logger: logger.Named("category_service")}
}

// List returns every type and subtype, sorted by name
func (s *CategoryService) List(ctx context.Context) (*CategoriesResponse, error) {
	categories, err := s.repo.FindAllCategories(ctx)
	if err != nil {
		return nil, err
	}
	subtypes, err := s.repo.FindAllSubtypes(ctx)
	if err != nil {
		return nil, err
	}

	resp := &CategoriesResponse{
		Types:    make([]CategoryResponse, len(categories)),
		Subtypes: make([]SubtypeResponse, len(subtypes)),
	}
	for i := range categories {
		resp.Types[i] = ToCategoryResponse(&categories[i])
	}
	for i := range subtypes {
		resp.Subtypes[i] = ToSubtypeResponse(&subtypes[i])
	}
	sort.Slice(resp.Types, func(i, j int) bool { return resp.Types[i].Name < resp.Types[j].Name })
	sort.Slice(resp.Subtypes, func(i, j int) bool { return resp.Subtypes[i].Name < resp.Subtypes[j].Name })
	return resp, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	c, err := ledger.NewCategory(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveCategory(ctx, c); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.bus, s.logger, c)
	resp := ToCategoryResponse(c)
	return &resp, nil
}

func (s *CategoryService) RenameCategory(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	c, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.repo.SaveCategory(ctx, c); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.bus, s.logger, c)
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// CreateSubtype adds a subtype under an existing type
func (s *CategoryService) CreateSubtype(ctx context.Context, req SubtypeRequest) (*SubtypeResponse, error) {
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	sub, err := ledger.NewSubtype(req.Name, req.CategoryID, ledger.TransactionType(req.Type))
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveSubtype(ctx, sub); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.bus, s.logger, sub)
	resp := ToSubtypeResponse(sub)
	return &resp, nil
}

func (s *CategoryService) UpdateSubtype(ctx context.Context, id uuid.UUID, req SubtypeRequest) (*SubtypeResponse, error) {
	sub, err := s.repo.FindSubtypeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != sub.CategoryID {
		if err := s.requireCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}
	if err := sub.Update(req.Name, req.CategoryID, ledger.TransactionType(req.Type)); err != nil {
		return nil, err
	}
	if err := s.repo.SaveSubtype(ctx, sub); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.bus, s.logger, sub)
	resp := ToSubtypeResponse(sub)
	return &resp, nil
}

func (s *CategoryService) requireCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, ledger.ErrCategoryNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Parent transaction type not found")
		}
		return err
	}
	return nil
}
