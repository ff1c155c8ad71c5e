package ledger

import (
	"context"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MilesService handles the mileage log
type MilesService struct {
	repo   ledger.MilesRepository
	bus    shared.EventPublisher
	logger *zap.Logger
}

// NewMilesService creates a new MilesService
func NewMilesService(repo ledger.MilesRepository, bus shared.EventPublisher, logger *zap.Logger) *MilesService {
	return &MilesService{repo: repo, bus: bus, logger: logger.Named("miles_service")}
}

func (s *MilesService) List(ctx context.Context, archived bool) ([]MilesResponse, error) {
	entries, err := s.repo.FindAll(ctx, archived)
	if err != nil {
		return nil, err
	}
	out := make([]MilesResponse, len(entries))
	for i := range entries {
		out[i] = ToMilesResponse(&entries[i])
	}
	return out, nil
}

func (s *MilesService) Create(ctx context.Context, req MilesRequest) (*MilesResponse, error) {
	m, err := ledger.NewMiles(req.Amount, req.Date.UTC())
	if err != nil {
		return nil, err
	}
	return s.save(ctx, m)
}

func (s *MilesService) Update(ctx context.Context, id uuid.UUID, req MilesRequest) (*MilesResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.Update(req.Amount, req.Date.UTC()); err != nil {
		return nil, err
	}
	return s.save(ctx, m)
}

func (s *MilesService) Archive(ctx context.Context, id uuid.UUID) (*MilesResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Archive()
	return s.save(ctx, m)
}

func (s *MilesService) Restore(ctx context.Context, id uuid.UUID) (*MilesResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Restore()
	return s.save(ctx, m)
}

func (s *MilesService) save(ctx context.Context, m *ledger.Miles) (*MilesResponse, error) {
	if len(m.GetDomainEvents()) > 0 {
		if err := s.repo.Save(ctx, m); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.bus, s.logger, m)
	}
	resp := ToMilesResponse(m)
	return &resp, nil
}
