package ledger

import (
	"context"
	"sort"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CorrectionService handles balance corrections
type CorrectionService struct {
	repo    ledger.BalanceCorrectionRepository
	buckets BucketCache
	bus     shared.EventPublisher
	logger  *zap.Logger
}

// NewCorrectionService creates a new CorrectionService
func NewCorrectionService(repo ledger.BalanceCorrectionRepository, buckets BucketCache, bus shared.EventPublisher, logger *zap.Logger) *CorrectionService {
	return &CorrectionService{
		repo:    repo,
		buckets: buckets,
		bus:     bus,
		logger:  logger.Named("correction_service"),
	}
}

// List returns every correction, or only those of bucketID when it is set
func (s *CorrectionService) List(ctx context.Context, bucketID *uuid.UUID) ([]CorrectionResponse, error) {
	var (
		corrections []ledger.BalanceCorrection
		err         error
	)
	if bucketID != nil {
		corrections, err = s.repo.FindByBucket(ctx, *bucketID)
	} else {
		corrections, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(corrections, func(i, j int) bool {
		return corrections[i].Date.Before(corrections[j].Date)
	})
	out := make([]CorrectionResponse, len(corrections))
	for i := range corrections {
		out[i] = ToCorrectionResponse(&corrections[i])
	}
	return out, nil
}

// GetByID returns one correction
func (s *CorrectionService) GetByID(ctx context.Context, id uuid.UUID) (*CorrectionResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCorrectionResponse(c)
	return &resp, nil
}

// Create adds a correction to an existing bucket
func (s *CorrectionService) Create(ctx context.Context, req CorrectionRequest) (*CorrectionResponse, error) {
	if _, err := requireBucket(ctx, s.buckets, req.BucketID, false); err != nil {
		return nil, err
	}
	c, err := ledger.NewBalanceCorrection(req.BucketID, req.Date.UTC(), req.Balance)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.bus, s.logger, c)

	s.logger.Info("Balance correction created",
		zap.String("correction_id", c.ID.String()),
		zap.String("bucket_id", c.BucketID.String()),
		zap.Int64("balance", c.Balance))
	resp := ToCorrectionResponse(c)
	return &resp, nil
}

// Update replaces the bucket, date and delta of a correction
func (s *CorrectionService) Update(ctx context.Context, id uuid.UUID, req CorrectionRequest) (*CorrectionResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.BucketID != c.BucketID {
		if _, err := requireBucket(ctx, s.buckets, req.BucketID, false); err != nil {
			return nil, err
		}
	}
	if err := c.Update(req.BucketID, req.Date.UTC(), req.Balance); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.bus, s.logger, c)

	resp := ToCorrectionResponse(c)
	return &resp, nil
}

// Delete removes a correction permanently
func (s *CorrectionService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	c.MarkDeleted()
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	publishEvents(ctx, s.bus, s.logger, c)

	s.logger.Info("Balance correction deleted",
		zap.String("correction_id", id.String()),
		zap.String("bucket_id", c.BucketID.String()))
	return nil
}
