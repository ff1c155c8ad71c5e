package ledger

import (
	"context"
	"sort"
	"strings"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrBucketArchived is returned when money is moved into or out of an archived bucket
var ErrBucketArchived = shared.NewDomainError("BUCKET_ARCHIVED", "Bucket is archived")

// BucketCache serves bucket reads from memory
type BucketCache interface {
	Get(ctx context.Context, id uuid.UUID) (*ledger.Bucket, error)
	GetAll(ctx context.Context) ([]*ledger.Bucket, error)
}

// BucketService handles bucket operations
type BucketService struct {
	repo   ledger.BucketRepository
	cache  BucketCache
	bus    shared.EventPublisher
	logger *zap.Logger
}

// NewBucketService creates a new BucketService
func NewBucketService(repo ledger.BucketRepository, cache BucketCache, bus shared.EventPublisher, logger *zap.Logger) *BucketService {
	return &BucketService{
		repo:   repo,
		cache:  cache,
		bus:    bus,
		logger: logger.Named("bucket_service"),
	}
}

// List returns the buckets whose archived flag matches archived, sorted by name
func (s *BucketService) List(ctx context.Context, archived bool) ([]BucketResponse, error) {
	all, err := s.cache.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]BucketResponse, 0, len(all))
	for _, b := range all {
		if b.Archived == archived {
			out = append(out, ToBucketResponse(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// GetByID returns one bucket
func (s *BucketService) GetByID(ctx context.Context, id uuid.UUID) (*BucketResponse, error) {
	b, err := s.cache.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBucketResponse(b)
	return &resp, nil
}

// Create creates a bucket
func (s *BucketService) Create(ctx context.Context, req CreateBucketRequest) (*BucketResponse, error) {
	b, err := ledger.NewBucket(req.Name, req.Description, ledger.BucketType(req.Type))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.bus, s.logger, b)

	s.logger.Info("Bucket created", zap.String("bucket_id", b.ID.String()), zap.String("name", b.Name))
	resp := ToBucketResponse(b)
	return &resp, nil
}

// Update replaces the editable fields of a bucket
func (s *BucketService) Update(ctx context.Context, id uuid.UUID, req UpdateBucketRequest) (*BucketResponse, error) {
	return s.mutate(ctx, id, func(b *ledger.Bucket) error {
		return b.Update(req.Name, req.Description, ledger.BucketType(req.Type))
	})
}

// Archive soft-deletes a bucket
func (s *BucketService) Archive(ctx context.Context, id uuid.UUID) (*BucketResponse, error) {
	return s.mutate(ctx, id, func(b *ledger.Bucket) error {
		b.Archive()
		return nil
	})
}

// Restore reverses Archive
func (s *BucketService) Restore(ctx context.Context, id uuid.UUID) (*BucketResponse, error) {
	return s.mutate(ctx, id, func(b *ledger.Bucket) error {
		b.Restore()
		return nil
	})
}

// mutate loads a fresh copy from the repository so the cached record is only
// replaced through the published event.
func (s *BucketService) mutate(ctx context.Context, id uuid.UUID, fn func(*ledger.Bucket) error) (*BucketResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(b); err != nil {
		return nil, err
	}
	if len(b.GetDomainEvents()) == 0 {
		resp := ToBucketResponse(b)
		return &resp, nil
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.bus, s.logger, b)

	resp := ToBucketResponse(b)
	return &resp, nil
}

// requireBucket checks that a bucket exists and, when active is set, is not archived
func requireBucket(ctx context.Context, cache BucketCache, id uuid.UUID, active bool) (*ledger.Bucket, error) {
	b, err := cache.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if active && b.Archived {
		return nil, ErrBucketArchived
	}
	return b, nil
}
