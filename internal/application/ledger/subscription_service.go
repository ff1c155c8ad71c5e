package ledger

import (
	"context"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubscriptionService handles recurring obligations
type SubscriptionService struct {
	repo    ledger.SubscriptionRepository
	buckets BucketCache
	bus     shared.EventPublisher
	logger  *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(repo ledger.SubscriptionRepository, buckets BucketCache, bus shared.EventPublisher, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:    repo,
		buckets: buckets,
		bus:     bus,
		logger:  logger.Named("subscription_service"),
	}
}

// List returns subscriptions with the given archived flag
func (s *SubscriptionService) List(ctx context.Context, archived bool) ([]SubscriptionResponse, error) {
	subs, err := s.repo.FindAll(ctx, archived)
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponses(subs), nil
}

// ListForBucket returns every subscription attached to a bucket
func (s *SubscriptionService) ListForBucket(ctx context.Context, bucketID uuid.UUID) ([]SubscriptionResponse, error) {
	if _, err := requireBucket(ctx, s.buckets, bucketID, false); err != nil {
		return nil, err
	}
	subs, err := s.repo.FindByBucket(ctx, bucketID)
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponses(subs), nil
}

// GetByID returns one subscription
func (s *SubscriptionService) GetByID(ctx context.Context, id uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

// Create attaches a subscription to an active bucket
func (s *SubscriptionService) Create(ctx context.Context, req SubscriptionRequest) (*SubscriptionResponse, error) {
	if _, err := requireBucket(ctx, s.buckets, req.BucketID, true); err != nil {
		return nil, err
	}
	sub, err := ledger.NewSubscription(req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.bus, s.logger, sub)

	s.logger.Info("Subscription created",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("bucket_id", sub.BucketID.String()),
		zap.String("name", sub.Name))
	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

// Update replaces every editable field of a subscription
func (s *SubscriptionService) Update(ctx context.Context, id uuid.UUID, req SubscriptionRequest) (*SubscriptionResponse, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.BucketID != sub.BucketID {
		if _, err := requireBucket(ctx, s.buckets, req.BucketID, true); err != nil {
			return nil, err
		}
	}
	if err := sub.Update(req.toInput()); err != nil {
		return nil, err
	}
	return s.save(ctx, sub)
}

// Archive removes a subscription from balance math
func (s *SubscriptionService) Archive(ctx context.Context, id uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Archive()
	return s.save(ctx, sub)
}

// Restore reverses Archive
func (s *SubscriptionService) Restore(ctx context.Context, id uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Restore()
	return s.save(ctx, sub)
}

func (s *SubscriptionService) save(ctx context.Context, sub *ledger.Subscription) (*SubscriptionResponse, error) {
	if len(sub.GetDomainEvents()) > 0 {
		if err := s.repo.Save(ctx, sub); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.bus, s.logger, sub)
	}
	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

func toSubscriptionResponses(subs []ledger.Subscription) []SubscriptionResponse {
	out := make([]SubscriptionResponse, len(subs))
	for i := range subs {
		out[i] = ToSubscriptionResponse(&subs[i])
	}
	return out
}
