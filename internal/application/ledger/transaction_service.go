package ledger

import (
	"context"
	"time"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionService handles transaction and transfer operations
type TransactionService struct {
	repo    ledger.TransactionRepository
	buckets BucketCache
	bus     shared.EventPublisher
	logger  *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(repo ledger.TransactionRepository, buckets BucketCache, bus shared.EventPublisher, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		repo:    repo,
		buckets: buckets,
		bus:     bus,
		logger:  logger.Named("transaction_service"),
	}
}

// ListForBucket returns the transactions of a bucket dated within [from, to],
// archived ones included, ordered by date.
func (s *TransactionService) ListForBucket(ctx context.Context, bucketID uuid.UUID, from, to time.Time) ([]TransactionResponse, error) {
	if err := ledger.ValidateRange(from, to); err != nil {
		return nil, err
	}
	if _, err := requireBucket(ctx, s.buckets, bucketID, false); err != nil {
		return nil, err
	}
	txs, err := s.repo.FindByBucketBetween(ctx, bucketID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	return toTransactionResponses(txs), nil
}

// GetByID returns one transaction
func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(t)
	return &resp, nil
}

// Create records a transaction in an active bucket
func (s *TransactionService) Create(ctx context.Context, req TransactionRequest) (*TransactionResponse, error) {
	if _, err := requireBucket(ctx, s.buckets, req.BucketID, true); err != nil {
		return nil, err
	}
	t, err := ledger.NewTransaction(req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.bus, s.logger, t)

	s.logger.Info("Transaction created",
		zap.String("transaction_id", t.ID.String()),
		zap.String("bucket_id", t.BucketID.String()),
		zap.String("type", t.Type.String()),
		zap.Int64("amount", t.Amount))
	resp := ToTransactionResponse(t)
	return &resp, nil
}

// Update replaces every editable field of a transaction. When the bucket
// changes the target bucket must be active.
func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, req TransactionRequest) (*TransactionResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.BucketID != t.BucketID {
		if _, err := requireBucket(ctx, s.buckets, req.BucketID, true); err != nil {
			return nil, err
		}
	}
	if err := t.Update(req.toInput()); err != nil {
		return nil, err
	}
	return s.save(ctx, t)
}

// Archive removes a transaction from balance math
func (s *TransactionService) Archive(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Archive()
	return s.save(ctx, t)
}

// Restore brings an archived transaction back
func (s *TransactionService) Restore(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Restore()
	return s.save(ctx, t)
}

// Transfer stores a withdrawal from one active bucket and a matching deposit
// into another. Both legs are stored or neither is.
func (s *TransactionService) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	for _, id := range []uuid.UUID{req.FromBucketID, req.ToBucketID} {
		if _, err := requireBucket(ctx, s.buckets, id, true); err != nil {
			return nil, err
		}
	}

	withdrawal, deposit, err := ledger.NewTransfer(ledger.TransferInput{
		FromBucketID:  req.FromBucketID,
		ToBucketID:    req.ToBucketID,
		Amount:        req.Amount,
		Status:        ledger.TransactionStatus(req.Status),
		Date:          req.Date.UTC(),
		Description:   req.Description,
		SubtypeID:     req.SubtypeID,
		TaxDeductible: req.TaxDeductible,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveAll(ctx, withdrawal, deposit); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.bus, s.logger, withdrawal, deposit)

	s.logger.Info("Transfer created",
		zap.String("from_bucket_id", req.FromBucketID.String()),
		zap.String("to_bucket_id", req.ToBucketID.String()),
		zap.Int64("amount", req.Amount))
	return &TransferResponse{
		Withdrawal: ToTransactionResponse(withdrawal),
		Deposit:    ToTransactionResponse(deposit),
	}, nil
}

func (s *TransactionService) save(ctx context.Context, t *ledger.Transaction) (*TransactionResponse, error) {
	if len(t.GetDomainEvents()) > 0 {
		if err := s.repo.Save(ctx, t); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.bus, s.logger, t)
	}
	resp := ToTransactionResponse(t)
	return &resp, nil
}
