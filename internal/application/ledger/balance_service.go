package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/bucketledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Store query names reported in StoreFailure errors, spans and metrics
const (
	QueryTransactions  = "transactions"
	QueryCorrections   = "corrections"
	QuerySubscriptions = "subscriptions"
)

// BalanceCache memoizes balances per bucket and instant. Generation is
// read before the stores are queried; Set drops the balance when the
// bucket was invalidated since then.
type BalanceCache interface {
	Get(ctx context.Context, bucketID uuid.UUID, at time.Time) (int64, bool, error)
	Generation(ctx context.Context, bucketID uuid.UUID) (uint64, error)
	Set(ctx context.Context, bucketID uuid.UUID, at time.Time, balance int64, generation uint64) error
}

// BalanceService reconstructs bucket balances from the ledger stores
type BalanceService struct {
	transactions  ledger.TransactionStore
	corrections   ledger.CorrectionStore
	subscriptions ledger.SubscriptionStore
	cache         BalanceCache
	maxSeriesDays int
	metrics       *telemetry.BalanceMetrics
	logger        *zap.Logger
}

// NewBalanceService creates a BalanceService. A nil cache disables caching;
// maxSeriesDays <= 0 removes the series length limit.
func NewBalanceService(
	transactions ledger.TransactionStore,
	corrections ledger.CorrectionStore,
	subscriptions ledger.SubscriptionStore,
	cache BalanceCache,
	maxSeriesDays int,
	logger *zap.Logger,
) *BalanceService {
	return &BalanceService{
		transactions:  transactions,
		corrections:   corrections,
		subscriptions: subscriptions,
		cache:         cache,
		maxSeriesDays: maxSeriesDays,
		logger:        logger.Named("balance_service"),
	}
}

// SetBalanceMetrics sets the metrics recorder
func (s *BalanceService) SetBalanceMetrics(m *telemetry.BalanceMetrics) {
	s.metrics = m
}

// ledgerSnapshot holds every record of one bucket dated up to a cut-off
type ledgerSnapshot struct {
	transactions  []ledger.Transaction
	corrections   []ledger.BalanceCorrection
	subscriptions []ledger.Subscription
}

// ComputeBalanceAt returns the balance of bucketID at date: the replayed
// transactions in [Epoch, date], plus corrections dated at or before date,
// plus subscriptions active in that window. A date before Epoch
// (1970-01-01 UTC) is rejected with INVALID_RANGE.
func (s *BalanceService) ComputeBalanceAt(ctx context.Context, bucketID uuid.UUID, date time.Time) (balance int64, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "balance", "compute_at",
		telemetry.SpanAttrBucketID, bucketID,
		telemetry.SpanAttrDate, date,
	)
	defer span.End()

	started := time.Now()
	defer func() {
		s.metrics.RecordComputation(ctx, telemetry.OperationBalanceAt, time.Since(started), err)
		if err != nil {
			telemetry.RecordError(span, err)
		}
	}()

	date = date.UTC()
	if err := ledger.ValidateRange(ledger.Epoch, date); err != nil {
		return 0, err
	}

	if cached, ok := s.cachedBalance(ctx, bucketID, date); ok {
		telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, true, telemetry.SpanAttrBalance, cached)
		return cached, nil
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, false)
	generation, cacheable := s.cacheGeneration(ctx, bucketID)

	snap, err := s.load(ctx, bucketID, date)
	if err != nil {
		return 0, err
	}

	balance, err = ledger.BalanceAt(snap.transactions, snap.corrections, snap.subscriptions, date)
	if err != nil {
		s.logger.Error("Malformed record in ledger",
			zap.String("bucket_id", bucketID.String()),
			zap.Error(err))
		return 0, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrBalance, balance)

	if cacheable {
		if cerr := s.cache.Set(ctx, bucketID, date, balance, generation); cerr != nil {
			s.logger.Warn("Failed to cache balance",
				zap.String("bucket_id", bucketID.String()),
				zap.Error(cerr))
		}
	}
	return balance, nil
}

// ComputeBalanceSeries returns one point per day from start through end,
// each annotated with the transactions of the preceding 24 hours.
// Inverted or oversized ranges are rejected before any store is queried.
func (s *BalanceService) ComputeBalanceSeries(ctx context.Context, bucketID uuid.UUID, start, end time.Time) (points []ledger.SeriesPoint, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "balance", "compute_series",
		telemetry.SpanAttrBucketID, bucketID,
		telemetry.SpanAttrFrom, start,
		telemetry.SpanAttrTo, end,
	)
	defer span.End()

	started := time.Now()
	defer func() {
		s.metrics.RecordComputation(ctx, telemetry.OperationBalanceSeries, time.Since(started), err)
		if err != nil {
			telemetry.RecordError(span, err)
		}
	}()

	start, end = start.UTC(), end.UTC()
	if err := ledger.ValidateSeriesRange(start, end); err != nil {
		return nil, err
	}
	if s.maxSeriesDays > 0 {
		if days := int(end.Sub(start)/ledger.SeriesStep) + 1; days > s.maxSeriesDays {
			return nil, shared.NewDomainError(ledger.CodeInvalidRange,
				fmt.Sprintf("Series range cannot exceed %d days", s.maxSeriesDays))
		}
	}

	snap, err := s.load(ctx, bucketID, end)
	if err != nil {
		return nil, err
	}

	points, err = ledger.BuildSeries(snap.transactions, snap.corrections, snap.subscriptions, start, end)
	if err != nil {
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrPoints, len(points))
	s.metrics.RecordSeriesPoints(ctx, len(points))
	return points, nil
}

// load issues the three store queries concurrently. The first failure
// cancels the others and fails the whole load.
func (s *BalanceService) load(ctx context.Context, bucketID uuid.UUID, to time.Time) (*ledgerSnapshot, error) {
	var snap ledgerSnapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		txs, err := s.transactions.FindByBucketBetween(gctx, bucketID, ledger.Epoch, to)
		if err != nil {
			return s.storeFailure(ctx, bucketID, QueryTransactions, err)
		}
		snap.transactions = txs
		return nil
	})
	g.Go(func() error {
		corrections, err := s.corrections.FindByBucketBetween(gctx, bucketID, ledger.Epoch, to)
		if err != nil {
			return s.storeFailure(ctx, bucketID, QueryCorrections, err)
		}
		snap.corrections = corrections
		return nil
	})
	g.Go(func() error {
		subs, err := s.subscriptions.FindByBucket(gctx, bucketID)
		if err != nil {
			return s.storeFailure(ctx, bucketID, QuerySubscriptions, err)
		}
		snap.subscriptions = subs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("Loaded ledger",
		zap.String("bucket_id", bucketID.String()),
		zap.Int("transactions", len(snap.transactions)),
		zap.Int("corrections", len(snap.corrections)),
		zap.Int("subscriptions", len(snap.subscriptions)))
	return &snap, nil
}

func (s *BalanceService) storeFailure(ctx context.Context, bucketID uuid.UUID, query string, err error) error {
	s.metrics.RecordStoreFailure(ctx, query)
	s.logger.Error("Store query failed",
		zap.String("query", query),
		zap.String("bucket_id", bucketID.String()),
		zap.Error(err))
	return ledger.NewStoreFailure(query, err)
}

// cacheGeneration reports whether a balance computed from now on may be
// stored, and under which generation
func (s *BalanceService) cacheGeneration(ctx context.Context, bucketID uuid.UUID) (uint64, bool) {
	if s.cache == nil {
		return 0, false
	}
	generation, err := s.cache.Generation(ctx, bucketID)
	if err != nil {
		s.logger.Warn("Balance cache generation unavailable, result will not be cached",
			zap.String("bucket_id", bucketID.String()),
			zap.Error(err))
		return 0, false
	}
	return generation, true
}

// cachedBalance treats a cache error as a miss
func (s *BalanceService) cachedBalance(ctx context.Context, bucketID uuid.UUID, at time.Time) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	balance, ok, err := s.cache.Get(ctx, bucketID, at)
	switch {
	case err != nil:
		s.metrics.RecordCacheLookup(ctx, "error")
		s.logger.Warn("Balance cache lookup failed",
			zap.String("bucket_id", bucketID.String()),
			zap.Error(err))
		return 0, false
	case ok:
		s.metrics.RecordCacheLookup(ctx, "hit")
		return balance, true
	default:
		s.metrics.RecordCacheLookup(ctx, "miss")
		return 0, false
	}
}
