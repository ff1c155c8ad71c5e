package ledger

import (
	"context"
	"time"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByBucketBetween(ctx context.Context, bucketID uuid.UUID, from, to time.Time) ([]ledger.Transaction, error) {
	args := m.Called(ctx, bucketID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *ledger.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveAll(ctx context.Context, txs ...*ledger.Transaction) error {
	args := m.Called(ctx, txs)
	return args.Error(0)
}

// MockCorrectionRepository is a mock implementation of BalanceCorrectionRepository
type MockCorrectionRepository struct {
	mock.Mock
}

func (m *MockCorrectionRepository) FindByBucketBetween(ctx context.Context, bucketID uuid.UUID, from, to time.Time) ([]ledger.BalanceCorrection, error) {
	args := m.Called(ctx, bucketID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.BalanceCorrection), args.Error(1)
}

func (m *MockCorrectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.BalanceCorrection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BalanceCorrection), args.Error(1)
}

func (m *MockCorrectionRepository) FindAll(ctx context.Context) ([]ledger.BalanceCorrection, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ledger.BalanceCorrection), args.Error(1)
}

func (m *MockCorrectionRepository) FindByBucket(ctx context.Context, bucketID uuid.UUID) ([]ledger.BalanceCorrection, error) {
	args := m.Called(ctx, bucketID)
	return args.Get(0).([]ledger.BalanceCorrection), args.Error(1)
}

func (m *MockCorrectionRepository) Save(ctx context.Context, c *ledger.BalanceCorrection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCorrectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindByBucket(ctx context.Context, bucketID uuid.UUID) ([]ledger.Subscription, error) {
	args := m.Called(ctx, bucketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindAll(ctx context.Context, archived bool) ([]ledger.Subscription, error) {
	args := m.Called(ctx, archived)
	return args.Get(0).([]ledger.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Save(ctx context.Context, sub *ledger.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

// MockBucketRepository is a mock implementation of BucketRepository
type MockBucketRepository struct {
	mock.Mock
}

func (m *MockBucketRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Bucket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Bucket), args.Error(1)
}

func (m *MockBucketRepository) FindAll(ctx context.Context, archived bool) ([]ledger.Bucket, error) {
	args := m.Called(ctx, archived)
	return args.Get(0).([]ledger.Bucket), args.Error(1)
}

func (m *MockBucketRepository) Save(ctx context.Context, b *ledger.Bucket) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// MockBucketCache is a mock implementation of BucketCache
type MockBucketCache struct {
	mock.Mock
}

func (m *MockBucketCache) Get(ctx context.Context, id uuid.UUID) (*ledger.Bucket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Bucket), args.Error(1)
}

func (m *MockBucketCache) GetAll(ctx context.Context) ([]*ledger.Bucket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*ledger.Bucket), args.Error(1)
}

// MockBalanceCache is a mock implementation of BalanceCache
type MockBalanceCache struct {
	mock.Mock
}

func (m *MockBalanceCache) Get(ctx context.Context, bucketID uuid.UUID, at time.Time) (int64, bool, error) {
	args := m.Called(ctx, bucketID, at)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockBalanceCache) Generation(ctx context.Context, bucketID uuid.UUID) (uint64, error) {
	args := m.Called(ctx, bucketID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockBalanceCache) Set(ctx context.Context, bucketID uuid.UUID, at time.Time, balance int64, generation uint64) error {
	args := m.Called(ctx, bucketID, at, balance, generation)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// eventTypes returns the event types of every Publish call, in order
func (m *MockEventPublisher) eventTypes() []string {
	var out []string
	for _, call := range m.Calls {
		if call.Method != "Publish" {
			continue
		}
		for _, e := range call.Arguments.Get(1).([]shared.DomainEvent) {
			out = append(out, e.EventType())
		}
	}
	return out
}

// MockMilesRepository is a mock implementation of MilesRepository
type MockMilesRepository struct {
	mock.Mock
}

func (m *MockMilesRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Miles, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Miles), args.Error(1)
}

func (m *MockMilesRepository) FindAll(ctx context.Context, archived bool) ([]ledger.Miles, error) {
	args := m.Called(ctx, archived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Miles), args.Error(1)
}

func (m *MockMilesRepository) Save(ctx context.Context, miles *ledger.Miles) error {
	args := m.Called(ctx, miles)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*ledger.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAllCategories(ctx context.Context) ([]ledger.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Category), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category *ledger.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindSubtypeByID(ctx context.Context, id uuid.UUID) (*ledger.Subtype, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Subtype), args.Error(1)
}

func (m *MockCategoryRepository) FindAllSubtypes(ctx context.Context) ([]ledger.Subtype, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Subtype), args.Error(1)
}

func (m *MockCategoryRepository) SaveSubtype(ctx context.Context, subtype *ledger.Subtype) error {
	args := m.Called(ctx, subtype)
	return args.Error(0)
}
