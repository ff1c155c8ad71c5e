package handler

import (
	"context"
	"time"

	ledgerapp "github.com/bucketledger/backend/internal/application/ledger"
	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) ComputeBalanceAt(ctx context.Context, bucketID uuid.UUID, date time.Time) (int64, error) {
	args := m.Called(ctx, bucketID, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalanceService) ComputeBalanceSeries(ctx context.Context, bucketID uuid.UUID, start, end time.Time) ([]ledger.SeriesPoint, error) {
	args := m.Called(ctx, bucketID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.SeriesPoint), args.Error(1)
}

type MockBucketService struct {
	mock.Mock
}

func (m *MockBucketService) List(ctx context.Context, archived bool) ([]ledgerapp.BucketResponse, error) {
	args := m.Called(ctx, archived)
	return args.Get(0).([]ledgerapp.BucketResponse), args.Error(1)
}

func (m *MockBucketService) GetByID(ctx context.Context, id uuid.UUID) (*ledgerapp.BucketResponse, error) {
	args := m.Called(ctx, id)
	return bucketResult(args)
}

func (m *MockBucketService) Create(ctx context.Context, req ledgerapp.CreateBucketRequest) (*ledgerapp.BucketResponse, error) {
	args := m.Called(ctx, req)
	return bucketResult(args)
}

func (m *MockBucketService) Update(ctx context.Context, id uuid.UUID, req ledgerapp.UpdateBucketRequest) (*ledgerapp.BucketResponse, error) {
	args := m.Called(ctx, id, req)
	return bucketResult(args)
}

func (m *MockBucketService) Archive(ctx context.Context, id uuid.UUID) (*ledgerapp.BucketResponse, error) {
	args := m.Called(ctx, id)
	return bucketResult(args)
}

func (m *MockBucketService) Restore(ctx context.Context, id uuid.UUID) (*ledgerapp.BucketResponse, error) {
	args := m.Called(ctx, id)
	return bucketResult(args)
}

func bucketResult(args mock.Arguments) (*ledgerapp.BucketResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.BucketResponse), args.Error(1)
}

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) ListForBucket(ctx context.Context, bucketID uuid.UUID, from, to time.Time) ([]ledgerapp.TransactionResponse, error) {
	args := m.Called(ctx, bucketID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledgerapp.TransactionResponse), args.Error(1)
}

func (m *MockTransactionService) GetByID(ctx context.Context, id uuid.UUID) (*ledgerapp.TransactionResponse, error) {
	args := m.Called(ctx, id)
	return transactionResult(args)
}

func (m *MockTransactionService) Create(ctx context.Context, req ledgerapp.TransactionRequest) (*ledgerapp.TransactionResponse, error) {
	args := m.Called(ctx, req)
	return transactionResult(args)
}

func (m *MockTransactionService) Update(ctx context.Context, id uuid.UUID, req ledgerapp.TransactionRequest) (*ledgerapp.TransactionResponse, error) {
	args := m.Called(ctx, id, req)
	return transactionResult(args)
}

func (m *MockTransactionService) Archive(ctx context.Context, id uuid.UUID) (*ledgerapp.TransactionResponse, error) {
	args := m.Called(ctx, id)
	return transactionResult(args)
}

func (m *MockTransactionService) Restore(ctx context.Context, id uuid.UUID) (*ledgerapp.TransactionResponse, error) {
	args := m.Called(ctx, id)
	return transactionResult(args)
}

func (m *MockTransactionService) Transfer(ctx context.Context, req ledgerapp.TransferRequest) (*ledgerapp.TransferResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.TransferResponse), args.Error(1)
}

func transactionResult(args mock.Arguments) (*ledgerapp.TransactionResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.TransactionResponse), args.Error(1)
}

type MockCorrectionService struct {
	mock.Mock
}

func (m *MockCorrectionService) List(ctx context.Context, bucketID *uuid.UUID) ([]ledgerapp.CorrectionResponse, error) {
	args := m.Called(ctx, bucketID)
	return args.Get(0).([]ledgerapp.CorrectionResponse), args.Error(1)
}

func (m *MockCorrectionService) GetByID(ctx context.Context, id uuid.UUID) (*ledgerapp.CorrectionResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.CorrectionResponse), args.Error(1)
}

func (m *MockCorrectionService) Create(ctx context.Context, req ledgerapp.CorrectionRequest) (*ledgerapp.CorrectionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.CorrectionResponse), args.Error(1)
}

func (m *MockCorrectionService) Update(ctx context.Context, id uuid.UUID, req ledgerapp.CorrectionRequest) (*ledgerapp.CorrectionResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.CorrectionResponse), args.Error(1)
}

func (m *MockCorrectionService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) List(ctx context.Context, archived bool) ([]ledgerapp.SubscriptionResponse, error) {
	args := m.Called(ctx, archived)
	return args.Get(0).([]ledgerapp.SubscriptionResponse), args.Error(1)
}

func (m *MockSubscriptionService) ListForBucket(ctx context.Context, bucketID uuid.UUID) ([]ledgerapp.SubscriptionResponse, error) {
	args := m.Called(ctx, bucketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledgerapp.SubscriptionResponse), args.Error(1)
}

func (m *MockSubscriptionService) GetByID(ctx context.Context, id uuid.UUID) (*ledgerapp.SubscriptionResponse, error) {
	return subscriptionResult(m.Called(ctx, id))
}

func (m *MockSubscriptionService) Create(ctx context.Context, req ledgerapp.SubscriptionRequest) (*ledgerapp.SubscriptionResponse, error) {
	return subscriptionResult(m.Called(ctx, req))
}

func (m *MockSubscriptionService) Update(ctx context.Context, id uuid.UUID, req ledgerapp.SubscriptionRequest) (*ledgerapp.SubscriptionResponse, error) {
	return subscriptionResult(m.Called(ctx, id, req))
}

func (m *MockSubscriptionService) Archive(ctx context.Context, id uuid.UUID) (*ledgerapp.SubscriptionResponse, error) {
	return subscriptionResult(m.Called(ctx, id))
}

func (m *MockSubscriptionService) Restore(ctx context.Context, id uuid.UUID) (*ledgerapp.SubscriptionResponse, error) {
	return subscriptionResult(m.Called(ctx, id))
}

func subscriptionResult(args mock.Arguments) (*ledgerapp.SubscriptionResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.SubscriptionResponse), args.Error(1)
}

type MockMilesService struct {
	mock.Mock
}

func (m *MockMilesService) List(ctx context.Context, archived bool) ([]ledgerapp.MilesResponse, error) {
	args := m.Called(ctx, archived)
	return args.Get(0).([]ledgerapp.MilesResponse), args.Error(1)
}

func (m *MockMilesService) Create(ctx context.Context, req ledgerapp.MilesRequest) (*ledgerapp.MilesResponse, error) {
	return milesResult(m.Called(ctx, req))
}

func (m *MockMilesService) Update(ctx context.Context, id uuid.UUID, req ledgerapp.MilesRequest) (*ledgerapp.MilesResponse, error) {
	return milesResult(m.Called(ctx, id, req))
}

func (m *MockMilesService) Archive(ctx context.Context, id uuid.UUID) (*ledgerapp.MilesResponse, error) {
	return milesResult(m.Called(ctx, id))
}

func (m *MockMilesService) Restore(ctx context.Context, id uuid.UUID) (*ledgerapp.MilesResponse, error) {
	return milesResult(m.Called(ctx, id))
}

func milesResult(args mock.Arguments) (*ledgerapp.MilesResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.MilesResponse), args.Error(1)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context) (*ledgerapp.CategoriesResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.CategoriesResponse), args.Error(1)
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, req ledgerapp.CategoryRequest) (*ledgerapp.CategoryResponse, error) {
	return categoryResult(m.Called(ctx, req))
}

func (m *MockCategoryService) RenameCategory(ctx context.Context, id uuid.UUID, req ledgerapp.CategoryRequest) (*ledgerapp.CategoryResponse, error) {
	return categoryResult(m.Called(ctx, id, req))
}

func (m *MockCategoryService) CreateSubtype(ctx context.Context, req ledgerapp.SubtypeRequest) (*ledgerapp.SubtypeResponse, error) {
	return subtypeResult(m.Called(ctx, req))
}

func (m *MockCategoryService) UpdateSubtype(ctx context.Context, id uuid.UUID, req ledgerapp.SubtypeRequest) (*ledgerapp.SubtypeResponse, error) {
	return subtypeResult(m.Called(ctx, id, req))
}

func categoryResult(args mock.Arguments) (*ledgerapp.CategoryResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.CategoryResponse), args.Error(1)
}

func subtypeResult(args mock.Arguments) (*ledgerapp.SubtypeResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.SubtypeResponse), args.Error(1)
}
