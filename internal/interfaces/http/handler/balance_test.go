package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newBalanceRouter(svc *MockBalanceService) *gin.Engine {
	h := NewBalanceHandler(svc)
	h.now = func() time.Time { return fixedNow }

	r := gin.New()
	r.GET("/buckets/:id/balance", h.BalanceAt)
	r.GET("/buckets/:id/balance/series", h.Series)
	return r
}

func TestBalanceHandler_BalanceAt(t *testing.T) {
	bucketID := uuid.New()

	t.Run("returns the balance and its display form", func(t *testing.T) {
		svc := new(MockBalanceService)
		date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		svc.On("ComputeBalanceAt", mock.Anything, bucketID, date).Return(int64(123456), nil)

		w := httptest.NewRecorder()
		newBalanceRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buckets/"+bucketID.String()+"/balance?date=2024-03-01", nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, bucketID.String(), data["bucket_id"])
		assert.Equal(t, float64(123456), data["balance"])
		assert.Equal(t, "1234.56", data["balance_display"])
		svc.AssertExpectations(t)
	})

	t.Run("date defaults to now", func(t *testing.T) {
		svc := new(MockBalanceService)
		svc.On("ComputeBalanceAt", mock.Anything, bucketID, fixedNow).Return(int64(0), nil)

		w := httptest.NewRecorder()
		newBalanceRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buckets/"+bucketID.String()+"/balance", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("bad bucket id never reaches the service", func(t *testing.T) {
		svc := new(MockBalanceService)
		w := httptest.NewRecorder()
		newBalanceRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buckets/not-a-uuid/balance", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "ComputeBalanceAt")
	})

	t.Run("bad date is rejected", func(t *testing.T) {
		svc := new(MockBalanceService)
		w := httptest.NewRecorder()
		newBalanceRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buckets/"+bucketID.String()+"/balance?date=yesterday", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_INVALID_INPUT")
	})

	errorCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"store failure", ledger.NewStoreFailure("corrections", errors.New("timeout")), http.StatusServiceUnavailable, "ERR_STORE_FAILURE"},
		{"malformed record", &ledger.MalformedRecordError{Kind: "transaction", Field: "type", Value: "x"}, http.StatusUnprocessableEntity, "ERR_MALFORMED_RECORD"},
		{"invalid range", ledger.ErrInvalidRange, http.StatusBadRequest, "ERR_INVALID_RANGE"},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockBalanceService)
			svc.On("ComputeBalanceAt", mock.Anything, bucketID, mock.Anything).Return(int64(0), tc.err)

			w := httptest.NewRecorder()
			newBalanceRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buckets/"+bucketID.String()+"/balance", nil))

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantCode, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestBalanceHandler_Series(t *testing.T) {
	bucketID := uuid.New()
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("returns one entry per point", func(t *testing.T) {
		svc := new(MockBalanceService)
		points := []ledger.SeriesPoint{
			{Date: from, Balance: 100},
			{Date: to, Balance: -250},
		}
		svc.On("ComputeBalanceSeries", mock.Anything, bucketID, from, to).Return(points, nil)

		w := httptest.NewRecorder()
		newBalanceRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buckets/"+bucketID.String()+"/balance/series?from=2024-03-01&to=2024-03-02", nil))

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.([]any)
		require.Len(t, data, 2)
		second := data[1].(map[string]any)
		assert.Equal(t, "-2.50", second["balance_display"])
		assert.Empty(t, second["transactions"])
	})

	t.Run("defaults to the thirty days before now", func(t *testing.T) {
		svc := new(MockBalanceService)
		svc.On("ComputeBalanceSeries", mock.Anything, bucketID, fixedNow.Add(-30*ledger.SeriesStep), fixedNow).
			Return([]ledger.SeriesPoint{}, nil)

		w := httptest.NewRecorder()
		newBalanceRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buckets/"+bucketID.String()+"/balance/series", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("inverted range is a 400", func(t *testing.T) {
		svc := new(MockBalanceService)
		svc.On("ComputeBalanceSeries", mock.Anything, bucketID, to, from).Return(nil, ledger.ErrInvalidRange)

		w := httptest.NewRecorder()
		newBalanceRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buckets/"+bucketID.String()+"/balance/series?from=2024-03-02&to=2024-03-01", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_INVALID_RANGE", decodeResponse(t, w).Error.Code)
	})
}
