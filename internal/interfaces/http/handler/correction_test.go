package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	ledgerapp "github.com/bucketledger/backend/internal/application/ledger"
	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCorrectionRouter(svc *MockCorrectionService) *gin.Engine {
	h := NewCorrectionHandler(svc)
	r := gin.New()
	r.GET("/corrections", h.List)
	r.GET("/buckets/:id/corrections", h.ListForBucket)
	r.POST("/corrections", h.Create)
	r.DELETE("/corrections/:id", h.Delete)
	return r
}

func TestCorrectionHandler(t *testing.T) {
	bucketID := uuid.New()

	t.Run("lists all or per bucket", func(t *testing.T) {
		svc := new(MockCorrectionService)
		svc.On("List", mock.Anything, (*uuid.UUID)(nil)).Return([]ledgerapp.CorrectionResponse{}, nil)
		svc.On("List", mock.Anything, &bucketID).Return([]ledgerapp.CorrectionResponse{{BucketID: bucketID}}, nil)
		router := newCorrectionRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/corrections", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buckets/"+bucketID.String()+"/corrections", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeResponse(t, w).Data, 1)
		svc.AssertExpectations(t)
	})

	t.Run("create with unknown bucket is a 404", func(t *testing.T) {
		svc := new(MockCorrectionService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, ledger.ErrBucketNotFound)

		w := httptest.NewRecorder()
		newCorrectionRouter(svc).ServeHTTP(w, jsonRequest(http.MethodPost, "/corrections",
			`{"bucket_id":"`+bucketID.String()+`","date":"2024-01-01T00:00:00Z","balance":-300}`))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete answers 204", func(t *testing.T) {
		id := uuid.New()
		svc := new(MockCorrectionService)
		svc.On("Delete", mock.Anything, id).Return(nil)

		w := httptest.NewRecorder()
		newCorrectionRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/corrections/"+id.String(), nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		svc.AssertExpectations(t)
	})
}
