package handler

import (
	"context"

	ledgerapp "github.com/bucketledger/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BucketService is the application surface used by BucketHandler
type BucketService interface {
	List(ctx context.Context, archived bool) ([]ledgerapp.BucketResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ledgerapp.BucketResponse, error)
	Create(ctx context.Context, req ledgerapp.CreateBucketRequest) (*ledgerapp.BucketResponse, error)
	Update(ctx context.Context, id uuid.UUID, req ledgerapp.UpdateBucketRequest) (*ledgerapp.BucketResponse, error)
	Archive(ctx context.Context, id uuid.UUID) (*ledgerapp.BucketResponse, error)
	Restore(ctx context.Context, id uuid.UUID) (*ledgerapp.BucketResponse, error)
}

// BucketHandler handles bucket endpoints
type BucketHandler struct {
	BaseHandler
	buckets BucketService
}

// NewBucketHandler creates a new BucketHandler
func NewBucketHandler(buckets BucketService) *BucketHandler {
	return &BucketHandler{buckets: buckets}
}

// List handles GET /buckets
func (h *BucketHandler) List(c *gin.Context) {
	h.list(c, false)
}

// ListArchived handles GET /buckets/archived
func (h *BucketHandler) ListArchived(c *gin.Context) {
	h.list(c, true)
}

func (h *BucketHandler) list(c *gin.Context, archived bool) {
	buckets, err := h.buckets.List(c.Request.Context(), archived)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, buckets)
}

// GetByID handles GET /buckets/:id
func (h *BucketHandler) GetByID(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	bucket, err := h.buckets.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bucket)
}

// Create handles POST /buckets
func (h *BucketHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateBucketRequest
	if !h.bindJSON(c, &req) {
		return
	}
	bucket, err := h.buckets.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, bucket)
}

// Update handles PUT /buckets/:id
func (h *BucketHandler) Update(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.UpdateBucketRequest
	if !h.bindJSON(c, &req) {
		return
	}
	bucket, err := h.buckets.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bucket)
}

// Archive handles POST /buckets/:id/archive
func (h *BucketHandler) Archive(c *gin.Context) {
	h.transition(c, h.buckets.Archive)
}

// Restore handles POST /buckets/:id/restore
func (h *BucketHandler) Restore(c *gin.Context) {
	h.transition(c, h.buckets.Restore)
}

func (h *BucketHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*ledgerapp.BucketResponse, error)) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	bucket, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bucket)
}
