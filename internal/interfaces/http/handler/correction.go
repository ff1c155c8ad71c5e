package handler

import (
	"context"

	ledgerapp "github.com/bucketledger/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrectionService is the application surface used by CorrectionHandler
type CorrectionService interface {
	List(ctx context.Context, bucketID *uuid.UUID) ([]ledgerapp.CorrectionResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ledgerapp.CorrectionResponse, error)
	Create(ctx context.Context, req ledgerapp.CorrectionRequest) (*ledgerapp.CorrectionResponse, error)
	Update(ctx context.Context, id uuid.UUID, req ledgerapp.CorrectionRequest) (*ledgerapp.CorrectionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CorrectionHandler handles balance correction endpoints
type CorrectionHandler struct {
	BaseHandler
	corrections CorrectionService
}

// NewCorrectionHandler creates a new CorrectionHandler
func NewCorrectionHandler(corrections CorrectionService) *CorrectionHandler {
	return &CorrectionHandler{corrections: corrections}
}

// List handles GET /corrections
func (h *CorrectionHandler) List(c *gin.Context) {
	list, err := h.corrections.List(c.Request.Context(), nil)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// ListForBucket handles GET /buckets/:id/corrections
func (h *CorrectionHandler) ListForBucket(c *gin.Context) {
	bucketID, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	list, err := h.corrections.List(c.Request.Context(), &bucketID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// GetByID handles GET /corrections/:id
func (h *CorrectionHandler) GetByID(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	correction, err := h.corrections.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, correction)
}

// Create handles POST /corrections
func (h *CorrectionHandler) Create(c *gin.Context) {
	var req ledgerapp.CorrectionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	correction, err := h.corrections.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, correction)
}

// Update handles PUT /corrections/:id
func (h *CorrectionHandler) Update(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.CorrectionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	correction, err := h.corrections.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, correction)
}

// Delete handles DELETE /corrections/:id
func (h *CorrectionHandler) Delete(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.corrections.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
