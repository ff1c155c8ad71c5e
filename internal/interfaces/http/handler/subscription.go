package handler

import (
	"context"

	ledgerapp "github.com/bucketledger/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubscriptionService is the application surface used by SubscriptionHandler
type SubscriptionService interface {
	List(ctx context.Context, archived bool) ([]ledgerapp.SubscriptionResponse, error)
	ListForBucket(ctx context.Context, bucketID uuid.UUID) ([]ledgerapp.SubscriptionResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ledgerapp.SubscriptionResponse, error)
	Create(ctx context.Context, req ledgerapp.SubscriptionRequest) (*ledgerapp.SubscriptionResponse, error)
	Update(ctx context.Context, id uuid.UUID, req ledgerapp.SubscriptionRequest) (*ledgerapp.SubscriptionResponse, error)
	Archive(ctx context.Context, id uuid.UUID) (*ledgerapp.SubscriptionResponse, error)
	Restore(ctx context.Context, id uuid.UUID) (*ledgerapp.SubscriptionResponse, error)
}

// SubscriptionHandler handles subscription endpoints
type SubscriptionHandler struct {
	BaseHandler
	subscriptions SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptions SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// List handles GET /subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	h.list(c, false)
}

// ListArchived handles GET /subscriptions/archived
func (h *SubscriptionHandler) ListArchived(c *gin.Context) {
	h.list(c, true)
}

func (h *SubscriptionHandler) list(c *gin.Context, archived bool) {
	subs, err := h.subscriptions.List(c.Request.Context(), archived)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, subs)
}

// ListForBucket handles GET /buckets/:id/subscriptions
func (h *SubscriptionHandler) ListForBucket(c *gin.Context) {
	bucketID, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	subs, err := h.subscriptions.ListForBucket(c.Request.Context(), bucketID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, subs)
}

// GetByID handles GET /subscriptions/:id
func (h *SubscriptionHandler) GetByID(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	sub, err := h.subscriptions.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

// Create handles POST /subscriptions
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req ledgerapp.SubscriptionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sub, err := h.subscriptions.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sub)
}

// Update handles PUT /subscriptions/:id
func (h *SubscriptionHandler) Update(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.SubscriptionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sub, err := h.subscriptions.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

// Archive handles POST /subscriptions/:id/archive
func (h *SubscriptionHandler) Archive(c *gin.Context) {
	h.transition(c, h.subscriptions.Archive)
}

// Restore handles POST /subscriptions/:id/restore
func (h *SubscriptionHandler) Restore(c *gin.Context) {
	h.transition(c, h.subscriptions.Restore)
}

func (h *SubscriptionHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*ledgerapp.SubscriptionResponse, error)) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	sub, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}
