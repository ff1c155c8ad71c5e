package handler

import (
	"context"

	ledgerapp "github.com/bucketledger/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MilesService is the application surface used by MilesHandler
type MilesService interface {
	List(ctx context.Context, archived bool) ([]ledgerapp.MilesResponse, error)
	Create(ctx context.Context, req ledgerapp.MilesRequest) (*ledgerapp.MilesResponse, error)
	Update(ctx context.Context, id uuid.UUID, req ledgerapp.MilesRequest) (*ledgerapp.MilesResponse, error)
	Archive(ctx context.Context, id uuid.UUID) (*ledgerapp.MilesResponse, error)
	Restore(ctx context.Context, id uuid.UUID) (*ledgerapp.MilesResponse, error)
}

// MilesHandler handles the mileage log
type MilesHandler struct {
	BaseHandler
	miles MilesService
}

func NewMilesHandler(miles MilesService) *MilesHandler {
	return &MilesHandler{miles: miles}
}

// List handles GET /miles
func (h *MilesHandler) List(c *gin.Context) {
	h.list(c, false)
}

// ListArchived handles GET /miles/archived
func (h *MilesHandler) ListArchived(c *gin.Context) {
	h.list(c, true)
}

func (h *MilesHandler) list(c *gin.Context, archived bool) {
	entries, err := h.miles.List(c.Request.Context(), archived)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// Create handles POST /miles
func (h *MilesHandler) Create(c *gin.Context) {
	var req ledgerapp.MilesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := h.miles.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Update handles PUT /miles/:id
func (h *MilesHandler) Update(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.MilesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := h.miles.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Archive handles POST /miles/:id/archive
func (h *MilesHandler) Archive(c *gin.Context) {
	h.transition(c, h.miles.Archive)
}

// Restore handles POST /miles/:id/restore
func (h *MilesHandler) Restore(c *gin.Context) {
	h.transition(c, h.miles.Restore)
}

func (h *MilesHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*ledgerapp.MilesResponse, error)) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	entry, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}
