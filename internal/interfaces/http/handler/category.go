package handler

import (
	"context"

	ledgerapp "github.com/bucketledger/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryService is the application surface used by CategoryHandler
type CategoryService interface {
	List(ctx context.Context) (*ledgerapp.CategoriesResponse, error)
	CreateCategory(ctx context.Context, req ledgerapp.CategoryRequest) (*ledgerapp.CategoryResponse, error)
	RenameCategory(ctx context.Context, id uuid.UUID, req ledgerapp.CategoryRequest) (*ledgerapp.CategoryResponse, error)
	CreateSubtype(ctx context.Context, req ledgerapp.SubtypeRequest) (*ledgerapp.SubtypeResponse, error)
	UpdateSubtype(ctx context.Context, id uuid.UUID, req ledgerapp.SubtypeRequest) (*ledgerapp.SubtypeResponse, error)
}

// CategoryHandler handles transaction types and subtypes
type CategoryHandler struct {
	BaseHandler
	categories CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List handles GET /categories and returns {types, subtypes}
func (h *CategoryHandler) List(c *gin.Context) {
	all, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, all)
}

// CreateType handles POST /categories/types
func (h *CategoryHandler) CreateType(c *gin.Context) {
	var req ledgerapp.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categories.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// RenameType handles PUT /categories/types/:id
func (h *CategoryHandler) RenameType(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categories.RenameCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// CreateSubtype handles POST /categories/subtypes
func (h *CategoryHandler) CreateSubtype(c *gin.Context) {
	var req ledgerapp.SubtypeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	subtype, err := h.categories.CreateSubtype(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, subtype)
}

// UpdateSubtype handles PUT /categories/subtypes/:id
func (h *CategoryHandler) UpdateSubtype(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.SubtypeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	subtype, err := h.categories.UpdateSubtype(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, subtype)
}
