package handler

import (
	"context"
	"time"

	ledgerapp "github.com/bucketledger/backend/internal/application/ledger"
	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionService is the application surface used by TransactionHandler
type TransactionService interface {
	ListForBucket(ctx context.Context, bucketID uuid.UUID, from, to time.Time) ([]ledgerapp.TransactionResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ledgerapp.TransactionResponse, error)
	Create(ctx context.Context, req ledgerapp.TransactionRequest) (*ledgerapp.TransactionResponse, error)
	Update(ctx context.Context, id uuid.UUID, req ledgerapp.TransactionRequest) (*ledgerapp.TransactionResponse, error)
	Archive(ctx context.Context, id uuid.UUID) (*ledgerapp.TransactionResponse, error)
	Restore(ctx context.Context, id uuid.UUID) (*ledgerapp.TransactionResponse, error)
	Transfer(ctx context.Context, req ledgerapp.TransferRequest) (*ledgerapp.TransferResponse, error)
}

// TransactionHandler handles transaction and transfer endpoints
type TransactionHandler struct {
	BaseHandler
	transactions TransactionService
	now          func() time.Time
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactions TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, now: time.Now}
}

// ListForBucket handles GET /buckets/:id/transactions?from=&to=.
// from defaults to the epoch and to to now.
func (h *TransactionHandler) ListForBucket(c *gin.Context) {
	bucketID, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	from, ok := h.queryTime(c, "from", ledger.Epoch)
	if !ok {
		return
	}
	to, ok := h.queryTime(c, "to", h.now().UTC())
	if !ok {
		return
	}

	txs, err := h.transactions.ListForBucket(c.Request.Context(), bucketID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txs)
}

// GetByID handles GET /transactions/:id
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	tx, err := h.transactions.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Create handles POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	var req ledgerapp.TransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tx, err := h.transactions.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// Update handles PUT /transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.TransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tx, err := h.transactions.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Archive handles POST /transactions/:id/archive
func (h *TransactionHandler) Archive(c *gin.Context) {
	h.transition(c, h.transactions.Archive)
}

// Restore handles POST /transactions/:id/restore
func (h *TransactionHandler) Restore(c *gin.Context) {
	h.transition(c, h.transactions.Restore)
}

// Transfer handles POST /transactions/transfer
func (h *TransactionHandler) Transfer(c *gin.Context) {
	var req ledgerapp.TransferRequest
	if !h.bindJSON(c, &req) {
		return
	}
	transfer, err := h.transactions.Transfer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, transfer)
}

func (h *TransactionHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*ledgerapp.TransactionResponse, error)) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	tx, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}
