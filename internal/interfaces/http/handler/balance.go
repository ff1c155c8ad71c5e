package handler

import (
	"context"
	"time"

	ledgerapp "github.com/bucketledger/backend/internal/application/ledger"
	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BalanceService reconstructs balances from the ledger
type BalanceService interface {
	ComputeBalanceAt(ctx context.Context, bucketID uuid.UUID, date time.Time) (int64, error)
	ComputeBalanceSeries(ctx context.Context, bucketID uuid.UUID, start, end time.Time) ([]ledger.SeriesPoint, error)
}

// BalanceHandler serves derived balances. Nothing here writes.
type BalanceHandler struct {
	BaseHandler
	balances BalanceService
	now      func() time.Time
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(balances BalanceService) *BalanceHandler {
	return &BalanceHandler{balances: balances, now: time.Now}
}

// BalanceAt handles GET /buckets/:id/balance?date=. date defaults to now.
func (h *BalanceHandler) BalanceAt(c *gin.Context) {
	bucketID, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	date, ok := h.queryTime(c, "date", h.now().UTC())
	if !ok {
		return
	}

	ctx := logger.WithBucketID(c.Request.Context(), bucketID)
	balance, err := h.balances.ComputeBalanceAt(ctx, bucketID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ledgerapp.BalanceResponse{
		BucketID:       bucketID,
		Date:           date,
		Balance:        balance,
		BalanceDisplay: ledgerapp.FormatCents(balance),
	})
}

// Series handles GET /buckets/:id/balance/series?from=&to=. to defaults to
// now and from to thirty days before to.
func (h *BalanceHandler) Series(c *gin.Context) {
	bucketID, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	to, ok := h.queryTime(c, "to", h.now().UTC())
	if !ok {
		return
	}
	from, ok := h.queryTime(c, "from", to.Add(-30*ledger.SeriesStep))
	if !ok {
		return
	}

	ctx := logger.WithBucketID(c.Request.Context(), bucketID)
	points, err := h.balances.ComputeBalanceSeries(ctx, bucketID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ledgerapp.ToSeriesResponse(points))
}
