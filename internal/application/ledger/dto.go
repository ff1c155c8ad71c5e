package ledger

import (
	"time"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FormatCents renders an amount in cents as a two-decimal string, e.g. -1234 -> "-12.34"
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// CreateBucketRequest represents a request to create a bucket
type CreateBucketRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	Type        string `json:"type" binding:"required,bucket_type"`
}

// UpdateBucketRequest replaces every editable field of a bucket
type UpdateBucketRequest = CreateBucketRequest

// BucketResponse represents a bucket in API responses
type BucketResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToBucketResponse(b *ledger.Bucket) BucketResponse {
	return BucketResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Type:        b.Type.String(),
		Archived:    b.Archived,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// TransactionRequest creates or replaces a transaction. Amount is in cents.
type TransactionRequest struct {
	BucketID      uuid.UUID  `json:"bucket_id" binding:"required"`
	Amount        int64      `json:"amount" binding:"min=0"`
	Type          string     `json:"type" binding:"required,ledger_kind"`
	Status        string     `json:"status" binding:"required,tx_status"`
	Date          time.Time  `json:"date" binding:"required"`
	Description   string     `json:"description" binding:"max=500"`
	SubtypeID     *uuid.UUID `json:"subtype_id"`
	TaxDeductible bool       `json:"tax_deductible"`
	Picture       *string    `json:"picture"`
}

func (r TransactionRequest) toInput() ledger.TransactionInput {
	return ledger.TransactionInput{
		BucketID:      r.BucketID,
		Amount:        r.Amount,
		Type:          ledger.TransactionType(r.Type),
		Status:        ledger.TransactionStatus(r.Status),
		Date:          r.Date.UTC(),
		Description:   r.Description,
		SubtypeID:     r.SubtypeID,
		TaxDeductible: r.TaxDeductible,
		Picture:       r.Picture,
	}
}

// TransferRequest moves Amount cents from one bucket to another
type TransferRequest struct {
	FromBucketID  uuid.UUID  `json:"from_bucket_id" binding:"required"`
	ToBucketID    uuid.UUID  `json:"to_bucket_id" binding:"required,nefield=FromBucketID"`
	Amount        int64      `json:"amount" binding:"min=0"`
	Status        string     `json:"status" binding:"required,tx_status"`
	Date          time.Time  `json:"date" binding:"required"`
	Description   string     `json:"description" binding:"max=500"`
	SubtypeID     *uuid.UUID `json:"subtype_id"`
	TaxDeductible bool       `json:"tax_deductible"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            uuid.UUID  `json:"id"`
	BucketID      uuid.UUID  `json:"bucket_id"`
	Amount        int64      `json:"amount"`
	AmountDisplay string     `json:"amount_display"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Date          time.Time  `json:"date"`
	Description   string     `json:"description"`
	SubtypeID     *uuid.UUID `json:"subtype_id,omitempty"`
	TaxDeductible bool       `json:"tax_deductible"`
	Archived      bool       `json:"archived"`
	Picture       *string    `json:"picture,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func ToTransactionResponse(t *ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		BucketID:      t.BucketID,
		Amount:        t.Amount,
		AmountDisplay: FormatCents(t.Amount),
		Type:          t.Type.String(),
		Status:        t.Status.String(),
		Date:          t.Date,
		Description:   t.Description,
		SubtypeID:     t.SubtypeID,
		TaxDeductible: t.TaxDeductible,
		Archived:      t.Archived,
		Picture:       t.Picture,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toTransactionResponses(txs []ledger.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i := range txs {
		out[i] = ToTransactionResponse(&txs[i])
	}
	return out
}

// TransferResponse holds both legs of a transfer
type TransferResponse struct {
	Withdrawal TransactionResponse `json:"withdrawal"`
	Deposit    TransactionResponse `json:"deposit"`
}

// CorrectionRequest creates or replaces a balance correction
type CorrectionRequest struct {
	BucketID uuid.UUID `json:"bucket_id" binding:"required"`
	Date     time.Time `json:"date" binding:"required"`
	Balance  int64     `json:"balance"`
}

type CorrectionResponse struct {
	ID             uuid.UUID `json:"id"`
	BucketID       uuid.UUID `json:"bucket_id"`
	Date           time.Time `json:"date"`
	Balance        int64     `json:"balance"`
	BalanceDisplay string    `json:"balance_display"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToCorrectionResponse(c *ledger.BalanceCorrection) CorrectionResponse {
	return CorrectionResponse{
		ID:             c.ID,
		BucketID:       c.BucketID,
		Date:           c.Date,
		Balance:        c.Balance,
		BalanceDisplay: FormatCents(c.Balance),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// SubscriptionRequest creates or replaces a subscription. IntervalMs is the
// recurrence period in milliseconds.
type SubscriptionRequest struct {
	BucketID      uuid.UUID  `json:"bucket_id" binding:"required"`
	Name          string     `json:"name" binding:"required,min=1,max=100"`
	StartDate     time.Time  `json:"start_date" binding:"required"`
	EndDate       *time.Time `json:"end_date"`
	IntervalMs    int64      `json:"interval" binding:"required,gt=0"`
	Amount        int64      `json:"amount" binding:"min=0"`
	SubtypeID     *uuid.UUID `json:"subtype_id"`
	Description   string     `json:"description" binding:"max=500"`
	Picture       *string    `json:"picture"`
	TaxDeductible bool       `json:"tax_deductible"`
}

func (r SubscriptionRequest) toInput() ledger.SubscriptionInput {
	var end *time.Time
	if r.EndDate != nil {
		e := r.EndDate.UTC()
		end = &e
	}
	return ledger.SubscriptionInput{
		BucketID:      r.BucketID,
		Name:          r.Name,
		StartDate:     r.StartDate.UTC(),
		EndDate:       end,
		Interval:      time.Duration(r.IntervalMs) * time.Millisecond,
		Amount:        r.Amount,
		SubtypeID:     r.SubtypeID,
		Description:   r.Description,
		Picture:       r.Picture,
		TaxDeductible: r.TaxDeductible,
	}
}

type SubscriptionResponse struct {
	ID            uuid.UUID  `json:"id"`
	BucketID      uuid.UUID  `json:"bucket_id"`
	Name          string     `json:"name"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	IntervalMs    int64      `json:"interval"`
	Amount        int64      `json:"amount"`
	AmountDisplay string     `json:"amount_display"`
	SubtypeID     *uuid.UUID `json:"subtype_id,omitempty"`
	Description   string     `json:"description"`
	Picture       *string    `json:"picture,omitempty"`
	TaxDeductible bool       `json:"tax_deductible"`
	Archived      bool       `json:"archived"`
}

func ToSubscriptionResponse(s *ledger.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:            s.ID,
		BucketID:      s.BucketID,
		Name:          s.Name,
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		IntervalMs:    s.IntervalMillis,
		Amount:        s.Amount,
		AmountDisplay: FormatCents(s.Amount),
		SubtypeID:     s.SubtypeID,
		Description:   s.Description,
		Picture:       s.Picture,
		TaxDeductible: s.TaxDeductible,
		Archived:      s.Archived,
	}
}

// MilesRequest creates or replaces a mileage entry
type MilesRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Date   time.Time       `json:"date" binding:"required"`
}

type MilesResponse struct {
	ID       uuid.UUID       `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
	Archived bool            `json:"archived"`
}

func ToMilesResponse(m *ledger.Miles) MilesResponse {
	return MilesResponse{ID: m.ID, Amount: m.Amount, Date: m.Date, Archived: m.Archived}
}

// CategoryRequest creates or renames a transaction type
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// SubtypeRequest creates or replaces a transaction subtype
type SubtypeRequest struct {
	Name       string    `json:"name" binding:"required,min=1,max=100"`
	CategoryID uuid.UUID `json:"type_id" binding:"required"`
	Type       string    `json:"direction" binding:"required,ledger_kind"`
}

type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	DateCreated  time.Time `json:"date_created"`
	DateModified time.Time `json:"date_modified"`
}

type SubtypeResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CategoryID   uuid.UUID `json:"type_id"`
	Type         string    `json:"direction"`
	DateCreated  time.Time `json:"date_created"`
	DateModified time.Time `json:"date_modified"`
}

// CategoriesResponse lists every type and subtype
type CategoriesResponse struct {
	Types    []CategoryResponse `json:"types"`
	Subtypes []SubtypeResponse  `json:"subtypes"`
}

func ToCategoryResponse(c *ledger.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, DateCreated: c.CreatedAt, DateModified: c.UpdatedAt}
}

func ToSubtypeResponse(s *ledger.Subtype) SubtypeResponse {
	return SubtypeResponse{
		ID:           s.ID,
		Name:         s.Name,
		CategoryID:   s.CategoryID,
		Type:         s.Type.String(),
		DateCreated:  s.CreatedAt,
		DateModified: s.UpdatedAt,
	}
}

// BalanceResponse is the balance of a bucket at a date
type BalanceResponse struct {
	BucketID       uuid.UUID `json:"bucket_id"`
	Date           time.Time `json:"date"`
	Balance        int64     `json:"balance"`
	BalanceDisplay string    `json:"balance_display"`
}

// SeriesPointResponse is one day of a balance series
type SeriesPointResponse struct {
	Date           time.Time             `json:"date"`
	Balance        int64                 `json:"balance"`
	BalanceDisplay string                `json:"balance_display"`
	Transactions   []TransactionResponse `json:"transactions"`
}

func ToSeriesResponse(points []ledger.SeriesPoint) []SeriesPointResponse {
	out := make([]SeriesPointResponse, len(points))
	for i, p := range points {
		out[i] = SeriesPointResponse{
			Date:           p.Date,
			Balance:        p.Balance,
			BalanceDisplay: FormatCents(p.Balance),
			Transactions:   toTransactionResponses(p.Transactions),
		}
	}
	return out
}
