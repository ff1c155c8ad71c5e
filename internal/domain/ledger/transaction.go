package ledger

import (
	"strconv"
	"time"

	"github.com/bucketledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Transaction is a single movement of money in or out of a bucket.
// Amount is stored unsigned, in cents; Type decides the sign.
type Transaction struct {
	shared.BaseAggregateRoot
	BucketID      uuid.UUID         `json:"bucket_id"`
	Amount        int64             `json:"amount"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Date          time.Time         `json:"date"`
	Description   string            `json:"description"`
	SubtypeID     *uuid.UUID        `json:"subtype_id,omitempty"`
	TaxDeductible bool              `json:"tax_deductible"`
	Archived      bool              `json:"archived"`
	Picture       *string           `json:"picture,omitempty"`
}

// TransactionInput holds the editable fields of a transaction
type TransactionInput struct {
	BucketID      uuid.UUID
	Amount        int64
	Type          TransactionType
	Status        TransactionStatus
	Date          time.Time
	Description   string
	SubtypeID     *uuid.UUID
	TaxDeductible bool
	Picture       *string
}

func (in TransactionInput) validate() error {
	if in.BucketID == uuid.Nil {
		return shared.NewDomainError("INVALID_BUCKET", "Transaction must belong to a bucket")
	}
	if in.Amount < 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Transaction amount cannot be negative")
	}
	if !in.Type.IsValid() {
		return shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Transaction type must be withdrawal or deposit")
	}
	if !in.Status.IsValid() {
		return shared.NewDomainError("INVALID_TRANSACTION_STATUS", "Transaction status must be pending, completed or failed")
	}
	if in.Date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Transaction date is required")
	}
	if len(in.Description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	return nil
}

// NewTransaction creates an active transaction
func NewTransaction(in TransactionInput) (*Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	t := &Transaction{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	t.apply(in)
	t.AddDomainEvent(NewCreated(t))
	return t, nil
}

// Update replaces every editable field. Moving a transaction to another
// bucket reports both buckets as affected.
func (t *Transaction) Update(in TransactionInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	previous := t.BucketID
	t.apply(in)
	t.Touch()
	t.AddDomainEvent(NewUpdated(t, previous))
	return nil
}

func (t *Transaction) apply(in TransactionInput) {
	t.BucketID = in.BucketID
	t.Amount = in.Amount
	t.Type = in.Type
	t.Status = in.Status
	t.Date = in.Date
	t.Description = in.Description
	t.SubtypeID = in.SubtypeID
	t.TaxDeductible = in.TaxDeductible
	t.Picture = in.Picture
}

// Archive soft-deletes the transaction, removing it from balance math
func (t *Transaction) Archive() {
	if t.Archived {
		return
	}
	t.Archived = true
	t.Touch()
	t.AddDomainEvent(NewArchived(t))
}

// Restore brings an archived transaction back into balance math
func (t *Transaction) Restore() {
	if !t.Archived {
		return
	}
	t.Archived = false
	t.Touch()
	t.AddDomainEvent(NewRestored(t))
}

// SignedAmount returns +Amount for deposits and -Amount for withdrawals.
// Records read back from storage are not trusted: an unknown type or a
// negative amount yields a MalformedRecordError.
func (t *Transaction) SignedAmount() (int64, error) {
	if t.Amount < 0 {
		return 0, &MalformedRecordError{Kind: "transaction", RecordID: t.ID, Field: "amount", Value: strconv.FormatInt(t.Amount, 10)}
	}
	switch t.Type {
	case TransactionTypeDeposit:
		return t.Amount, nil
	case TransactionTypeWithdrawal:
		return -t.Amount, nil
	default:
		return 0, &MalformedRecordError{Kind: "transaction", RecordID: t.ID, Field: "type", Value: string(t.Type)}
	}
}

func (t *Transaction) AggregateName() string {
	return AggregateTransaction
}

func (t *Transaction) BucketRefs() []uuid.UUID {
	return []uuid.UUID{t.BucketID}
}

// TransferInput describes a movement between two buckets
type TransferInput struct {
	FromBucketID  uuid.UUID
	ToBucketID    uuid.UUID
	Amount        int64
	Status        TransactionStatus
	Date          time.Time
	Description   string
	SubtypeID     *uuid.UUID
	TaxDeductible bool
}

// NewTransfer creates the paired withdrawal and deposit of a transfer.
// Both legs share amount, date, status and description.
func NewTransfer(in TransferInput) (withdrawal, deposit *Transaction, err error) {
	if in.FromBucketID == in.ToBucketID {
		return nil, nil, shared.NewDomainError("INVALID_TRANSFER", "Cannot transfer to the same bucket")
	}

	leg := TransactionInput{
		Amount:        in.Amount,
		Status:        in.Status,
		Date:          in.Date,
		Description:   in.Description,
		SubtypeID:     in.SubtypeID,
		TaxDeductible: in.TaxDeductible,
	}

	out := leg
	out.BucketID = in.FromBucketID
	out.Type = TransactionTypeWithdrawal
	withdrawal, err = NewTransaction(out)
	if err != nil {
		return nil, nil, err
	}

	into := leg
	into.BucketID = in.ToBucketID
	into.Type = TransactionTypeDeposit
	deposit, err = NewTransaction(into)
	if err != nil {
		return nil, nil, err
	}
	return withdrawal, deposit, nil
}
