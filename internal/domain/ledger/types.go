package ledger

// TransactionType is the direction of a transaction. The sign of its
// contribution to a balance is derived from it.
type TransactionType string

const (
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeDeposit    TransactionType = "deposit"
)

// IsValid checks if the type is one of the two known directions
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeWithdrawal, TransactionTypeDeposit:
		return true
	}
	return false
}

func (t TransactionType) String() string {
	return string(t)
}

// TransactionStatus tracks settlement of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return true
	}
	return false
}

func (s TransactionStatus) String() string {
	return string(s)
}

// BucketType classifies a bucket
type BucketType string

const (
	BucketTypeDebit   BucketType = "debit"
	BucketTypeCredit  BucketType = "credit"
	BucketTypeSavings BucketType = "savings"
)

func (t BucketType) IsValid() bool {
	switch t {
	case BucketTypeDebit, BucketTypeCredit, BucketTypeSavings:
		return true
	}
	return false
}

func (t BucketType) String() string {
	return string(t)
}

// Aggregate type names used in event envelopes and stream topics
const (
	AggregateBucket       = "buckets"
	AggregateTransaction  = "transactions"
	AggregateCorrection   = "balance-correction"
	AggregateSubscription = "subscriptions"
	AggregateMiles        = "miles"
	AggregateCategory     = "transaction-types"
	AggregateSubtype      = "transaction-subtypes"
)
