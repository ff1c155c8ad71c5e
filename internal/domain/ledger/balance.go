package ledger

import (
	"time"
)

// Epoch is the lower bound of every balance window.
var Epoch = time.Unix(0, 0).UTC()

// ReplayLedger sums the signed amounts of txs. The list is trusted to be
// already filtered to one bucket and window. Order does not matter.
func ReplayLedger(txs []Transaction) (int64, error) {
	var total int64
	for i := range txs {
		signed, err := txs[i].SignedAmount()
		if err != nil {
			return 0, err
		}
		total += signed
	}
	return total, nil
}

// ResolveCorrections adds up the balance of every correction dated at or
// before to. Corrections are deltas, so they accumulate rather than reset.
func ResolveCorrections(corrections []BalanceCorrection, to time.Time) int64 {
	var total int64
	for i := range corrections {
		if corrections[i].Date.After(to) {
			continue
		}
		total += corrections[i].Balance
	}
	return total
}

// AccrueSubscriptions adds the flat amount of every subscription active
// during [from, to], once. The recurrence interval is not multiplied in.
func AccrueSubscriptions(subs []Subscription, from, to time.Time) int64 {
	var total int64
	for i := range subs {
		if subs[i].ActiveDuring(from, to) {
			total += subs[i].Amount
		}
	}
	return total
}

// ActiveTransactions drops archived transactions.
func ActiveTransactions(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for i := range txs {
		if !txs[i].Archived {
			out = append(out, txs[i])
		}
	}
	return out
}

// ActiveSubscriptions drops archived subscriptions.
func ActiveSubscriptions(subs []Subscription) []Subscription {
	out := make([]Subscription, 0, len(subs))
	for i := range subs {
		if !subs[i].Archived {
			out = append(out, subs[i])
		}
	}
	return out
}

// BalanceAt combines the three components for the window [Epoch, at].
// Archived records are excluded before summing.
func BalanceAt(txs []Transaction, corrections []BalanceCorrection, subs []Subscription, at time.Time) (int64, error) {
	var inWindow []Transaction
	for _, t := range ActiveTransactions(txs) {
		if !t.Date.After(at) {
			inWindow = append(inWindow, t)
		}
	}
	replayed, err := ReplayLedger(inWindow)
	if err != nil {
		return 0, err
	}
	return replayed +
		ResolveCorrections(corrections, at) +
		AccrueSubscriptions(ActiveSubscriptions(subs), Epoch, at), nil
}

// ValidateRange rejects windows whose start lies after their end
func ValidateRange(from, to time.Time) error {
	if from.After(to) {
		return ErrInvalidRange
	}
	return nil
}
