package ledger

import (
	"sort"
	"time"
)

const (
	// SeriesStep is the distance between two points of a balance series
	SeriesStep = 24 * time.Hour
	// AnnotationWindow is how far back a point looks for transactions to list
	AnnotationWindow = 24 * time.Hour
)

// SeriesPoint is the balance of a bucket at Date, with the transactions
// that happened during the preceding AnnotationWindow.
type SeriesPoint struct {
	Date         time.Time
	Balance      int64
	Transactions []Transaction
}

// ValidateSeriesRange rejects inverted ranges and ranges whose span
// does not fit in a time.Duration (about 292 years).
func ValidateSeriesRange(start, end time.Time) error {
	if err := ValidateRange(start, end); err != nil {
		return err
	}
	if start.Add(end.Sub(start)).Before(end) {
		return ErrSeriesTooLong
	}
	return nil
}

// SeriesSteps returns start, start+1d, ... up to and including end, or nil
// when ValidateSeriesRange rejects the range.
func SeriesSteps(start, end time.Time) []time.Time {
	if ValidateSeriesRange(start, end) != nil {
		return nil
	}
	count := int(end.Sub(start)/SeriesStep) + 1
	steps := make([]time.Time, count)
	for i := range steps {
		steps[i] = start.Add(time.Duration(i) * SeriesStep)
	}
	return steps
}

// BuildSeries produces one point per day in [start, end]. Each point's
// balance equals BalanceAt(step); it is computed with a running prefix sum
// over date-sorted transactions and corrections instead of re-summing.
func BuildSeries(txs []Transaction, corrections []BalanceCorrection, subs []Subscription, start, end time.Time) ([]SeriesPoint, error) {
	if err := ValidateSeriesRange(start, end); err != nil {
		return nil, err
	}

	active := ActiveTransactions(txs)
	for i := range active {
		if _, err := active[i].SignedAmount(); err != nil {
			return nil, err
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Date.Before(active[j].Date) })

	sortedCorrections := append([]BalanceCorrection(nil), corrections...)
	sort.SliceStable(sortedCorrections, func(i, j int) bool {
		return sortedCorrections[i].Date.Before(sortedCorrections[j].Date)
	})

	liveSubs := ActiveSubscriptions(subs)
	steps := SeriesSteps(start, end)
	points := make([]SeriesPoint, 0, len(steps))

	var ledger, adjustments int64
	ti, ci := 0, 0
	for _, step := range steps {
		for ti < len(active) && !active[ti].Date.After(step) {
			signed, _ := active[ti].SignedAmount()
			ledger += signed
			ti++
		}
		for ci < len(sortedCorrections) && !sortedCorrections[ci].Date.After(step) {
			adjustments += sortedCorrections[ci].Balance
			ci++
		}

		points = append(points, SeriesPoint{
			Date:         step,
			Balance:      ledger + adjustments + AccrueSubscriptions(liveSubs, Epoch, step),
			Transactions: transactionsWithin(active, step.Add(-AnnotationWindow), step),
		})
	}
	return points, nil
}

// transactionsWithin returns the transactions of a date-sorted slice with
// from <= date <= to.
func transactionsWithin(sorted []Transaction, from, to time.Time) []Transaction {
	lo := sort.Search(len(sorted), func(i int) bool { return !sorted[i].Date.Before(from) })
	out := make([]Transaction, 0)
	for i := lo; i < len(sorted) && !sorted[i].Date.After(to); i++ {
		out = append(out, sorted[i])
	}
	return out
}
