package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is the slice of a client record the aggregator needs.
type Record struct {
	StartDate   time.Time
	RenewalDate *time.Time
	Commission  decimal.Decimal
}

type Stats struct {
	Total         int
	Active        int
	CommissionSum decimal.Decimal
}

// Aggregate folds a snapshot of client records into dashboard counters.
//
// Active counts policies that have not yet lapsed, so ExpiringSoon records
// are included. That intentionally differs from the literal Active status
// label: the dashboard's "Active Policies" figure means "still covered".
// The result is independent of input order.
func Aggregate(records []Record, now time.Time) Stats {
	stats := Stats{
		Total:         len(records),
		CommissionSum: decimal.Zero,
	}
	for _, r := range records {
		switch EvaluateStatus(r.StartDate, r.RenewalDate, now) {
		case StatusActive, StatusExpiringSoon:
			stats.Active++
		}
		stats.CommissionSum = stats.CommissionSum.Add(r.Commission)
	}
	return stats
}
