package policy

import (
	"math"
	"time"
)

// AddYears shifts t by n calendar years. Overflow dates are normalized by
// time.AddDate: Feb 29 plus one year becomes Mar 1 of the next year.
func AddYears(t time.Time, n int) time.Time {
	return t.AddDate(n, 0, 0)
}

// DaysBetween returns the signed number of whole calendar days from a to b,
// rounded up. Used for "days remaining" displays, so a renewal later today
// still counts as 1.
func DaysBetween(a, b time.Time) int {
	return int(math.Ceil(b.Sub(a).Hours() / 24))
}
