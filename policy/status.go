// Package policy is the shared rules engine for client and policy records.
// Everything in it is pure: the caller supplies the record values and the
// current time, and gets typed results back. Rendering, persistence and
// transport live elsewhere.
package policy

import "time"

// Status is the derived lifecycle state of a policy. It is computed fresh
// from the record and "now" on every evaluation and never stored.
type Status string

const (
	StatusActive       Status = "Active"
	StatusExpiringSoon Status = "ExpiringSoon"
	StatusExpired      Status = "Expired"
	StatusDateError    Status = "DateError"
)

// RenewalWindow is the horizon before a renewal date inside which a policy
// is flagged for agent follow-up.
const RenewalWindow = 30 * 24 * time.Hour

// ResolveRenewal returns the effective renewal date for a policy: the
// explicit one when set, otherwise start + 1 year. The zero time means the
// date could not be resolved.
func ResolveRenewal(start time.Time, renewal *time.Time) time.Time {
	if renewal != nil && !renewal.IsZero() {
		return *renewal
	}
	if start.IsZero() {
		return time.Time{}
	}
	return AddYears(start, 1)
}

// EvaluateStatus derives the lifecycle state of a policy at the given time.
//
// Boundaries are inclusive on both edges and must not drift: a renewal date
// equal to now is already Expired, and a renewal exactly 30 days out is
// ExpiringSoon. Renewal-reminder selection depends on these edges.
func EvaluateStatus(start time.Time, renewal *time.Time, now time.Time) Status {
	r := ResolveRenewal(start, renewal)
	if r.IsZero() {
		return StatusDateError
	}
	if !r.After(now) {
		return StatusExpired
	}
	if !r.After(now.Add(RenewalWindow)) {
		return StatusExpiringSoon
	}
	return StatusActive
}

// DaysUntilRenewal returns the whole days from now until the effective
// renewal date. Negative for lapsed policies. The second value is false
// when no renewal date could be resolved.
func DaysUntilRenewal(start time.Time, renewal *time.Time, now time.Time) (int, bool) {
	r := ResolveRenewal(start, renewal)
	if r.IsZero() {
		return 0, false
	}
	return DaysBetween(now, r), true
}
