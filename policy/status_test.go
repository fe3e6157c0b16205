package policy

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func TestEvaluateStatus_Boundaries(t *testing.T) {
	start := testNow.AddDate(-1, 0, 0)

	cases := []struct {
		name     string
		renewal  *time.Time
		expected Status
	}{
		{"renewal equal to now is already expired", datePtr(testNow), StatusExpired},
		{"renewal in the past", datePtr(testNow.AddDate(0, 0, -10)), StatusExpired},
		{"renewal exactly 30 days out", datePtr(testNow.Add(30 * 24 * time.Hour)), StatusExpiringSoon},
		{"renewal just inside the window", datePtr(testNow.AddDate(0, 0, 15)), StatusExpiringSoon},
		{"renewal 31 days out", datePtr(testNow.Add(31 * 24 * time.Hour)), StatusActive},
		{"renewal a year out", datePtr(testNow.AddDate(1, 0, 0)), StatusActive},
	}
	for _, tc := range cases {
		got := EvaluateStatus(start, tc.renewal, testNow)
		if got != tc.expected {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expected, got)
		}
	}
}

func TestEvaluateStatus_DerivedRenewal(t *testing.T) {
	cases := []struct {
		name     string
		start    time.Time
		expected Status
	}{
		{"started yesterday", testNow.AddDate(0, 0, -1), StatusActive},
		{"started 11.5 months ago", testNow.AddDate(0, -11, -15), StatusExpiringSoon},
		{"started over a year ago", testNow.AddDate(-1, 0, -1), StatusExpired},
	}
	for _, tc := range cases {
		got := EvaluateStatus(tc.start, nil, testNow)
		if got != tc.expected {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expected, got)
		}
	}
}

// With no explicit renewal date the evaluator must behave exactly as if the
// caller had passed start + 1 year.
func TestEvaluateStatus_DerivationConsistency(t *testing.T) {
	starts := []time.Time{
		testNow.AddDate(-2, 0, 0),
		testNow.AddDate(-1, 0, 0),
		testNow.AddDate(0, -11, -10),
		testNow.AddDate(0, -1, 0),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}
	for _, start := range starts {
		derived := AddYears(start, 1)
		implicit := EvaluateStatus(start, nil, testNow)
		explicit := EvaluateStatus(start, &derived, testNow)
		if implicit != explicit {
			t.Fatalf("start %s: implicit %s != explicit %s", start.Format(DateLayout), implicit, explicit)
		}
	}
}

func TestEvaluateStatus_DateError(t *testing.T) {
	if got := EvaluateStatus(time.Time{}, nil, testNow); got != StatusDateError {
		t.Fatalf("missing dates: expected %s, got %s", StatusDateError, got)
	}
	// Unparseable renewal input surfaces as a zero time; start date is irrelevant.
	if got := EvaluateStatus(testNow.AddDate(-1, 0, 0), nil, testNow); got == StatusDateError {
		t.Fatalf("valid start with derived renewal must not be a date error")
	}
	if got := EvaluateStatus(time.Time{}, datePtr(time.Time{}), testNow); got != StatusDateError {
		t.Fatalf("zero renewal pointer: expected %s, got %s", StatusDateError, got)
	}
}

func TestEvaluateStatus_Deterministic(t *testing.T) {
	start := testNow.AddDate(0, -11, 0)
	renewal := datePtr(testNow.AddDate(0, 0, 20))
	first := EvaluateStatus(start, renewal, testNow)
	for i := 0; i < 10; i++ {
		if got := EvaluateStatus(start, renewal, testNow); got != first {
			t.Fatalf("evaluation %d: expected %s, got %s", i, first, got)
		}
	}
}

func TestAddYears_LeapDayNormalizes(t *testing.T) {
	leap := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	got := AddYears(leap, 1)
	expected := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(expected) {
		t.Fatalf("expected %s, got %s", expected, got)
	}
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		name     string
		a, b     time.Time
		expected int
	}{
		{"same instant", testNow, testNow, 0},
		{"exactly ten days", testNow, testNow.AddDate(0, 0, 10), 10},
		{"partial day rounds up", testNow, testNow.Add(36 * time.Hour), 2},
		{"negative span", testNow, testNow.AddDate(0, 0, -3), -3},
		{"a few hours later today", testNow, testNow.Add(5 * time.Hour), 1},
	}
	for _, tc := range cases {
		if got := DaysBetween(tc.a, tc.b); got != tc.expected {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.expected, got)
		}
	}
}

func TestDaysUntilRenewal(t *testing.T) {
	start := testNow.AddDate(-1, 0, 15)
	days, ok := DaysUntilRenewal(start, nil, testNow)
	if !ok {
		t.Fatalf("expected a resolvable renewal date")
	}
	if days != 15 {
		t.Fatalf("expected 15 days, got %d", days)
	}
	if _, ok := DaysUntilRenewal(time.Time{}, nil, testNow); ok {
		t.Fatalf("zero start must not resolve")
	}
}
