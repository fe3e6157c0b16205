package policy

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil, testNow)
	if stats.Total != 0 || stats.Active != 0 || !stats.CommissionSum.IsZero() {
		t.Fatalf("empty input: expected zero stats, got %+v", stats)
	}
}

func TestAggregate_NotYetLapsedSemantics(t *testing.T) {
	records := []Record{
		// Active: renewal well in the future.
		{StartDate: testNow.AddDate(0, -1, 0), Commission: decimal.NewFromInt(100)},
		// ExpiringSoon: inside the 30-day window, still counts as active coverage.
		{StartDate: testNow.AddDate(-1, 0, 20), Commission: decimal.NewFromInt(250)},
		// Expired.
		{StartDate: testNow.AddDate(-2, 0, 0), Commission: decimal.NewFromInt(75)},
		// DateError: no dates at all; excluded from the active count.
		{Commission: decimal.NewFromInt(10)},
	}

	stats := Aggregate(records, testNow)
	if stats.Total != 4 {
		t.Fatalf("expected total 4, got %d", stats.Total)
	}
	if stats.Active != 2 {
		t.Fatalf("expected 2 not-yet-lapsed policies, got %d", stats.Active)
	}
	// Commission still sums over every record, lapsed or not.
	if expected := decimal.NewFromInt(435); !stats.CommissionSum.Equal(expected) {
		t.Fatalf("expected commission sum %s, got %s", expected, stats.CommissionSum)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	records := make([]Record, 0, 20)
	for i := 0; i < 20; i++ {
		records = append(records, Record{
			StartDate:  testNow.AddDate(-i/8-1, 0, i),
			Commission: decimal.NewFromInt(int64(i * 13)),
		})
	}
	expected := Aggregate(records, testNow)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 5; i++ {
		rng.Shuffle(len(records), func(a, b int) {
			records[a], records[b] = records[b], records[a]
		})
		got := Aggregate(records, testNow)
		if got.Total != expected.Total || got.Active != expected.Active || !got.CommissionSum.Equal(expected.CommissionSum) {
			t.Fatalf("shuffle %d: expected %+v, got %+v", i, expected, got)
		}
	}
}

func TestAggregate_ExplicitRenewalDates(t *testing.T) {
	soon := testNow.AddDate(0, 0, 10)
	far := testNow.AddDate(0, 6, 0)
	past := testNow.AddDate(0, 0, -1)
	records := []Record{
		{StartDate: testNow.AddDate(-3, 0, 0), RenewalDate: &soon},
		{StartDate: testNow.AddDate(-3, 0, 0), RenewalDate: &far},
		{StartDate: testNow.AddDate(-3, 0, 0), RenewalDate: &past},
	}
	stats := Aggregate(records, testNow)
	if stats.Active != 2 {
		t.Fatalf("explicit renewal dates: expected 2 active, got %d", stats.Active)
	}
}
