package workflow

import (
	"testing"
	"time"

	"github.com/majanidev/insurance_backend/models"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

func datePtr(t *testing.T, s string) *time.Time {
	d := date(t, s)
	return &d
}

func TestDueReminders_SelectsOnlyExpiringSoon(t *testing.T) {
	now := date(t, "2026-08-30")
	clients := []models.Client{
		{ID: "expired", StartDate: date(t, "2025-08-01"), RenewalDate: datePtr(t, "2026-08-30"), CreatedBy: 1},
		{ID: "window-start", StartDate: date(t, "2025-09-01"), RenewalDate: datePtr(t, "2026-08-31"), CreatedBy: 1},
		{ID: "window-end", StartDate: date(t, "2025-09-29"), RenewalDate: datePtr(t, "2026-09-29"), CreatedBy: 2},
		{ID: "beyond-window", StartDate: date(t, "2025-10-01"), RenewalDate: datePtr(t, "2026-09-30"), CreatedBy: 2},
		{ID: "date-error", CreatedBy: 3},
	}

	due := DueReminders(clients, now, "corr-1")
	if len(due) != 2 {
		t.Fatalf("expected 2 due reminders, got %d", len(due))
	}
	if due[0].ClientId != "window-start" || due[1].ClientId != "window-end" {
		t.Fatalf("unexpected selection: %s, %s", due[0].ClientId, due[1].ClientId)
	}
	if due[0].DaysLeft != 1 {
		t.Fatalf("expected 1 day left, got %d", due[0].DaysLeft)
	}
	if due[1].DaysLeft != 30 {
		t.Fatalf("expected 30 days left, got %d", due[1].DaysLeft)
	}
	for _, msg := range due {
		if msg.CorrelationId != "corr-1" {
			t.Fatalf("correlation id not propagated: %+v", msg)
		}
	}
}

func TestDueReminders_DerivedRenewalFromStartDate(t *testing.T) {
	now := date(t, "2026-08-30")
	// no explicit renewal date: start + 1 year = 2026-09-10, inside window
	clients := []models.Client{
		{ID: "derived", StartDate: date(t, "2025-09-10"), CreatedBy: 1},
	}
	due := DueReminders(clients, now, "corr-2")
	if len(due) != 1 {
		t.Fatalf("expected 1 due reminder, got %d", len(due))
	}
	if !due[0].RenewalDate.Equal(date(t, "2026-09-10")) {
		t.Fatalf("expected derived renewal 2026-09-10, got %s", due[0].RenewalDate)
	}
	if due[0].DaysLeft != 11 {
		t.Fatalf("expected 11 days left, got %d", due[0].DaysLeft)
	}
}

func TestDueReminders_Deterministic(t *testing.T) {
	now := date(t, "2026-08-30")
	clients := []models.Client{
		{ID: "a", StartDate: date(t, "2025-09-05"), RenewalDate: datePtr(t, "2026-09-05"), CreatedBy: 1},
		{ID: "b", StartDate: date(t, "2025-09-20"), RenewalDate: datePtr(t, "2026-09-20"), CreatedBy: 1},
	}
	first := DueReminders(clients, now, "corr")
	second := DueReminders(clients, now, "corr")
	if len(first) != len(second) {
		t.Fatalf("selection size changed between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("selection differs at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
