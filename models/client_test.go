package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/majanidev/insurance_backend/policy"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

func TestPolicyNumberDerivation(t *testing.T) {
	cases := []struct {
		vehicle  string
		expected string
	}{
		{"KBX 123A", "POL 3A"},
		{"KCA 999Z", "POL 9Z"},
		{"AB", "POL AB"},
		{"A", "POL A"},
		{"", "POL "},
	}
	for _, tc := range cases {
		c := Client{VehicleNumber: tc.vehicle}
		if got := c.PolicyNumber(); got != tc.expected {
			t.Fatalf("vehicle %q expected %q, got %q", tc.vehicle, tc.expected, got)
		}
	}
}

func TestRowStatusMapping(t *testing.T) {
	now := mustDate(t, "2026-08-30")
	start := mustDate(t, "2025-08-30")

	cases := []struct {
		name     string
		renewal  string
		status   policy.Status
		label    string
		class    string
		daysLeft *int
	}{
		{"expired on boundary", "2026-08-30", policy.StatusExpired, "Expired", "status-expired", intPtr(0)},
		{"expiring inside window", "2026-09-10", policy.StatusExpiringSoon, "Expiring Soon", "status-expiring", intPtr(11)},
		{"active beyond window", "2026-12-01", policy.StatusActive, "Active", "status-active", intPtr(93)},
	}
	for _, tc := range cases {
		renewal := mustDate(t, tc.renewal)
		c := Client{StartDate: start, RenewalDate: &renewal}
		row := c.Row(now)
		if row.Status != tc.status {
			t.Fatalf("%s: expected status %s, got %s", tc.name, tc.status, row.Status)
		}
		if row.StatusLabel != tc.label {
			t.Fatalf("%s: expected label %q, got %q", tc.name, tc.label, row.StatusLabel)
		}
		if row.StatusClass != tc.class {
			t.Fatalf("%s: expected class %q, got %q", tc.name, tc.class, row.StatusClass)
		}
		if tc.daysLeft == nil {
			if row.DaysLeft != nil {
				t.Fatalf("%s: expected no days left, got %d", tc.name, *row.DaysLeft)
			}
		} else if row.DaysLeft == nil || *row.DaysLeft != *tc.daysLeft {
			t.Fatalf("%s: expected days left %d, got %v", tc.name, *tc.daysLeft, row.DaysLeft)
		}
	}
}

func TestRowDerivesRenewalFromStartDate(t *testing.T) {
	now := mustDate(t, "2026-08-30")
	c := Client{StartDate: mustDate(t, "2025-10-15")}
	row := c.Row(now)
	// start + 1 year = 2026-10-15, outside the 30-day window
	if row.Status != policy.StatusActive {
		t.Fatalf("expected Active, got %s", row.Status)
	}
}

func TestStatusFilterMatches(t *testing.T) {
	cases := []struct {
		filter   string
		status   policy.Status
		expected bool
	}{
		{"", policy.StatusExpired, true},
		{"all", policy.StatusActive, true},
		{"All", policy.StatusExpired, true},
		{"active", policy.StatusActive, true},
		{"active", policy.StatusExpiringSoon, false},
		{"expiring", policy.StatusExpiringSoon, true},
		{"expired", policy.StatusExpired, true},
		{"expired", policy.StatusActive, false},
		{"bogus", policy.StatusExpired, true},
	}
	for _, tc := range cases {
		if got := statusFilterMatches(tc.filter, tc.status); got != tc.expected {
			t.Fatalf("filter %q status %s expected %v, got %v", tc.filter, tc.status, tc.expected, got)
		}
	}
}

func TestRecentClientsNewestFirst(t *testing.T) {
	now := mustDate(t, "2026-08-30")
	clients := make([]Client, 0, 7)
	for i := 0; i < 7; i++ {
		clients = append(clients, Client{
			FullName:  "Client " + string(rune('A'+i)),
			StartDate: mustDate(t, "2026-01-01"),
			CreatedAt: mustDate(t, "2026-01-01").Add(time.Duration(i) * time.Hour),
		})
	}

	rows := RecentClients(clients, now, 5)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].CreatedAt.After(rows[i-1].CreatedAt) {
			t.Fatalf("rows not sorted newest first at index %d", i)
		}
	}
	if rows[0].FullName != "Client G" {
		t.Fatalf("expected newest client first, got %s", rows[0].FullName)
	}

	// limit larger than input
	rows = RecentClients(clients[:2], now, 5)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestValidationErrorMessages(t *testing.T) {
	cases := []struct {
		reason   policy.InvalidReason
		expected string
	}{
		{policy.InvalidFullNameRequired, "Full name is required."},
		{policy.InvalidPhoneFormat, "Please enter a valid phone number."},
		{policy.InvalidPremiumNegative, "Premium must be a positive number."},
	}
	for _, tc := range cases {
		err := &ValidationError{Reason: tc.reason}
		if err.Error() != tc.expected {
			t.Fatalf("reason %s expected %q, got %q", tc.reason, tc.expected, err.Error())
		}
	}
}

func TestNewClientCandidateMapping(t *testing.T) {
	input := NewClient{
		FullName:      "Jane Wanjiku",
		Phone:         "0712345678",
		VehicleNumber: "KBX 123A",
		PolicyType:    "Comprehensive",
		StartDate:     "2026-01-01",
		Premium:       FlexDecimal{decimal.NewFromInt(20000)},
		Commission:    FlexDecimal{decimal.NewFromInt(2000)},
	}
	result := policy.ValidateClient(input.candidate())
	if !result.Valid() {
		t.Fatalf("expected valid candidate, got %s", result.Reason)
	}
}

func intPtr(v int) *int { return &v }
