package policy

import (
	"testing"

	"github.com/shopspring/decimal"
)

func wellFormedCandidate() Candidate {
	return Candidate{
		FullName:      "Jane Wanjiku",
		Phone:         "0712345678",
		Email:         "jane@example.com",
		Address:       "Nairobi",
		VehicleNumber: "KAA123A",
		StartDate:     "2024-01-01",
		PolicyType:    "Comprehensive",
		Premium:       decimal.NewFromInt(1000),
		Commission:    decimal.NewFromInt(100),
	}
}

func TestValidateClient_WellFormed(t *testing.T) {
	result := ValidateClient(wellFormedCandidate())
	if !result.Valid() {
		t.Fatalf("expected valid, got reason %s", result.Reason)
	}
}

func TestValidateClient_FirstFailingCheckWins(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*Candidate)
		expected InvalidReason
	}{
		{"empty full name", func(c *Candidate) { c.FullName = "" }, InvalidFullNameRequired},
		{"whitespace full name", func(c *Candidate) { c.FullName = "   " }, InvalidFullNameRequired},
		{"missing phone", func(c *Candidate) { c.Phone = "" }, InvalidPhoneRequired},
		{"phone with wrong prefix", func(c *Candidate) { c.Phone = "1712345678" }, InvalidPhoneFormat},
		{"phone too short", func(c *Candidate) { c.Phone = "071234567" }, InvalidPhoneFormat},
		{"bad email", func(c *Candidate) { c.Email = "not-an-email" }, InvalidEmailFormat},
		{"missing vehicle number", func(c *Candidate) { c.VehicleNumber = "" }, InvalidVehicleNumberRequired},
		{"missing start date", func(c *Candidate) { c.StartDate = "" }, InvalidStartDate},
		{"garbage start date", func(c *Candidate) { c.StartDate = "01/13/2024" }, InvalidStartDate},
		{"garbage renewal date", func(c *Candidate) { c.RenewalDate = "next year" }, InvalidRenewalDate},
		{"unknown policy type", func(c *Candidate) { c.PolicyType = "Premium Plus" }, InvalidPolicyType},
		{"missing policy type", func(c *Candidate) { c.PolicyType = "" }, InvalidPolicyType},
		{"negative premium", func(c *Candidate) { c.Premium = decimal.NewFromInt(-1) }, InvalidPremiumNegative},
		{"negative commission", func(c *Candidate) { c.Commission = decimal.NewFromInt(-50) }, InvalidCommissionNegative},
		// fullName is checked before phone, so only the first reason surfaces.
		{"multiple failures report the first", func(c *Candidate) { c.FullName = ""; c.Phone = "" }, InvalidFullNameRequired},
	}
	for _, tc := range cases {
		c := wellFormedCandidate()
		tc.mutate(&c)
		result := ValidateClient(c)
		if result.Valid() {
			t.Fatalf("%s: expected invalid", tc.name)
		}
		if result.Reason != tc.expected {
			t.Fatalf("%s: expected reason %s, got %s", tc.name, tc.expected, result.Reason)
		}
	}
}

func TestValidateClient_AcceptedVariants(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Candidate)
	}{
		{"plus-254 prefix", func(c *Candidate) { c.Phone = "+254712345678" }},
		{"spaces inside phone", func(c *Candidate) { c.Phone = "+254 712 345 678" }},
		{"non-17 second digit accepted", func(c *Candidate) { c.Phone = "0812345678" }},
		{"empty optional email", func(c *Candidate) { c.Email = "" }},
		{"empty optional renewal date", func(c *Candidate) { c.RenewalDate = "" }},
		{"explicit renewal date", func(c *Candidate) { c.RenewalDate = "2025-01-01" }},
		{"zero premium", func(c *Candidate) { c.Premium = decimal.Zero }},
		{"third-party policy", func(c *Candidate) { c.PolicyType = "Third-Party" }},
		{"act-only policy", func(c *Candidate) { c.PolicyType = "Act-Only" }},
	}
	for _, tc := range cases {
		c := wellFormedCandidate()
		tc.mutate(&c)
		if result := ValidateClient(c); !result.Valid() {
			t.Fatalf("%s: expected valid, got reason %s", tc.name, result.Reason)
		}
	}
}

func TestValidateClient_DoesNotMutateCandidate(t *testing.T) {
	c := wellFormedCandidate()
	c.FullName = "  Jane Wanjiku  "
	before := c
	ValidateClient(c)
	if c != before {
		t.Fatalf("candidate was mutated: %+v != %+v", c, before)
	}
}

func TestParsePolicyType(t *testing.T) {
	if _, ok := ParsePolicyType(" Comprehensive "); !ok {
		t.Fatalf("expected trimmed value to parse")
	}
	if _, ok := ParsePolicyType("comprehensive"); ok {
		t.Fatalf("policy types are case-sensitive enum values")
	}
}
