package policy

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PolicyType string

const (
	PolicyTypeComprehensive PolicyType = "Comprehensive"
	PolicyTypeThirdParty    PolicyType = "Third-Party"
	PolicyTypeActOnly       PolicyType = "Act-Only"
)

func ParsePolicyType(s string) (PolicyType, bool) {
	switch PolicyType(strings.TrimSpace(s)) {
	case PolicyTypeComprehensive:
		return PolicyTypeComprehensive, true
	case PolicyTypeThirdParty:
		return PolicyTypeThirdParty, true
	case PolicyTypeActOnly:
		return PolicyTypeActOnly, true
	}
	return "", false
}

// InvalidReason enumerates why a candidate client record was rejected.
// The caller renders these as user-facing text.
type InvalidReason string

const (
	InvalidFullNameRequired      InvalidReason = "FullNameRequired"
	InvalidPhoneRequired         InvalidReason = "PhoneRequired"
	InvalidPhoneFormat           InvalidReason = "PhoneFormat"
	InvalidEmailFormat           InvalidReason = "EmailFormat"
	InvalidVehicleNumberRequired InvalidReason = "VehicleNumberRequired"
	InvalidStartDate             InvalidReason = "StartDate"
	InvalidRenewalDate           InvalidReason = "RenewalDate"
	InvalidPolicyType            InvalidReason = "PolicyType"
	InvalidPremiumNegative       InvalidReason = "PremiumNegative"
	InvalidCommissionNegative    InvalidReason = "CommissionNegative"
)

// ValidationResult is either valid or carries exactly one rejection reason.
type ValidationResult struct {
	Reason InvalidReason
}

func (r ValidationResult) Valid() bool { return r.Reason == "" }

func valid() ValidationResult { return ValidationResult{} }
func invalid(reason InvalidReason) ValidationResult { return ValidationResult{Reason: reason} }

// Candidate is an unsanitized client submission. Dates arrive as the raw
// form strings so parseability is part of validation.
type Candidate struct {
	FullName      string
	Phone         string
	Email         string
	Address       string
	VehicleNumber string
	StartDate     string
	RenewalDate   string
	PolicyType    string
	Premium       decimal.Decimal
	Commission    decimal.Decimal
}

// DateLayout is the calendar-date wire format used by the client forms.
const DateLayout = "2006-01-02"

// ParseDate parses a form date. The zero time signals an unparseable value;
// callers turn that into StatusDateError or a validation reason, never a panic.
func ParseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Kenyan phone numbers: +254 or 0 prefix followed by nine digits. Spaces are
// stripped before matching, so "+254 712 345 678" passes. Deliberately does
// not pin the second digit to 1/7, so landline-style numbers are accepted.
var kenyanPhonePattern = regexp.MustCompile(`^(\+254|0)[0-9]{9}$`)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateClient checks a candidate record in a fixed precedence order and
// reports the first failing check only. It never mutates the candidate.
func ValidateClient(c Candidate) ValidationResult {
	if strings.TrimSpace(c.FullName) == "" {
		return invalid(InvalidFullNameRequired)
	}

	phone := strings.TrimSpace(c.Phone)
	if phone == "" {
		return invalid(InvalidPhoneRequired)
	}
	if !kenyanPhonePattern.MatchString(strings.ReplaceAll(phone, " ", "")) {
		return invalid(InvalidPhoneFormat)
	}

	if email := strings.TrimSpace(c.Email); email != "" && !emailPattern.MatchString(email) {
		return invalid(InvalidEmailFormat)
	}

	if strings.TrimSpace(c.VehicleNumber) == "" {
		return invalid(InvalidVehicleNumberRequired)
	}

	if ParseDate(c.StartDate).IsZero() {
		return invalid(InvalidStartDate)
	}

	// Renewal date is optional; when absent it is derived as start + 1 year.
	if r := strings.TrimSpace(c.RenewalDate); r != "" && ParseDate(r).IsZero() {
		return invalid(InvalidRenewalDate)
	}

	if _, ok := ParsePolicyType(c.PolicyType); !ok {
		return invalid(InvalidPolicyType)
	}

	if c.Premium.IsNegative() {
		return invalid(InvalidPremiumNegative)
	}
	if c.Commission.IsNegative() {
		return invalid(InvalidCommissionNegative)
	}

	return valid()
}
