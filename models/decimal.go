package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexDecimal is a decimal.Decimal that tolerates the money formats the
// web forms actually send. Unparseable input degrades to zero instead of
// rejecting the whole submission; amount sanity checks happen in the
// policy validator afterwards.
type FlexDecimal struct {
	decimal.Decimal
}

func (d FlexDecimal) MarshalJSON() ([]byte, error) {
	return []byte(d.Decimal.String()), nil
}

func (d *FlexDecimal) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		d.Decimal = decimal.Zero
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			d.Decimal = decimal.Zero
			return nil
		}
		d.Decimal = parseFlexibleAmount(s)
		return nil
	}
	val, err := decimal.NewFromString(raw)
	if err != nil {
		d.Decimal = decimal.Zero
		return nil
	}
	d.Decimal = val
	return nil
}

// parseFlexibleAmount accepts common user-formatted strings like:
// - "20,000"
// - "KES 20,000"
// - "KSh -20,000"
//
// Keep digits, '.', and a leading '-' only.
func parseFlexibleAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s != "" {
		s = strings.ReplaceAll(s, ",", "")
		s = strings.ReplaceAll(s, "KES", "")
		s = strings.ReplaceAll(s, "kes", "")
		s = strings.ReplaceAll(s, "KSh", "")
		s = strings.ReplaceAll(s, "Ksh", "")
		s = strings.ReplaceAll(s, "ksh", "")
		s = strings.TrimSpace(s)
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}
	var b strings.Builder
	b.Grow(len(s) + 1)
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return decimal.Zero
	}
	if neg {
		clean = "-" + clean
	}

	val, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return val
}
