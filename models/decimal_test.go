package models

import (
	"encoding/json"
	"testing"
)

func TestFlexDecimal_AcceptsFormattedStrings(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{`20000`, "20000"},
		{`"20,000"`, "20000"},
		{`"KES 20,000"`, "20000"},
		{`"KSh -20,000"`, "-20000"},
		{`"  ksh 1,234.50  "`, "1234.5"},
	}
	for _, tc := range cases {
		var d FlexDecimal
		if err := json.Unmarshal([]byte(tc.in), &d); err != nil {
			t.Fatalf("unmarshal %s error: %v", tc.in, err)
		}
		if d.String() != tc.expected {
			t.Fatalf("unmarshal %s expected %s, got %s", tc.in, tc.expected, d.String())
		}
	}
}

func TestFlexDecimal_UnparseableDegradesToZero(t *testing.T) {
	for _, in := range []string{`"abc"`, `""`, `null`, `"KES"`} {
		var d FlexDecimal
		if err := json.Unmarshal([]byte(in), &d); err != nil {
			t.Fatalf("unmarshal %s error: %v", in, err)
		}
		if !d.IsZero() {
			t.Fatalf("unmarshal %s expected zero, got %s", in, d.String())
		}
	}
}
