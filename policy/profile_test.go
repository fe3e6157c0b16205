package policy

import "testing"

func TestIsProfileComplete(t *testing.T) {
	cases := []struct {
		name     string
		profile  *Profile
		expected bool
	}{
		{"nil profile", nil, false},
		{"all fields set", &Profile{Name: "A", Phone: "B", Address: "C"}, true},
		{"pending password change blocks completion", &Profile{Name: "A", Phone: "B", Address: "C", MustChangePassword: true}, false},
		{"blank address", &Profile{Name: "A", Phone: "B", Address: ""}, false},
		{"whitespace-only name", &Profile{Name: "   ", Phone: "B", Address: "C"}, false},
		{"missing phone", &Profile{Name: "A", Address: "C"}, false},
	}
	for _, tc := range cases {
		if got := IsProfileComplete(tc.profile); got != tc.expected {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.expected, got)
		}
	}
}
