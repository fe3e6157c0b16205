package policy

import "strings"

// Profile is the onboarding view of an agent account. It carries only the
// fields the completeness gate looks at.
type Profile struct {
	Name               string
	Phone              string
	Address            string
	MustChangePassword bool
}

// IsProfileComplete reports whether an agent has finished onboarding:
// the profile exists, name/phone/address are non-blank after trimming,
// and the mandatory password change has been cleared. There is no partial
// state; pages either let the agent through or send them to settings.
func IsProfileComplete(p *Profile) bool {
	if p == nil {
		return false
	}
	if strings.TrimSpace(p.Name) == "" ||
		strings.TrimSpace(p.Phone) == "" ||
		strings.TrimSpace(p.Address) == "" {
		return false
	}
	return !p.MustChangePassword
}
