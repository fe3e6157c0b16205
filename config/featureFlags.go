package config

import (
	"os"
	"strings"
)

// RenewalRemindersEnabled gates the background scan that publishes
// expiring-policy reminder events.
//
// Set via env:
// - RENEWAL_REMINDERS_ENABLED=true
func RenewalRemindersEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("RENEWAL_REMINDERS_ENABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// LoginRateLimitDisabled turns off the redis login rate limiter.
// Useful for local development without redis.
//
// Set via env:
// - LOGIN_RATE_LIMIT_DISABLED=true
func LoginRateLimitDisabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("LOGIN_RATE_LIMIT_DISABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
