package constants

import "time"

// Field Length Limits
const (
	MinPasswordLength = 8
	MaxEmailLength    = 255
)

// Token Settings
const (
	// ResetTokenTTL is how long a password reset token stays redeemable,
	// measured from the row's updated_at.
	ResetTokenTTL = 720 * time.Minute

	// RememberMeTokenTTL is the extended access token lifetime granted
	// when a login request sets remember_me.
	RememberMeTokenTTL = 7 * 24 * time.Hour

	// ActivationTokenBytes is the entropy of activation and reset tokens
	// before hex encoding.
	ActivationTokenBytes = 16
)

// ExpiresAtLayout is the date-time format used for token expiry in login
// responses and for email_verified_at in user payloads.
const ExpiresAtLayout = "2006-01-02 15:04:05"
