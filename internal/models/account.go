package models

import "time"

// Account is the persisted identity record. PasswordHash and the pending
// OTP fields never appear in API responses.
type Account struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Mobile       string     `json:"mobile,omitempty"`
	PasswordHash string     `json:"-"`
	PendingOTP   string     `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

// HasPendingOTP reports whether a reset code is currently stored.
// The code and its expiry are always set or cleared together.
func (a Account) HasPendingOTP() bool {
	return a.PendingOTP != "" && a.OTPExpiresAt != nil
}
