package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTPStatus classifies the outcome of checking a supplied reset code.
type OTPStatus int

const (
	OTPValid OTPStatus = iota
	OTPExpired
	OTPMismatched
)

// otpSpan covers the 6-digit codes 100000-999999.
const otpSpan = 900000

// OTPIssuer generates time-boxed numeric reset codes.
type OTPIssuer struct {
	ttl time.Duration
	now func() time.Time
}

// NewOTPIssuer returns an issuer whose codes expire after ttl.
func NewOTPIssuer(ttl time.Duration) *OTPIssuer {
	return &OTPIssuer{ttl: ttl, now: time.Now}
}

// Issue draws a 6-digit code uniformly from crypto/rand and returns it with
// its expiry time.
func (o *OTPIssuer) Issue() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)
	return code, o.now().Add(o.ttl), nil
}

// ValidateOTP checks a supplied code against the stored code and expiry.
// Equality is decided first: a wrong code reports OTPMismatched even when
// the stored code has also expired. The expiry bound is inclusive, so a
// code supplied exactly at expiresAt is still valid.
func ValidateOTP(storedCode string, storedExpiry time.Time, suppliedCode string, now time.Time) OTPStatus {
	if storedCode == "" || suppliedCode != storedCode {
		return OTPMismatched
	}
	if now.After(storedExpiry) {
		return OTPExpired
	}
	return OTPValid
}
