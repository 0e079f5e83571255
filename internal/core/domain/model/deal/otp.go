package deal

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"

	"dispatch/internal/pkg/errs"
)

// otpDigits is the fixed length of custody-transfer codes.
const otpDigits = 6

// Otp is a six-digit custody-transfer code. A deal carries two: one consumed
// at pickup, one at delivery. Codes are generated exactly once at deal
// creation and never regenerated; single use per phase is enforced by the
// status guard, not by a separate "used" flag.
type Otp struct {
	code string
}

// NewRandomOtp generates a uniformly random six-digit code.
func NewRandomOtp() (Otp, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return Otp{}, fmt.Errorf("generate otp: %w", err)
	}
	return Otp{code: fmt.Sprintf("%06d", n.Int64())}, nil
}

// OtpFromString restores a code from persistence. The code must be exactly
// six decimal digits.
func OtpFromString(code string) (Otp, error) {
	if len(code) != otpDigits {
		return Otp{}, errs.NewValueIsInvalidError("otp")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return Otp{}, errs.NewValueIsInvalidError("otp")
		}
	}
	return Otp{code: code}, nil
}

// Matches compares a presented code against this one in constant time.
func (o Otp) Matches(presented string) bool {
	return subtle.ConstantTimeCompare([]byte(o.code), []byte(presented)) == 1
}

// String returns the code itself. It is shared with the counterparty out of
// band and must never appear in logs.
func (o Otp) String() string {
	return o.code
}

// Validate rejects the zero value.
func (o Otp) Validate() error {
	if o.code == "" {
		return errs.NewValueIsRequiredError("otp")
	}
	return nil
}
