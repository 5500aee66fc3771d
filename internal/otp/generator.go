// Package otp produces numeric one-time verification codes.
package otp

import (
	"fmt"

	"github.com/xlzd/gotp"
)

const (
	// DefaultDigits is the code length sent to users.
	DefaultDigits = 6
	secretLength  = 32
)

// Generator produces verification codes. counter is the number of codes
// already issued for the phone number.
type Generator interface {
	Generate(counter int) (string, error)
}

// GOTPGenerator derives each code from HOTP over a fresh random secret.
type GOTPGenerator struct {
	digits int
}

// NewGOTPGenerator creates a generator producing codes of the given length.
func NewGOTPGenerator(digits int) *GOTPGenerator {
	if digits <= 0 {
		digits = DefaultDigits
	}
	return &GOTPGenerator{digits: digits}
}

// Generate returns a zero-padded numeric code.
func (g *GOTPGenerator) Generate(counter int) (string, error) {
	secret := gotp.RandomSecret(secretLength)
	if secret == "" {
		return "", fmt.Errorf("failed to generate otp secret")
	}

	code := gotp.NewHOTP(secret, g.digits, nil).At(counter)
	if len(code) != g.digits {
		return "", fmt.Errorf("unexpected otp length %d", len(code))
	}

	return code, nil
}

// FixedGenerator always returns the same code. Used in simulation mode so
// testers can complete registration without a real SMS.
type FixedGenerator struct {
	code string
}

// NewFixedGenerator creates a generator returning code.
func NewFixedGenerator(code string) *FixedGenerator {
	return &FixedGenerator{code: code}
}

// Generate returns the fixed code.
func (g *FixedGenerator) Generate(int) (string, error) {
	return g.code, nil
}
