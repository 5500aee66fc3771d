package model

import (
	"context"
	"time"
)

// OTPPurpose tells what a verification code may be used for.
type OTPPurpose string

// OTPPurposeRegister marks codes issued during sign-up.
const OTPPurposeRegister OTPPurpose = "register"

// OTPStore persists one verification record per canonical mobile number.
// Every method is a single atomic document operation.
type OTPStore interface {
	Get(ctx context.Context, mobileNumber string) (OTPRecord, error)
	// Merge writes the non-nil fields of patch, creating the record if needed.
	Merge(ctx context.Context, mobileNumber string, patch OTPPatch) error
	// IncrementAttempts adds one failed attempt and returns the new count.
	IncrementAttempts(ctx context.Context, mobileNumber string) (int, error)
	Delete(ctx context.Context, mobileNumber string) error
}

// OTPRecord is the verification state of one mobile number.
type OTPRecord struct {
	MobileNumber     string
	Code             string
	Purpose          OTPPurpose
	PasswordHashTemp string
	Attempts         int
	ExpiresAt        *time.Time
	LastSentAt       *time.Time
	ResendCount      int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Expired reports whether the code can no longer be used at now. A record
// without an expiry never had a code issued and counts as expired.
func (r OTPRecord) Expired(now time.Time) bool {
	return r.ExpiresAt == nil || now.After(*r.ExpiresAt)
}

// HasStagedPassword reports whether a password hash awaits activation.
func (r OTPRecord) HasStagedPassword() bool {
	return r.PasswordHashTemp != ""
}

// OTPPatch lists fields to overwrite on merge. Nil fields keep their stored
// value.
type OTPPatch struct {
	Code             *string
	Purpose          *OTPPurpose
	PasswordHashTemp *string
	Attempts         *int
	ExpiresAt        *time.Time
	LastSentAt       *time.Time
	BumpResendCount  bool
	At               time.Time
}

// Apply merges p into r, used by stores that merge in process.
func (p OTPPatch) Apply(r *OTPRecord) {
	if p.Code != nil {
		r.Code = *p.Code
	}
	if p.Purpose != nil {
		r.Purpose = *p.Purpose
	}
	if p.PasswordHashTemp != nil {
		r.PasswordHashTemp = *p.PasswordHashTemp
	}
	if p.Attempts != nil {
		r.Attempts = *p.Attempts
	}
	if p.ExpiresAt != nil {
		expiresAt := *p.ExpiresAt
		r.ExpiresAt = &expiresAt
	}
	if p.LastSentAt != nil {
		lastSentAt := *p.LastSentAt
		r.LastSentAt = &lastSentAt
	}
	if p.BumpResendCount {
		r.ResendCount++
	}
	r.UpdatedAt = p.At
}
