package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when no document exists for a key.
var ErrNotFound = errors.New("not found")

// ErrorKind groups auth failures by how the caller should react.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindExpired    ErrorKind = "expired"
	KindLocked     ErrorKind = "locked"
	KindMismatch   ErrorKind = "mismatch"
	KindConflict   ErrorKind = "conflict"
	KindUpstream   ErrorKind = "upstream"
	KindInvariant  ErrorKind = "invariant"
	KindDenied     ErrorKind = "denied"
)

// AuthError is a failure whose Message can be shown to the user as is.
// Code identifies the failure independently of the wording.
type AuthError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches any AuthError with the same kind and code.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Wrap returns a copy of e that carries cause.
func (e *AuthError) Wrap(cause error) *AuthError {
	return &AuthError{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: cause}
}

// WithMessage returns a copy of e with a different user-facing message.
func (e *AuthError) WithMessage(format string, args ...any) *AuthError {
	return &AuthError{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// NewValidationError reports malformed input.
func NewValidationError(message string) *AuthError {
	return ErrInvalidInput.WithMessage("%s", message)
}

// AsAuthError unwraps err to an AuthError if it holds one.
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

var (
	ErrInvalidInput      = &AuthError{Kind: KindValidation, Code: "invalid_input", Message: "Invalid input."}
	ErrInvalidCodeFormat = &AuthError{Kind: KindValidation, Code: "invalid_code_format", Message: "Invalid OTP format. Please enter a 6-digit code."}
	ErrDuplicateAccount  = &AuthError{Kind: KindConflict, Code: "duplicate_account", Message: "An account with this mobile number already exists."}
	ErrCodeNotFound      = &AuthError{Kind: KindNotFound, Code: "code_not_found", Message: "No verification code found. Please request a new code."}
	ErrWrongPurpose      = &AuthError{Kind: KindNotFound, Code: "wrong_purpose", Message: "This verification code cannot be used for registration."}
	ErrCodeExpired       = &AuthError{Kind: KindExpired, Code: "code_expired", Message: "The verification code has expired. Please request a new code."}
	ErrTooManyAttempts   = &AuthError{Kind: KindLocked, Code: "too_many_attempts", Message: "Too many incorrect attempts. Please request a new code."}
	ErrInvalidCode       = &AuthError{Kind: KindMismatch, Code: "invalid_code", Message: "Invalid verification code."}
	ErrPasswordMissing   = &AuthError{Kind: KindInvariant, Code: "password_missing", Message: "Password is missing. Please submit the registration form again."}
	ErrSMSDispatch       = &AuthError{Kind: KindUpstream, Code: "sms_dispatch_failed", Message: "Failed to send the verification code. Please try again later."}

	ErrNoAccount          = &AuthError{Kind: KindNotFound, Code: "no_account", Message: "No account found for this mobile number."}
	ErrNotVerified        = &AuthError{Kind: KindDenied, Code: "not_verified", Message: "This account has not been verified."}
	ErrPasswordNotSet     = &AuthError{Kind: KindInvariant, Code: "password_not_set", Message: "No password is set for this account."}
	ErrInvalidCredentials = &AuthError{Kind: KindMismatch, Code: "invalid_credentials", Message: "Invalid credentials."}
)

// GenericErrorMessage is shown for failures that are not AuthErrors.
const GenericErrorMessage = "An unexpected error occurred. Please try again."
