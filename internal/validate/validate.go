// Package validate checks boundary input with go-playground/validator.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/novelnest/novelnest-server/internal/model"
)

// DefaultCodeLength is the OTP length checked by the otpcode tag.
const DefaultCodeLength = 6

// Validator wraps validator.Validate with the project's custom rules.
type Validator struct {
	v          *validator.Validate
	codeLength int
}

// New creates a Validator whose otpcode rule expects codeLength digits.
func New(codeLength int) *Validator {
	if codeLength <= 0 {
		codeLength = DefaultCodeLength
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	val := &Validator{v: v, codeLength: codeLength}
	mustRegister(v, "notblank", notBlank)
	mustRegister(v, "otpcode", val.otpCode)
	return val
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator failed: %v", tag, err))
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func (val *Validator) otpCode(fl validator.FieldLevel) bool {
	code := strings.TrimSpace(fl.Field().String())
	if len(code) != val.codeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Struct validates s and converts the first failure into a user-facing
// *model.AuthError.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate input: %w", err)
	}

	return val.toAuthError(fieldErrs[0])
}

func (val *Validator) toAuthError(fe validator.FieldError) *model.AuthError {
	if fe.Tag() == "otpcode" {
		return model.ErrInvalidCodeFormat.WithMessage("Invalid OTP format. Please enter a %d-digit code.", val.codeLength)
	}

	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required", "notblank":
		return model.NewValidationError(label + " is required.")
	case "max":
		return model.NewValidationError(fmt.Sprintf("%s must be at most %s characters.", label, fe.Param()))
	default:
		return model.NewValidationError(label + " is invalid.")
	}
}

var fieldLabels = map[string]string{
	"mobileNumber": "Mobile number",
	"password":     "Password",
	"firstName":    "First name",
	"lastName":     "Last name",
	"code":         "Verification code",
}
