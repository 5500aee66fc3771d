package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelnest/novelnest-server/internal/model"
)

type registration struct {
	FirstName    string `json:"firstName" validate:"notblank"`
	LastName     string `json:"lastName" validate:"notblank"`
	MobileNumber string `json:"mobileNumber" validate:"notblank"`
	Password     string `json:"password" validate:"max=8"`
	Code         string `json:"code" validate:"otpcode"`
}

func valid() registration {
	return registration{FirstName: "Nimal", LastName: "Perera", MobileNumber: "0771234567", Code: "123456"}
}

func TestValidator_Struct(t *testing.T) {
	v := New(6)

	tests := []struct {
		name    string
		mutate  func(*registration)
		wantErr *model.AuthError
		wantMsg string
	}{
		{name: "ok", mutate: func(*registration) {}},
		{name: "code with spaces", mutate: func(r *registration) { r.Code = " 123456 " }},
		{name: "blank first name", mutate: func(r *registration) { r.FirstName = "   " }, wantErr: model.ErrInvalidInput, wantMsg: "First name is required."},
		{name: "missing mobile", mutate: func(r *registration) { r.MobileNumber = "" }, wantErr: model.ErrInvalidInput, wantMsg: "Mobile number is required."},
		{name: "short code", mutate: func(r *registration) { r.Code = "12345" }, wantErr: model.ErrInvalidCodeFormat, wantMsg: "Invalid OTP format. Please enter a 6-digit code."},
		{name: "letters in code", mutate: func(r *registration) { r.Code = "12a456" }, wantErr: model.ErrInvalidCodeFormat},
		{name: "long password", mutate: func(r *registration) { r.Password = "123456789" }, wantErr: model.ErrInvalidInput, wantMsg: "Password must be at most 8 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)

			err := v.Struct(in)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}
}

func TestValidator_CodeLength(t *testing.T) {
	v := New(8)
	in := valid()
	in.Code = "123456"

	err := v.Struct(in)
	require.ErrorIs(t, err, model.ErrInvalidCodeFormat)
	assert.Equal(t, "Invalid OTP format. Please enter a 8-digit code.", err.Error())

	in.Code = "12345678"
	assert.NoError(t, v.Struct(in))
	assert.Equal(t, DefaultCodeLength, New(0).codeLength)
}
