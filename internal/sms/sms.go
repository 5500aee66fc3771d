// Package sms delivers verification codes by text message.
package sms

import (
	"fmt"
)

// VerificationMessage is the text sent with a verification code.
func VerificationMessage(code string) string {
	return fmt.Sprintf("Your NovelNest verification code is: %s. Do not share this with anyone.", code)
}

// Error is a failed gateway delivery.
type Error struct {
	HTTPStatus int
	StatusCode string
	Detail     string
}

func (e *Error) Error() string {
	if e.StatusCode != "" {
		return fmt.Sprintf("sms gateway rejected message: %s %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("sms gateway returned http %d: %s", e.HTTPStatus, e.Detail)
}
