package model

import "context"

// SMSDispatcher delivers a text message to a canonical mobile number.
type SMSDispatcher interface {
	Send(ctx context.Context, mobileNumber, text string) error
}
