package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// SMSDispatcher is a testify mock of model.SMSDispatcher.
type SMSDispatcher struct {
	mock.Mock
}

// NewSMSDispatcher creates an SMSDispatcher mock that asserts its expectations on cleanup.
func NewSMSDispatcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *SMSDispatcher {
	m := &SMSDispatcher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SMSDispatcher) Send(ctx context.Context, mobileNumber, text string) error {
	args := m.Called(ctx, mobileNumber, text)
	return args.Error(0)
}
