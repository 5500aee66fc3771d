package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/novelnest/novelnest-server/internal/model"
)

// OTPStore is a testify mock of model.OTPStore.
type OTPStore struct {
	mock.Mock
}

// NewOTPStore creates an OTPStore mock that asserts its expectations on cleanup.
func NewOTPStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *OTPStore {
	m := &OTPStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OTPStore) Get(ctx context.Context, mobileNumber string) (model.OTPRecord, error) {
	args := m.Called(ctx, mobileNumber)
	return args.Get(0).(model.OTPRecord), args.Error(1)
}

func (m *OTPStore) Merge(ctx context.Context, mobileNumber string, patch model.OTPPatch) error {
	args := m.Called(ctx, mobileNumber, patch)
	return args.Error(0)
}

func (m *OTPStore) IncrementAttempts(ctx context.Context, mobileNumber string) (int, error) {
	args := m.Called(ctx, mobileNumber)
	return args.Int(0), args.Error(1)
}

func (m *OTPStore) Delete(ctx context.Context, mobileNumber string) error {
	args := m.Called(ctx, mobileNumber)
	return args.Error(0)
}
