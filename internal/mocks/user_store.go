package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/novelnest/novelnest-server/internal/model"
)

// UserStore is a testify mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

// NewUserStore creates a UserStore mock that asserts its expectations on cleanup.
func NewUserStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UserStore) GetByMobile(ctx context.Context, mobileNumber string) (model.User, error) {
	args := m.Called(ctx, mobileNumber)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Activate(ctx context.Context, activation model.Activation) (model.User, bool, error) {
	args := m.Called(ctx, activation)
	return args.Get(0).(model.User), args.Bool(1), args.Error(2)
}

func (m *UserStore) TouchLastLogin(ctx context.Context, mobileNumber string, at time.Time) error {
	args := m.Called(ctx, mobileNumber, at)
	return args.Error(0)
}
