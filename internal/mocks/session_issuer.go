package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/novelnest/novelnest-server/internal/model"
)

// SessionIssuer is a testify mock of model.SessionIssuer.
type SessionIssuer struct {
	mock.Mock
}

// NewSessionIssuer creates a SessionIssuer mock that asserts its expectations on cleanup.
func NewSessionIssuer(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionIssuer {
	m := &SessionIssuer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SessionIssuer) Issue(ctx context.Context, userID uuid.UUID) (model.TokenPair, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.TokenPair), args.Error(1)
}

func (m *SessionIssuer) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(model.TokenPair), args.Error(1)
}

func (m *SessionIssuer) RevokeByToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *SessionIssuer) GetUserID(ctx context.Context, accessToken string) (uuid.UUID, error) {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
