package model

import (
	"context"

	"github.com/google/uuid"
)

// TokenManager generates and validates access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (token string, jti string, err error)
	ParseAccessToken(token string) (uuid.UUID, error)
	ParseRefreshToken(token string) (userID uuid.UUID, jti string, err error)
}

// TokenPair is the credential set handed to a client after login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionIssuer issues and rotates tokens for a user.
type SessionIssuer interface {
	Issue(ctx context.Context, userID uuid.UUID) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	RevokeByToken(ctx context.Context, refreshToken string) error
	GetUserID(ctx context.Context, accessToken string) (uuid.UUID, error)
}
