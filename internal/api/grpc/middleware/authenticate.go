package middleware

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/novelnest/novelnest-server/internal/logger"
	"github.com/novelnest/novelnest-server/internal/model"
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

var errNilUser = errors.New("token carries no user")

// Authenticate validates bearer tokens and injects user ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc reads the bearer token from the authorization header and
// returns a context carrying the user ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	token, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, err
	}

	userID, err := m.tokenService.GetUserID(ctx, token)
	if err == nil && userID == uuid.Nil {
		err = errNilUser
	}
	if err != nil {
		m.logger.Info("Authenticate middleware: token rejected", "error", err.Error())
		return nil, status.Error(codes.Unauthenticated, "invalid access token")
	}

	return m.contextManager.SetUserIDToContext(ctx, userID), nil
}
