package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/novelnest/novelnest-server/internal/api/grpc/authpb"
	"github.com/novelnest/novelnest-server/internal/logger"
	"github.com/novelnest/novelnest-server/internal/model"
)

// ProfileService looks up the profile of an authenticated user.
type ProfileService interface {
	Me(ctx context.Context, userID uuid.UUID) (model.Profile, error)
}

// SessionRevoker ends every session of a user.
type SessionRevoker interface {
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

var _ authpb.AccountServer = (*Account)(nil)

// Account serves endpoints that require a bearer token.
type Account struct {
	profiles       ProfileService
	sessions       SessionRevoker
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAccount(profiles ProfileService, sessions SessionRevoker, contextManager model.ContextManager, logger *logger.Logger) *Account {
	return &Account{profiles: profiles, sessions: sessions, contextManager: contextManager, logger: logger}
}

// Me returns the caller's projection.
func (h *Account) Me(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing user in context")
	}

	profile, err := h.profiles.Me(ctx, userID)
	if err != nil {
		h.logger.Error("Account handler: profile lookup failed",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return structpb.NewStruct(profileFields(profile))
}

// LogoutAll revokes every refresh token of the caller. Access tokens already
// issued stay valid until they expire.
func (h *Account) LogoutAll(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing user in context")
	}

	if err := h.sessions.RevokeAllForUser(ctx, userID); err != nil {
		h.logger.Error("Account handler: revoke sessions failed",
			"user_id", userID,
			"error", err.Error())
		return nil, status.Error(codes.Internal, model.GenericErrorMessage)
	}

	h.logger.Info("Account handler: all sessions revoked", "user_id", userID)
	return &emptypb.Empty{}, nil
}
