// Package context carries the authenticated user through gRPC request
// contexts.
package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"github.com/novelnest/novelnest-server/internal/model"
)

// userIDKey is the incoming metadata key a client could try to forge. It is
// stripped whenever an authenticated user is set.
const userIDKey = "user_id"

type ctxKey struct{}

var _ model.ContextManager = (*Manager)(nil)

// Manager stores the user ID resolved from a bearer token.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns ctx carrying userID. Any client supplied
// user_id metadata is dropped.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	if md, ok := metadata.FromIncomingContext(ctx); ok && len(md.Get(userIDKey)) > 0 {
		md = md.Copy()
		md.Delete(userIDKey)
		ctx = metadata.NewIncomingContext(ctx, md)
	}
	return context.WithValue(ctx, ctxKey{}, userID)
}

// GetUserIDFromContext returns the user set by SetUserIDToContext.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
