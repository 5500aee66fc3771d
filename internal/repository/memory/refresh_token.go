package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/novelnest/novelnest-server/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenStore)(nil)

type RefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]model.RefreshToken
	now    func() time.Time
}

func NewRefreshTokenStore() *RefreshTokenStore {
	return &RefreshTokenStore{tokens: make(map[string]model.RefreshToken), now: time.Now}
}

func (s *RefreshTokenStore) Create(_ context.Context, token model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	s.tokens[token.JTI] = token
	return nil
}

func (s *RefreshTokenStore) GetByJTI(_ context.Context, jti string) (model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[jti]
	if !ok {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return t, nil
}

func (s *RefreshTokenStore) RevokeByJTI(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tokens[jti]; ok && t.RevokedAt == nil {
		s.revoke(jti, t)
	}
	return nil
}

func (s *RefreshTokenStore) RevokeAllByUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for jti, t := range s.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			s.revoke(jti, t)
		}
	}
	return nil
}

func (s *RefreshTokenStore) revoke(jti string, t model.RefreshToken) {
	now := s.now()
	t.RevokedAt = &now
	t.UpdatedAt = now
	s.tokens[jti] = t
}
