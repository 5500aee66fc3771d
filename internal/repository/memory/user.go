package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/novelnest/novelnest-server/internal/model"
)

var _ model.UserStore = (*UserStore)(nil)

type UserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]model.User)}
}

func (s *UserStore) GetByMobile(_ context.Context, mobileNumber string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[mobileNumber]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *UserStore) Activate(_ context.Context, a model.Activation) (model.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[a.MobileNumber]
	if !exists {
		u.ID = a.ID
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		u.CreatedAt = a.At
	}
	u.MobileNumber = a.MobileNumber
	u.FirstName = a.FirstName
	u.LastName = a.LastName
	u.Status = model.UserStatusActive
	u.PasswordHash = a.PasswordHash
	u.UpdatedAt = a.At

	s.users[a.MobileNumber] = u
	return u, !exists, nil
}

func (s *UserStore) TouchLastLogin(_ context.Context, mobileNumber string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[mobileNumber]
	if !ok {
		return model.ErrNotFound
	}
	u.LastLoginAt = &at
	s.users[mobileNumber] = u
	return nil
}
