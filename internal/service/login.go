package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/novelnest/novelnest-server/internal/logger"
	"github.com/novelnest/novelnest-server/internal/model"
	"github.com/novelnest/novelnest-server/internal/phone"
	"github.com/novelnest/novelnest-server/internal/validate"
)

// LoginInput is the sign-in form.
type LoginInput struct {
	MobileNumber string `json:"mobileNumber" validate:"notblank,max=32"`
	Password     string `json:"password" validate:"required,max=128"`
}

// Session is what a successful login hands back to the client.
type Session struct {
	User   model.Profile
	Tokens model.TokenPair
}

// Login checks credentials of active accounts and issues sessions.
type Login struct {
	users      model.UserStore
	hasher     model.PasswordHasher
	sessions   model.SessionIssuer
	normalizer *phone.Normalizer
	validator  *validate.Validator
	logger     *logger.Logger
	now        func() time.Time
}

func NewLogin(
	users model.UserStore,
	hasher model.PasswordHasher,
	sessions model.SessionIssuer,
	normalizer *phone.Normalizer,
	validator *validate.Validator,
	logger *logger.Logger,
) *Login {
	return &Login{
		users:      users,
		hasher:     hasher,
		sessions:   sessions,
		normalizer: normalizer,
		validator:  validator,
		logger:     logger,
		now:        time.Now,
	}
}

func (l *Login) Login(ctx context.Context, in LoginInput) (Session, error) {
	if err := l.validator.Struct(in); err != nil {
		return Session{}, err
	}

	mobile := l.normalizer.Normalize(in.MobileNumber)

	user, err := l.users.GetByMobile(ctx, mobile)
	if errors.Is(err, model.ErrNotFound) {
		l.logger.Info("Login service: no account", logger.Phone(mobile))
		return Session{}, model.ErrNoAccount
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to get user by mobile number: %w", err)
	}

	if user.Status != "" && user.Status != model.UserStatusActive {
		l.logger.Info("Login service: account not active", logger.Phone(mobile), "status", user.Status)
		return Session{}, model.ErrNotVerified
	}

	if user.PasswordHash == "" {
		l.logger.Error("Login service: account has no password", logger.Phone(mobile), "user_id", user.ID)
		return Session{}, model.ErrPasswordNotSet
	}

	if !l.hasher.Verify(in.Password, user.PasswordHash) {
		l.logger.Info("Login service: invalid credentials", logger.Phone(mobile))
		return Session{}, model.ErrInvalidCredentials
	}

	if err := l.users.TouchLastLogin(ctx, mobile, l.now()); err != nil {
		l.logger.Warn("Login service: failed to update last login",
			logger.Phone(mobile),
			"error", err.Error())
	}

	tokens, err := l.sessions.Issue(ctx, user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to issue session: %w", err)
	}

	l.logger.Info("Login service: user logged in", logger.Phone(mobile), "user_id", user.ID)

	return Session{User: user.Profile(), Tokens: tokens}, nil
}

// Me returns the profile of an authenticated user.
func (l *Login) Me(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	user, err := l.users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Profile{}, model.ErrNoAccount
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user.Profile(), nil
}
