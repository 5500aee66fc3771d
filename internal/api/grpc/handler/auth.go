package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/novelnest/novelnest-server/internal/api/grpc/authpb"
	"github.com/novelnest/novelnest-server/internal/logger"
	"github.com/novelnest/novelnest-server/internal/model"
	"github.com/novelnest/novelnest-server/internal/service"
)

// RegistrationService sends and verifies sign-up codes.
type RegistrationService interface {
	RequestCode(ctx context.Context, in service.RequestCodeInput) (service.RequestCodeResult, error)
	VerifyAndRegister(ctx context.Context, info service.UserInfo, code string) (model.Profile, error)
}

// LoginService checks credentials and opens sessions.
type LoginService interface {
	Login(ctx context.Context, in service.LoginInput) (service.Session, error)
}

// TokenService defines token refresh and revoke operations.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	RevokeByToken(ctx context.Context, refreshToken string) error
}

var _ authpb.AuthServer = (*Auth)(nil)

// Auth handles gRPC endpoints for registration, login and tokens.
type Auth struct {
	registration RegistrationService
	login        LoginService
	tokenService TokenService
	logger       *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(registration RegistrationService, login LoginService, tokenService TokenService, logger *logger.Logger) *Auth {
	return &Auth{
		registration: registration,
		login:        login,
		tokenService: tokenService,
		logger:       logger,
	}
}

// RequestCode stages the sign-up form and sends a verification code.
func (h *Auth) RequestCode(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := service.RequestCodeInput{
		MobileNumber: stringField(req, "mobileNumber"),
		Password:     stringField(req, "password"),
	}

	h.logger.Debug("Auth handler: processing code request", logger.Phone(in.MobileNumber))

	res, err := h.registration.RequestCode(ctx, in)
	if err != nil {
		return h.registrationFailure("code request", err)
	}

	out := map[string]any{
		"success":      true,
		"dispatched":   res.Dispatched,
		"mobileNumber": res.MobileNumber,
	}
	if !res.Dispatched {
		out["retryAfterSeconds"] = retryAfterSeconds(res.RetryAfter)
	}

	return structpb.NewStruct(out)
}

// VerifyAndRegister checks the code and activates the account.
func (h *Auth) VerifyAndRegister(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	info := service.UserInfo{
		FirstName:    stringField(req, "firstName"),
		LastName:     stringField(req, "lastName"),
		MobileNumber: stringField(req, "mobileNumber"),
	}

	h.logger.Debug("Auth handler: processing verification", logger.Phone(info.MobileNumber))

	profile, err := h.registration.VerifyAndRegister(ctx, info, stringField(req, "code"))
	if err != nil {
		return h.registrationFailure("verification", err)
	}

	h.logger.Info("Auth handler: registration completed", "user_id", profile.ID)

	return structpb.NewStruct(map[string]any{
		"success": true,
		"user":    profileFields(profile),
	})
}

// Login verifies credentials and returns the user projection with tokens.
func (h *Auth) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := service.LoginInput{
		MobileNumber: stringField(req, "mobileNumber"),
		Password:     stringField(req, "password"),
	}

	h.logger.Debug("Auth handler: processing login", logger.Phone(in.MobileNumber))

	session, err := h.login.Login(ctx, in)
	if err != nil {
		h.logFailure("login", err)
		return structpb.NewStruct(map[string]any{
			"ok":    false,
			"error": userMessage(err),
		})
	}

	return structpb.NewStruct(map[string]any{
		"ok":           true,
		"user":         profileFields(session.User),
		"accessToken":  session.Tokens.AccessToken,
		"refreshToken": session.Tokens.RefreshToken,
	})
}

// RefreshToken exchanges a refresh token for a new pair.
func (h *Auth) RefreshToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	h.logger.Debug("Auth handler: processing token refresh request")

	refreshToken := stringField(req, "refreshToken")
	if refreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}

	pair, err := h.tokenService.Refresh(ctx, refreshToken)
	if err != nil {
		h.logger.Error("Auth handler: token refresh failed",
			"error", err.Error())
		return nil, tokenError(err)
	}

	h.logger.Info("Auth handler: token refresh successful")

	return structpb.NewStruct(map[string]any{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// RevokeToken revokes a refresh token.
func (h *Auth) RevokeToken(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	h.logger.Debug("Auth handler: processing token revoke request")

	refreshToken := stringField(req, "refreshToken")
	if refreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}

	if err := h.tokenService.RevokeByToken(ctx, refreshToken); err != nil {
		h.logger.Error("Auth handler: token revoke failed",
			"error", err.Error())
		return nil, tokenError(err)
	}

	h.logger.Info("Auth handler: token revoke successful")

	return &emptypb.Empty{}, nil
}

func (h *Auth) registrationFailure(op string, err error) (*structpb.Struct, error) {
	h.logFailure(op, err)

	out := map[string]any{
		"success": false,
		"error":   userMessage(err),
	}
	if authErr, ok := model.AsAuthError(err); ok {
		out["errorCode"] = authErr.Code
	}
	return structpb.NewStruct(out)
}

func (h *Auth) logFailure(op string, err error) {
	if _, ok := model.AsAuthError(err); ok {
		h.logger.Info("Auth handler: "+op+" rejected", "error", err.Error())
		return
	}
	h.logger.Error("Auth handler: "+op+" failed", "error", err.Error())
}
