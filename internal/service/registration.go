package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/novelnest/novelnest-server/internal/logger"
	"github.com/novelnest/novelnest-server/internal/model"
	"github.com/novelnest/novelnest-server/internal/otp"
	"github.com/novelnest/novelnest-server/internal/phone"
	"github.com/novelnest/novelnest-server/internal/sms"
	"github.com/novelnest/novelnest-server/internal/validate"
)

// OTPPolicy bounds code lifetime, resend rate and guesses.
type OTPPolicy struct {
	TTL            time.Duration
	ResendInterval time.Duration
	MaxAttempts    int
}

// DefaultOTPPolicy is a five minute code, thirty seconds between sends and
// five guesses.
var DefaultOTPPolicy = OTPPolicy{
	TTL:            5 * time.Minute,
	ResendInterval: 30 * time.Second,
	MaxAttempts:    5,
}

// RequestCodeInput is the sign-up form submitted before verification.
type RequestCodeInput struct {
	MobileNumber string `json:"mobileNumber" validate:"notblank,max=32"`
	Password     string `json:"password" validate:"max=128"`
}

// RequestCodeResult tells whether a code went out. A throttled request
// succeeds with Dispatched false.
type RequestCodeResult struct {
	MobileNumber string
	Dispatched   bool
	RetryAfter   time.Duration
	ExpiresAt    time.Time
}

// UserInfo is the profile submitted together with the verification code.
type UserInfo struct {
	FirstName    string `json:"firstName" validate:"notblank,max=100"`
	LastName     string `json:"lastName" validate:"notblank,max=100"`
	MobileNumber string `json:"mobileNumber" validate:"notblank,max=32"`
}

type codeInput struct {
	Code string `json:"code" validate:"otpcode"`
}

// Registration moves a mobile number from unknown to an active account
// through a one-time code.
type Registration struct {
	users      model.UserStore
	otps       model.OTPStore
	hasher     model.PasswordHasher
	generator  otp.Generator
	dispatcher model.SMSDispatcher
	normalizer *phone.Normalizer
	validator  *validate.Validator
	policy     OTPPolicy
	logger     *logger.Logger
	now        func() time.Time
}

func NewRegistration(
	users model.UserStore,
	otps model.OTPStore,
	hasher model.PasswordHasher,
	generator otp.Generator,
	dispatcher model.SMSDispatcher,
	normalizer *phone.Normalizer,
	validator *validate.Validator,
	policy OTPPolicy,
	logger *logger.Logger,
) *Registration {
	return &Registration{
		users:      users,
		otps:       otps,
		hasher:     hasher,
		generator:  generator,
		dispatcher: dispatcher,
		normalizer: normalizer,
		validator:  validator,
		policy:     policy,
		logger:     logger,
		now:        time.Now,
	}
}

// RequestCode stages the password, if any, and sends a new code unless one
// went out less than the resend interval ago.
func (r *Registration) RequestCode(ctx context.Context, in RequestCodeInput) (RequestCodeResult, error) {
	if err := r.validator.Struct(in); err != nil {
		return RequestCodeResult{}, err
	}

	mobile := r.normalizer.Normalize(in.MobileNumber)
	r.logger.Debug("Registration service: code requested", logger.Phone(mobile))

	_, err := r.users.GetByMobile(ctx, mobile)
	if err == nil {
		r.logger.Info("Registration service: account already exists", logger.Phone(mobile))
		return RequestCodeResult{}, model.ErrDuplicateAccount
	}
	if !errors.Is(err, model.ErrNotFound) {
		return RequestCodeResult{}, fmt.Errorf("failed to get user by mobile number: %w", err)
	}

	rec, err := r.otps.Get(ctx, mobile)
	exists := err == nil
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return RequestCodeResult{}, fmt.Errorf("failed to get otp record: %w", err)
	}

	now := r.now()

	if in.Password != "" && !(exists && rec.HasStagedPassword()) {
		hash, err := r.hasher.Hash(in.Password)
		if err != nil {
			return RequestCodeResult{}, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := r.otps.Merge(ctx, mobile, model.OTPPatch{PasswordHashTemp: &hash, At: now}); err != nil {
			return RequestCodeResult{}, fmt.Errorf("failed to stage password: %w", err)
		}
		r.logger.Debug("Registration service: password staged", logger.Phone(mobile))
	}

	if exists && rec.LastSentAt != nil {
		if elapsed := now.Sub(*rec.LastSentAt); elapsed < r.policy.ResendInterval {
			r.logger.Info("Registration service: resend throttled", logger.Phone(mobile))
			result := RequestCodeResult{
				MobileNumber: mobile,
				RetryAfter:   r.policy.ResendInterval - elapsed,
			}
			if rec.ExpiresAt != nil {
				result.ExpiresAt = *rec.ExpiresAt
			}
			return result, nil
		}
	}

	code, err := r.generator.Generate(rec.ResendCount)
	if err != nil {
		return RequestCodeResult{}, fmt.Errorf("failed to generate code: %w", err)
	}

	purpose := model.OTPPurposeRegister
	expiresAt := now.Add(r.policy.TTL)
	err = r.otps.Merge(ctx, mobile, model.OTPPatch{
		Code:            &code,
		Purpose:         &purpose,
		ExpiresAt:       &expiresAt,
		LastSentAt:      &now,
		BumpResendCount: true,
		At:              now,
	})
	if err != nil {
		return RequestCodeResult{}, fmt.Errorf("failed to store code: %w", err)
	}

	if err := r.dispatcher.Send(ctx, mobile, sms.VerificationMessage(code)); err != nil {
		r.logger.Error("Registration service: failed to send code",
			logger.Phone(mobile),
			"error", err.Error())
		return RequestCodeResult{}, model.ErrSMSDispatch.Wrap(err)
	}

	r.logger.Info("Registration service: code sent", logger.Phone(mobile), "resend_count", rec.ResendCount+1)

	return RequestCodeResult{
		MobileNumber: mobile,
		Dispatched:   true,
		ExpiresAt:    expiresAt,
	}, nil
}

// VerifyAndRegister checks code against the pending record and activates
// the account on a match.
func (r *Registration) VerifyAndRegister(ctx context.Context, info UserInfo, code string) (model.Profile, error) {
	if err := r.validator.Struct(info); err != nil {
		return model.Profile{}, err
	}
	if err := r.validator.Struct(codeInput{Code: code}); err != nil {
		return model.Profile{}, err
	}

	mobile := r.normalizer.Normalize(info.MobileNumber)
	code = strings.TrimSpace(code)

	rec, err := r.otps.Get(ctx, mobile)
	if errors.Is(err, model.ErrNotFound) {
		return model.Profile{}, model.ErrCodeNotFound
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get otp record: %w", err)
	}

	if rec.Purpose != model.OTPPurposeRegister {
		return model.Profile{}, model.ErrWrongPurpose
	}

	now := r.now()

	if rec.Expired(now) {
		r.discard(ctx, mobile)
		r.logger.Info("Registration service: code expired", logger.Phone(mobile))
		return model.Profile{}, model.ErrCodeExpired
	}

	if rec.Attempts >= r.policy.MaxAttempts {
		r.discard(ctx, mobile)
		r.logger.Warn("Registration service: attempts exhausted", logger.Phone(mobile))
		return model.Profile{}, model.ErrTooManyAttempts
	}

	// The attempt is reserved before the comparison. Concurrent submits each
	// get a distinct count, so at most MaxAttempts codes are ever compared.
	attempts, err := r.otps.IncrementAttempts(ctx, mobile)
	if errors.Is(err, model.ErrNotFound) {
		return model.Profile{}, model.ErrCodeNotFound
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to record attempt: %w", err)
	}
	if attempts > r.policy.MaxAttempts {
		r.discard(ctx, mobile)
		r.logger.Warn("Registration service: attempts exhausted", logger.Phone(mobile), "attempts", attempts)
		return model.Profile{}, model.ErrTooManyAttempts
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(strings.TrimSpace(rec.Code))) != 1 {
		r.logger.Info("Registration service: code mismatch", logger.Phone(mobile), "attempts", attempts)
		return model.Profile{}, model.ErrInvalidCode
	}

	if !rec.HasStagedPassword() {
		r.logger.Warn("Registration service: no staged password", logger.Phone(mobile))
		return model.Profile{}, model.ErrPasswordMissing
	}

	user, created, err := r.users.Activate(ctx, model.Activation{
		ID:           uuid.New(),
		FirstName:    strings.TrimSpace(info.FirstName),
		LastName:     strings.TrimSpace(info.LastName),
		MobileNumber: mobile,
		PasswordHash: rec.PasswordHashTemp,
		At:           now,
	})
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to activate user: %w", err)
	}

	r.discard(ctx, mobile)

	r.logger.Info("Registration service: account activated",
		logger.Phone(mobile),
		"user_id", user.ID,
		"created", created)

	return user.Profile(), nil
}

// discard deletes the otp record. Failures are only logged.
func (r *Registration) discard(ctx context.Context, mobile string) {
	if err := r.otps.Delete(ctx, mobile); err != nil {
		r.logger.Warn("Registration service: failed to delete otp record",
			logger.Phone(mobile),
			"error", err.Error())
	}
}
