package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/novelnest/novelnest-server/internal/model"
)

var _ model.OTPStore = (*OTPRepository)(nil)

const (
	keyPrefix = "otp_verifications:"

	fieldCode        = "code"
	fieldPurpose     = "purpose"
	fieldPassword    = "password_hash_temp"
	fieldAttempts    = "attempts"
	fieldExpiresAt   = "expires_at"
	fieldLastSentAt  = "last_sent_at"
	fieldResendCount = "resend_count"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"

	// DefaultRetention keeps keys around after logical expiry so the
	// service, not Redis, decides when a code is expired.
	DefaultRetention = 24 * time.Hour
)

// incrementAttempts bumps attempts only on an existing hash.
var incrementAttempts = goredis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
redis.call("HSET", KEYS[1], "updated_at", ARGV[1])
return redis.call("HINCRBY", KEYS[1], "attempts", 1)
`)

// OTPRepository keeps each verification record in one Redis hash.
type OTPRepository struct {
	client    goredis.UniversalClient
	retention time.Duration
	now       func() time.Time
}

func NewOTPRepository(client goredis.UniversalClient, retention time.Duration) *OTPRepository {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &OTPRepository{client: client, retention: retention, now: time.Now}
}

func key(mobileNumber string) string {
	return keyPrefix + mobileNumber
}

func (r *OTPRepository) Get(ctx context.Context, mobileNumber string) (model.OTPRecord, error) {
	fields, err := r.client.HGetAll(ctx, key(mobileNumber)).Result()
	if err != nil {
		return model.OTPRecord{}, fmt.Errorf("failed to get otp record: %w", err)
	}
	if len(fields) == 0 {
		return model.OTPRecord{}, model.ErrNotFound
	}

	rec, err := decodeRecord(mobileNumber, fields)
	if err != nil {
		return model.OTPRecord{}, fmt.Errorf("failed to decode otp record: %w", err)
	}
	return rec, nil
}

// Merge writes the patch in one MULTI block. Counters and created_at only
// get defaults when missing.
func (r *OTPRepository) Merge(ctx context.Context, mobileNumber string, patch model.OTPPatch) error {
	k := key(mobileNumber)
	values := encodePatch(patch)

	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, k, values...)
		pipe.HSetNX(ctx, k, fieldCreatedAt, formatTime(patch.At))
		pipe.HSetNX(ctx, k, fieldAttempts, 0)
		pipe.HSetNX(ctx, k, fieldResendCount, 0)
		if patch.BumpResendCount {
			pipe.HIncrBy(ctx, k, fieldResendCount, 1)
		}
		if patch.ExpiresAt != nil {
			pipe.ExpireAt(ctx, k, patch.ExpiresAt.Add(r.retention))
		} else {
			pipe.Expire(ctx, k, r.retention)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to merge otp record: %w", err)
	}
	return nil
}

func (r *OTPRepository) IncrementAttempts(ctx context.Context, mobileNumber string) (int, error) {
	n, err := incrementAttempts.Run(ctx, r.client, []string{key(mobileNumber)}, formatTime(r.now())).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to increment otp attempts: %w", err)
	}
	if n < 0 {
		return 0, model.ErrNotFound
	}
	return n, nil
}

func (r *OTPRepository) Delete(ctx context.Context, mobileNumber string) error {
	if err := r.client.Del(ctx, key(mobileNumber)).Err(); err != nil {
		return fmt.Errorf("failed to delete otp record: %w", err)
	}
	return nil
}

func encodePatch(p model.OTPPatch) []any {
	values := []any{fieldUpdatedAt, formatTime(p.At)}
	if p.Code != nil {
		values = append(values, fieldCode, *p.Code)
	}
	if p.Purpose != nil {
		values = append(values, fieldPurpose, string(*p.Purpose))
	}
	if p.PasswordHashTemp != nil {
		values = append(values, fieldPassword, *p.PasswordHashTemp)
	}
	if p.Attempts != nil {
		values = append(values, fieldAttempts, *p.Attempts)
	}
	if p.ExpiresAt != nil {
		values = append(values, fieldExpiresAt, formatTime(*p.ExpiresAt))
	}
	if p.LastSentAt != nil {
		values = append(values, fieldLastSentAt, formatTime(*p.LastSentAt))
	}
	return values
}

func decodeRecord(mobileNumber string, fields map[string]string) (model.OTPRecord, error) {
	rec := model.OTPRecord{
		MobileNumber:     mobileNumber,
		Code:             fields[fieldCode],
		Purpose:          model.OTPPurpose(fields[fieldPurpose]),
		PasswordHashTemp: fields[fieldPassword],
	}

	var err error
	if rec.Attempts, err = parseInt(fields[fieldAttempts]); err != nil {
		return model.OTPRecord{}, fmt.Errorf("attempts: %w", err)
	}
	if rec.ResendCount, err = parseInt(fields[fieldResendCount]); err != nil {
		return model.OTPRecord{}, fmt.Errorf("resend_count: %w", err)
	}
	if rec.ExpiresAt, err = parseOptionalTime(fields[fieldExpiresAt]); err != nil {
		return model.OTPRecord{}, fmt.Errorf("expires_at: %w", err)
	}
	if rec.LastSentAt, err = parseOptionalTime(fields[fieldLastSentAt]); err != nil {
		return model.OTPRecord{}, fmt.Errorf("last_sent_at: %w", err)
	}
	if createdAt, err := parseOptionalTime(fields[fieldCreatedAt]); err != nil {
		return model.OTPRecord{}, fmt.Errorf("created_at: %w", err)
	} else if createdAt != nil {
		rec.CreatedAt = *createdAt
	}
	if updatedAt, err := parseOptionalTime(fields[fieldUpdatedAt]); err != nil {
		return model.OTPRecord{}, fmt.Errorf("updated_at: %w", err)
	} else if updatedAt != nil {
		rec.UpdatedAt = *updatedAt
	}

	return rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseOptionalTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
