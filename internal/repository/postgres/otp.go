package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/novelnest/novelnest-server/internal/model"
)

var _ model.OTPStore = (*OTPRepository)(nil)

type OTPRepository struct {
	db *Connection
}

func NewOTPRepository(db *Connection) *OTPRepository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) Get(ctx context.Context, mobileNumber string) (model.OTPRecord, error) {
	const query = `
        SELECT mobile_number, code, purpose, password_hash_temp, attempts, expires_at,
               last_sent_at, resend_count, created_at, updated_at
        FROM otp_verifications WHERE mobile_number = $1
    `
	var rec model.OTPRecord
	var purpose string
	err := r.db.QueryRow(ctx, query, mobileNumber).Scan(
		&rec.MobileNumber, &rec.Code, &purpose, &rec.PasswordHashTemp, &rec.Attempts, &rec.ExpiresAt,
		&rec.LastSentAt, &rec.ResendCount, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.OTPRecord{}, model.ErrNotFound
		}
		return model.OTPRecord{}, fmt.Errorf("failed to get otp record: %w", err)
	}
	rec.Purpose = model.OTPPurpose(purpose)

	return rec, nil
}

// Merge upserts the record; NULL parameters keep the stored column.
func (r *OTPRepository) Merge(ctx context.Context, mobileNumber string, patch model.OTPPatch) error {
	const query = `
        INSERT INTO otp_verifications (
            mobile_number, code, purpose, password_hash_temp, attempts, expires_at,
            last_sent_at, resend_count, created_at, updated_at
        ) VALUES (
            $1, COALESCE($2::text, ''), COALESCE($3::text, ''), COALESCE($4::text, ''), COALESCE($5::integer, 0),
            $6::timestamptz, $7::timestamptz, CASE WHEN $8::boolean THEN 1 ELSE 0 END, $9, $9
        )
        ON CONFLICT (mobile_number) DO UPDATE SET
            code = COALESCE($2::text, otp_verifications.code),
            purpose = COALESCE($3::text, otp_verifications.purpose),
            password_hash_temp = COALESCE($4::text, otp_verifications.password_hash_temp),
            attempts = COALESCE($5::integer, otp_verifications.attempts),
            expires_at = COALESCE($6::timestamptz, otp_verifications.expires_at),
            last_sent_at = COALESCE($7::timestamptz, otp_verifications.last_sent_at),
            resend_count = otp_verifications.resend_count + CASE WHEN $8::boolean THEN 1 ELSE 0 END,
            updated_at = $9
    `

	var purpose *string
	if patch.Purpose != nil {
		p := string(*patch.Purpose)
		purpose = &p
	}

	_, err := r.db.Exec(ctx, query,
		mobileNumber, patch.Code, purpose, patch.PasswordHashTemp, patch.Attempts,
		patch.ExpiresAt, patch.LastSentAt, patch.BumpResendCount, patch.At,
	)
	if err != nil {
		return fmt.Errorf("failed to merge otp record: %w", err)
	}
	return nil
}

func (r *OTPRepository) IncrementAttempts(ctx context.Context, mobileNumber string) (int, error) {
	const query = `
        UPDATE otp_verifications SET attempts = attempts + 1, updated_at = NOW()
        WHERE mobile_number = $1
        RETURNING attempts
    `
	var attempts int
	if err := r.db.QueryRow(ctx, query, mobileNumber).Scan(&attempts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment otp attempts: %w", err)
	}
	return attempts, nil
}

func (r *OTPRepository) Delete(ctx context.Context, mobileNumber string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM otp_verifications WHERE mobile_number = $1`, mobileNumber); err != nil {
		return fmt.Errorf("failed to delete otp record: %w", err)
	}
	return nil
}

// PurgeExpired removes records whose code expired before cutoff.
func (r *OTPRepository) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM otp_verifications WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired otp records: %w", err)
	}
	return tag.RowsAffected(), nil
}
