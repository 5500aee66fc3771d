package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/novelnest/novelnest-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, mobile_number, first_name, last_name, status, password_hash, created_at, updated_at, last_login_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	var status string
	err := row.Scan(
		&user.ID, &user.MobileNumber, &user.FirstName, &user.LastName, &status,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt,
	)
	user.Status = model.UserStatus(status)
	return user, err
}

func (r *UserRepository) GetByMobile(ctx context.Context, mobileNumber string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE mobile_number = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, mobileNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by mobile number: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// Activate locks any existing row for the number, then upserts the account.
// created_at and id are written only by the insert branch, and xmax = 0 tells
// whether this statement inserted the row.
func (r *UserRepository) Activate(ctx context.Context, a model.Activation) (model.User, bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to begin activation: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existingID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE mobile_number = $1 FOR UPDATE`, a.MobileNumber).Scan(&existingID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, false, fmt.Errorf("failed to lock user: %w", err)
	}

	id := a.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `INSERT INTO users (id, mobile_number, first_name, last_name, status, password_hash, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			  ON CONFLICT (mobile_number) DO UPDATE SET
			      first_name = EXCLUDED.first_name,
			      last_name = EXCLUDED.last_name,
			      status = EXCLUDED.status,
			      password_hash = EXCLUDED.password_hash,
			      updated_at = EXCLUDED.updated_at
			  RETURNING ` + userColumns + `, (xmax = 0) AS inserted`

	var user model.User
	var status string
	var inserted bool
	err = tx.QueryRow(ctx, query,
		id, a.MobileNumber, a.FirstName, a.LastName, string(model.UserStatusActive), a.PasswordHash, a.At,
	).Scan(
		&user.ID, &user.MobileNumber, &user.FirstName, &user.LastName, &status,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt, &inserted,
	)
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to upsert user: %w", err)
	}
	user.Status = model.UserStatus(status)

	if err := tx.Commit(ctx); err != nil {
		return model.User{}, false, fmt.Errorf("failed to commit activation: %w", err)
	}

	return user, inserted, nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, mobileNumber string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE mobile_number = $1`, mobileNumber, at)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
