//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/novelnest/novelnest-server/internal/model"
	repo "github.com/novelnest/novelnest-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "novelnest_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/novelnest_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T) *repo.Connection {
	t.Helper()
	conn, err := repo.NewConnection(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func ptr[T any](v T) *T { return &v }

func TestUserRepository_Activate(t *testing.T) {
	ctx := context.Background()
	ur := repo.NewUserRepository(connect(t))
	at := time.Now().UTC().Truncate(time.Microsecond)

	created, isNew, err := ur.Activate(ctx, model.Activation{
		ID: uuid.New(), FirstName: "Nimal", LastName: "Perera",
		MobileNumber: "+94770000001", PasswordHash: "hash-1", At: at,
	})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, model.UserStatusActive, created.Status)
	assert.True(t, created.CreatedAt.Equal(at))

	later := at.Add(time.Minute)
	updated, isNew, err := ur.Activate(ctx, model.Activation{
		ID: uuid.New(), FirstName: "Kamal", LastName: "Silva",
		MobileNumber: "+94770000001", PasswordHash: "hash-2", At: later,
	})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(at))
	assert.True(t, updated.UpdatedAt.Equal(later))
	assert.Equal(t, "Kamal", updated.FirstName)
	assert.Equal(t, "hash-2", updated.PasswordHash)

	byID, err := ur.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "+94770000001", byID.MobileNumber)

	require.NoError(t, ur.TouchLastLogin(ctx, "+94770000001", later))
	byMobile, err := ur.GetByMobile(ctx, "+94770000001")
	require.NoError(t, err)
	require.NotNil(t, byMobile.LastLoginAt)

	_, err = ur.GetByMobile(ctx, "+94770000999")
	require.ErrorIs(t, err, model.ErrNotFound)
	require.ErrorIs(t, ur.TouchLastLogin(ctx, "+94770000999", later), model.ErrNotFound)
}

func TestUserRepository_ConcurrentActivate(t *testing.T) {
	ctx := context.Background()
	ur := repo.NewUserRepository(connect(t))
	const workers = 8

	var wg sync.WaitGroup
	results := make([]bool, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i], errs[i] = ur.Activate(ctx, model.Activation{
				ID: uuid.New(), FirstName: "A", LastName: "B",
				MobileNumber: "+94770000002", PasswordHash: "h", At: time.Now(),
			})
		}(i)
	}
	wg.Wait()

	createdCount := 0
	for i := range results {
		require.NoError(t, errs[i])
		if results[i] {
			createdCount++
		}
	}
	assert.Equal(t, 1, createdCount)
}

func TestOTPRepository_MergeSemantics(t *testing.T) {
	ctx := context.Background()
	or := repo.NewOTPRepository(connect(t))
	phone := "+94770000003"
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err := or.Get(ctx, phone)
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, or.Merge(ctx, phone, model.OTPPatch{PasswordHashTemp: ptr("staged"), At: now}))
	rec, err := or.Get(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "staged", rec.PasswordHashTemp)
	assert.Nil(t, rec.ExpiresAt)
	assert.Equal(t, 0, rec.ResendCount)

	expires := now.Add(5 * time.Minute)
	require.NoError(t, or.Merge(ctx, phone, model.OTPPatch{
		Code: ptr("123456"), Purpose: ptr(model.OTPPurposeRegister), Attempts: ptr(0),
		ExpiresAt: &expires, LastSentAt: &now, BumpResendCount: true, At: now,
	}))
	rec, err = or.Get(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "staged", rec.PasswordHashTemp)
	assert.Equal(t, "123456", rec.Code)
	assert.Equal(t, model.OTPPurposeRegister, rec.Purpose)
	assert.Equal(t, 1, rec.ResendCount)
	require.NotNil(t, rec.ExpiresAt)
	assert.True(t, rec.ExpiresAt.Equal(expires))

	n, err := or.IncrementAttempts(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	purged, err := or.PurgeExpired(ctx, expires.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	require.NoError(t, or.Delete(ctx, phone))
	_, err = or.IncrementAttempts(ctx, phone)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestRefreshTokenRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	ur := repo.NewUserRepository(conn)
	tr := repo.NewRefreshTokenRepository(conn)

	user, _, err := ur.Activate(ctx, model.Activation{
		ID: uuid.New(), FirstName: "A", LastName: "B",
		MobileNumber: "+94770000004", PasswordHash: "h", At: time.Now(),
	})
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, tr.Create(ctx, model.RefreshToken{
		JTI: "jti-1", UserID: user.ID, TokenHash: []byte("hash"),
		IssuedAt: now, ExpiresAt: now.Add(time.Hour),
	}))

	got, err := tr.GetByJTI(ctx, "jti-1")
	require.NoError(t, err)
	assert.Nil(t, got.RevokedAt)

	require.NoError(t, tr.RevokeByJTI(ctx, "jti-1"))
	got, err = tr.GetByJTI(ctx, "jti-1")
	require.NoError(t, err)
	assert.NotNil(t, got.RevokedAt)

	require.NoError(t, tr.RevokeAllByUser(ctx, user.ID))
	_, err = tr.GetByJTI(ctx, "missing")
	require.ErrorIs(t, err, model.ErrNotFound)
}
