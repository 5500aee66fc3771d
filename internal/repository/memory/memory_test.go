package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelnest/novelnest-server/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestOTPStore_MergeKeepsUnsetFields(t *testing.T) {
	ctx := context.Background()
	s := NewOTPStore()
	phone := "+94771234567"
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.Get(ctx, phone)
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.Merge(ctx, phone, model.OTPPatch{PasswordHashTemp: ptr("staged"), At: first}))

	expires := first.Add(5 * time.Minute)
	second := first.Add(time.Second)
	require.NoError(t, s.Merge(ctx, phone, model.OTPPatch{
		Code: ptr("123456"), Purpose: ptr(model.OTPPurposeRegister), ExpiresAt: &expires,
		LastSentAt: &second, BumpResendCount: true, At: second,
	}))

	rec, err := s.Get(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "staged", rec.PasswordHashTemp)
	assert.Equal(t, "123456", rec.Code)
	assert.Equal(t, 1, rec.ResendCount)
	assert.Equal(t, first, rec.CreatedAt)
	assert.Equal(t, second, rec.UpdatedAt)
}

func TestOTPStore_IncrementAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewOTPStore()
	phone := "+94771234567"

	_, err := s.IncrementAttempts(ctx, phone)
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.Merge(ctx, phone, model.OTPPatch{Code: ptr("1"), At: time.Now()}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.IncrementAttempts(ctx, phone)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	rec, err := s.Get(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, 10, rec.Attempts)

	require.NoError(t, s.Delete(ctx, phone))
	require.NoError(t, s.Delete(ctx, phone))
}

func TestOTPStore_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	s := NewOTPStore()
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	require.NoError(t, s.Merge(ctx, "+94770000001", model.OTPPatch{ExpiresAt: &past, At: now}))
	require.NoError(t, s.Merge(ctx, "+94770000002", model.OTPPatch{ExpiresAt: &future, At: now}))
	require.NoError(t, s.Merge(ctx, "+94770000003", model.OTPPatch{PasswordHashTemp: ptr("h"), At: now}))

	n, err := s.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Get(ctx, "+94770000002")
	assert.NoError(t, err)
	_, err = s.Get(ctx, "+94770000003")
	assert.NoError(t, err)
}

func TestUserStore_Activate(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()
	phone := "+94771234567"
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	u, created, err := s.Activate(ctx, model.Activation{
		ID: uuid.New(), FirstName: "A", LastName: "B", MobileNumber: phone, PasswordHash: "h1", At: first,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.UserStatusActive, u.Status)

	second := first.Add(time.Hour)
	u2, created, err := s.Activate(ctx, model.Activation{
		ID: uuid.New(), FirstName: "C", LastName: "D", MobileNumber: phone, PasswordHash: "h2", At: second,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, u2.ID)
	assert.Equal(t, first, u2.CreatedAt)
	assert.Equal(t, second, u2.UpdatedAt)
	assert.Equal(t, "h2", u2.PasswordHash)

	byID, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", byID.FirstName)

	require.NoError(t, s.TouchLastLogin(ctx, phone, second))
	got, err := s.GetByMobile(ctx, phone)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.Equal(t, second, *got.LastLoginAt)

	assert.ErrorIs(t, s.TouchLastLogin(ctx, "+94000000000", second), model.ErrNotFound)
	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRefreshTokenStore_Revoke(t *testing.T) {
	ctx := context.Background()
	s := NewRefreshTokenStore()
	userID := uuid.New()

	require.NoError(t, s.Create(ctx, model.RefreshToken{JTI: "a", UserID: userID}))
	require.NoError(t, s.Create(ctx, model.RefreshToken{JTI: "b", UserID: userID}))

	require.NoError(t, s.RevokeByJTI(ctx, "a"))
	a, err := s.GetByJTI(ctx, "a")
	require.NoError(t, err)
	assert.NotNil(t, a.RevokedAt)

	require.NoError(t, s.RevokeAllByUser(ctx, userID))
	b, err := s.GetByJTI(ctx, "b")
	require.NoError(t, err)
	assert.NotNil(t, b.RevokedAt)

	_, err = s.GetByJTI(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
