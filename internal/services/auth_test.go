package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"local-branch/internal/repositories"
	"local-branch/pkg/config"
	apperrors "local-branch/pkg/errors"
	"local-branch/pkg/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "services-test-secret"

func newTestAuthService(cache *memoryCache, maxAttempts int) AuthServiceInterface {
	cfg := &config.AuthConfig{
		BcryptCost:       bcrypt.MinCost,
		MaxLoginAttempts: maxAttempts,
		LockoutDuration:  time.Minute,
	}
	var cacheRepo repositories.CacheRepositoryInterface
	if cache != nil {
		cacheRepo = cache
	}
	return NewAuthService(
		service.NewPasswordHasher(bcrypt.MinCost),
		service.NewJWTService(testJWTSecret, time.Hour, zap.NewNop()),
		cacheRepo,
		zap.NewNop(),
		cfg,
	)
}

func TestAuthService_HashAndVerify(t *testing.T) {
	auth := newTestAuthService(nil, 0)

	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)

	ok, err := auth.VerifyPassword("pw", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.VerifyPassword("other", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_CheckSession(t *testing.T) {
	auth := newTestAuthService(nil, 0)
	token, err := auth.IssueToken("u1", "a@x.com")
	require.NoError(t, err)

	foreign, err := service.NewJWTService("other-secret", time.Hour, zap.NewNop()).GenerateToken("u1", "a@x.com")
	require.NoError(t, err)
	expired, err := service.NewJWTService(testJWTSecret, -time.Minute, zap.NewNop()).GenerateToken("u1", "a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{name: "valid token", header: "Bearer " + token, want: true},
		{name: "no header", header: "", want: false},
		{name: "no token", header: "Bearer", want: false},
		{name: "malformed token", header: "Bearer not-a-jwt", want: false},
		{name: "different secret", header: "Bearer " + foreign, want: false},
		{name: "expired", header: "Bearer " + expired, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.CheckSession(context.Background(), tt.header))
		})
	}
}

func TestAuthService_Lockout(t *testing.T) {
	cache := newMemoryCache()
	auth := newTestAuthService(cache, 2)
	ctx := context.Background()

	require.NoError(t, auth.CheckLockout(ctx, "u1"))
	auth.RegisterFailedLogin(ctx, "u1")
	require.NoError(t, auth.CheckLockout(ctx, "u1"))
	auth.RegisterFailedLogin(ctx, "u1")

	err := auth.CheckLockout(ctx, "u1")
	var httpErr *apperrors.HttpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)

	require.NoError(t, auth.CheckLockout(ctx, "u2"), "lockout is per user")

	auth.ResetLoginAttempts(ctx, "u1")
	assert.NoError(t, auth.CheckLockout(ctx, "u1"))
}

func TestAuthService_LockoutDisabled(t *testing.T) {
	cache := newMemoryCache()
	auth := newTestAuthService(cache, 0)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		auth.RegisterFailedLogin(ctx, "u1")
	}
	assert.NoError(t, auth.CheckLockout(ctx, "u1"))
	assert.Empty(t, cache.values)
}

func TestAuthService_CacheFailureDoesNotBlockLogin(t *testing.T) {
	cache := newMemoryCache()
	cache.failOn = errors.New("redis down")
	auth := newTestAuthService(cache, 1)
	ctx := context.Background()

	auth.RegisterFailedLogin(ctx, "u1")
	assert.NoError(t, auth.CheckLockout(ctx, "u1"))
}
