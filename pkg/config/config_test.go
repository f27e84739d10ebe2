package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg := New()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, []string{"stdout"}, cfg.Log.OutputPaths)
	require.NoError(t, cfg.Validate())
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := New()

	assert.Equal(t, 30*time.Minute, cfg.JWT.TokenTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestNew_BadValuesFallBack(t *testing.T) {
	t.Setenv("JWT_TTL", "soon")
	t.Setenv("BCRYPT_COST", "ten")

	cfg := New()

	assert.Equal(t, time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		JWT:  JWTConfig{SecretKey: "", TokenTTL: time.Hour},
		Auth: AuthConfig{BcryptCost: 2, MaxLoginAttempts: -1},
	}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "BCRYPT_COST")
	assert.Contains(t, err.Error(), "MAX_LOGIN_ATTEMPTS")
}
