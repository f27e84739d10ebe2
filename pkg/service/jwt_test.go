package service

import (
	"testing"
	"time"

	apperrors "local-branch/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newTestJWTService(ttl time.Duration) JWTService {
	return NewJWTService(testSecret, ttl, zap.NewNop())
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	token, err := svc.GenerateToken("u1", "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)

	token, err := svc.GenerateToken("u1", "a@x.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_DifferentSecret(t *testing.T) {
	other := NewJWTService("another-secret", time.Hour, zap.NewNop())
	token, err := other.GenerateToken("u1", "a@x.com")
	require.NoError(t, err)

	_, err = newTestJWTService(time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_MalformedToken(t *testing.T) {
	_, err := newTestJWTService(time.Hour).ValidateToken("not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	claims := &JwtCustomClaim{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestJWTService(time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsTokenWithoutExpiry(t *testing.T) {
	claims := &JwtCustomClaim{UserID: "u1"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestJWTService(time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_ParseBearer(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	token, err := svc.GenerateToken("u1", "a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{name: "valid", header: "Bearer " + token},
		{name: "lowercase scheme", header: "bearer " + token},
		{name: "empty header", header: "", wantErr: apperrors.ErrEmptyAuthHeader},
		{name: "scheme only", header: "Bearer", wantErr: apperrors.ErrInvalidAuthHeader},
		{name: "wrong scheme", header: "Basic " + token, wantErr: apperrors.ErrInvalidAuthHeader},
		{name: "garbage token", header: "Bearer abc", wantErr: apperrors.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ParseBearer(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", claims.UserID)
		})
	}
}
