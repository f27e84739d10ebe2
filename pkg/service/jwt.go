package service

import (
	"errors"
	"strings"
	"time"

	apperrors "local-branch/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type JwtCustomClaim struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateToken(userID, email string) (string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	ParseBearer(authHeader string) (*JwtCustomClaim, error)
}

type jwtService struct {
	secretKey []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewJWTService(secretKey string, tokenTTL time.Duration, logger *zap.Logger) JWTService {
	return &jwtService{
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

func (s *jwtService) GenerateToken(userID, email string) (string, error) {
	now := time.Now()
	claims := &JwtCustomClaim{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken проверяет подпись и сроки. Любая ошибка означает, что токену доверять нельзя.
func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return s.secretKey, nil
		default:
			return nil, apperrors.ErrInvalidSigningMethod
		}
	})
	if err != nil {
		s.logger.Debug("token rejected", zap.Error(err))
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
			return nil, apperrors.ErrTokenNotYetValid
		case errors.Is(err, apperrors.ErrInvalidSigningMethod):
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}

// ParseBearer разбирает заголовок "Bearer <token>" и валидирует токен.
func (s *jwtService) ParseBearer(authHeader string) (*JwtCustomClaim, error) {
	if strings.TrimSpace(authHeader) == "" {
		return nil, apperrors.ErrEmptyAuthHeader
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.ErrInvalidAuthHeader
	}

	return s.ValidateToken(parts[1])
}
