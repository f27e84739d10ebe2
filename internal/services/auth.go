package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"local-branch/internal/repositories"
	"local-branch/pkg/config"
	apperrors "local-branch/pkg/errors"
	"local-branch/pkg/service"

	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, passwordHash string) (bool, error)
	IssueToken(userID, email string) (string, error)
	CheckSession(ctx context.Context, authHeader string) bool

	CheckLockout(ctx context.Context, userID string) error
	RegisterFailedLogin(ctx context.Context, userID string)
	ResetLoginAttempts(ctx context.Context, userID string)
}

type AuthService struct {
	hasher    service.PasswordHasher
	jwtSvc    service.JWTService
	cacheRepo repositories.CacheRepositoryInterface
	logger    *zap.Logger
	cfg       *config.AuthConfig
}

// NewAuthService - cacheRepo может быть nil, тогда блокировка по попыткам входа отключена.
func NewAuthService(
	hasher service.PasswordHasher,
	jwtSvc service.JWTService,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		hasher:    hasher,
		jwtSvc:    jwtSvc,
		cacheRepo: cacheRepo,
		logger:    logger,
		cfg:       cfg,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	return s.hasher.Hash(password)
}

func (s *AuthService) VerifyPassword(password, passwordHash string) (bool, error) {
	return s.hasher.Verify(password, passwordHash)
}

func (s *AuthService) IssueToken(userID, email string) (string, error) {
	return s.jwtSvc.GenerateToken(userID, email)
}

// CheckSession никогда не возвращает ошибку: любой сбой проверки означает false.
func (s *AuthService) CheckSession(ctx context.Context, authHeader string) bool {
	claims, err := s.jwtSvc.ParseBearer(authHeader)
	if err != nil {
		s.logger.Debug("CheckSession: session rejected", zap.String("reason", err.Error()))
		return false
	}
	s.logger.Debug("CheckSession: session valid", zap.String("userID", claims.UserID))
	return true
}

func (s *AuthService) lockoutEnabled() bool {
	return s.cacheRepo != nil && s.cfg != nil && s.cfg.MaxLoginAttempts > 0
}

func attemptsKey(userID string) string {
	return fmt.Sprintf("local_branch:login_attempts:%s", userID)
}

func lockoutKey(userID string) string {
	return fmt.Sprintf("local_branch:lockout:%s", userID)
}

func (s *AuthService) CheckLockout(ctx context.Context, userID string) error {
	if !s.lockoutEnabled() {
		return nil
	}

	_, err := s.cacheRepo.Get(ctx, lockoutKey(userID))
	switch {
	case err == nil:
		s.logger.Warn("CheckLockout: login attempt on locked account", zap.String("userID", userID))
		return apperrors.NewHttpError(
			http.StatusTooManyRequests,
			"Too many failed login attempts. Try again later.",
			apperrors.ErrAccountLocked,
			map[string]interface{}{"userID": userID},
		)
	case errors.Is(err, repositories.ErrCacheMiss):
		return nil
	default:
		// Недоступный кеш не должен блокировать вход.
		s.logger.Warn("CheckLockout: cache unavailable", zap.Error(err))
		return nil
	}
}

func (s *AuthService) RegisterFailedLogin(ctx context.Context, userID string) {
	if !s.lockoutEnabled() {
		return
	}

	key := attemptsKey(userID)
	attempts, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		s.logger.Warn("RegisterFailedLogin: failed to count attempt", zap.Error(err))
		return
	}
	if attempts == 1 {
		if _, err := s.cacheRepo.Expire(ctx, key, s.cfg.LockoutDuration); err != nil {
			s.logger.Warn("RegisterFailedLogin: failed to set attempts TTL", zap.Error(err))
		}
	}

	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		if err := s.cacheRepo.Set(ctx, lockoutKey(userID), "locked", s.cfg.LockoutDuration); err != nil {
			s.logger.Warn("RegisterFailedLogin: failed to lock account", zap.Error(err))
			return
		}
		_ = s.cacheRepo.Del(ctx, key)
		s.logger.Warn("RegisterFailedLogin: account locked",
			zap.String("userID", userID),
			zap.Duration("duration", s.cfg.LockoutDuration),
		)
	}
}

func (s *AuthService) ResetLoginAttempts(ctx context.Context, userID string) {
	if !s.lockoutEnabled() {
		return
	}
	if err := s.cacheRepo.Del(ctx, attemptsKey(userID), lockoutKey(userID)); err != nil {
		s.logger.Warn("ResetLoginAttempts: failed to reset counters", zap.Error(err))
	}
}
