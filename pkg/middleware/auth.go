package middleware

import (
	"context"
	"net/http"

	"local-branch/pkg/contextkeys"
	apperrors "local-branch/pkg/errors"
	"local-branch/pkg/service"
	"local-branch/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth пропускает запрос дальше только с действующим Bearer токеном.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.jwtService.ParseBearer(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			m.logger.Debug("AuthMiddleware: request rejected", zap.String("reason", err.Error()))
			return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusUnauthorized, "Unauthorized.", err, nil), m.logger)
		}

		newCtx := context.WithValue(c.Request().Context(), contextkeys.ClaimsKey, claims)
		c.SetRequest(c.Request().WithContext(newCtx))

		return next(c)
	}
}
