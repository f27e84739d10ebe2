package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"local-branch/internal/dto"
	apperrors "local-branch/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal Server Error."

// ErrorResponse пишет {"error": ...}. Внутренние детали уходят только в лог.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		fields := []zap.Field{
			zap.Int("code", httpErr.Code),
			zap.String("message", httpErr.Message),
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.String("request_id", RequestIDFromCtx(c.Request().Context())),
			zap.Error(httpErr.Err),
			zap.Any("context", httpErr.Context),
		}
		switch {
		case httpErr.Code >= http.StatusInternalServerError:
			logger.Error("HTTP Error", fields...)
		case httpErr.Err != nil:
			logger.Warn("HTTP Error", fields...)
		}
		message := httpErr.Message
		if httpErr.Code >= http.StatusInternalServerError {
			message = internalErrorMessage
		}
		return c.JSON(httpErr.Code, dto.ErrorResponse{Error: message})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: ValidationMessage(validationErrors)})
	}

	logger.Error("Unexpected Error",
		zap.String("method", c.Request().Method),
		zap.String("uri", c.Request().RequestURI),
		zap.String("request_id", RequestIDFromCtx(c.Request().Context())),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: internalErrorMessage})
}

func ValidationMessage(validationErrors validator.ValidationErrors) string {
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s' check", e.Field(), e.Tag()))
	}
	return "Validation error: " + strings.Join(msgs, "; ")
}

// HasRequiredViolation сообщает, что хотя бы одно обязательное поле пустое.
func HasRequiredViolation(err error) bool {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false
	}
	for _, e := range validationErrors {
		if e.Tag() == "required" {
			return true
		}
	}
	return false
}
