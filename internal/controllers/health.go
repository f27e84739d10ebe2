package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Pinger - всё, что умеет проверить своё соединение.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc позволяет передать функцию вместо клиента.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthController struct {
	checks map[string]Pinger
	logger *zap.Logger
}

func NewHealthController(checks map[string]Pinger, logger *zap.Logger) *HealthController {
	return &HealthController{checks: checks, logger: logger}
}

type healthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

func (c *HealthController) Health(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	res := healthResponse{Status: "ok", Components: make(map[string]string, len(c.checks))}
	code := http.StatusOK
	for name, check := range c.checks {
		if err := check.Ping(reqCtx); err != nil {
			c.logger.Warn("Health: component unavailable", zap.String("component", name), zap.Error(err))
			res.Components[name] = "unavailable"
			res.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		res.Components[name] = "ok"
	}

	return ctx.JSON(code, res)
}
