package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"local-branch/pkg/service"
	"local-branch/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthMiddleware(t *testing.T) {
	jwtSvc := service.NewJWTService("middleware-secret", time.Hour, zap.NewNop())
	token, err := jwtSvc.GenerateToken("u1", "a@x.com")
	require.NoError(t, err)

	foreign, err := service.NewJWTService("other-secret", time.Hour, zap.NewNop()).GenerateToken("u1", "a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{name: "valid token", header: "Bearer " + token, code: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, code: http.StatusOK},
		{name: "no header", header: "", code: http.StatusUnauthorized},
		{name: "no token", header: "Bearer", code: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", code: http.StatusUnauthorized},
		{name: "foreign secret", header: "Bearer " + foreign, code: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seenUserID string
			handler := NewAuthMiddleware(jwtSvc, zap.NewNop()).Auth(func(c echo.Context) error {
				claims, err := utils.GetClaimsFromCtx(c.Request().Context())
				if err != nil {
					return err
				}
				seenUserID = claims.UserID
				return c.NoContent(http.StatusOK)
			})

			require.NoError(t, handler(c))
			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, "u1", seenUserID)
			} else {
				assert.Empty(t, seenUserID)
				assert.JSONEq(t, `{"error":"Unauthorized."}`, rec.Body.String())
			}
		})
	}
}
