package utils

import (
	"context"

	"local-branch/pkg/contextkeys"
	apperrors "local-branch/pkg/errors"
	"local-branch/pkg/service"
)

func GetClaimsFromCtx(ctx context.Context) (*service.JwtCustomClaim, error) {
	claims, ok := ctx.Value(contextkeys.ClaimsKey).(*service.JwtCustomClaim)
	if !ok || claims == nil {
		return nil, apperrors.ErrClaimsNotFoundInContext
	}
	return claims, nil
}

// RequestIDFromCtx возвращает ID запроса из RequestLogger или пустую строку.
func RequestIDFromCtx(ctx context.Context) string {
	requestID, _ := ctx.Value(contextkeys.RequestIDKey).(string)
	return requestID
}
