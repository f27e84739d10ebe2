package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "local-branch/pkg/errors"

	"github.com/labstack/echo/v4"
)

// BindStrictJSON декодирует тело запроса и отклоняет неизвестные поля.
func BindStrictJSON(c echo.Context, target interface{}) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewBadRequestError("Request body is empty.")
		}
		// encoding/json не экспортирует тип ошибки неизвестного поля.
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return apperrors.NewBadRequestError(fmt.Sprintf("%s cannot be updated.", strings.Trim(field, `"`)))
		}
		return apperrors.NewBadRequestError("Invalid request body.")
	}
	return nil
}
