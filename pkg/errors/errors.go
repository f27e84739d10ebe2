package errors

import (
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token expired")
	ErrTokenNotYetValid     = fmt.Errorf("token not yet valid")

	// Авторизация
	ErrEmptyAuthHeader   = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader = fmt.Errorf("authorization header is malformed")
	ErrAccountLocked     = fmt.Errorf("account is temporarily locked")

	// Контекст
	ErrClaimsNotFoundInContext = fmt.Errorf("token claims not found in request context")

	// Хранилище
	ErrNotFound = fmt.Errorf("record not found")
	ErrConflict = fmt.Errorf("record violates a unique constraint")
)

// HttpError несёт код ответа и сообщение для клиента.
// Err и Context пишутся только в лог.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

func NewBadRequestError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, nil, nil)
}

func NewNotFoundError(message string) *HttpError {
	return NewHttpError(http.StatusNotFound, message, nil, nil)
}

// Конфликт уникальности отдаётся как 400, как и остальные ошибки ввода.
// Без err оборачивается ErrConflict.
func NewConflictError(message string, err error) *HttpError {
	if err == nil {
		err = ErrConflict
	}
	return NewHttpError(http.StatusBadRequest, message, err, nil)
}

func NewInternalError(err error, context map[string]interface{}) *HttpError {
	return NewHttpError(http.StatusInternalServerError, "Internal Server Error.", err, context)
}
