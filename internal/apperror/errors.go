package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError — ошибка уровня приложения с HTTP статусом.
// Message отдается клиенту, Err остается во внутренних логах.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

func Internal(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: err}
}

// From приводит любую ошибку к *AppError. Неизвестные ошибки становятся 500,
// их детали не попадают в ответ клиенту.
func From(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return Internal("внутренняя ошибка сервера", err)
}
