package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeProfileIncomplete  ErrorCode = "PROFILE_INCOMPLETE"
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeStateConflict      ErrorCode = "STATE_CONFLICT"
	ErrCodeAlreadyResolved    ErrorCode = "ALREADY_RESOLVED"
	ErrCodeDuplicate          ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeDependencyFailure  ErrorCode = "DEPENDENCY_FAILURE"
	ErrCodePayloadTooLarge    ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeUnsupportedContent ErrorCode = "UNSUPPORTED_CONTENT"
)

// AppError описывает ошибку, которую можно отдать клиенту.
// Details попадают в тело ответа рядом с полем error.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
	Details    map[string]any
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail возвращает копию ошибки с дополнительным полем ответа.
func (e *AppError) WithDetail(key string, value any) *AppError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value

	clone := *e
	clone.Details = details
	return &clone
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Dependency оборачивает неожиданный сбой хранилища или внешнего сервиса.
func Dependency(err error, message string) *AppError {
	return Wrap(err, ErrCodeDependencyFailure, message)
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeProfileIncomplete:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidation, ErrCodeStateConflict, ErrCodeAlreadyResolved, ErrCodeDuplicate, ErrCodeUnsupportedContent:
		return http.StatusBadRequest
	case ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки или пустую строку, если это не AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

var (
	ErrUnauthorized        = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden           = New(ErrCodeForbidden, "недостаточно прав")
	ErrApplicationNotFound = New(ErrCodeNotFound, "заявка не найдена")
	ErrPropertyNotFound    = New(ErrCodeNotFound, "объект недвижимости не найден")
	ErrUserNotFound        = New(ErrCodeNotFound, "пользователь не найден")
	ErrTenantNotFound      = New(ErrCodeNotFound, "профиль арендатора не найден")
	ErrNotificationMissing = New(ErrCodeNotFound, "уведомление не найдено")
)
