package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrReauthRequired     = errors.New("re-authentication required")
	ErrDecryptFailed      = errors.New("unable to decrypt")
)

// Error codes returned to clients
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeReauthRequired     = "REAUTH_REQUIRED"
	CodeDecryptFailed      = "DECRYPT_FAILED"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "internal server error", err)
}

// ReauthFailed builds the generic re-authentication failure. The
// message never distinguishes "user not found" from "wrong password".
func ReauthFailed() *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "Incorrect password", ErrInvalidCredentials)
}

// AccessDenied builds the generic policy denial. The message must not
// reveal whether the target user exists or has secrets on file.
func AccessDenied() *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, "You are not authorized to view these details", ErrForbidden)
}

// DecryptFailed surfaces a codec failure without the underlying detail
func DecryptFailed() *AppError {
	return NewAppError(http.StatusInternalServerError, CodeDecryptFailed, "unable to decrypt card details", ErrDecryptFailed)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: message,
		Err:     err,
	}
}
