package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"corrplot/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. The code of a wrapped
// AppError is kept; anything else is classified by its domain sentinel.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain. Errors
// without one are classified by the domain sentinel they wrap, falling back
// to CodeInternalError.
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, core.ErrIngestion):
		return CodeIngestion
	case stderrors.Is(err, core.ErrColumnSelection):
		return CodeColumnSelection
	case stderrors.Is(err, core.ErrTypeMismatch):
		return CodeTypeMismatch
	case stderrors.Is(err, core.ErrInsufficientData):
		return CodeInsufficientData
	case stderrors.Is(err, core.ErrDegenerateInput):
		return CodeDegenerateInput
	case stderrors.Is(err, core.ErrNotFound):
		return CodeNotFound
	default:
		return CodeInternalError
	}
}

// HTTPStatus maps an error onto the status code the API answers with
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeIngestion, CodeColumnSelection, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeTypeMismatch, CodeInsufficientData, CodeDegenerateInput:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeIngestion        = "INGESTION_ERROR"
	CodeColumnSelection  = "COLUMN_SELECTION_ERROR"
	CodeTypeMismatch     = "TYPE_MISMATCH"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeDegenerateInput  = "DEGENERATE_INPUT"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeRateLimited      = "RATE_LIMITED"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func PayloadTooLarge(limitBytes int64) *AppError {
	return New(CodePayloadTooLarge, fmt.Sprintf("file exceeds the %.1f MB limit", float64(limitBytes)/(1024*1024)))
}

func RateLimited() *AppError {
	return New(CodeRateLimited, "too many uploads, try again shortly")
}
