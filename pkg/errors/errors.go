package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNetwork          = errors.New("network unavailable")
	ErrStorage          = errors.New("storage failure")
	ErrAuthRejected     = errors.New("authentication rejected")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// genericNetworkMessage is shown when the server is unreachable or returned
// no parseable body.
const genericNetworkMessage = "Something went wrong. Please check your connection and try again."

// genericStorageMessage is shown when a local storage mutation fails.
const genericStorageMessage = "Could not save your changes. Please try again."

// AppError represents a structured client error with a user-facing message.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates an error for a missing resource or store key.
func NotFound(resource, key string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with key %s not found", resource, key),
		Err:     ErrNotFound,
	}
}

// InvalidInput creates an error for locally rejected input.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// NetworkUnavailable creates an error for an unreachable server or a
// response with no parseable body. The wrapped error carries the transport
// detail; the message is the generic user-facing notice.
func NetworkUnavailable(err error) *AppError {
	return &AppError{
		Code:    "NETWORK_UNAVAILABLE",
		Message: genericNetworkMessage,
		Err:     fmt.Errorf("%w: %w", ErrNetwork, err),
	}
}

// AuthRejected creates an error carrying the server-provided rejection
// message verbatim, so screens can render exactly what the backend said.
func AuthRejected(serverMessage string) *AppError {
	return &AppError{
		Code:    "AUTH_REJECTED",
		Message: serverMessage,
		Err:     ErrAuthRejected,
	}
}

// StorageFailure creates an error for a failed local store operation.
func StorageFailure(op string, err error) *AppError {
	return &AppError{
		Code:    "STORAGE_FAILURE",
		Message: genericStorageMessage,
		Err:     fmt.Errorf("%w: %s: %w", ErrStorage, op, err),
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// UserMessage returns the string a screen may render for the given error.
// AppError messages pass through; anything else degrades to the generic
// network notice rather than leaking internals.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return genericNetworkMessage
}
