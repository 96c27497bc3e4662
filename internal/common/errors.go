package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrValidation   = errors.New("validation failed")
)

// Pipeline failure kinds. Every one of them is terminal for a run.
var (
	ErrExtractionIO      = errors.New("extraction io error")
	ErrMalformedResponse = errors.New("malformed llm response")
	ErrExternalService   = errors.New("external service error")
	ErrPersistence       = errors.New("persistence error")
)

// Error codes carried on AppError.Code.
const (
	CodeConfig            = "CONFIG_ERROR"
	CodeExtractionIO      = "EXTRACTION_IO"
	CodeMalformedResponse = "MALFORMED_RESPONSE"
	CodeExternalService   = "EXTERNAL_SERVICE"
	CodePersistence       = "PERSISTENCE"
	CodeInternal          = "INTERNAL"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// newKindError keeps both the kind sentinel and the underlying cause reachable via errors.Is/As.
func newKindError(code string, kind error, message string, cause error) *AppError {
	if cause == nil {
		return NewAppError(code, message, kind)
	}
	return NewAppError(code, message, fmt.Errorf("%w: %w", kind, cause))
}

func ExtractionIOError(message string, cause error) *AppError {
	return newKindError(CodeExtractionIO, ErrExtractionIO, message, cause)
}

func MalformedResponseError(message string, cause error) *AppError {
	return newKindError(CodeMalformedResponse, ErrMalformedResponse, message, cause)
}

func ExternalServiceError(message string, cause error) *AppError {
	return newKindError(CodeExternalService, ErrExternalService, message, cause)
}

func PersistenceError(message string, cause error) *AppError {
	return newKindError(CodePersistence, ErrPersistence, message, cause)
}

// IsRetryable reports whether err is a transient kind that a bounded retry may clear.
// Malformed responses and extraction failures repeat deterministically and never qualify.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMalformedResponse) || errors.Is(err, ErrExtractionIO) {
		return false
	}
	return errors.Is(err, ErrExternalService) || errors.Is(err, ErrPersistence)
}

// Kind returns the failure-kind code for err, or CodeInternal when it is not one of ours.
func Kind(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrExtractionIO):
		return CodeExtractionIO
	case errors.Is(err, ErrMalformedResponse):
		return CodeMalformedResponse
	case errors.Is(err, ErrExternalService):
		return CodeExternalService
	case errors.Is(err, ErrPersistence):
		return CodePersistence
	}
	return CodeInternal
}

// Exit codes for the CLI.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code == CodeConfig {
		return ExitUsage
	}
	if errors.Is(err, ErrInvalidInput) {
		return ExitUsage
	}
	return ExitFailure
}
