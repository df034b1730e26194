package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrMissingCredentials = errors.New("API key and IP address are required")
	ErrInvalidIP          = errors.New("invalid IP address")
	ErrEmptyInput         = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON        = errors.New("invalid JSON format")
	ErrTooDeep            = errors.New("value nested too deeply")
	ErrUnknownFormat      = errors.New("unknown export format")
	ErrSelectorNotFound   = errors.New("selector did not match any value")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeNetwork   ErrorType = "network"
	ErrorTypeAPI       ErrorType = "api"
	ErrorTypeExport    ErrorType = "export"
	ErrorTypeClipboard ErrorType = "clipboard"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError of the same type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newError(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

// NewInputError creates a new error related to user input
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to JSON or YAML decoding
func NewParsingError(message string, err error) *AppError {
	return newError(ErrorTypeParsing, message, err)
}

// NewNetworkError creates a new error for transport failures
func NewNetworkError(message string, err error) *AppError {
	return newError(ErrorTypeNetwork, message, err)
}

// NewAPIError creates a new error for non-success upstream responses
func NewAPIError(message string, err error) *AppError {
	return newError(ErrorTypeAPI, message, err)
}

// NewExportError creates a new error related to writing exports
func NewExportError(message string, err error) *AppError {
	return newError(ErrorTypeExport, message, err)
}

// NewClipboardError creates a new error for clipboard access
func NewClipboardError(message string, err error) *AppError {
	return newError(ErrorTypeClipboard, message, err)
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("Parsing error: %s", appErr.Message)
		case ErrorTypeNetwork:
			return fmt.Sprintf("Network error: %s", appErr.Message)
		case ErrorTypeAPI:
			return fmt.Sprintf("API error: %s", appErr.Message)
		case ErrorTypeExport:
			return fmt.Sprintf("Export error: %s", appErr.Message)
		case ErrorTypeClipboard:
			return fmt.Sprintf("Clipboard error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	if errors.Is(err, ErrMissingCredentials) {
		return "Error: Please enter both API key and target IP address."
	}
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide a saved analysis in JSON or YAML."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input is not valid JSON or YAML."
	}
	if errors.Is(err, ErrUnknownFormat) {
		return "Error: Unknown export format. Use json, csv, txt or html."
	}

	return fmt.Sprintf("Error: %v", err)
}
