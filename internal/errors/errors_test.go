package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeNetwork,
				Message: "malicious-info request failed",
				Err:     errors.New("connection refused"),
			},
			expected: "network: malicious-info request failed: connection refused",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "missing IP",
			},
			expected: "input: missing IP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestAppError_UnwrapAndIs(t *testing.T) {
	err := NewAPIError("suspicious-info returned 503 Service Unavailable", ErrInvalidJSON)

	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.True(t, errors.Is(err, &AppError{Type: ErrorTypeAPI}))
	assert.False(t, errors.Is(err, &AppError{Type: ErrorTypeNetwork}))

	wrapped := fmt.Errorf("analyze: %w", err)
	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrorTypeAPI, appErr.Type)
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"input", NewInputError("target IP is empty", nil), "Input error: target IP is empty"},
		{"parsing", NewParsingError("unexpected end of input", nil), "Parsing error: unexpected end of input"},
		{"network", NewNetworkError("timeout", nil), "Network error: timeout"},
		{"export", NewExportError("cannot create file", nil), "Export error: cannot create file"},
		{"config", NewConfigError("bad yaml", nil), "Configuration error: bad yaml"},
		{"clipboard", NewClipboardError("no clipboard utility", nil), "Clipboard error: no clipboard utility"},
		{"missing credentials", ErrMissingCredentials, "Error: Please enter both API key and target IP address."},
		{"unknown format", fmt.Errorf("export: %w", ErrUnknownFormat), "Error: Unknown export format. Use json, csv, txt or html."},
		{"generic", errors.New("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserFriendlyError(tt.err))
		})
	}
}
