package ux

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/maison/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a suggestion for failures whose error code carries none.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	switch errors.CodeOf(err) {
	case errors.ErrCodeAPINetwork:
		return err // suggestions attached at the source
	case errors.ErrCodeStoreWrite:
		return NewErrorWithSuggestion(err,
			"Check that the data directory is writable (maison config get storage.data_dir)")
	case errors.ErrCodeAuthTokenStore:
		return NewErrorWithSuggestion(err,
			"If MAISON_TOKEN_PASSPHRASE changed, sign in again with 'maison auth login'")
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"):
		return NewErrorWithSuggestion(err,
			"Check that the storefront API is running (maison config get api.base_url)")
	case strings.Contains(msg, "permission denied"):
		return NewErrorWithSuggestion(err,
			"Check file permissions on the Maison data directory")
	case strings.Contains(msg, "context deadline exceeded"):
		return NewErrorWithSuggestion(err,
			"The API took too long to answer, raise api.timeout with 'maison config set api.timeout 60s'")
	}
	return err
}

// FormatError names the attempted action, e.g. "failed to place order: ...",
// unless the error already does.
func FormatError(err error, action string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if action == "" || strings.HasPrefix(err.Error(), "failed to ") {
		return enhanced
	}
	return fmt.Errorf("failed to %s: %w", action, enhanced)
}
