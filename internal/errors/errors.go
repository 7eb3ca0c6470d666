package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Auth errors (AUTH-001 to AUTH-099)
	ErrCodeAuthRequired         ErrorCode = "AUTH-001"
	ErrCodeAuthSessionExpired   ErrorCode = "AUTH-002"
	ErrCodeAuthForbidden        ErrorCode = "AUTH-003"
	ErrCodeAuthPasswordMismatch ErrorCode = "AUTH-004"
	ErrCodeAuthTokenStore       ErrorCode = "AUTH-005"

	// API errors (API-001 to API-099)
	ErrCodeAPINetwork  ErrorCode = "API-001"
	ErrCodeAPIServer   ErrorCode = "API-002"
	ErrCodeAPIDecode   ErrorCode = "API-003"
	ErrCodeAPIContract ErrorCode = "API-004"

	// Cart errors (CART-001 to CART-099)
	ErrCodeCartInvalidQuantity ErrorCode = "CART-001"
	ErrCodeCartEmpty           ErrorCode = "CART-002"
	ErrCodeCartLineNotFound    ErrorCode = "CART-003"
	ErrCodeCartInvalidSize     ErrorCode = "CART-004"

	// Checkout errors (CHECKOUT-001 to CHECKOUT-099)
	ErrCodeCheckoutValidation ErrorCode = "CHECKOUT-001"
	ErrCodeCheckoutSubmit     ErrorCode = "CHECKOUT-002"

	// Store errors (STORE-001 to STORE-099)
	ErrCodeStoreWrite ErrorCode = "STORE-001"
	ErrCodeStoreRead  ErrorCode = "STORE-002"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
	ErrCodeConfigKey     ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
)

// MaisonError represents an error with a code and recovery suggestions
type MaisonError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *MaisonError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *MaisonError) Unwrap() error {
	return e.Cause
}

// Is matches another MaisonError by code, so sentinel values can be compared
// with errors.Is regardless of message or cause.
func (e *MaisonError) Is(target error) bool {
	t, ok := target.(*MaisonError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new MaisonError
func New(code ErrorCode, message string) *MaisonError {
	return &MaisonError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new MaisonError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *MaisonError {
	return &MaisonError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *MaisonError) WithSuggestion(suggestion string) *MaisonError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *MaisonError) WithSuggestions(suggestions ...string) *MaisonError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// CodeOf returns the code of the first MaisonError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	for err != nil {
		if me, ok := err.(*MaisonError); ok {
			return me.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Common error constructors for frequently used errors

// NewAuthRequiredError creates a not-logged-in error
func NewAuthRequiredError() *MaisonError {
	return New(ErrCodeAuthRequired, "you are not logged in").
		WithSuggestion("Run 'maison auth login' to sign in")
}

// NewSessionExpiredError creates an error for a session the server rejected
func NewSessionExpiredError() *MaisonError {
	return New(ErrCodeAuthSessionExpired, "your session has expired").
		WithSuggestion("Run 'maison auth login' to sign in again")
}

// NewAdminRequiredError creates an admin-only error
func NewAdminRequiredError() *MaisonError {
	return New(ErrCodeAuthForbidden, "access denied, admin only").
		WithSuggestion("Sign in with an administrator account")
}

// NewPasswordMismatchError creates a password confirmation error
func NewPasswordMismatchError() *MaisonError {
	return New(ErrCodeAuthPasswordMismatch, "passwords do not match")
}

// NewInvalidQuantityError creates a cart quantity error
func NewInvalidQuantityError(quantity int) *MaisonError {
	return New(ErrCodeCartInvalidQuantity, fmt.Sprintf("quantity must be at least 1, got %d", quantity)).
		WithSuggestion("Use 'maison cart remove' to delete a line")
}

// NewEmptyCartError creates an empty cart error
func NewEmptyCartError() *MaisonError {
	return New(ErrCodeCartEmpty, "your cart is empty").
		WithSuggestion("Add products with 'maison cart add <product-id> --size M'")
}

// NewCheckoutValidationError creates a checkout validation error
func NewCheckoutValidationError(message string) *MaisonError {
	return New(ErrCodeCheckoutValidation, message)
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *MaisonError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
