package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeCartEmpty, "test error message")

	if err.Code != ErrCodeCartEmpty {
		t.Errorf("expected code %s, got %s", ErrCodeCartEmpty, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeFileReadFailed, "failed to read file", cause)

	if err.Code != ErrCodeFileReadFailed {
		t.Errorf("expected code %s, got %s", ErrCodeFileReadFailed, err.Code)
	}

	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *MaisonError
		contains []string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeCheckoutValidation, "Please fill in all required fields"),
			contains: []string{"[CHECKOUT-001]", "Please fill in all required fields"},
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeAPINetwork, "failed to reach API", fmt.Errorf("connection refused")),
			contains: []string{"[API-001]", "failed to reach API", "connection refused"},
		},
		{
			name:     "error with suggestions",
			err:      NewAuthRequiredError(),
			contains: []string{"[AUTH-001]", "Suggestions:", "maison auth login"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("expected %q to contain %q", msg, want)
				}
			}
		})
	}
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New(ErrCodeCartInvalidQuantity, "invalid quantity")
	err := fmt.Errorf("add item: %w", NewInvalidQuantityError(0))

	if !errors.Is(err, sentinel) {
		t.Error("errors with the same code should match")
	}
	if errors.Is(err, New(ErrCodeCartEmpty, "empty")) {
		t.Error("errors with different codes should not match")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(nil); got != "" {
		t.Errorf("CodeOf(nil) = %q, want empty", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
	wrapped := fmt.Errorf("outer: %w", NewSessionExpiredError())
	if got := CodeOf(wrapped); got != ErrCodeAuthSessionExpired {
		t.Errorf("CodeOf(wrapped) = %q, want %q", got, ErrCodeAuthSessionExpired)
	}
}

func TestWithSuggestions(t *testing.T) {
	err := New(ErrCodeConfigKey, "unknown key").WithSuggestions("a", "b")
	if len(err.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(err.Suggestions))
	}
}
