package ux

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	merrors "github.com/felixgeelhaar/maison/internal/errors"
)

func TestNewErrorWithSuggestion(t *testing.T) {
	if NewErrorWithSuggestion(nil, "anything") != nil {
		t.Fatal("nil error should stay nil")
	}

	base := errors.New("something failed")
	err := NewErrorWithSuggestion(base, "try this fix")
	if !strings.Contains(err.Error(), "something failed") || !strings.Contains(err.Error(), "try this fix") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("ErrorWithSuggestion should unwrap to the original error")
	}

	plain := NewErrorWithSuggestion(base, "")
	if plain.Error() != "something failed" {
		t.Errorf("empty suggestion should not change the message, got %q", plain.Error())
	}
}

func TestEnhanceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantHas string
	}{
		{
			name:    "connection refused",
			err:     errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"),
			wantHas: "api.base_url",
		},
		{
			name:    "store write",
			err:     merrors.Wrap(merrors.ErrCodeStoreWrite, "failed to save cart", errors.New("disk full")),
			wantHas: "storage.data_dir",
		},
		{
			name:    "token store",
			err:     merrors.Wrap(merrors.ErrCodeAuthTokenStore, "failed to decrypt token", errors.New("bad tag")),
			wantHas: "MAISON_TOKEN_PASSPHRASE",
		},
		{
			name:    "timeout",
			err:     fmt.Errorf("get products: %w", errors.New("context deadline exceeded")),
			wantHas: "api.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnhanceError(tt.err)
			if !strings.Contains(got.Error(), tt.wantHas) {
				t.Errorf("EnhanceError() = %q, want it to mention %q", got.Error(), tt.wantHas)
			}
		})
	}

	unknown := errors.New("odd failure")
	if EnhanceError(unknown) != unknown {
		t.Error("unrecognised errors should be returned unchanged")
	}
	if EnhanceError(nil) != nil {
		t.Error("nil should stay nil")
	}
}

func TestFormatError(t *testing.T) {
	err := FormatError(errors.New("boom"), "place order")
	if err.Error() != "failed to place order: boom" {
		t.Errorf("FormatError() = %q", err.Error())
	}

	already := errors.New("failed to fetch products: status 500")
	if FormatError(already, "list products").Error() != already.Error() {
		t.Error("errors that already name the action should not be prefixed twice")
	}

	if FormatError(nil, "anything") != nil {
		t.Error("nil should stay nil")
	}
}
