package checkout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFormatCardNumber(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"4242", "4242"},
		{"42424", "4242 4"},
		{"4242424242424242", "4242 4242 4242 4242"},
		{"4242-4242 4242x4242", "4242 4242 4242 4242"},
		{"42424242424242429999", "4242 4242 4242 4242"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCardNumber(tt.in), "input %q", tt.in)
	}
}

func TestFormatExpiry(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"1", "1"},
		{"12", "12/"},
		{"122", "12/2"},
		{"1229", "12/29"},
		{"12/29", "12/29"},
		{"122999", "12/29"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatExpiry(tt.in), "input %q", tt.in)
	}
}

func TestFormatCVVAndMask(t *testing.T) {
	assert.Equal(t, "1234", FormatCVV("12a345"))
	assert.Equal(t, "••••••••••••4242", MaskCardNumber("4242 4242 4242 4242"))
	assert.Equal(t, "42", MaskCardNumber("42"))
}

func TestFormatCardNumberProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.String().Draw(t, "input")
		out := FormatCardNumber(in)

		assert.LessOrEqual(t, len(out), 19)
		assert.Equal(t, out, FormatCardNumber(out), "formatting is idempotent")
		for _, group := range strings.Split(out, " ") {
			assert.LessOrEqual(t, len(group), 4)
		}
	})
}
