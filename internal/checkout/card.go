package checkout

import "strings"

const (
	maxCardDigits = 16
	maxCVVDigits  = 4
)

func digits(s string, limit int) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			if b.Len() == limit {
				break
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber keeps the digits of s and groups them in fours,
// e.g. "4242424242424242" becomes "4242 4242 4242 4242".
func FormatCardNumber(s string) string {
	d := digits(s, maxCardDigits)
	var groups []string
	for len(d) > 4 {
		groups = append(groups, d[:4])
		d = d[4:]
	}
	if d != "" {
		groups = append(groups, d)
	}
	return strings.Join(groups, " ")
}

// FormatExpiry keeps the digits of s and renders them as MM/YY once the
// month is complete.
func FormatExpiry(s string) string {
	d := digits(s, 4)
	if len(d) < 2 {
		return d
	}
	return d[:2] + "/" + d[2:]
}

// FormatCVV keeps at most four digits of s.
func FormatCVV(s string) string {
	return digits(s, maxCVVDigits)
}

// MaskCardNumber hides all but the last four digits.
func MaskCardNumber(s string) string {
	d := digits(s, maxCardDigits)
	if len(d) <= 4 {
		return d
	}
	return strings.Repeat("•", len(d)-4) + d[len(d)-4:]
}
