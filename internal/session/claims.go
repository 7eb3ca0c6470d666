package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what a bearer token says about itself. It is decoded without
// verifying the signature and is only ever shown to the user; nothing in the
// client trusts it.
type Claims struct {
	Subject   string     `json:"subject,omitempty" yaml:"subject,omitempty"`
	Issuer    string     `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty" yaml:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// Expired reports whether the token claims an expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// ParseClaims decodes the claims of a JWT bearer token. Tokens that are not
// JWTs yield an error.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, err
	}

	var c Claims
	c.Subject, _ = mc.GetSubject()
	c.Issuer, _ = mc.GetIssuer()
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		c.IssuedAt = &t
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		c.ExpiresAt = &t
	}
	return c, nil
}
