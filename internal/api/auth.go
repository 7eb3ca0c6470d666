package api

import (
	"context"
	"net/url"

	"github.com/felixgeelhaar/maison/internal/domain"
)

// Login exchanges credentials for a bearer token. The API expects an
// OAuth2-style form with the email as username.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Token, error) {
	var tok domain.Token
	form := url.Values{"username": {email}, "password": {password}}
	err := c.do(ctx, call{op: "sign in", endpoint: epLogin, body: formBody(form)}, &tok)
	return tok, err
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	var u domain.User
	b, err := jsonBody(reg)
	if err != nil {
		return u, err
	}
	err = c.do(ctx, call{op: "create account", endpoint: epRegister, body: b}, &u)
	return u, err
}

// Me fetches the signed-in user's profile.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var u domain.User
	err := c.do(ctx, call{op: "load profile", endpoint: epMe}, &u)
	return u, err
}

// UpdateMe edits the signed-in user's profile.
func (c *Client) UpdateMe(ctx context.Context, update domain.ProfileUpdate) (domain.User, error) {
	var u domain.User
	b, err := jsonBody(update)
	if err != nil {
		return u, err
	}
	err = c.do(ctx, call{op: "update profile", endpoint: epUpdateMe, body: b}, &u)
	return u, err
}

// AddAddress saves a shipping address and returns the updated profile.
func (c *Client) AddAddress(ctx context.Context, addr domain.Address) (domain.User, error) {
	var u domain.User
	b, err := jsonBody(addr)
	if err != nil {
		return u, err
	}
	err = c.do(ctx, call{op: "add address", endpoint: epAddAddress, body: b}, &u)
	return u, err
}

// WishlistResult is the server-side wishlist after a toggle.
type WishlistResult struct {
	Message  string   `json:"message,omitempty" yaml:"message,omitempty"`
	Wishlist []string `json:"wishlist" yaml:"wishlist"`
}

// ToggleWishlist flips a product in the account's server-side wishlist.
func (c *Client) ToggleWishlist(ctx context.Context, productID string) (WishlistResult, error) {
	var res WishlistResult
	err := c.do(ctx, call{op: "update wishlist", endpoint: epToggleWishlist, params: []string{"product_id", productID}}, &res)
	return res, err
}

// ChangePassword replaces the account password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) (Message, error) {
	var msg Message
	b, err := jsonBody(map[string]string{"current_password": current, "new_password": next})
	if err != nil {
		return msg, err
	}
	err = c.do(ctx, call{op: "change password", endpoint: epChangePassword, body: b}, &msg)
	return msg, err
}
