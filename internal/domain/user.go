package domain

import "time"

// User is the authenticated customer's profile. It is replaced wholesale
// whenever the profile is updated.
type User struct {
	ID        string    `json:"id" yaml:"id"`
	Email     string    `json:"email" yaml:"email"`
	FirstName string    `json:"first_name" yaml:"first_name"`
	LastName  string    `json:"last_name" yaml:"last_name"`
	Phone     string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	IsAdmin   bool      `json:"is_admin" yaml:"is_admin"`
	IsActive  bool      `json:"is_active" yaml:"is_active"`
	Addresses []Address `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	Wishlist  []string  `json:"wishlist,omitempty" yaml:"wishlist,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// DefaultAddress returns the address flagged as default, falling back to the
// first saved address.
func (u User) DefaultAddress() (Address, bool) {
	for _, a := range u.Addresses {
		if a.IsDefault {
			return a, true
		}
	}
	if len(u.Addresses) > 0 {
		return u.Addresses[0], true
	}
	return Address{}, false
}

// Address is a saved shipping address.
type Address struct {
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	Label      string `json:"label,omitempty" yaml:"label,omitempty"`
	FirstName  string `json:"first_name" yaml:"first_name"`
	LastName   string `json:"last_name" yaml:"last_name"`
	Address    string `json:"address" yaml:"address"`
	Apartment  string `json:"apartment,omitempty" yaml:"apartment,omitempty"`
	City       string `json:"city" yaml:"city"`
	PostalCode string `json:"postal_code,omitempty" yaml:"postal_code,omitempty"`
	Country    string `json:"country" yaml:"country"`
	Phone      string `json:"phone,omitempty" yaml:"phone,omitempty"`
	IsDefault  bool   `json:"is_default,omitempty" yaml:"is_default,omitempty"`
}

// Registration is the payload for creating an account.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}

// ProfileUpdate is the payload for editing the current profile.
type ProfileUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Token is the credential returned by the login endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
