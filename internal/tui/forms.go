package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/maison/internal/cart"
	"github.com/felixgeelhaar/maison/internal/checkout"
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/money"
)

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func input(title string, value *string, validate func(string) error) *huh.Input {
	in := huh.NewInput().Title(title).Value(value)
	if validate != nil {
		in = in.Validate(validate)
	}
	return in
}

// ShippingOptions labels each shipping method with its price for subtotal.
func ShippingOptions(subtotal money.Amount) []huh.Option[domain.ShippingMethod] {
	label := func(name string, method domain.ShippingMethod) string {
		q := cart.Quote(subtotal, method)
		if q.FreeShipping() {
			return name + " (Free)"
		}
		return fmt.Sprintf("%s (%s)", name, money.Format(q.Shipping))
	}
	return []huh.Option[domain.ShippingMethod]{
		huh.NewOption(label("Standard delivery, 5-7 days", domain.ShippingStandard), domain.ShippingStandard),
		huh.NewOption(label("Express delivery, 2-3 days", domain.ShippingExpress), domain.ShippingExpress),
	}
}

// PaymentOptions lists the payment methods.
func PaymentOptions() []huh.Option[domain.PaymentMethod] {
	return []huh.Option[domain.PaymentMethod]{
		huh.NewOption("Credit / debit card", domain.PaymentCard),
		huh.NewOption("Cash on delivery", domain.PaymentCOD),
		huh.NewOption("Bank transfer", domain.PaymentBank),
	}
}

// CheckoutForm builds the checkout wizard over f: one group per checkout
// step plus a card group shown only for card payments.
func CheckoutForm(f *checkout.Form, subtotal money.Amount) *huh.Form {
	information := huh.NewGroup(
		input("Email", &f.Email, required("email")),
		input("Phone", &f.Phone, required("phone")),
		input("First name", &f.FirstName, required("first name")),
		input("Last name", &f.LastName, required("last name")),
		input("Address", &f.Address, required("address")),
		input("Apartment, suite, etc. (optional)", &f.Apartment, nil),
		input("City", &f.City, required("city")),
		input("Postal code", &f.PostalCode, nil),
		input("Country", &f.Country, required("country")),
	).Title(checkout.StepInformation.String())

	shipping := huh.NewGroup(
		huh.NewSelect[domain.ShippingMethod]().
			Title("Shipping method").
			Options(ShippingOptions(subtotal)...).
			Value(&f.ShippingMethod),
	).Title(checkout.StepShipping.String())

	payment := huh.NewGroup(
		huh.NewSelect[domain.PaymentMethod]().
			Title("Payment method").
			Options(PaymentOptions()...).
			Value(&f.PaymentMethod),
		huh.NewConfirm().
			Title("I agree to the terms and conditions").
			Affirmative("Agree").
			Negative("Decline").
			Value(&f.AgreeTerms).
			Validate(func(agreed bool) error {
				if !agreed {
					return errors.NewCheckoutValidationError(checkout.MsgAgreeTerms)
				}
				return nil
			}),
	).Title(checkout.StepPayment.String())

	card := huh.NewGroup(
		input("Card number", &f.CardNumber, required("card number")).CharLimit(19),
		input("Expiry (MM/YY)", &f.CardExpiry, required("expiry")).CharLimit(5),
		input("CVV", &f.CardCVV, required("CVV")).CharLimit(4).EchoMode(huh.EchoModePassword),
		input("Name on card", &f.CardName, nil),
	).Title("Card details").
		WithHideFunc(func() bool { return f.PaymentMethod != domain.PaymentCard })

	return huh.NewForm(information, shipping, payment, card)
}

// RunCheckoutForm runs the wizard and normalizes the card fields.
func RunCheckoutForm(ctx context.Context, f *checkout.Form, subtotal money.Amount) error {
	if err := CheckoutForm(f, subtotal).RunWithContext(ctx); err != nil {
		return fmt.Errorf("checkout form failed: %w", err)
	}
	f.CardNumber = checkout.FormatCardNumber(f.CardNumber)
	f.CardExpiry = checkout.FormatExpiry(f.CardExpiry)
	f.CardCVV = checkout.FormatCVV(f.CardCVV)
	return f.Validate()
}

// Credentials are the login form values.
type Credentials struct {
	Email    string
	Password string
}

// LoginForm asks for email and password.
func LoginForm(c *Credentials) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		input("Email", &c.Email, required("email")),
		input("Password", &c.Password, required("password")).EchoMode(huh.EchoModePassword),
	).Title("Sign in to Maison"))
}

// Signup holds the registration form values.
type Signup struct {
	domain.Registration
	ConfirmPassword string
}

// RegisterForm asks for the account details.
func RegisterForm(s *Signup) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		input("First name", &s.FirstName, required("first name")),
		input("Last name", &s.LastName, required("last name")),
		input("Email", &s.Email, required("email")),
		input("Phone (optional)", &s.Phone, nil),
		input("Password", &s.Password, required("password")).EchoMode(huh.EchoModePassword),
		input("Confirm password", &s.ConfirmPassword, required("password confirmation")).EchoMode(huh.EchoModePassword),
	).Title("Create your account"))
}

// Confirm asks a yes/no question.
func Confirm(ctx context.Context, message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(message).Value(&confirmed),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirmed, nil
}
