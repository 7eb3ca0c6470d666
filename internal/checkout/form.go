// Package checkout turns the cart into an order: a three-step form
// (information, shipping, payment) validated step by step, then a single
// order submission that clears the cart only once the API has accepted it.
package checkout

import (
	"strings"

	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
)

// Step is a checkout stage.
type Step int

const (
	StepInformation Step = iota
	StepShipping
	StepPayment
)

// Steps lists the stages in order.
var Steps = []Step{StepInformation, StepShipping, StepPayment}

// String returns the stage title.
func (s Step) String() string {
	switch s {
	case StepInformation:
		return "Information"
	case StepShipping:
		return "Shipping"
	case StepPayment:
		return "Payment"
	default:
		return "Unknown"
	}
}

// DefaultCountry prefills the shipping country.
const DefaultCountry = "Pakistan"

// Validation messages shown to the customer.
const (
	MsgRequiredFields = "Please fill in all required fields"
	MsgAgreeTerms     = "Please agree to the terms and conditions"
	MsgCardDetails    = "Please fill in card details"
)

// Form holds everything the customer enters during checkout. Card fields are
// validated for presence but never leave the client.
type Form struct {
	Email      string
	Phone      string
	FirstName  string
	LastName   string
	Address    string
	Apartment  string
	City       string
	PostalCode string
	Country    string

	ShippingMethod domain.ShippingMethod
	PaymentMethod  domain.PaymentMethod

	CardNumber string
	CardExpiry string
	CardCVV    string
	CardName   string

	AgreeTerms bool
}

// NewForm returns a form with defaults, prefilled from user when given.
func NewForm(user *domain.User) Form {
	f := Form{
		Country:        DefaultCountry,
		ShippingMethod: domain.ShippingStandard,
		PaymentMethod:  domain.PaymentCard,
	}
	if user == nil {
		return f
	}

	f.Email = user.Email
	f.Phone = user.Phone
	f.FirstName = user.FirstName
	f.LastName = user.LastName
	if addr, ok := user.DefaultAddress(); ok {
		f.Address = addr.Address
		f.Apartment = addr.Apartment
		f.City = addr.City
		f.PostalCode = addr.PostalCode
		if addr.Country != "" {
			f.Country = addr.Country
		}
		if f.Phone == "" {
			f.Phone = addr.Phone
		}
	}
	return f
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// ValidateStep checks the fields the given step requires. The shipping step
// has no required input.
func (f Form) ValidateStep(step Step) error {
	switch step {
	case StepInformation:
		if blank(f.Email, f.Phone, f.FirstName, f.LastName, f.Address, f.City) {
			return errors.NewCheckoutValidationError(MsgRequiredFields)
		}
	case StepShipping:
		if err := f.ShippingMethod.Validate(); err != nil {
			return errors.NewCheckoutValidationError(err.Error())
		}
	case StepPayment:
		if !f.AgreeTerms {
			return errors.NewCheckoutValidationError(MsgAgreeTerms)
		}
		if err := f.PaymentMethod.Validate(); err != nil {
			return errors.NewCheckoutValidationError(err.Error())
		}
		if f.PaymentMethod == domain.PaymentCard && blank(f.CardNumber, f.CardExpiry, f.CardCVV) {
			return errors.NewCheckoutValidationError(MsgCardDetails)
		}
	}
	return nil
}

// Validate checks every step in order and returns the first failure.
func (f Form) Validate() error {
	for _, step := range Steps {
		if err := f.ValidateStep(step); err != nil {
			return err
		}
	}
	return nil
}

// ShippingAddress extracts the delivery address.
func (f Form) ShippingAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Address:    f.Address,
		Apartment:  f.Apartment,
		City:       f.City,
		PostalCode: f.PostalCode,
		Country:    f.Country,
		Phone:      f.Phone,
	}
}

// Wizard walks a form through the steps, refusing to advance past a step
// whose fields are invalid.
type Wizard struct {
	Form    Form
	current Step
}

// NewWizard starts at the information step.
func NewWizard(form Form) *Wizard {
	return &Wizard{Form: form}
}

// Current returns the active step.
func (w *Wizard) Current() Step {
	return w.current
}

// Next validates the active step and advances. It stays on the last step.
func (w *Wizard) Next() error {
	if err := w.Form.ValidateStep(w.current); err != nil {
		return err
	}
	if w.current < StepPayment {
		w.current++
	}
	return nil
}

// Prev goes back one step, stopping at the first.
func (w *Wizard) Prev() {
	if w.current > StepInformation {
		w.current--
	}
}
