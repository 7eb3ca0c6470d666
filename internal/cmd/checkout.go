package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/maison/internal/checkout"
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/money"
	"github.com/felixgeelhaar/maison/internal/tui"
	"github.com/felixgeelhaar/maison/internal/ux"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the items in your cart",
	Long: `Check out the cart in three steps: information, shipping and payment.

In a terminal a form walks you through the steps, prefilled from your
profile when you are signed in. Every field can also be given as a flag,
which is how scripts check out. Card details are checked here and never
sent to the storefront.

Examples:
  # Interactive checkout
  maison checkout

  # Cash on delivery from a script
  maison checkout --email you@example.com --phone 0300-1234567 \
    --first-name Ayesha --last-name Khan --address "12 Mall Road" \
    --city Lahore --payment cod --agree-terms --yes
`,
	Args: cobra.NoArgs,
	RunE: runCheckout,
}

var (
	checkoutInput    checkout.Form
	checkoutShipping string
	checkoutPayment  string
	checkoutYes      bool
)

func init() {
	flags := checkoutCmd.Flags()
	flags.StringVar(&checkoutInput.Email, "email", "", "contact email")
	flags.StringVar(&checkoutInput.Phone, "phone", "", "contact phone")
	flags.StringVar(&checkoutInput.FirstName, "first-name", "", "first name")
	flags.StringVar(&checkoutInput.LastName, "last-name", "", "last name")
	flags.StringVar(&checkoutInput.Address, "address", "", "street address")
	flags.StringVar(&checkoutInput.Apartment, "apartment", "", "apartment or suite")
	flags.StringVar(&checkoutInput.City, "city", "", "city")
	flags.StringVar(&checkoutInput.PostalCode, "postal-code", "", "postal code")
	flags.StringVar(&checkoutInput.Country, "country", checkout.DefaultCountry, "country")
	flags.StringVar(&checkoutShipping, "shipping", string(domain.ShippingStandard), "shipping method: standard or express")
	flags.StringVar(&checkoutPayment, "payment", string(domain.PaymentCard), "payment method: card, cod or bank")
	flags.StringVar(&checkoutInput.CardNumber, "card-number", "", "card number")
	flags.StringVar(&checkoutInput.CardExpiry, "card-expiry", "", "card expiry as MM/YY")
	flags.StringVar(&checkoutInput.CardCVV, "card-cvv", "", "card security code")
	flags.StringVar(&checkoutInput.CardName, "card-name", "", "name on card")
	flags.BoolVar(&checkoutInput.AgreeTerms, "agree-terms", false, "agree to the terms and conditions")
	flags.BoolVarP(&checkoutYes, "yes", "y", false, "place the order without asking for confirmation")

	rootCmd.AddCommand(checkoutCmd)
}

// applyCheckoutFlags copies the flags the user set over f.
func applyCheckoutFlags(cmd *cobra.Command, f *checkout.Form) {
	fields := []struct {
		name     string
		src, dst *string
	}{
		{"email", &checkoutInput.Email, &f.Email},
		{"phone", &checkoutInput.Phone, &f.Phone},
		{"first-name", &checkoutInput.FirstName, &f.FirstName},
		{"last-name", &checkoutInput.LastName, &f.LastName},
		{"address", &checkoutInput.Address, &f.Address},
		{"apartment", &checkoutInput.Apartment, &f.Apartment},
		{"city", &checkoutInput.City, &f.City},
		{"postal-code", &checkoutInput.PostalCode, &f.PostalCode},
		{"country", &checkoutInput.Country, &f.Country},
		{"card-number", &checkoutInput.CardNumber, &f.CardNumber},
		{"card-expiry", &checkoutInput.CardExpiry, &f.CardExpiry},
		{"card-cvv", &checkoutInput.CardCVV, &f.CardCVV},
		{"card-name", &checkoutInput.CardName, &f.CardName},
	}
	flags := cmd.Flags()
	for _, field := range fields {
		if flags.Changed(field.name) {
			*field.dst = *field.src
		}
	}
	if flags.Changed("shipping") {
		f.ShippingMethod = domain.ShippingMethod(checkoutShipping)
	}
	if flags.Changed("payment") {
		f.PaymentMethod = domain.PaymentMethod(checkoutPayment)
	}
	if checkoutInput.AgreeTerms {
		f.AgreeTerms = true
	}
	f.CardNumber = checkout.FormatCardNumber(f.CardNumber)
	f.CardExpiry = checkout.FormatExpiry(f.CardExpiry)
	f.CardCVV = checkout.FormatCVV(f.CardCVV)
}

// validateSteps checks the form step by step so the error names the step to
// fix.
func validateSteps(f checkout.Form) error {
	w := checkout.NewWizard(f)
	for {
		step := w.Current()
		if err := w.Next(); err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
		if step == checkout.StepPayment {
			return nil
		}
	}
}

// orderPlaced is the checkout confirmation.
type orderPlaced struct {
	Order domain.Order
	Card  string
}

func (v orderPlaced) Data() any { return v.Order }

func (v orderPlaced) Text(s ux.Styles) string {
	out := s.Success.Render("Thank you! Your order "+v.Order.OrderNumber+" has been placed.") + "\n"
	if v.Card != "" {
		out += s.Muted.Render("Paid with card "+v.Card) + "\n"
	}
	out += s.Muted.Render("Track it with 'maison orders track "+v.Order.OrderNumber+" --email "+v.Order.Email+"'") + "\n\n"
	return out + ux.OrderView{Order: v.Order}.Text(s)
}

func runCheckout(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}

	if _, err := a.Checkout.Begin(); err != nil {
		return err
	}

	var user *domain.User
	if u, ok := a.Session.User(); ok {
		user = &u
	}
	form := checkout.NewForm(user)
	applyCheckoutFlags(cmd, &form)

	subtotal := a.Cart.Total()
	if interactive() {
		if err := validateSteps(form); err != nil {
			if err := tui.RunCheckoutForm(cmd.Context(), &form, subtotal); err != nil {
				return err
			}
		}
	} else if err := validateSteps(form); err != nil {
		return err
	}

	pricing := a.Checkout.Quote(form)
	if !checkoutYes {
		if !interactive() {
			return errors.NewCheckoutValidationError("confirm the order with --yes")
		}
		fmt.Fprintln(e.w, ux.PricingText(e.styles, pricing))
		ok, err := tui.Confirm(cmd.Context(), "Place order for "+money.Format(pricing.Total)+"?", true)
		if err != nil {
			return err
		}
		if !ok {
			e.note("Checkout cancelled. Your cart is unchanged.")
			return nil
		}
	}

	order, err := a.Checkout.Submit(cmd.Context(), form)
	if err != nil && order.OrderNumber == "" {
		return ux.FormatError(err, "place order")
	}
	if err != nil {
		e.logger.WithError(err).Warn("order placed but the cart could not be cleared", "order_number", order.OrderNumber)
	}

	view := orderPlaced{Order: order}
	if form.PaymentMethod == domain.PaymentCard {
		view.Card = checkout.MaskCardNumber(form.CardNumber)
	}
	return e.print(view)
}
