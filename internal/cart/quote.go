package cart

import (
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/money"
)

var (
	// FreeShippingThreshold is the subtotal from which standard shipping is free.
	FreeShippingThreshold = money.New(50000)

	// StandardShipping is the standard rate below the threshold.
	StandardShipping = money.New(1500)

	// ExpressShipping is the flat express rate.
	ExpressShipping = money.New(3000)
)

// Pricing is a priced cart: subtotal, shipping and the amount due.
type Pricing struct {
	Subtotal money.Amount          `json:"subtotal" yaml:"subtotal"`
	Shipping money.Amount          `json:"shipping" yaml:"shipping"`
	Total    money.Amount          `json:"total" yaml:"total"`
	Method   domain.ShippingMethod `json:"shipping_method" yaml:"shipping_method"`
}

// FreeShipping reports whether no shipping is charged.
func (p Pricing) FreeShipping() bool {
	return p.Shipping.IsZero()
}

// Quote prices a subtotal. Express always costs ExpressShipping; standard is
// free from FreeShippingThreshold and StandardShipping below it. Any method
// other than express is priced as standard.
func Quote(subtotal money.Amount, method domain.ShippingMethod) Pricing {
	if method != domain.ShippingExpress {
		method = domain.ShippingStandard
	}

	var shipping money.Amount
	switch {
	case method == domain.ShippingExpress:
		shipping = ExpressShipping
	case subtotal.AtLeast(FreeShippingThreshold):
		shipping = money.Zero
	default:
		shipping = StandardShipping
	}

	return Pricing{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
		Method:   method,
	}
}
