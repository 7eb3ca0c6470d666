package checkout

import (
	"context"

	"github.com/felixgeelhaar/maison/internal/cart"
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/log"
)

// ErrEmptyCart means there is nothing to check out. Compare with errors.Is.
var ErrEmptyCart = errors.New(errors.ErrCodeCartEmpty, "cart is empty")

// Cart is the part of the cart checkout reads and clears.
type Cart interface {
	Items() []cart.Line
	Clear() error
}

// OrderPlacer submits orders to the storefront.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
}

// Checkout places orders for the contents of a cart.
type Checkout struct {
	cart   Cart
	orders OrderPlacer
	logger *log.Logger
}

// New creates a checkout over c and orders.
func New(c Cart, orders OrderPlacer, logger *log.Logger) *Checkout {
	if logger == nil {
		logger = log.Discard()
	}
	return &Checkout{cart: c, orders: orders, logger: logger.With("component", "checkout")}
}

// Begin returns the lines to check out, or ErrEmptyCart.
func (c *Checkout) Begin() ([]cart.Line, error) {
	lines := c.cart.Items()
	if len(lines) == 0 {
		return nil, errors.NewEmptyCartError()
	}
	return lines, nil
}

// Quote prices the cart for the form's shipping method.
func (c *Checkout) Quote(f Form) cart.Pricing {
	return cart.Quote(subtotal(c.cart.Items()), f.ShippingMethod)
}

// Submit validates the form, places the order and then clears the cart.
//
// Nothing is sent if the cart is empty or the form is invalid. If the API
// rejects the order the cart is kept as it was and the API error is returned.
// If the order was placed but the cart could not be cleared, the order is
// returned together with the store error.
func (c *Checkout) Submit(ctx context.Context, f Form) (domain.Order, error) {
	lines, err := c.Begin()
	if err != nil {
		return domain.Order{}, err
	}
	if err := f.Validate(); err != nil {
		return domain.Order{}, err
	}

	order, err := c.orders.CreateOrder(ctx, BuildOrder(lines, f))
	if err != nil {
		c.logger.WithError(err).Debug("order rejected")
		return domain.Order{}, err
	}

	c.logger.Info("order placed", "order_number", order.OrderNumber, "lines", len(lines))
	if err := c.cart.Clear(); err != nil {
		return order, err
	}
	return order, nil
}

// BuildOrder assembles the order payload from cart lines and the form.
func BuildOrder(lines []cart.Line, f Form) domain.OrderRequest {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Size:      l.Size,
			Image:     l.Image,
		})
	}
	return domain.OrderRequest{
		Items:           items,
		ShippingAddress: f.ShippingAddress(),
		Email:           f.Email,
		PaymentMethod:   f.PaymentMethod,
		ShippingMethod:  f.ShippingMethod,
	}
}
