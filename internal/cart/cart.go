// Package cart holds the shopping cart: a persisted list of product lines
// keyed by product and size, each carrying the price seen when it was added.
package cart

import (
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/log"
	"github.com/felixgeelhaar/maison/internal/money"
	"github.com/felixgeelhaar/maison/internal/persist"
)

const (
	// StoreName is the durable record holding the cart.
	StoreName = "cart-storage"

	// StoreVersion is the current schema version of the cart record.
	StoreVersion = 2

	// MaxQuantity is the largest per-line quantity the shop offers in its
	// quantity pickers. The cart itself does not clamp to it.
	MaxQuantity = 10
)

// ErrInvalidQuantity is returned for quantities below 1. Compare with
// errors.Is.
var ErrInvalidQuantity = errors.New(errors.ErrCodeCartInvalidQuantity, "invalid quantity")

// Line is one cart entry. Price is a snapshot and is not refreshed when the
// catalog price changes.
type Line struct {
	ProductID string       `json:"productId" yaml:"product_id"`
	Name      string       `json:"name" yaml:"name"`
	Price     money.Amount `json:"price" yaml:"price"`
	Image     string       `json:"image" yaml:"image"`
	Size      string       `json:"size" yaml:"size"`
	Quantity  int          `json:"quantity" yaml:"quantity"`
}

// Subtotal is the line price times its quantity.
func (l Line) Subtotal() money.Amount {
	return l.Price.Times(l.Quantity)
}

func (l Line) matches(productID, size string) bool {
	return l.ProductID == productID && l.Size == size
}

// State is the persisted cart shape.
type State struct {
	Items []Line `json:"items"`
}

func emptyState() State {
	return State{Items: []Line{}}
}

// Cart is the process-wide cart. It is safe for concurrent use.
type Cart struct {
	state *persist.Container[State]
}

// Open hydrates the cart from backend.
func Open(backend persist.Backend, logger *log.Logger) *Cart {
	store := persist.New(backend, persist.Options[State]{
		Name:    StoreName,
		Version: StoreVersion,
		Default: emptyState,
		Migrate: Migrate,
		Logger:  logger,
	})
	return &Cart{state: persist.Open(store)}
}

// Outcome reports how the cart was hydrated.
func (c *Cart) Outcome() persist.Outcome {
	return c.state.Outcome()
}

// AddItem puts quantity units of product in the given size into the cart.
// An existing line for the same product and size is incremented; otherwise a
// new line is appended with a snapshot of the product's name, price and first
// image.
func (c *Cart) AddItem(product domain.Product, size string, quantity int) error {
	if quantity < 1 {
		return errors.NewInvalidQuantityError(quantity)
	}
	return c.state.Update(func(s State) (State, error) {
		items := clone(s.Items)
		for i := range items {
			if items[i].matches(product.ID, size) {
				items[i].Quantity += quantity
				return State{Items: items}, nil
			}
		}
		items = append(items, Line{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.FirstImage(),
			Size:      size,
			Quantity:  quantity,
		})
		return State{Items: items}, nil
	})
}

// RemoveItem drops the line for productID and size. Removing a missing line
// is a no-op.
func (c *Cart) RemoveItem(productID, size string) error {
	return c.state.Update(func(s State) (State, error) {
		items := make([]Line, 0, len(s.Items))
		for _, l := range s.Items {
			if !l.matches(productID, size) {
				items = append(items, l)
			}
		}
		return State{Items: items}, nil
	})
}

// UpdateQuantity sets the quantity of an existing line. Quantities below 1
// are rejected and leave the line unchanged; use RemoveItem to drop a line.
// Updating a missing line is a no-op.
func (c *Cart) UpdateQuantity(productID, size string, quantity int) error {
	if quantity < 1 {
		return errors.NewInvalidQuantityError(quantity)
	}
	return c.state.Update(func(s State) (State, error) {
		items := clone(s.Items)
		for i := range items {
			if items[i].matches(productID, size) {
				items[i].Quantity = quantity
			}
		}
		return State{Items: items}, nil
	})
}

// Clear empties the cart.
func (c *Cart) Clear() error {
	return c.state.Reset(emptyState())
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Line {
	var out []Line
	c.state.View(func(s State) { out = clone(s.Items) })
	return out
}

// Line returns the line for productID and size.
func (c *Cart) Line(productID, size string) (Line, bool) {
	var (
		line  Line
		found bool
	)
	c.state.View(func(s State) {
		for _, l := range s.Items {
			if l.matches(productID, size) {
				line, found = l, true
				return
			}
		}
	})
	return line, found
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	c.state.View(func(s State) {
		for _, l := range s.Items {
			n += l.Quantity
		}
	})
	return n
}

// Total is the sum of snapshot price times quantity over all lines.
func (c *Cart) Total() money.Amount {
	total := money.Zero
	c.state.View(func(s State) {
		for _, l := range s.Items {
			total = total.Add(l.Subtotal())
		}
	})
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	empty := true
	c.state.View(func(s State) { empty = len(s.Items) == 0 })
	return empty
}

// Quote prices the current cart for the given shipping method.
func (c *Cart) Quote(method domain.ShippingMethod) Pricing {
	return Quote(c.Total(), method)
}

func clone(items []Line) []Line {
	out := make([]Line, len(items))
	copy(out, items)
	return out
}
