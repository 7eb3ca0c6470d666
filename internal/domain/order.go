package domain

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/maison/internal/money"
)

// ShippingMethod selects the delivery option at checkout.
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// Validate checks the method is one the storefront offers.
func (m ShippingMethod) Validate() error {
	switch m {
	case ShippingStandard, ShippingExpress:
		return nil
	default:
		return fmt.Errorf("shipping method %q must be standard or express", string(m))
	}
}

// PaymentMethod selects how the customer pays.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCOD  PaymentMethod = "cod"
	PaymentBank PaymentMethod = "bank"
)

// Validate checks the method is one the storefront offers.
func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentCard, PaymentCOD, PaymentBank:
		return nil
	default:
		return fmt.Errorf("payment method %q must be card, cod or bank", string(m))
	}
}

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every fulfilment state in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled,
}

// Validate checks the status is known.
func (s OrderStatus) Validate() error {
	for _, known := range OrderStatuses {
		if s == known {
			return nil
		}
	}
	return fmt.Errorf("order status %q is not one of %v", string(s), OrderStatuses)
}

// PaymentStatus is the settlement state of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentStatuses lists every settlement state.
var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded}

// Validate checks the status is known.
func (s PaymentStatus) Validate() error {
	for _, known := range PaymentStatuses {
		if s == known {
			return nil
		}
	}
	return fmt.Errorf("payment status %q is not one of %v", string(s), PaymentStatuses)
}

// OrderItem is one line of an order, copied from a cart line.
type OrderItem struct {
	ProductID string       `json:"product_id" yaml:"product_id"`
	Name      string       `json:"name" yaml:"name"`
	Price     money.Amount `json:"price" yaml:"price"`
	Quantity  int          `json:"quantity" yaml:"quantity"`
	Size      string       `json:"size" yaml:"size"`
	Image     string       `json:"image,omitempty" yaml:"image,omitempty"`
}

// ShippingAddress is the delivery address attached to an order.
type ShippingAddress struct {
	FirstName  string `json:"first_name" yaml:"first_name"`
	LastName   string `json:"last_name" yaml:"last_name"`
	Address    string `json:"address" yaml:"address"`
	Apartment  string `json:"apartment" yaml:"apartment"`
	City       string `json:"city" yaml:"city"`
	PostalCode string `json:"postal_code" yaml:"postal_code"`
	Country    string `json:"country" yaml:"country"`
	Phone      string `json:"phone" yaml:"phone"`
}

// OrderRequest is the payload submitted to create an order. Card details are
// deliberately absent: they never leave the client.
type OrderRequest struct {
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Email           string          `json:"email"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	ShippingMethod  ShippingMethod  `json:"shipping_method"`
}

// Order is an order as stored by the remote API.
type Order struct {
	ID              string          `json:"id" yaml:"id"`
	OrderNumber     string          `json:"order_number" yaml:"order_number"`
	Email           string          `json:"email" yaml:"email"`
	Items           []OrderItem     `json:"items" yaml:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address" yaml:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method" yaml:"payment_method"`
	ShippingMethod  ShippingMethod  `json:"shipping_method" yaml:"shipping_method"`
	Status          OrderStatus     `json:"status" yaml:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status" yaml:"payment_status"`
	Subtotal        money.Amount    `json:"subtotal" yaml:"subtotal"`
	ShippingCost    money.Amount    `json:"shipping_cost" yaml:"shipping_cost"`
	Total           money.Amount    `json:"total" yaml:"total"`
	CreatedAt       time.Time       `json:"created_at" yaml:"created_at"`
}

// OrderPage is one page of an order listing.
type OrderPage struct {
	Orders     []Order `json:"orders" yaml:"orders"`
	Total      int     `json:"total" yaml:"total"`
	Page       int     `json:"page" yaml:"page"`
	PageSize   int     `json:"page_size" yaml:"page_size"`
	TotalPages int     `json:"total_pages,omitempty" yaml:"total_pages,omitempty"`
}

// OrderUpdate is the admin payload for changing an order's state. Only the
// fields that are set are sent.
type OrderUpdate struct {
	Status        OrderStatus   `json:"status,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status,omitempty"`
}
