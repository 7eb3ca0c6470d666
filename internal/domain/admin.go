package domain

import (
	"time"

	"github.com/felixgeelhaar/maison/internal/money"
)

// Dashboard aggregates the admin overview figures.
type Dashboard struct {
	TotalProducts      int          `json:"total_products" yaml:"total_products"`
	TotalOrders        int          `json:"total_orders" yaml:"total_orders"`
	TotalCustomers     int          `json:"total_customers" yaml:"total_customers"`
	TotalRevenue       money.Amount `json:"total_revenue" yaml:"total_revenue"`
	PendingOrders      int          `json:"pending_orders" yaml:"pending_orders"`
	OutOfStockProducts int          `json:"out_of_stock_products" yaml:"out_of_stock_products"`
	RecentOrders       []Order      `json:"recent_orders,omitempty" yaml:"recent_orders,omitempty"`
}

// OrderStats breaks order counts down by status.
type OrderStats struct {
	TotalOrders  int                 `json:"total_orders" yaml:"total_orders"`
	TotalRevenue money.Amount        `json:"total_revenue" yaml:"total_revenue"`
	ByStatus     map[OrderStatus]int `json:"by_status,omitempty" yaml:"by_status,omitempty"`
}

// Customer is a customer account as seen by an admin.
type Customer struct {
	ID         string    `json:"id" yaml:"id"`
	Email      string    `json:"email" yaml:"email"`
	FirstName  string    `json:"first_name" yaml:"first_name"`
	LastName   string    `json:"last_name" yaml:"last_name"`
	Phone      string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	IsActive   bool      `json:"is_active" yaml:"is_active"`
	OrderCount int       `json:"order_count" yaml:"order_count"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// CustomerDetail is a customer with their order history.
type CustomerDetail struct {
	Customer `yaml:",inline"`
	Orders   []Order   `json:"orders,omitempty" yaml:"orders,omitempty"`
	Address  []Address `json:"addresses,omitempty" yaml:"addresses,omitempty"`
}

// CustomerPage is one page of the customer listing.
type CustomerPage struct {
	Customers []Customer `json:"customers" yaml:"customers"`
	Total     int        `json:"total" yaml:"total"`
	Page      int        `json:"page" yaml:"page"`
	PageSize  int        `json:"page_size" yaml:"page_size"`
}
