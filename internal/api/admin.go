package api

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/felixgeelhaar/maison/internal/domain"
)

// AdminOrderParams filters the admin order listing.
type AdminOrderParams struct {
	Page     int
	PageSize int
	Status   domain.OrderStatus
}

// CustomerParams filters the admin customer listing.
type CustomerParams struct {
	Page     int
	PageSize int
	Search   string
}

// Dashboard fetches the admin overview.
func (c *Client) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	var d domain.Dashboard
	err := c.do(ctx, call{op: "load dashboard", endpoint: epDashboard}, &d)
	return d, err
}

// CreateProduct adds a product to the catalog.
func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	var p domain.Product
	b, err := jsonBody(in)
	if err != nil {
		return p, err
	}
	err = c.do(ctx, call{op: "create product", endpoint: epCreateProduct, body: b}, &p)
	return p, err
}

// UpdateProduct replaces a product's editable fields.
func (c *Client) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (domain.Product, error) {
	var p domain.Product
	b, err := jsonBody(in)
	if err != nil {
		return p, err
	}
	err = c.do(ctx, call{op: "update product", endpoint: epUpdateProduct, params: []string{"id", id}, body: b}, &p)
	return p, err
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "delete product", endpoint: epDeleteProduct, params: []string{"id", id}}, nil)
}

// UploadProductImage attaches an image file to a product.
func (c *Client) UploadProductImage(ctx context.Context, id, filename string, r io.Reader) (domain.Product, error) {
	var p domain.Product
	b, err := fileBody("file", filename, r)
	if err != nil {
		return p, err
	}
	err = c.do(ctx, call{op: "upload image", endpoint: epUploadImage, params: []string{"id", id}, body: b}, &p)
	return p, err
}

// DeleteProductImage detaches an image from a product.
func (c *Client) DeleteProductImage(ctx context.Context, id, imageURL string) (domain.Product, error) {
	var p domain.Product
	err := c.do(ctx, call{
		op:       "delete image",
		endpoint: epDeleteImage,
		params:   []string{"id", id},
		query:    url.Values{"image_url": {imageURL}},
	}, &p)
	return p, err
}

// AllOrders lists every order.
func (c *Client) AllOrders(ctx context.Context, params AdminOrderParams) (domain.OrderPage, error) {
	q := pageQuery(params.Page, params.PageSize)
	if params.Status != "" {
		q.Set("status", string(params.Status))
	}
	var p domain.OrderPage
	err := c.do(ctx, call{op: "load orders", endpoint: epAllOrders, query: q}, &p)
	return p, err
}

// UpdateOrder changes an order's status or payment status.
func (c *Client) UpdateOrder(ctx context.Context, id string, update domain.OrderUpdate) (domain.Order, error) {
	var o domain.Order
	b, err := jsonBody(update)
	if err != nil {
		return o, err
	}
	err = c.do(ctx, call{op: "update order", endpoint: epUpdateOrder, params: []string{"id", id}, body: b}, &o)
	return o, err
}

// OrderStats fetches order counts by status.
func (c *Client) OrderStats(ctx context.Context) (domain.OrderStats, error) {
	var s domain.OrderStats
	err := c.do(ctx, call{op: "load order stats", endpoint: epOrderStats}, &s)
	return s, err
}

// Customers lists customer accounts.
func (c *Client) Customers(ctx context.Context, params CustomerParams) (domain.CustomerPage, error) {
	q := pageQuery(params.Page, params.PageSize)
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	var p domain.CustomerPage
	err := c.do(ctx, call{op: "load customers", endpoint: epCustomers, query: q}, &p)
	return p, err
}

// Customer fetches one customer with their orders.
func (c *Client) Customer(ctx context.Context, id string) (domain.CustomerDetail, error) {
	var d domain.CustomerDetail
	err := c.do(ctx, call{op: "load customer", endpoint: epCustomer, params: []string{"id", id}}, &d)
	return d, err
}

// SetCustomerActive enables or disables a customer account.
func (c *Client) SetCustomerActive(ctx context.Context, id string, active bool) (Message, error) {
	var msg Message
	err := c.do(ctx, call{
		op:       "update customer status",
		endpoint: epSetCustomerStatus,
		params:   []string{"id", id},
		query:    url.Values{"is_active": {strconv.FormatBool(active)}},
	}, &msg)
	return msg, err
}

// SeedAdmin asks the API to create its bootstrap administrator.
func (c *Client) SeedAdmin(ctx context.Context) (Message, error) {
	var msg Message
	err := c.do(ctx, call{op: "seed admin", endpoint: epSeedAdmin}, &msg)
	return msg, err
}
