package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/felixgeelhaar/maison/internal/domain"
)

// DefaultOrdersPageSize is the page size of order listings.
const DefaultOrdersPageSize = 10

// CreateOrder places an order.
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	var o domain.Order
	b, err := jsonBody(req)
	if err != nil {
		return o, err
	}
	err = c.do(ctx, call{op: "place order", endpoint: epCreateOrder, body: b}, &o)
	return o, err
}

// Order fetches one of the signed-in user's orders.
func (c *Client) Order(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := c.do(ctx, call{op: "load order", endpoint: epOrder, params: []string{"id", id}}, &o)
	return o, err
}

// MyOrders lists the signed-in user's orders.
func (c *Client) MyOrders(ctx context.Context, page, pageSize int) (domain.OrderPage, error) {
	var p domain.OrderPage
	err := c.do(ctx, call{op: "load orders", endpoint: epMyOrders, query: pageQuery(page, pageSize)}, &p)
	return p, err
}

// TrackOrder looks an order up by its number and the email it was placed
// with. It needs no sign-in.
func (c *Client) TrackOrder(ctx context.Context, orderNumber, email string) (domain.Order, error) {
	var o domain.Order
	err := c.do(ctx, call{
		op:       "track order",
		endpoint: epTrackOrder,
		params:   []string{"order_number", orderNumber},
		query:    url.Values{"email": {email}},
	}, &o)
	return o, err
}

// CancelOrder cancels one of the signed-in user's orders.
func (c *Client) CancelOrder(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := c.do(ctx, call{op: "cancel order", endpoint: epCancelOrder, params: []string{"id", id}}, &o)
	return o, err
}

func pageQuery(page, pageSize int) url.Values {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultOrdersPageSize
	}
	return url.Values{"page": {strconv.Itoa(page)}, "page_size": {strconv.Itoa(pageSize)}}
}
