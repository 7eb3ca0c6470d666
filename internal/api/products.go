package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/felixgeelhaar/maison/internal/catalog"
	"github.com/felixgeelhaar/maison/internal/domain"
)

// Default limits of the curated product lists.
const (
	DefaultFeaturedLimit = 8
	DefaultRelatedLimit  = 4
)

// Products lists the catalog.
func (c *Client) Products(ctx context.Context, params catalog.ListParams) (domain.ProductPage, error) {
	var page domain.ProductPage
	err := c.do(ctx, call{op: "load products", endpoint: epProducts, query: params.Values()}, &page)
	if err != nil {
		return page, err
	}
	page.Products = c.normalizeAll(page.Products)
	return page, nil
}

// Product fetches one product.
func (c *Client) Product(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, call{op: "load product", endpoint: epProduct, params: []string{"id", id}}, &p); err != nil {
		return p, err
	}
	c.normalize(&p)
	return p, nil
}

// Featured lists featured products.
func (c *Client) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	return c.productList(ctx, call{op: "load featured products", endpoint: epFeatured, query: limitQuery(limit)})
}

// NewArrivals lists the newest products.
func (c *Client) NewArrivals(ctx context.Context, limit int) ([]domain.Product, error) {
	return c.productList(ctx, call{op: "load new arrivals", endpoint: epNewArrivals, query: limitQuery(limit)})
}

// Related lists products related to id.
func (c *Client) Related(ctx context.Context, id string, limit int) ([]domain.Product, error) {
	return c.productList(ctx, call{
		op:       "load related products",
		endpoint: epRelated,
		params:   []string{"id", id},
		query:    limitQuery(limit),
	})
}

// Categories lists the catalog categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	err := c.do(ctx, call{op: "load categories", endpoint: epCategories}, &cats)
	return cats, err
}

func (c *Client) productList(ctx context.Context, cl call) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, cl, &products); err != nil {
		return nil, err
	}
	return c.normalizeAll(products), nil
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}
