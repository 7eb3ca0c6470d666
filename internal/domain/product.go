// Package domain holds the storefront's shared value types: catalog
// products, customer profiles and orders, as exchanged with the remote API.
package domain

import (
	"time"

	"github.com/felixgeelhaar/maison/internal/money"
)

// Product is a catalog item as returned by the products endpoints.
type Product struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	SKU           string        `json:"sku,omitempty" yaml:"sku,omitempty"`
	Description   string        `json:"description,omitempty" yaml:"description,omitempty"`
	Price         money.Amount  `json:"price" yaml:"price"`
	OriginalPrice *money.Amount `json:"original_price,omitempty" yaml:"original_price,omitempty"`
	Category      string        `json:"category,omitempty" yaml:"category,omitempty"`
	Subcategory   string        `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Fabric        string        `json:"fabric,omitempty" yaml:"fabric,omitempty"`
	Care          string        `json:"care,omitempty" yaml:"care,omitempty"`
	Sizes         []string      `json:"sizes,omitempty" yaml:"sizes,omitempty"`
	Colors        []string      `json:"colors,omitempty" yaml:"colors,omitempty"`
	Badges        []string      `json:"badges,omitempty" yaml:"badges,omitempty"`
	Images        []string      `json:"images,omitempty" yaml:"images,omitempty"`
	InStock       bool          `json:"in_stock" yaml:"in_stock"`
	CreatedAt     time.Time     `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// FirstImage returns the product's lead image, or "" when it has none.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// HasSize reports whether size is one of the product's offered sizes. A
// product without a size list accepts any size.
func (p Product) HasSize(size string) bool {
	if len(p.Sizes) == 0 {
		return true
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products   []Product `json:"products" yaml:"products"`
	Total      int       `json:"total" yaml:"total"`
	Page       int       `json:"page" yaml:"page"`
	PageSize   int       `json:"page_size" yaml:"page_size"`
	TotalPages int       `json:"total_pages" yaml:"total_pages"`
}

// Category is an entry of the catalog's category listing.
type Category struct {
	Name          string   `json:"name" yaml:"name"`
	Slug          string   `json:"slug" yaml:"slug"`
	Count         int      `json:"count,omitempty" yaml:"count,omitempty"`
	Subcategories []string `json:"subcategories,omitempty" yaml:"subcategories,omitempty"`
}

// ProductInput is the admin payload for creating or updating a product.
type ProductInput struct {
	Name          string        `json:"name"`
	SKU           string        `json:"sku,omitempty"`
	Description   string        `json:"description,omitempty"`
	Price         money.Amount  `json:"price"`
	OriginalPrice *money.Amount `json:"original_price"`
	Category      string        `json:"category"`
	Subcategory   string        `json:"subcategory"`
	Fabric        string        `json:"fabric,omitempty"`
	Care          string        `json:"care,omitempty"`
	Sizes         []string      `json:"sizes"`
	Colors        []string      `json:"colors"`
	Badges        []string      `json:"badges"`
	InStock       bool          `json:"in_stock"`
}
