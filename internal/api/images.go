package api

import "github.com/felixgeelhaar/maison/internal/domain"

// PlaceholderImages replace the images of every product the catalog
// endpoints return.
var PlaceholderImages = []string{
	"https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800&h=1000&fit=crop",
	"https://images.unsplash.com/photo-1503341455253-b2e723bb3dbb?w=800&h=1000&fit=crop",
}

func (c *Client) normalize(p *domain.Product) {
	if !c.normalizeImages {
		return
	}
	p.Images = append([]string(nil), PlaceholderImages...)
}

func (c *Client) normalizeAll(products []domain.Product) []domain.Product {
	if products == nil {
		products = []domain.Product{}
	}
	for i := range products {
		c.normalize(&products[i])
	}
	return products
}
