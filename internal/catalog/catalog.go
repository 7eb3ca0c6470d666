// Package catalog holds presentation helpers for browsing products: category
// labels, listing query parameters and sort options.
package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var categoryLabels = map[string]string{
	"ready-to-wear":   "Ready to Wear",
	"couture":         "Couture",
	"menswear":        "Menswear",
	"accessories":     "Accessories",
	"bridal":          "Bridal",
	"kurtas":          "Kurtas & Tunics",
	"kaftans":         "Kaftans",
	"tops":            "Tops",
	"pants":           "Pants",
	"sets":            "Matching Sets",
	"anarkalis":       "Anarkalis",
	"sarees":          "Sarees",
	"jackets":         "Jackets",
	"lehengas":        "Lehengas",
	"gowns":           "Gowns",
	"sherwanis":       "Sherwanis",
	"kurta-shalwar":   "Kurta Shalwar",
	"waistcoats":      "Waistcoats",
	"bridal-lehengas": "Bridal Lehengas",
	"bridal-sarees":   "Bridal Sarees",
	"kurta-sets":      "Kurta Sets",
	"formal-kurtas":   "Formal Kurtas",
}

// CategoryLabel returns the display name of a category slug, or the slug
// itself when it has none.
func CategoryLabel(slug string) string {
	if label, ok := categoryLabels[slug]; ok {
		return label
	}
	return slug
}

// Truncate shortens text to at most n runes followed by "...". Text that
// already fits is returned unchanged.
func Truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// Sort is a listing order.
type Sort struct {
	By    string
	Order string
}

// SortOption pairs a sort with its display label.
type SortOption struct {
	Value string
	Label string
}

// DefaultSort lists newest products first.
const DefaultSort = "created_at:desc"

// SortOptions are the orders offered by the product listing.
var SortOptions = []SortOption{
	{Value: "created_at:desc", Label: "Newest"},
	{Value: "price:asc", Label: "Price: Low to High"},
	{Value: "price:desc", Label: "Price: High to Low"},
	{Value: "name:asc", Label: "Name: A-Z"},
}

// ParseSort parses a "field:order" value. An empty value yields DefaultSort.
func ParseSort(value string) (Sort, error) {
	if value == "" {
		value = DefaultSort
	}
	by, order, ok := strings.Cut(value, ":")
	if !ok || by == "" {
		return Sort{}, fmt.Errorf("sort %q must look like field:order", value)
	}
	if order != "asc" && order != "desc" {
		return Sort{}, fmt.Errorf("sort order %q must be asc or desc", order)
	}
	return Sort{By: by, Order: order}, nil
}

// String renders the sort back to "field:order".
func (s Sort) String() string {
	return s.By + ":" + s.Order
}

// DefaultPageSize is the product listing page size.
const DefaultPageSize = 20

// ListParams filters and pages a product listing.
type ListParams struct {
	Page        int
	PageSize    int
	Sort        Sort
	Category    string
	Subcategory string
	Badges      string
	Search      string
}

// Values encodes the parameters as a query string, skipping empty ones.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	setInt(v, "page", p.Page)
	setInt(v, "page_size", p.PageSize)
	set(v, "sort_by", p.Sort.By)
	set(v, "sort_order", p.Sort.Order)
	set(v, "category", p.Category)
	set(v, "subcategory", p.Subcategory)
	set(v, "badges", p.Badges)
	set(v, "search", p.Search)
	return v
}

// Title is the heading shown above a listing.
func (p ListParams) Title() string {
	switch {
	case p.Category != "":
		return CategoryLabel(p.Category)
	case p.Subcategory != "":
		return CategoryLabel(p.Subcategory)
	case p.Search != "":
		return fmt.Sprintf("Search: %q", p.Search)
	default:
		return "All Products"
	}
}

func set(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, strconv.Itoa(value))
	}
}
