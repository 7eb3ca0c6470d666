package ux

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/maison/internal/cart"
	"github.com/felixgeelhaar/maison/internal/catalog"
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/money"
)

func price(s Styles, p domain.Product) string {
	out := s.Price.Render(money.Format(p.Price))
	if p.OriginalPrice != nil && !p.OriginalPrice.Equal(p.Price) {
		out += " " + s.Strike.Render(money.Format(*p.OriginalPrice))
	}
	return out
}

func stock(p domain.Product) string {
	if p.InStock {
		return "in stock"
	}
	return "sold out"
}

// ProductsView renders a page of products.
type ProductsView struct {
	Title string
	Page  domain.ProductPage
}

func (v ProductsView) Data() any { return v.Page }

func (v ProductsView) Text(s Styles) string {
	var b strings.Builder
	if v.Title != "" {
		b.WriteString(s.Title.Render(v.Title) + "\n")
	}
	if len(v.Page.Products) == 0 {
		b.WriteString(s.Muted.Render("No products found."))
		return b.String()
	}

	rows := make([][]string, 0, len(v.Page.Products))
	for _, p := range v.Page.Products {
		rows = append(rows, []string{
			p.ID,
			catalog.Truncate(p.Name, 32),
			catalog.CategoryLabel(p.Category),
			price(s, p),
			stock(p),
		})
	}
	b.WriteString(s.Table([]string{"ID", "Name", "Category", "Price", "Stock"}, rows))
	if v.Page.TotalPages > 0 {
		b.WriteString("\n" + s.Muted.Render(fmt.Sprintf("Page %d of %d, %d products",
			v.Page.Page, v.Page.TotalPages, v.Page.Total)))
	}
	return b.String()
}

// ProductView renders one product in detail.
type ProductView struct {
	Product domain.Product
	Related []domain.Product
}

func (v ProductView) Data() any { return v.Product }

func (v ProductView) Text(s Styles) string {
	p := v.Product
	var b strings.Builder
	b.WriteString(s.Title.Render(p.Name))
	for _, badge := range p.Badges {
		b.WriteString(" " + s.Badge.Render(badge))
	}
	b.WriteString("\n" + price(s, p) + "  " + s.Muted.Render(stock(p)) + "\n")

	field := func(label, value string) {
		if value != "" {
			b.WriteString(s.Muted.Render(label+": ") + value + "\n")
		}
	}
	field("ID", p.ID)
	field("SKU", p.SKU)
	field("Category", catalog.CategoryLabel(p.Category))
	field("Fabric", p.Fabric)
	field("Care", p.Care)
	field("Sizes", strings.Join(p.Sizes, ", "))
	field("Colors", strings.Join(p.Colors, ", "))
	field("Image", p.FirstImage())
	if p.Description != "" {
		b.WriteString("\n" + p.Description + "\n")
	}
	if len(v.Related) > 0 {
		b.WriteString("\n" + s.Title.Render("You may also like") + "\n")
		for _, r := range v.Related {
			b.WriteString(fmt.Sprintf("  %s  %s  %s\n", r.ID, r.Name, money.Format(r.Price)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// CategoriesView renders the category listing.
type CategoriesView []domain.Category

func (v CategoriesView) Data() any { return []domain.Category(v) }

func (v CategoriesView) Text(s Styles) string {
	rows := make([][]string, 0, len(v))
	for _, c := range v {
		rows = append(rows, []string{c.Slug, catalog.CategoryLabel(c.Slug), strconv.Itoa(c.Count)})
	}
	return s.Table([]string{"Slug", "Category", "Products"}, rows)
}

// CartView renders the cart lines with a price quote.
type CartView struct {
	Lines   []cart.Line  `json:"items" yaml:"items"`
	Count   int          `json:"count" yaml:"count"`
	Pricing cart.Pricing `json:"pricing" yaml:"pricing"`
}

func (v CartView) Data() any { return v }

func (v CartView) Text(s Styles) string {
	if len(v.Lines) == 0 {
		return s.Muted.Render("Your cart is empty.")
	}
	rows := make([][]string, 0, len(v.Lines))
	for _, l := range v.Lines {
		rows = append(rows, []string{
			l.ProductID,
			catalog.Truncate(l.Name, 32),
			l.Size,
			strconv.Itoa(l.Quantity),
			money.Format(l.Price),
			money.Format(l.Subtotal()),
		})
	}
	var b strings.Builder
	b.WriteString(s.Table([]string{"Product", "Name", "Size", "Qty", "Price", "Subtotal"}, rows))
	b.WriteString("\n" + PricingText(s, v.Pricing))
	return b.String()
}

// PricingText renders a subtotal, shipping and total block.
func PricingText(s Styles, p cart.Pricing) string {
	shipping := money.Format(p.Shipping)
	if p.FreeShipping() {
		shipping = s.Success.Render("Free")
	}
	lines := []string{
		s.Muted.Render("Subtotal: ") + money.Format(p.Subtotal),
		s.Muted.Render(fmt.Sprintf("Shipping (%s): ", p.Method)) + shipping,
		s.Muted.Render("Total:    ") + s.Price.Render(money.Format(p.Total)),
	}
	if !p.FreeShipping() && p.Method == domain.ShippingStandard {
		lines = append(lines, s.Muted.Render("Free standard shipping on orders of "+money.Format(cart.FreeShippingThreshold)+" or more"))
	}
	return strings.Join(lines, "\n")
}

// WishlistView renders saved products. Missing lists ids whose product could
// not be fetched.
type WishlistView struct {
	Products []domain.Product `json:"products" yaml:"products"`
	Missing  []string         `json:"missing,omitempty" yaml:"missing,omitempty"`
}

func (v WishlistView) Data() any { return v }

func (v WishlistView) Text(s Styles) string {
	if len(v.Products) == 0 && len(v.Missing) == 0 {
		return s.Muted.Render("Your wishlist is empty.")
	}
	out := ProductsView{Title: "Wishlist", Page: domain.ProductPage{Products: v.Products}}.Text(s)
	if len(v.Missing) > 0 {
		out += "\n" + s.Warning.Render(fmt.Sprintf("%d saved item(s) are no longer available", len(v.Missing)))
	}
	return out
}

// OrdersView renders a page of orders.
type OrdersView struct {
	Page domain.OrderPage
}

func (v OrdersView) Data() any { return v.Page }

func (v OrdersView) Text(s Styles) string {
	if len(v.Page.Orders) == 0 {
		return s.Muted.Render("No orders yet.")
	}
	rows := make([][]string, 0, len(v.Page.Orders))
	for _, o := range v.Page.Orders {
		rows = append(rows, []string{
			o.OrderNumber,
			o.CreatedAt.Format("2006-01-02"),
			string(o.Status),
			string(o.PaymentStatus),
			strconv.Itoa(len(o.Items)),
			money.Format(o.Total),
		})
	}
	out := s.Table([]string{"Order", "Date", "Status", "Payment", "Items", "Total"}, rows)
	if v.Page.TotalPages > 1 {
		out += "\n" + s.Muted.Render(fmt.Sprintf("Page %d of %d", v.Page.Page, v.Page.TotalPages))
	}
	return out
}

// OrderView renders one order.
type OrderView struct {
	Order domain.Order
}

func (v OrderView) Data() any { return v.Order }

func (v OrderView) Text(s Styles) string {
	o := v.Order
	a := o.ShippingAddress
	var b strings.Builder
	b.WriteString(s.Title.Render("Order "+o.OrderNumber) + "\n")
	b.WriteString(s.Muted.Render("Status: ") + string(o.Status) + "  " +
		s.Muted.Render("Payment: ") + string(o.PaymentStatus) + " (" + string(o.PaymentMethod) + ")\n")
	if !o.CreatedAt.IsZero() {
		b.WriteString(s.Muted.Render("Placed: ") + o.CreatedAt.Format("2 Jan 2006 15:04") + "\n")
	}
	b.WriteString(s.Muted.Render("Ship to: ") + strings.Join(nonEmpty(
		strings.TrimSpace(a.FirstName+" "+a.LastName), a.Address, a.Apartment, a.City, a.PostalCode, a.Country,
	), ", ") + "\n")

	rows := make([][]string, 0, len(o.Items))
	for _, it := range o.Items {
		rows = append(rows, []string{it.Name, it.Size, strconv.Itoa(it.Quantity), money.Format(it.Price.Times(it.Quantity))})
	}
	b.WriteString(s.Table([]string{"Item", "Size", "Qty", "Amount"}, rows) + "\n")
	b.WriteString(PricingText(s, cart.Pricing{
		Subtotal: o.Subtotal,
		Shipping: o.ShippingCost,
		Total:    o.Total,
		Method:   o.ShippingMethod,
	}))
	return b.String()
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ProfileView renders the signed-in user.
type ProfileView struct {
	User domain.User
}

func (v ProfileView) Data() any { return v.User }

func (v ProfileView) Text(s Styles) string {
	u := v.User
	var b strings.Builder
	b.WriteString(s.Title.Render(u.FullName()) + "\n")
	b.WriteString(s.Muted.Render("Email: ") + u.Email + "\n")
	if u.Phone != "" {
		b.WriteString(s.Muted.Render("Phone: ") + u.Phone + "\n")
	}
	if u.IsAdmin {
		b.WriteString(s.Badge.Render("admin") + "\n")
	}
	for _, a := range u.Addresses {
		label := a.Label
		if a.IsDefault {
			label += " (default)"
		}
		b.WriteString(s.Muted.Render(strings.TrimSpace(label)+": ") + strings.Join(nonEmpty(a.Address, a.City, a.Country), ", ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// DashboardView renders the admin overview.
type DashboardView struct {
	Dashboard domain.Dashboard
}

func (v DashboardView) Data() any { return v.Dashboard }

func (v DashboardView) Text(s Styles) string {
	d := v.Dashboard
	out := s.Title.Render("Dashboard") + "\n" + s.Table([]string{"Metric", "Value"}, [][]string{
		{"Products", strconv.Itoa(d.TotalProducts)},
		{"Out of stock", strconv.Itoa(d.OutOfStockProducts)},
		{"Orders", strconv.Itoa(d.TotalOrders)},
		{"Pending orders", strconv.Itoa(d.PendingOrders)},
		{"Customers", strconv.Itoa(d.TotalCustomers)},
		{"Revenue", money.Format(d.TotalRevenue)},
	})
	if len(d.RecentOrders) > 0 {
		out += "\n" + s.Title.Render("Recent orders") + "\n" + OrdersView{Page: domain.OrderPage{Orders: d.RecentOrders}}.Text(s)
	}
	return out
}

// CustomersView renders a page of customers.
type CustomersView struct {
	Page domain.CustomerPage
}

func (v CustomersView) Data() any { return v.Page }

func (v CustomersView) Text(s Styles) string {
	if len(v.Page.Customers) == 0 {
		return s.Muted.Render("No customers found.")
	}
	rows := make([][]string, 0, len(v.Page.Customers))
	for _, c := range v.Page.Customers {
		status := "active"
		if !c.IsActive {
			status = "inactive"
		}
		rows = append(rows, []string{
			c.ID,
			strings.TrimSpace(c.FirstName + " " + c.LastName),
			c.Email,
			strconv.Itoa(c.OrderCount),
			status,
		})
	}
	return s.Table([]string{"ID", "Name", "Email", "Orders", "Status"}, rows)
}
