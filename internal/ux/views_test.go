package ux

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/maison/internal/cart"
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/money"
)

func TestProductsViewText(t *testing.T) {
	orig := money.New(6000)
	v := ProductsView{
		Title: "Kurtas",
		Page: domain.ProductPage{
			Products: []domain.Product{
				{ID: "p1", Name: "Lawn Kurta", Category: "kurtas", Price: money.New(4500), OriginalPrice: &orig, InStock: true},
				{ID: "p2", Name: "Silk Shawl", Category: "shawls", Price: money.New(12000)},
			},
			Total: 2, Page: 1, PageSize: 20, TotalPages: 1,
		},
	}

	out := v.Text(PlainStyles())
	assert.Contains(t, out, "Kurtas")
	assert.Contains(t, out, "Lawn Kurta")
	assert.Contains(t, out, "Rs. 4,500")
	assert.Contains(t, out, "Rs. 6,000")
	assert.Contains(t, out, "sold out")
	assert.Contains(t, out, "Page 1 of 1, 2 products")
	assert.Equal(t, v.Page, v.Data())
}

func TestEmptyViews(t *testing.T) {
	s := PlainStyles()
	assert.Equal(t, "No products found.", ProductsView{}.Text(s))
	assert.Equal(t, "Your cart is empty.", CartView{}.Text(s))
	assert.Equal(t, "Your wishlist is empty.", WishlistView{}.Text(s))
	assert.Equal(t, "No orders yet.", OrdersView{}.Text(s))
}

func TestCartViewShowsQuote(t *testing.T) {
	lines := []cart.Line{{ProductID: "p1", Name: "Lawn Kurta", Price: money.New(4500), Size: "M", Quantity: 2}}
	v := CartView{Lines: lines, Count: 2, Pricing: cart.Quote(money.New(9000), domain.ShippingStandard)}

	out := v.Text(PlainStyles())
	assert.Contains(t, out, "Rs. 9,000")
	assert.Contains(t, out, "Rs. 1,500")
	assert.Contains(t, out, "Rs. 10,500")
	assert.Contains(t, out, "Free standard shipping on orders of Rs. 50,000 or more")

	free := CartView{Lines: lines, Pricing: cart.Quote(money.New(60000), domain.ShippingStandard)}
	assert.Contains(t, free.Text(PlainStyles()), "Free")
}

func TestOrderViewText(t *testing.T) {
	o := domain.Order{
		OrderNumber:     "MSN-000042",
		Status:          domain.OrderPending,
		PaymentStatus:   domain.PaymentPending,
		PaymentMethod:   domain.PaymentCOD,
		ShippingMethod:  domain.ShippingExpress,
		ShippingAddress: domain.ShippingAddress{FirstName: "Sara", LastName: "Ali", Address: "7 Gulberg", City: "Lahore", Country: "Pakistan"},
		Items:           []domain.OrderItem{{Name: "Shawl", Size: "M", Quantity: 2, Price: money.New(800)}},
		Subtotal:        money.New(1600),
		ShippingCost:    money.New(3000),
		Total:           money.New(4600),
		CreatedAt:       time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	}

	out := OrderView{Order: o}.Text(PlainStyles())
	assert.Contains(t, out, "Order MSN-000042")
	assert.Contains(t, out, "Sara Ali, 7 Gulberg, Lahore, Pakistan")
	assert.Contains(t, out, "Rs. 1,600")
	assert.Contains(t, out, "Rs. 4,600")
	assert.Contains(t, out, "1 Mar 2026")
}

func TestWishlistViewReportsMissing(t *testing.T) {
	v := WishlistView{
		Products: []domain.Product{{ID: "p1", Name: "Kurta", Price: money.New(100)}},
		Missing:  []string{"gone"},
	}
	assert.Contains(t, v.Text(PlainStyles()), "1 saved item(s) are no longer available")
}

func TestProfileAndDashboard(t *testing.T) {
	u := domain.User{
		FirstName: "Hina", LastName: "Shah", Email: "hina@example.pk", IsAdmin: true,
		Addresses: []domain.Address{{Label: "Home", Address: "3 Clifton", City: "Karachi", IsDefault: true}},
	}
	out := ProfileView{User: u}.Text(PlainStyles())
	assert.Contains(t, out, "Hina Shah")
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "Home (default): 3 Clifton, Karachi")

	d := DashboardView{Dashboard: domain.Dashboard{TotalProducts: 12, TotalRevenue: money.New(25000)}}
	assert.Contains(t, d.Text(PlainStyles()), "Rs. 25,000")
}
