package api

import (
	"net/http"
	"net/url"
	"strings"
)

// Endpoint is one remote operation the client calls. Path uses OpenAPI
// template syntax, e.g. "/products/{id}".
type Endpoint struct {
	Name   string `json:"name" yaml:"name"`
	Method string `json:"method" yaml:"method"`
	Path   string `json:"path" yaml:"path"`
}

// expand substitutes path parameters, given as name/value pairs.
func (e Endpoint) expand(params ...string) string {
	path := e.Path
	for i := 0; i+1 < len(params); i += 2 {
		path = strings.ReplaceAll(path, "{"+params[i]+"}", url.PathEscape(params[i+1]))
	}
	return path
}

var (
	epLogin          = Endpoint{"auth.login", http.MethodPost, "/auth/login"}
	epRegister       = Endpoint{"auth.register", http.MethodPost, "/auth/register"}
	epMe             = Endpoint{"auth.me", http.MethodGet, "/auth/me"}
	epUpdateMe       = Endpoint{"auth.update_me", http.MethodPut, "/auth/me"}
	epAddAddress     = Endpoint{"auth.add_address", http.MethodPost, "/auth/me/addresses"}
	epToggleWishlist = Endpoint{"auth.toggle_wishlist", http.MethodPost, "/auth/me/wishlist/{product_id}"}
	epChangePassword = Endpoint{"auth.change_password", http.MethodPost, "/auth/change-password"}

	epProducts    = Endpoint{"products.list", http.MethodGet, "/products"}
	epProduct     = Endpoint{"products.get", http.MethodGet, "/products/{id}"}
	epFeatured    = Endpoint{"products.featured", http.MethodGet, "/products/featured"}
	epNewArrivals = Endpoint{"products.new_arrivals", http.MethodGet, "/products/new-arrivals"}
	epRelated     = Endpoint{"products.related", http.MethodGet, "/products/{id}/related"}
	epCategories  = Endpoint{"products.categories", http.MethodGet, "/products/categories"}

	epCreateOrder = Endpoint{"orders.create", http.MethodPost, "/orders"}
	epOrder       = Endpoint{"orders.get", http.MethodGet, "/orders/{id}"}
	epMyOrders    = Endpoint{"orders.mine", http.MethodGet, "/orders"}
	epTrackOrder  = Endpoint{"orders.track", http.MethodGet, "/orders/track/{order_number}"}
	epCancelOrder = Endpoint{"orders.cancel", http.MethodPost, "/orders/{id}/cancel"}

	epDashboard         = Endpoint{"admin.dashboard", http.MethodGet, "/admin/dashboard"}
	epCreateProduct     = Endpoint{"admin.create_product", http.MethodPost, "/products"}
	epUpdateProduct     = Endpoint{"admin.update_product", http.MethodPut, "/products/{id}"}
	epDeleteProduct     = Endpoint{"admin.delete_product", http.MethodDelete, "/products/{id}"}
	epUploadImage       = Endpoint{"admin.upload_image", http.MethodPost, "/products/{id}/images"}
	epDeleteImage       = Endpoint{"admin.delete_image", http.MethodDelete, "/products/{id}/images"}
	epAllOrders         = Endpoint{"admin.orders", http.MethodGet, "/orders/admin/all"}
	epUpdateOrder       = Endpoint{"admin.update_order", http.MethodPut, "/orders/{id}"}
	epOrderStats        = Endpoint{"admin.order_stats", http.MethodGet, "/orders/admin/stats"}
	epCustomers         = Endpoint{"admin.customers", http.MethodGet, "/admin/customers"}
	epCustomer          = Endpoint{"admin.customer", http.MethodGet, "/admin/customers/{id}"}
	epSetCustomerStatus = Endpoint{"admin.customer_status", http.MethodPut, "/admin/customers/{id}/status"}
	epSeedAdmin         = Endpoint{"admin.seed_admin", http.MethodPost, "/admin/seed-admin"}
)

// Endpoints lists every remote operation the client can call.
func Endpoints() []Endpoint {
	return []Endpoint{
		epLogin, epRegister, epMe, epUpdateMe, epAddAddress, epToggleWishlist, epChangePassword,
		epProducts, epProduct, epFeatured, epNewArrivals, epRelated, epCategories,
		epCreateOrder, epOrder, epMyOrders, epTrackOrder, epCancelOrder,
		epDashboard, epCreateProduct, epUpdateProduct, epDeleteProduct, epUploadImage, epDeleteImage,
		epAllOrders, epUpdateOrder, epOrderStats, epCustomers, epCustomer, epSetCustomerStatus, epSeedAdmin,
	}
}
