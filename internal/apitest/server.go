// Package apitest runs an in-memory storefront API for tests. It implements
// the endpoints the client uses with just enough behavior to exercise it:
// bearer-token auth, a product catalog, orders and the admin views.
package apitest

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/money"
)

// Request is a request the server received.
type Request struct {
	Method        string
	Path          string
	Query         string
	RequestID     string
	Authorization string
	ContentType   string
	UserAgent     string
}

type account struct {
	user     domain.User
	password string
}

type failure struct {
	status int
	detail string
}

// Server is a fake storefront API.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	products  []domain.Product
	accounts  map[string]*account
	tokens    map[string]string
	orders    []domain.Order
	requests  []Request
	failures  map[string]failure
	latency   time.Duration
	nextOrder int
}

// New starts a server bound to IPv4 loopback and stops it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		accounts:  map[string]*account{},
		tokens:    map[string]string{},
		failures:  map[string]failure{},
		nextOrder: 1000,
	}

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("unable to start test server: %v", err)
	}
	s.Server = &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: s.routes()},
	}
	s.Server.Start()
	t.Cleanup(s.Server.Close)
	return s
}

// APIURL is the base URL clients should use.
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

// AddProduct puts p in the catalog, assigning an id when it has none.
func (s *Server) AddProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC().Add(time.Duration(len(s.products)) * time.Second)
	}
	s.products = append(s.products, p)
	return p
}

// AddUser registers an account and returns a valid token for it.
func (s *Server) AddUser(u domain.User, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.IsActive = true
	s.accounts[u.Email] = &account{user: u, password: password}
	return s.issueToken(u.Email)
}

// RevokeTokens invalidates every issued token, so the next authenticated
// request gets a 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = map[string]string{}
}

// Fail makes every request to method and path (e.g. "POST", "/api/orders")
// answer with status and detail until Recover is called.
func (s *Server) Fail(method, path string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, detail: detail}
}

// Recover clears every injected failure.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]failure{}
}

// SetLatency delays every response.
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// Orders returns the orders placed so far.
func (s *Server) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order(nil), s.orders...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the requests whose path equals path.
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) issueToken(email string) string {
	token := "tok-" + uuid.NewString()
	s.tokens[token] = email
	return token
}

type detail struct {
	Detail string `json:"detail"`
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, detail{Detail: msg})
}

func (s *Server) routes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.record)

	g := e.Group("/api")

	g.POST("/auth/login", s.login)
	g.POST("/auth/register", s.register)
	g.GET("/auth/me", s.authed(s.me))
	g.PUT("/auth/me", s.authed(s.updateMe))
	g.POST("/auth/me/addresses", s.authed(s.addAddress))
	g.POST("/auth/me/wishlist/:product_id", s.authed(s.toggleWishlist))
	g.POST("/auth/change-password", s.authed(s.changePassword))

	g.GET("/products", s.listProducts)
	g.GET("/products/featured", s.featured)
	g.GET("/products/new-arrivals", s.featured)
	g.GET("/products/categories", s.categories)
	g.GET("/products/:id", s.getProduct)
	g.GET("/products/:id/related", s.related)
	g.POST("/products", s.admin(s.createProduct))
	g.PUT("/products/:id", s.admin(s.updateProduct))
	g.DELETE("/products/:id", s.admin(s.deleteProduct))
	g.POST("/products/:id/images", s.admin(s.uploadImage))
	g.DELETE("/products/:id/images", s.admin(s.deleteImage))

	g.POST("/orders", s.createOrder)
	g.GET("/orders", s.authed(s.myOrders))
	g.GET("/orders/track/:number", s.trackOrder)
	g.GET("/orders/admin/all", s.admin(s.allOrders))
	g.GET("/orders/admin/stats", s.admin(s.orderStats))
	g.GET("/orders/:id", s.authed(s.getOrder))
	g.PUT("/orders/:id", s.admin(s.updateOrder))
	g.POST("/orders/:id/cancel", s.authed(s.cancelOrder))

	g.GET("/admin/dashboard", s.admin(s.dashboard))
	g.GET("/admin/customers", s.admin(s.customers))
	g.GET("/admin/customers/:id", s.admin(s.customer))
	g.PUT("/admin/customers/:id/status", s.admin(s.customerStatus))
	g.POST("/admin/seed-admin", s.seedAdmin)

	return e
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			RequestID:     r.Header.Get("X-Request-ID"),
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			UserAgent:     r.Header.Get("User-Agent"),
		})
		f, failing := s.failures[r.Method+" "+r.URL.Path]
		latency := s.latency
		s.mu.Unlock()

		if latency > 0 {
			select {
			case <-time.After(latency):
			case <-r.Context().Done():
				return r.Context().Err()
			}
		}
		if failing {
			return fail(c, f.status, f.detail)
		}
		return next(c)
	}
}

func (s *Server) current(c echo.Context) (*account, bool) {
	token, ok := strings.CutPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	acct, ok := s.accounts[email]
	return acct, ok
}

func (s *Server) authed(h echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		acct, ok := s.current(c)
		if !ok {
			return fail(c, http.StatusUnauthorized, "Could not validate credentials")
		}
		c.Set("account", acct)
		return h(c)
	}
}

func (s *Server) admin(h echo.HandlerFunc) echo.HandlerFunc {
	return s.authed(func(c echo.Context) error {
		if !accountOf(c).user.IsAdmin {
			return fail(c, http.StatusForbidden, "Admin access required")
		}
		return h(c)
	})
}

func accountOf(c echo.Context) *account {
	return c.Get("account").(*account)
}

func (s *Server) login(c echo.Context) error {
	email, password := c.FormValue("username"), c.FormValue("password")
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[email]
	if !ok || acct.password != password {
		return fail(c, http.StatusUnauthorized, "Incorrect email or password")
	}
	return c.JSON(http.StatusOK, domain.Token{AccessToken: s.issueToken(email), TokenType: "bearer"})
}

func (s *Server) register(c echo.Context) error {
	var reg domain.Registration
	if err := c.Bind(&reg); err != nil {
		return fail(c, http.StatusUnprocessableEntity, err.Error())
	}
	if reg.Email == "" || reg.Password == "" {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body", "email"}, "msg": "field required"}},
		})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[reg.Email]; exists {
		return fail(c, http.StatusBadRequest, "Email already registered")
	}
	u := domain.User{
		ID:        uuid.NewString(),
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Phone:     reg.Phone,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	s.accounts[reg.Email] = &account{user: u, password: reg.Password}
	return c.JSON(http.StatusCreated, u)
}

func (s *Server) me(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, accountOf(c).user)
}

func (s *Server) updateMe(c echo.Context) error {
	var upd domain.ProfileUpdate
	if err := c.Bind(&upd); err != nil {
		return fail(c, http.StatusUnprocessableEntity, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &accountOf(c).user
	if upd.FirstName != "" {
		u.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		u.LastName = upd.LastName
	}
	if upd.Phone != "" {
		u.Phone = upd.Phone
	}
	return c.JSON(http.StatusOK, *u)
}

func (s *Server) addAddress(c echo.Context) error {
	var addr domain.Address
	if err := c.Bind(&addr); err != nil {
		return fail(c, http.StatusUnprocessableEntity, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &accountOf(c).user
	addr.ID = uuid.NewString()
	if len(u.Addresses) == 0 {
		addr.IsDefault = true
	}
	u.Addresses = append(u.Addresses, addr)
	return c.JSON(http.StatusOK, *u)
}

func (s *Server) toggleWishlist(c echo.Context) error {
	id := c.Param("product_id")
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &accountOf(c).user
	kept := make([]string, 0, len(u.Wishlist))
	removed := false
	for _, w := range u.Wishlist {
		if w == id {
			removed = true
			continue
		}
		kept = append(kept, w)
	}
	msg := "Removed from wishlist"
	if !removed {
		kept = append(kept, id)
		msg = "Added to wishlist"
	}
	u.Wishlist = kept
	return c.JSON(http.StatusOK, map[string]any{"message": msg, "wishlist": kept})
}

func (s *Server) changePassword(c echo.Context) error {
	var body struct {
		Current string `json:"current_password"`
		New     string `json:"new_password"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusUnprocessableEntity, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := accountOf(c)
	if acct.password != body.Current {
		return fail(c, http.StatusBadRequest, "Current password is incorrect")
	}
	acct.password = body.New
	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
}

func queryInt(c echo.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.QueryParam(name)); err == nil && v > 0 {
		return v
	}
	return def
}

func paginate[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func totalPages(total, size int) int {
	if total == 0 {
		return 0
	}
	return (total + size - 1) / size
}

func (s *Server) listProducts(c echo.Context) error {
	page, size := queryInt(c, "page", 1), queryInt(c, "page_size", 20)
	search := strings.ToLower(c.QueryParam("search"))
	category, subcategory := c.QueryParam("category"), c.QueryParam("subcategory")

	s.mu.Lock()
	var matched []domain.Product
	for _, p := range s.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if subcategory != "" && p.Subcategory != subcategory {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.Unlock()

	sortProducts(matched, c.QueryParam("sort_by"), c.QueryParam("sort_order"))
	return c.JSON(http.StatusOK, domain.ProductPage{
		Products:   paginate(matched, page, size),
		Total:      len(matched),
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages(len(matched), size),
	})
}

func sortProducts(products []domain.Product, by, order string) {
	less := func(i, j int) bool {
		switch by {
		case "price":
			return products[i].Price.LessThan(products[j].Price.Decimal)
		case "name":
			return products[i].Name < products[j].Name
		default:
			return products[i].CreatedAt.Before(products[j].CreatedAt)
		}
	}
	if order == "desc" {
		sort.SliceStable(products, func(i, j int) bool { return less(j, i) })
		return
	}
	sort.SliceStable(products, less)
}

func (s *Server) featured(c echo.Context) error {
	limit := queryInt(c, "limit", 8)
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, paginate(s.products, 1, limit))
}

func (s *Server) categories(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int{}
	var order []string
	for _, p := range s.products {
		if p.Category == "" {
			continue
		}
		if counts[p.Category] == 0 {
			order = append(order, p.Category)
		}
		counts[p.Category]++
	}
	cats := make([]domain.Category, 0, len(order))
	for _, slug := range order {
		cats = append(cats, domain.Category{Name: slug, Slug: slug, Count: counts[slug]})
	}
	return c.JSON(http.StatusOK, cats)
}

func (s *Server) findProduct(id string) (int, bool) {
	for i, p := range s.products {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Server) getProduct(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.findProduct(c.Param("id"))
	if !ok {
		return fail(c, http.StatusNotFound, "Product not found")
	}
	return c.JSON(http.StatusOK, s.products[i])
}

func (s *Server) related(c echo.Context) error {
	limit := queryInt(c, "limit", 4)
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.findProduct(c.Param("id"))
	if !ok {
		return fail(c, http.StatusNotFound, "Product not found")
	}
	var out []domain.Product
	for _, p := range s.products {
		if p.ID != s.products[i].ID && p.Category == s.products[i].Category {
			out = append(out, p)
		}
	}
	return c.JSON(http.StatusOK, paginate(out, 1, limit))
}

func productFromInput(in domain.ProductInput, p domain.Product) domain.Product {
	p.Name, p.SKU, p.Description = in.Name, in.SKU, in.Description
	p.Price, p.OriginalPrice = in.Price, in.OriginalPrice
	p.Category, p.Subcategory = in.Category, in.Subcategory
	p.Fabric, p.Care = in.Fabric, in.Care
	p.Sizes, p.Colors, p.Badges = in.Sizes, in.Colors, in.Badges
	p.InStock = in.InStock
	return p
}

func (s *Server) createProduct(c echo.Context) error {
	var in domain.ProductInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusUnprocessableEntity, err.Error())
	}
	p := productFromInput(in, domain.Product{ID: uuid.NewString(), CreatedAt: time.Now().UTC()})
	s.mu.Lock()
	s.products = append(s.products, p)
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProduct(c echo.Context) error {
	var in domain.ProductInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusUnprocessableEntity, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.findProduct(c.Param("id"))
	if !ok {
		return fail(c, http.StatusNotFound, "Product not found")
	}
	s.products[i] = productFromInput(in, s.products[i])
	return c.JSON(http.StatusOK, s.products[i])
}

func (s *Server) deleteProduct(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.findProduct(c.Param("id"))
	if !ok {
		return fail(c, http.StatusNotFound, "Product not found")
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) uploadImage(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	defer f.Close()
	if _, err := io.Copy(io.Discard, f); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.findProduct(c.Param("id"))
	if !ok {
		return fail(c, http.StatusNotFound, "Product not found")
	}
	s.products[i].Images = append(s.products[i].Images, "/uploads/"+fh.Filename)
	return c.JSON(http.StatusOK, s.products[i])
}

func (s *Server) deleteImage(c echo.Context) error {
	url := c.QueryParam("image_url")
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.findProduct(c.Param("id"))
	if !ok {
		return fail(c, http.StatusNotFound, "Product not found")
	}
	kept := make([]string, 0, len(s.products[i].Images))
	for _, img := range s.products[i].Images {
		if img != url {
			kept = append(kept, img)
		}
	}
	s.products[i].Images = kept
	return c.JSON(http.StatusOK, s.products[i])
}

func (s *Server) createOrder(c echo.Context) error {
	var req domain.OrderRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, err.Error())
	}
	if len(req.Items) == 0 {
		return fail(c, http.StatusBadRequest, "Order has no items")
	}

	subtotal := money.Zero
	for _, item := range req.Items {
		subtotal = subtotal.Add(item.Price.Times(item.Quantity))
	}
	shipping := money.New(1500)
	switch {
	case req.ShippingMethod == domain.ShippingExpress:
		shipping = money.New(3000)
	case subtotal.AtLeast(money.New(50000)):
		shipping = money.Zero
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextOrder++
	o := domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     fmt.Sprintf("MSN-%06d", s.nextOrder),
		Email:           req.Email,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ShippingMethod:  req.ShippingMethod,
		Status:          domain.OrderPending,
		PaymentStatus:   domain.PaymentPending,
		Subtotal:        subtotal,
		ShippingCost:    shipping,
		Total:           subtotal.Add(shipping),
		CreatedAt:       time.Now().UTC(),
	}
	s.orders = append(s.orders, o)
	return c.JSON(http.StatusCreated, o)
}

func (s *Server) findOrder(id string) (int, bool) {
	for i, o := range s.orders {
		if o.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Server) myOrders(c echo.Context) error {
	page, size := queryInt(c, "page", 1), queryInt(c, "page_size", 10)
	s.mu.Lock()
	defer s.mu.Unlock()
	email := accountOf(c).user.Email
	var mine []domain.Order
	for _, o := range s.orders {
		if o.Email == email {
			mine = append(mine, o)
		}
	}
	return c.JSON(http.StatusOK, domain.OrderPage{
		Orders: paginate(mine, page, size), Total: len(mine), Page: page, PageSize: size,
		TotalPages: totalPages(len(mine), size),
	})
}

func (s *Server) getOrder(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.findOrder(c.Param("id"))
	if !ok || (s.orders[i].Email != accountOf(c).user.Email && !accountOf(c).user.IsAdmin) {
		return fail(c, http.StatusNotFound, "Order not found")
	}
	return c.JSON(http.StatusOK, s.orders[i])
}

func (s *Server) trackOrder(c echo.Context) error {
	number, email := c.Param("number"), c.QueryParam("email")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.OrderNumber == number && strings.EqualFold(o.Email, email) {
			return c.JSON(http.StatusOK, o)
		}
	}
	return fail(c, http.StatusNotFound, "Order not found")
}

func (s *Server) cancelOrder(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.findOrder(c.Param("id"))
	if !ok || s.orders[i].Email != accountOf(c).user.Email {
		return fail(c, http.StatusNotFound, "Order not found")
	}
	switch s.orders[i].Status {
	case domain.OrderPending, domain.OrderConfirmed:
	default:
		return fail(c, http.StatusBadRequest, "Order can no longer be cancelled")
	}
	s.orders[i].Status = domain.OrderCancelled
	return c.JSON(http.StatusOK, s.orders[i])
}

func (s *Server) allOrders(c echo.Context) error {
	page, size := queryInt(c, "page", 1), queryInt(c, "page_size", 10)
	status := domain.OrderStatus(c.QueryParam("status"))
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []domain.Order
	for _, o := range s.orders {
		if status == "" || o.Status == status {
			matched = append(matched, o)
		}
	}
	return c.JSON(http.StatusOK, domain.OrderPage{
		Orders: paginate(matched, page, size), Total: len(matched), Page: page, PageSize: size,
		TotalPages: totalPages(len(matched), size),
	})
}

func (s *Server) updateOrder(c echo.Context) error {
	var upd domain.OrderUpdate
	if err := c.Bind(&upd); err != nil {
		return fail(c, http.StatusUnprocessableEntity, err.Error())
	}
	if upd.Status != "" && upd.Status.Validate() != nil {
		return fail(c, http.StatusBadRequest, "Invalid status")
	}
	if upd.PaymentStatus != "" && upd.PaymentStatus.Validate() != nil {
		return fail(c, http.StatusBadRequest, "Invalid payment status")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.findOrder(c.Param("id"))
	if !ok {
		return fail(c, http.StatusNotFound, "Order not found")
	}
	if upd.Status != "" {
		s.orders[i].Status = upd.Status
	}
	if upd.PaymentStatus != "" {
		s.orders[i].PaymentStatus = upd.PaymentStatus
	}
	return c.JSON(http.StatusOK, s.orders[i])
}

func (s *Server) orderStats(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := domain.OrderStats{TotalOrders: len(s.orders), ByStatus: map[domain.OrderStatus]int{}}
	for _, o := range s.orders {
		stats.ByStatus[o.Status]++
		if o.Status != domain.OrderCancelled {
			stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
		}
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) dashboard(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := domain.Dashboard{
		TotalProducts: len(s.products),
		TotalOrders:   len(s.orders),
	}
	for _, a := range s.accounts {
		if !a.user.IsAdmin {
			d.TotalCustomers++
		}
	}
	for _, p := range s.products {
		if !p.InStock {
			d.OutOfStockProducts++
		}
	}
	for _, o := range s.orders {
		if o.Status == domain.OrderPending {
			d.PendingOrders++
		}
		if o.Status != domain.OrderCancelled {
			d.TotalRevenue = d.TotalRevenue.Add(o.Total)
		}
	}
	d.RecentOrders = paginate(s.orders, 1, 5)
	return c.JSON(http.StatusOK, d)
}

func (s *Server) customerList() []domain.Customer {
	var out []domain.Customer
	for _, a := range s.accounts {
		if a.user.IsAdmin {
			continue
		}
		n := 0
		for _, o := range s.orders {
			if o.Email == a.user.Email {
				n++
			}
		}
		out = append(out, domain.Customer{
			ID: a.user.ID, Email: a.user.Email, FirstName: a.user.FirstName, LastName: a.user.LastName,
			Phone: a.user.Phone, IsActive: a.user.IsActive, OrderCount: n, CreatedAt: a.user.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func (s *Server) customers(c echo.Context) error {
	page, size := queryInt(c, "page", 1), queryInt(c, "page_size", 10)
	search := strings.ToLower(c.QueryParam("search"))
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []domain.Customer
	for _, cu := range s.customerList() {
		if search == "" || strings.Contains(strings.ToLower(cu.Email+" "+cu.FirstName+" "+cu.LastName), search) {
			matched = append(matched, cu)
		}
	}
	return c.JSON(http.StatusOK, domain.CustomerPage{
		Customers: paginate(matched, page, size), Total: len(matched), Page: page, PageSize: size,
	})
}

func (s *Server) customer(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cu := range s.customerList() {
		if cu.ID != c.Param("id") {
			continue
		}
		d := domain.CustomerDetail{Customer: cu}
		for _, o := range s.orders {
			if o.Email == cu.Email {
				d.Orders = append(d.Orders, o)
			}
		}
		return c.JSON(http.StatusOK, d)
	}
	return fail(c, http.StatusNotFound, "Customer not found")
}

func (s *Server) customerStatus(c echo.Context) error {
	active, err := strconv.ParseBool(c.QueryParam("is_active"))
	if err != nil {
		return fail(c, http.StatusUnprocessableEntity, "is_active must be a boolean")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.ID == c.Param("id") {
			a.user.IsActive = active
			state := "deactivated"
			if active {
				state = "activated"
			}
			return c.JSON(http.StatusOK, map[string]string{"message": "Customer " + state})
		}
	}
	return fail(c, http.StatusNotFound, "Customer not found")
}

func (s *Server) seedAdmin(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	const email = "admin@maison.test"
	if _, ok := s.accounts[email]; ok {
		return c.JSON(http.StatusOK, map[string]string{"message": "Admin already exists"})
	}
	s.accounts[email] = &account{
		user:     domain.User{ID: uuid.NewString(), Email: email, FirstName: "Admin", IsAdmin: true, IsActive: true},
		password: "admin123",
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Admin created"})
}
