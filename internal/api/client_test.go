package api

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/maison/internal/apitest"
	"github.com/felixgeelhaar/maison/internal/catalog"
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/money"
	"github.com/felixgeelhaar/maison/internal/version"
)

func seedProduct(srv *apitest.Server, name string, price int64) domain.Product {
	return srv.AddProduct(domain.Product{
		Name:     name,
		Price:    money.New(price),
		Images:   []string{"https://cdn.example.com/" + gofakeit.UUID() + ".jpg"},
		Sizes:    []string{"S", "M", "L"},
		Category: "kurtas",
		InStock:  true,
	})
}

func TestBearerTokenAndRequestID(t *testing.T) {
	srv := apitest.New(t)
	token := srv.AddUser(domain.User{Email: "a@b.pk", FirstName: "A"}, "pw")
	c := NewClient(srv.APIURL(), WithTokenSource(TokenFunc(func() string { return token })))

	u, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@b.pk", u.Email)

	reqs := srv.RequestsTo("/api/auth/me")
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer "+token, reqs[0].Authorization)
	assert.NotEmpty(t, reqs[0].RequestID)
}

func TestUserAgentIdentifiesBuild(t *testing.T) {
	srv := apitest.New(t)
	seedProduct(srv, "Chiffon Dupatta", 2200)
	c := NewClient(srv.APIURL())

	_, err := c.Products(context.Background(), catalog.ListParams{Page: 1})
	require.NoError(t, err)
	_, err = c.WithToken("t").Products(context.Background(), catalog.ListParams{Page: 1})
	require.NoError(t, err)

	reqs := srv.RequestsTo("/api/products")
	require.Len(t, reqs, 2)
	want := version.GetInfo().UserAgent()
	assert.True(t, strings.HasPrefix(want, "maison/"))
	assert.Equal(t, want, reqs[0].UserAgent)
	assert.Equal(t, want, reqs[1].UserAgent)
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	srv := apitest.New(t)
	seedProduct(srv, "Lawn Kurta", 4500)
	c := NewClient(srv.APIURL())

	_, err := c.Products(context.Background(), catalog.ListParams{Page: 1})
	require.NoError(t, err)
	assert.Empty(t, srv.RequestsTo("/api/products")[0].Authorization)
}

func TestLoginUsesForm(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser(domain.User{Email: "a@b.pk"}, "secret")
	c := NewClient(srv.APIURL())

	tok, err := c.Login(context.Background(), "a@b.pk", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)
	assert.Equal(t, "application/x-www-form-urlencoded", srv.RequestsTo("/api/auth/login")[0].ContentType)

	_, err = c.Login(context.Background(), "a@b.pk", "wrong")
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.Contains(t, err.Error(), "Incorrect email or password")
}

func TestUnauthorizedNotifiesObservers(t *testing.T) {
	srv := apitest.New(t)
	token := srv.AddUser(domain.User{Email: "a@b.pk"}, "pw")
	c := NewClient(srv.APIURL(), WithTokenSource(TokenFunc(func() string { return token })))

	var calls atomic.Int32
	var seen *Error
	c.OnUnauthorized(func(e *Error) {
		calls.Add(1)
		seen = e
	})

	srv.RevokeTokens()
	_, err := c.Me(context.Background())

	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Equal(t, int32(1), calls.Load())
	require.NotNil(t, seen)
	assert.Equal(t, "load profile", seen.Op)
	assert.Equal(t, errors.ErrCodeAuthSessionExpired, errors.CodeOf(err))
}

func TestObserverMayRegisterObserver(t *testing.T) {
	srv := apitest.New(t)
	token := srv.AddUser(domain.User{Email: "a@b.pk"}, "pw")
	c := NewClient(srv.APIURL(), WithTokenSource(TokenFunc(func() string { return token })))

	var late atomic.Int32
	c.OnUnauthorized(func(*Error) {
		c.OnUnauthorized(func(*Error) { late.Add(1) })
	})
	srv.RevokeTokens()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Me(context.Background())
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("unauthorized notification did not return")
	}
	assert.Equal(t, int32(0), late.Load())

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), late.Load())
}

func TestServerErrorIsClassified(t *testing.T) {
	srv := apitest.New(t)
	srv.Fail(http.MethodPost, "/api/orders", http.StatusBadRequest, "Insufficient stock")
	c := NewClient(srv.APIURL())

	var notified bool
	c.OnUnauthorized(func(*Error) { notified = true })

	_, err := c.CreateOrder(context.Background(), domain.OrderRequest{Email: "a@b.pk"})
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, "failed to place order: Insufficient stock (status 400)", err.Error())
	assert.Equal(t, errors.ErrCodeAPIServer, errors.CodeOf(err))
	assert.False(t, notified)
}

func TestValidationErrorDetail(t *testing.T) {
	srv := apitest.New(t)
	c := NewClient(srv.APIURL())

	_, err := c.Register(context.Background(), domain.Registration{Password: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email: field required")
}

func TestNetworkError(t *testing.T) {
	srv := apitest.New(t)
	url := srv.APIURL()
	srv.Close()

	c := NewClient(url)
	_, err := c.Product(context.Background(), "p1")
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, errors.ErrCodeAPINetwork, errors.CodeOf(err))
	assert.True(t, strings.HasPrefix(err.Error(), "failed to load product: "))
}

func TestContextDeadline(t *testing.T) {
	srv := apitest.New(t)
	srv.SetLatency(time.Second)
	c := NewClient(srv.APIURL())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Featured(ctx, 4)
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestProductImagesAreNormalized(t *testing.T) {
	srv := apitest.New(t)
	p := seedProduct(srv, "Silk Kaftan", 12000)
	seedProduct(srv, "Cotton Kaftan", 6000)
	c := NewClient(srv.APIURL())
	ctx := context.Background()

	got, err := c.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, PlaceholderImages, got.Images)

	page, err := c.Products(ctx, catalog.ListParams{Search: "kaftan"})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	for _, prod := range page.Products {
		assert.Equal(t, PlaceholderImages, prod.Images)
	}

	related, err := c.Related(ctx, p.ID, DefaultRelatedLimit)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, PlaceholderImages, related[0].Images)

	raw := NewClient(srv.APIURL(), WithImageNormalization(false))
	got, err = raw.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Images, got.Images)
}

func TestEmptyProductListIsNotNil(t *testing.T) {
	srv := apitest.New(t)
	c := NewClient(srv.APIURL())

	page, err := c.Products(context.Background(), catalog.ListParams{Search: "nothing"})
	require.NoError(t, err)
	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)
}

func TestListParamsAreSent(t *testing.T) {
	srv := apitest.New(t)
	c := NewClient(srv.APIURL())

	sort, err := catalog.ParseSort("price:asc")
	require.NoError(t, err)
	_, err = c.Products(context.Background(), catalog.ListParams{
		Page: 2, PageSize: catalog.DefaultPageSize, Sort: sort, Category: "kurtas",
	})
	require.NoError(t, err)

	q := srv.RequestsTo("/api/products")[0].Query
	for _, want := range []string{"page=2", "page_size=20", "sort_by=price", "sort_order=asc", "category=kurtas"} {
		assert.Contains(t, q, want)
	}
	assert.NotContains(t, q, "search=")
}

func TestAdminFlow(t *testing.T) {
	srv := apitest.New(t)
	token := srv.AddUser(domain.User{Email: "admin@b.pk", IsAdmin: true}, "pw")
	c := NewClient(srv.APIURL(), WithTokenSource(TokenFunc(func() string { return token })))
	ctx := context.Background()

	p, err := c.CreateProduct(ctx, domain.ProductInput{
		Name: "Formal Kurta", Price: money.New(9000), Category: "formal-kurtas",
		Subcategory: "menswear", Sizes: []string{"M"}, InStock: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	p, err = c.UploadProductImage(ctx, p.ID, "front.jpg", strings.NewReader("jpegdata"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/front.jpg"}, p.Images)
	assert.True(t, strings.HasPrefix(srv.RequestsTo("/api/products/"+p.ID+"/images")[0].ContentType, "multipart/form-data"))

	p, err = c.DeleteProductImage(ctx, p.ID, "/uploads/front.jpg")
	require.NoError(t, err)
	assert.Empty(t, p.Images)

	d, err := c.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, d.TotalProducts)

	require.NoError(t, c.DeleteProduct(ctx, p.ID))
	_, err = c.Product(ctx, p.ID)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestAdminEndpointsForbiddenForCustomers(t *testing.T) {
	srv := apitest.New(t)
	token := srv.AddUser(domain.User{Email: "a@b.pk"}, "pw")
	c := NewClient(srv.APIURL(), WithTokenSource(TokenFunc(func() string { return token })))

	_, err := c.Dashboard(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, http.StatusForbidden, StatusOf(err))
}

func TestOrderLifecycle(t *testing.T) {
	srv := apitest.New(t)
	token := srv.AddUser(domain.User{Email: "a@b.pk"}, "pw")
	c := NewClient(srv.APIURL(), WithTokenSource(TokenFunc(func() string { return token })))
	ctx := context.Background()

	o, err := c.CreateOrder(ctx, domain.OrderRequest{
		Email:          "a@b.pk",
		Items:          []domain.OrderItem{{ProductID: "p1", Name: "Kurta", Price: money.New(10000), Quantity: 1, Size: "M"}},
		PaymentMethod:  domain.PaymentCOD,
		ShippingMethod: domain.ShippingStandard,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, o.OrderNumber)
	assert.True(t, o.Total.Equal(money.New(11500)))

	tracked, err := c.TrackOrder(ctx, o.OrderNumber, "A@B.pk")
	require.NoError(t, err)
	assert.Equal(t, o.ID, tracked.ID)

	mine, err := c.MyOrders(ctx, 1, DefaultOrdersPageSize)
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Total)

	cancelled, err := c.CancelOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, cancelled.Status)
}
