package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/maison/internal/apitest"
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/exitcode"
	"github.com/felixgeelhaar/maison/internal/money"
)

func TestMain(m *testing.M) {
	interactive = func() bool { return false }
	os.Exit(m.Run())
}

// resetFlags puts every flag back to its default, since cobra keeps parsed
// values between executions of the same command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type harness struct {
	t   *testing.T
	srv *apitest.Server
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := apitest.New(t)
	dir := t.TempDir()
	t.Setenv("MAISON_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("MAISON_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("MAISON_API_URL", srv.APIURL())
	t.Setenv("MAISON_TOKEN_PASSPHRASE", "test-passphrase")
	t.Setenv("MAISON_LOG_LEVEL", "error")
	t.Setenv("NO_COLOR", "1")
	return &harness{t: t, srv: srv, dir: dir}
}

func (h *harness) runWithInput(stdin string, args ...string) (string, error) {
	h.t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	return h.runWithInput("", args...)
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "maison %s", strings.Join(args, " "))
	return out
}

func (h *harness) product(name string, price int64, sizes ...string) domain.Product {
	return h.srv.AddProduct(domain.Product{
		Name:     name,
		Price:    money.New(price),
		Category: "ready-to-wear",
		Sizes:    sizes,
		InStock:  true,
	})
}

func (h *harness) signIn(admin bool) domain.User {
	h.t.Helper()
	u := domain.User{Email: "ayesha@example.com", FirstName: "Ayesha", LastName: "Khan", Phone: "0300-1234567", IsAdmin: admin}
	h.srv.AddUser(u, "s3cret-pass")
	_, err := h.runWithInput("s3cret-pass\n", "auth", "login", "--email", u.Email, "--password-stdin")
	require.NoError(h.t, err)
	return u
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("version")
	assert.Contains(t, out, "maison ")

	out = h.mustRun("version", "--long")
	assert.Contains(t, out, "platform: ")

	out = h.mustRun("version", "--json")
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["go_version"])
}

func TestProductsListAndShow(t *testing.T) {
	h := newHarness(t)
	kaftan := h.product("Silk Kaftan", 18500, "S", "M")
	h.product("Linen Kurta", 7200, "M")

	out := h.mustRun("products", "list")
	assert.Contains(t, out, "Silk Kaftan")
	assert.Contains(t, out, "Linen Kurta")
	assert.Contains(t, out, "Ready to Wear")

	out = h.mustRun("products", "list", "--format", "json")
	var page domain.ProductPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Len(t, page.Products, 2)

	out = h.mustRun("products", "show", kaftan.ID)
	assert.Contains(t, out, "Silk Kaftan")
	assert.Contains(t, out, "S, M")

	_, err := h.run("products", "list", "--sort", "price:sideways")
	assert.Error(t, err)
}

func TestSearchPrintsMatches(t *testing.T) {
	h := newHarness(t)
	h.product("Silk Kaftan", 18500)
	h.product("Linen Kurta", 7200)

	out := h.mustRun("search", "kaftan")
	assert.Contains(t, out, "Silk Kaftan")
	assert.NotContains(t, out, "Linen Kurta")

	before := len(h.srv.RequestsTo("/api/products"))
	_, err := h.run("search", " k ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 characters")
	assert.Len(t, h.srv.RequestsTo("/api/products"), before, "a short query must not reach the API")
}

func TestCartCommands(t *testing.T) {
	h := newHarness(t)
	p := h.product("Silk Kaftan", 18500, "S", "M")

	h.mustRun("cart", "add", p.ID, "--size", "M", "--qty", "2")

	out := h.mustRun("cart", "show", "--format", "json")
	var view struct {
		Items []struct {
			ProductID string `json:"productId"`
			Size      string `json:"size"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "M", view.Items[0].Size)
	assert.Equal(t, 2, view.Count)

	h.mustRun("cart", "update", p.ID, "--qty", "3")
	out = h.mustRun("cart", "show")
	assert.Contains(t, out, "Silk Kaftan")
	assert.Contains(t, out, "Shipping (standard)")

	_, err := h.run("cart", "update", p.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"qty" not set`)
	require.NoError(t, json.Unmarshal([]byte(h.mustRun("cart", "show", "--format", "json")), &view))
	assert.Equal(t, 3, view.Count, "a missing --qty leaves the line alone")

	_, err = h.run("cart", "add", p.ID, "--size", "XXL")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCartInvalidSize, errors.CodeOf(err))
	assert.Equal(t, exitcode.ValidationError, exitcode.DetermineExitCode(err))

	_, err = h.run("cart", "update", p.ID, "--qty", "0")
	assert.Equal(t, errors.ErrCodeCartInvalidQuantity, errors.CodeOf(err))

	h.mustRun("cart", "remove", p.ID)
	out = h.mustRun("cart", "show")
	assert.Contains(t, out, "Your cart is empty.")

	_, err = h.run("cart", "remove", p.ID)
	assert.Equal(t, errors.ErrCodeCartLineNotFound, errors.CodeOf(err))
}

func TestCartClearNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	p := h.product("Silk Kaftan", 18500, "S")
	h.mustRun("cart", "add", p.ID)

	_, err := h.run("cart", "clear")
	assert.Error(t, err)

	h.mustRun("cart", "clear", "--yes")
	assert.Contains(t, h.mustRun("cart"), "Your cart is empty.")
}

func TestAuthLoginStatusLogout(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("auth", "status")
	assert.Contains(t, out, "Not signed in")

	u := h.signIn(false)

	out = h.mustRun("auth", "status", "--format", "json")
	var status struct {
		Authenticated bool        `json:"authenticated"`
		User          domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Authenticated)
	assert.Equal(t, u.Email, status.User.Email)

	h.mustRun("auth", "logout")
	out = h.mustRun("auth", "status")
	assert.Contains(t, out, "Not signed in")
}

func TestAuthLoginWrongPassword(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser(domain.User{Email: "ayesha@example.com"}, "right")

	_, err := h.runWithInput("wrong\n", "auth", "login", "--email", "ayesha@example.com", "--password-stdin")
	require.Error(t, err)
	assert.Equal(t, exitcode.AuthError, exitcode.DetermineExitCode(err))
	assert.Contains(t, h.mustRun("auth", "status"), "Not signed in")
}

func TestAuthRegisterPasswordMismatch(t *testing.T) {
	h := newHarness(t)

	_, err := h.runWithInput("one\ntwo\n", "auth", "register",
		"--email", "new@example.com", "--first-name", "Sara", "--last-name", "Ali", "--password-stdin")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAuthPasswordMismatch, errors.CodeOf(err))
	assert.Empty(t, h.srv.RequestsTo("/api/auth/register"))
}

func TestCheckoutFromFlags(t *testing.T) {
	h := newHarness(t)
	p := h.product("Silk Kaftan", 18500, "M")

	_, err := h.run("checkout", "--yes")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCartEmpty, errors.CodeOf(err))

	h.mustRun("cart", "add", p.ID)

	_, err = h.run("checkout", "--payment", "cod", "--agree-terms", "--yes")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCheckoutValidation, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "Information")

	args := []string{
		"checkout",
		"--email", "guest@example.com",
		"--phone", "0300-7654321",
		"--first-name", "Sara",
		"--last-name", "Ali",
		"--address", "12 Mall Road",
		"--city", "Lahore",
		"--payment", "card",
		"--card-number", "4242424242424242",
		"--card-expiry", "1229",
		"--card-cvv", "123",
		"--agree-terms",
	}
	_, err = h.run(args...)
	require.Error(t, err, "an order needs --yes when not interactive")
	assert.Empty(t, h.srv.Orders())

	out := h.mustRun(append(args, "--yes")...)
	orders := h.srv.Orders()
	require.Len(t, orders, 1)
	assert.Contains(t, out, orders[0].OrderNumber)
	assert.Contains(t, out, "Paid with card ••••••••••••4242")
	assert.NotContains(t, out, "4242424242424242")
	assert.Equal(t, "Lahore", orders[0].ShippingAddress.City)
	assert.Contains(t, h.mustRun("cart"), "Your cart is empty.")
}

func TestOrdersTrack(t *testing.T) {
	h := newHarness(t)
	u := h.signIn(false)
	p := h.product("Linen Kurta", 7200, "M")
	h.mustRun("cart", "add", p.ID)
	h.mustRun("checkout", "--address", "5 Canal View", "--city", "Lahore", "--payment", "cod", "--agree-terms", "--yes")

	orders := h.srv.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, u.Email, orders[0].Email, "the form is prefilled from the profile")

	out := h.mustRun("orders", "track", orders[0].OrderNumber, "--email", u.Email)
	assert.Contains(t, out, "Order "+orders[0].OrderNumber)

	out = h.mustRun("orders", "list")
	assert.Contains(t, out, orders[0].OrderNumber)

	out = h.mustRun("orders", "cancel", orders[0].ID)
	assert.Contains(t, out, "cancelled")
}

func TestOrdersListRequiresSignIn(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("orders", "list")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAuthRequired, errors.CodeOf(err))
	assert.Empty(t, h.srv.RequestsTo("/api/orders"))
}

func TestWishlistCommands(t *testing.T) {
	h := newHarness(t)
	p := h.product("Silk Kaftan", 18500)

	out := h.mustRun("wishlist", "toggle", p.ID)
	assert.Contains(t, out, "Saved to your wishlist")

	h.mustRun("wishlist", "add", "gone")
	out = h.mustRun("wishlist", "list")
	assert.Contains(t, out, "Silk Kaftan")
	assert.Contains(t, out, "1 saved item(s) are no longer available")

	out = h.mustRun("wishlist", "toggle", p.ID)
	assert.Contains(t, out, "Removed from your wishlist")
}

func TestAdminCommands(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("admin", "dashboard")
	assert.Equal(t, errors.ErrCodeAuthRequired, errors.CodeOf(err))

	h.signIn(false)
	_, err = h.run("admin", "dashboard")
	assert.Equal(t, errors.ErrCodeAuthForbidden, errors.CodeOf(err))
	assert.Empty(t, h.srv.RequestsTo("/api/admin/dashboard"), "the admin check happens before any request")
}

func TestAdminProductLifecycle(t *testing.T) {
	h := newHarness(t)
	h.signIn(true)

	out := h.mustRun("admin", "products", "create", "--format", "json",
		"--name", "Velvet Sherwani", "--price", "42000", "--category", "menswear", "--sizes", "M, L")
	var created domain.Product
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"M", "L"}, created.Sizes)
	assert.True(t, created.InStock)

	out = h.mustRun("admin", "products", "update", created.ID, "--format", "json", "--in-stock=false")
	var updated domain.Product
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.False(t, updated.InStock)
	assert.Equal(t, "Velvet Sherwani", updated.Name, "fields without flags are kept")

	_, err := h.run("admin", "products", "delete", created.ID)
	assert.Error(t, err)
	h.mustRun("admin", "products", "delete", created.ID, "--yes")

	_, err = h.run("products", "show", created.ID)
	assert.Error(t, err)

	out = h.mustRun("admin", "dashboard")
	assert.Contains(t, out, "Dashboard")
}

func TestAdminOrderUpdateValidatesStatus(t *testing.T) {
	h := newHarness(t)
	h.signIn(true)

	_, err := h.run("admin", "orders", "update", "some-id", "--status", "lost")
	require.Error(t, err)
	assert.Empty(t, h.srv.RequestsTo("/api/orders/some-id"))

	_, err = h.run("admin", "orders", "update", "some-id")
	assert.Error(t, err)
}

func TestAPICheck(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("api", "check")
	assert.Contains(t, out, "Client matches the API description")

	spec := filepath.Join(h.dir, "partial.yaml")
	require.NoError(t, os.WriteFile(spec, []byte(`openapi: 3.0.3
info:
  title: partial
  version: "1"
paths:
  /products:
    get:
      responses:
        "200":
          description: ok
`), 0o600))

	_, err := h.run("api", "check", "--spec", spec)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAPIContract, errors.CodeOf(err))

	out = h.mustRun("api", "endpoints")
	assert.Contains(t, out, "/products/{id}")
}

func TestConfigCommands(t *testing.T) {
	h := newHarness(t)

	h.mustRun("config", "set", "api.timeout", "45s")
	assert.Equal(t, "45s\n", h.mustRun("config", "get", "api.timeout"))
	assert.Equal(t, filepath.Join(h.dir, "config.yaml")+"\n", h.mustRun("config", "path"))

	_, err := h.run("config", "set", "api.timeout", "soon")
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.CodeOf(err))

	_, err = h.run("config", "get", "nope")
	assert.Equal(t, errors.ErrCodeConfigKey, errors.CodeOf(err))

	out := h.mustRun("config", "view")
	assert.Contains(t, out, "api.timeout")
	assert.Contains(t, out, "45s")

	assert.Contains(t, h.mustRun("config", "keys"), "search.debounce")
}

func TestUnknownFormatIsRejected(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("cart", "--format", "xml")
	assert.Error(t, err)
}
