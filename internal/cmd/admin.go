package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/maison/internal/api"
	"github.com/felixgeelhaar/maison/internal/app"
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/money"
	"github.com/felixgeelhaar/maison/internal/tui"
	"github.com/felixgeelhaar/maison/internal/ux"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the storefront (administrators only)",
	Long: `Administrative commands. Your signed-in profile must be an
administrator; the check happens before anything is sent.

Examples:
  # Overview
  maison admin dashboard

  # Mark an order shipped
  maison admin orders update <order-id> --status shipped

  # Add a product
  maison admin products create --name "Silk Kaftan" --price 18500 \
    --category ready-to-wear --subcategory kaftans --sizes S,M,L
`,
}

var adminDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the store overview",
	Args:  cobra.NoArgs,
	RunE:  runAdminDashboard,
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show order counts by status",
	Args:  cobra.NoArgs,
	RunE:  runAdminStats,
}

var adminSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the storefront's bootstrap administrator",
	Args:  cobra.NoArgs,
	RunE:  runAdminSeed,
}

var adminProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Create, edit and delete products",
}

var adminProductCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	Args:  cobra.NoArgs,
	RunE:  runAdminProductCreate,
}

var adminProductUpdateCmd = &cobra.Command{
	Use:   "update <product-id>",
	Short: "Edit a product; only the flags given are changed",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminProductUpdate,
}

var adminProductDeleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminProductDelete,
}

var adminImageUploadCmd = &cobra.Command{
	Use:   "upload-image <product-id> <file>",
	Short: "Attach an image to a product",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdminImageUpload,
}

var adminImageDeleteCmd = &cobra.Command{
	Use:   "delete-image <product-id> <image-url>",
	Short: "Remove an image from a product",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdminImageDelete,
}

var adminOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List and update all orders",
}

var adminOrdersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every order",
	Args:  cobra.NoArgs,
	RunE:  runAdminOrdersList,
}

var adminOrdersUpdateCmd = &cobra.Command{
	Use:   "update <order-id>",
	Short: "Change an order's status or payment status",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminOrdersUpdate,
}

var adminCustomersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Look up and manage customer accounts",
}

var adminCustomersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers",
	Args:  cobra.NoArgs,
	RunE:  runAdminCustomersList,
}

var adminCustomersShowCmd = &cobra.Command{
	Use:   "show <customer-id>",
	Short: "Show a customer with their orders",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminCustomersShow,
}

var adminCustomersActivateCmd = &cobra.Command{
	Use:   "activate <customer-id>",
	Short: "Re-enable a customer account",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setCustomerActive(cmd, args[0], true) },
}

var adminCustomersDeactivateCmd = &cobra.Command{
	Use:   "deactivate <customer-id>",
	Short: "Disable a customer account",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setCustomerActive(cmd, args[0], false) },
}

var (
	prodName          string
	prodSKU           string
	prodDescription   string
	prodPrice         string
	prodOriginalPrice string
	prodCategory      string
	prodSubcategory   string
	prodFabric        string
	prodCare          string
	prodSizes         string
	prodColors        string
	prodBadges        string
	prodInStock       bool

	adminYes           bool
	adminPage          int
	adminPageSize      int
	adminStatus        string
	adminPaymentStatus string
	adminSearch        string
)

func productFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&prodName, "name", "", "product name")
	f.StringVar(&prodSKU, "sku", "", "stock keeping unit")
	f.StringVar(&prodDescription, "description", "", "description")
	f.StringVar(&prodPrice, "price", "", "price in rupees")
	f.StringVar(&prodOriginalPrice, "original-price", "", "price before a sale, shown struck through")
	f.StringVar(&prodCategory, "category", "", "category slug")
	f.StringVar(&prodSubcategory, "subcategory", "", "subcategory slug")
	f.StringVar(&prodFabric, "fabric", "", "fabric")
	f.StringVar(&prodCare, "care", "", "care instructions")
	f.StringVar(&prodSizes, "sizes", "", "comma-separated sizes, e.g. XS,S,M")
	f.StringVar(&prodColors, "colors", "", "comma-separated colors")
	f.StringVar(&prodBadges, "badges", "", "comma-separated badges, e.g. new,sale")
	f.BoolVar(&prodInStock, "in-stock", true, "whether the product can be ordered")
}

func init() {
	productFlags(adminProductCreateCmd)
	_ = adminProductCreateCmd.MarkFlagRequired("name")
	_ = adminProductCreateCmd.MarkFlagRequired("price")
	_ = adminProductCreateCmd.MarkFlagRequired("category")
	productFlags(adminProductUpdateCmd)
	adminProductDeleteCmd.Flags().BoolVarP(&adminYes, "yes", "y", false, "do not ask for confirmation")

	adminOrdersListCmd.Flags().IntVar(&adminPage, "page", 1, "page number")
	adminOrdersListCmd.Flags().IntVar(&adminPageSize, "page-size", 20, "orders per page")
	adminOrdersListCmd.Flags().StringVar(&adminStatus, "status", "", "only orders in this status")
	adminOrdersUpdateCmd.Flags().StringVar(&adminStatus, "status", "", "new order status")
	adminOrdersUpdateCmd.Flags().StringVar(&adminPaymentStatus, "payment-status", "", "new payment status")

	adminCustomersListCmd.Flags().IntVar(&adminPage, "page", 1, "page number")
	adminCustomersListCmd.Flags().IntVar(&adminPageSize, "page-size", 20, "customers per page")
	adminCustomersListCmd.Flags().StringVar(&adminSearch, "search", "", "match name or email")

	adminProductsCmd.AddCommand(adminProductCreateCmd)
	adminProductsCmd.AddCommand(adminProductUpdateCmd)
	adminProductsCmd.AddCommand(adminProductDeleteCmd)
	adminProductsCmd.AddCommand(adminImageUploadCmd)
	adminProductsCmd.AddCommand(adminImageDeleteCmd)

	adminOrdersCmd.AddCommand(adminOrdersListCmd)
	adminOrdersCmd.AddCommand(adminOrdersUpdateCmd)

	adminCustomersCmd.AddCommand(adminCustomersListCmd)
	adminCustomersCmd.AddCommand(adminCustomersShowCmd)
	adminCustomersCmd.AddCommand(adminCustomersActivateCmd)
	adminCustomersCmd.AddCommand(adminCustomersDeactivateCmd)

	adminCmd.AddCommand(adminDashboardCmd)
	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminSeedCmd)
	adminCmd.AddCommand(adminProductsCmd)
	adminCmd.AddCommand(adminOrdersCmd)
	adminCmd.AddCommand(adminCustomersCmd)

	rootCmd.AddCommand(adminCmd)
}

// setupAdmin opens the storefront and refuses non-administrators.
func setupAdmin(cmd *cobra.Command) (*env, *app.App, error) {
	e, a, err := setup(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := a.RequireAdmin(); err != nil {
		return nil, nil, err
	}
	return e, a, nil
}

func inputFrom(p domain.Product) domain.ProductInput {
	return domain.ProductInput{
		Name:          p.Name,
		SKU:           p.SKU,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Category:      p.Category,
		Subcategory:   p.Subcategory,
		Fabric:        p.Fabric,
		Care:          p.Care,
		Sizes:         p.Sizes,
		Colors:        p.Colors,
		Badges:        p.Badges,
		InStock:       p.InStock,
	}
}

func parsePrice(flag, value string) (money.Amount, error) {
	amount, err := money.Parse(value)
	if err != nil || amount.IsNegative() {
		return money.Zero, fmt.Errorf("--%s %q is not a valid price", flag, value)
	}
	return amount, nil
}

// applyProductFlags copies the flags the user set over in.
func applyProductFlags(cmd *cobra.Command, in *domain.ProductInput) error {
	flags := cmd.Flags()
	strs := []struct {
		name     string
		src, dst *string
	}{
		{"name", &prodName, &in.Name},
		{"sku", &prodSKU, &in.SKU},
		{"description", &prodDescription, &in.Description},
		{"category", &prodCategory, &in.Category},
		{"subcategory", &prodSubcategory, &in.Subcategory},
		{"fabric", &prodFabric, &in.Fabric},
		{"care", &prodCare, &in.Care},
	}
	for _, s := range strs {
		if flags.Changed(s.name) {
			*s.dst = *s.src
		}
	}
	lists := []struct {
		name string
		src  *string
		dst  *[]string
	}{
		{"sizes", &prodSizes, &in.Sizes},
		{"colors", &prodColors, &in.Colors},
		{"badges", &prodBadges, &in.Badges},
	}
	for _, l := range lists {
		if flags.Changed(l.name) {
			*l.dst = splitList(*l.src)
		}
	}
	if flags.Changed("price") {
		price, err := parsePrice("price", prodPrice)
		if err != nil {
			return err
		}
		in.Price = price
	}
	if flags.Changed("original-price") {
		if prodOriginalPrice == "" {
			in.OriginalPrice = nil
		} else {
			original, err := parsePrice("original-price", prodOriginalPrice)
			if err != nil {
				return err
			}
			in.OriginalPrice = &original
		}
	}
	if flags.Changed("in-stock") {
		in.InStock = prodInStock
	}
	return nil
}

func runAdminDashboard(cmd *cobra.Command, args []string) error {
	e, a, err := setupAdmin(cmd)
	if err != nil {
		return err
	}
	d, err := a.API.Dashboard(cmd.Context())
	if err != nil {
		return ux.FormatError(err, "load dashboard")
	}
	return e.print(ux.DashboardView{Dashboard: d})
}

type statsView struct {
	Stats domain.OrderStats
}

func (v statsView) Data() any { return v.Stats }

func (v statsView) Text(s ux.Styles) string {
	rows := [][]string{}
	for _, status := range domain.OrderStatuses {
		rows = append(rows, []string{string(status), strconv.Itoa(v.Stats.ByStatus[status])})
	}
	var extra []string
	for status := range v.Stats.ByStatus {
		if status.Validate() != nil {
			extra = append(extra, string(status))
		}
	}
	sort.Strings(extra)
	for _, status := range extra {
		rows = append(rows, []string{status, strconv.Itoa(v.Stats.ByStatus[domain.OrderStatus(status)])})
	}
	return s.Title.Render("Orders by status") + "\n" + s.Table([]string{"Status", "Orders"}, rows) + "\n" +
		s.Muted.Render(fmt.Sprintf("%d orders, %s revenue", v.Stats.TotalOrders, money.Format(v.Stats.TotalRevenue)))
}

func runAdminStats(cmd *cobra.Command, args []string) error {
	e, a, err := setupAdmin(cmd)
	if err != nil {
		return err
	}
	stats, err := a.API.OrderStats(cmd.Context())
	if err != nil {
		return ux.FormatError(err, "load order stats")
	}
	return e.print(statsView{Stats: stats})
}

func runAdminSeed(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	msg, err := a.API.SeedAdmin(cmd.Context())
	if err != nil {
		return ux.FormatError(err, "seed administrator")
	}
	return e.done(msg.Message, msg)
}

func runAdminProductCreate(cmd *cobra.Command, args []string) error {
	e, a, err := setupAdmin(cmd)
	if err != nil {
		return err
	}
	in := domain.ProductInput{InStock: true}
	if err := applyProductFlags(cmd, &in); err != nil {
		return err
	}
	p, err := a.API.CreateProduct(cmd.Context(), in)
	if err != nil {
		return ux.FormatError(err, "create product")
	}
	return e.done("Created "+p.Name+" ("+p.ID+")", ux.ProductView{Product: p})
}

func runAdminProductUpdate(cmd *cobra.Command, args []string) error {
	e, a, err := setupAdmin(cmd)
	if err != nil {
		return err
	}
	current, err := a.API.Product(cmd.Context(), args[0])
	if err != nil {
		return ux.FormatError(err, "load product")
	}
	in := inputFrom(current)
	if err := applyProductFlags(cmd, &in); err != nil {
		return err
	}
	p, err := a.API.UpdateProduct(cmd.Context(), args[0], in)
	if err != nil {
		return ux.FormatError(err, "update product")
	}
	return e.done("Updated "+p.Name, ux.ProductView{Product: p})
}

func runAdminProductDelete(cmd *cobra.Command, args []string) error {
	e, a, err := setupAdmin(cmd)
	if err != nil {
		return err
	}
	if !adminYes {
		if !interactive() {
			return fmt.Errorf("refusing to delete product %s without --yes", args[0])
		}
		ok, err := tui.Confirm(cmd.Context(), "Delete product "+args[0]+"? This cannot be undone.", false)
		if err != nil || !ok {
			return err
		}
	}
	if err := a.API.DeleteProduct(cmd.Context(), args[0]); err != nil {
		return ux.FormatError(err, "delete product")
	}
	return e.done("Deleted product "+args[0], nil)
}

func runAdminImageUpload(cmd *cobra.Command, args []string) error {
	e, a, err := setupAdmin(cmd)
	if err != nil {
		return err
	}
	f, err := os.Open(args[1])
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileReadFailed, "failed to open image", err)
	}
	defer f.Close()

	p, err := a.API.UploadProductImage(cmd.Context(), args[0], filepath.Base(args[1]), f)
	if err != nil {
		return ux.FormatError(err, "upload image")
	}
	return e.done(fmt.Sprintf("Uploaded %s, %s now has %d image(s)", filepath.Base(args[1]), p.Name, len(p.Images)),
		ux.ProductView{Product: p})
}

func runAdminImageDelete(cmd *cobra.Command, args []string) error {
	e, a, err := setupAdmin(cmd)
	if err != nil {
		return err
	}
	p, err := a.API.DeleteProductImage(cmd.Context(), args[0], args[1])
	if err != nil {
		return ux.FormatError(err, "delete image")
	}
	return e.done(fmt.Sprintf("Removed image, %s now has %d image(s)", p.Name, len(p.Images)), ux.ProductView{Product: p})
}

func runAdminOrdersList(cmd *cobra.Command, args []string) error {
	e, a, err := setupAdmin(cmd)
	if err != nil {
		return err
	}
	status := domain.OrderStatus(adminStatus)
	if status != "" {
		if err := status.Validate(); err != nil {
			return err
		}
	}
	page, err := a.API.AllOrders(cmd.Context(), api.AdminOrderParams{
		Page:     adminPage,
		PageSize: adminPageSize,
		Status:   status,
	})
	if err != nil {
		return ux.FormatError(err, "load orders")
	}
	return e.print(ux.OrdersView{Page: page})
}

func runAdminOrdersUpdate(cmd *cobra.Command, args []string) error {
	e, a, err := setupAdmin(cmd)
	if err != nil {
		return err
	}
	update := domain.OrderUpdate{
		Status:        domain.OrderStatus(adminStatus),
		PaymentStatus: domain.PaymentStatus(adminPaymentStatus),
	}
	if update == (domain.OrderUpdate{}) {
		return fmt.Errorf("nothing to update: pass --status or --payment-status")
	}
	if update.Status != "" {
		if err := update.Status.Validate(); err != nil {
			return err
		}
	}
	if update.PaymentStatus != "" {
		if err := update.PaymentStatus.Validate(); err != nil {
			return err
		}
	}
	order, err := a.API.UpdateOrder(cmd.Context(), args[0], update)
	if err != nil {
		return ux.FormatError(err, "update order")
	}
	return e.done(fmt.Sprintf("Order %s is %s, payment %s", order.OrderNumber, order.Status, order.PaymentStatus),
		ux.OrderView{Order: order})
}

func runAdminCustomersList(cmd *cobra.Command, args []string) error {
	e, a, err := setupAdmin(cmd)
	if err != nil {
		return err
	}
	page, err := a.API.Customers(cmd.Context(), api.CustomerParams{
		Page:     adminPage,
		PageSize: adminPageSize,
		Search:   adminSearch,
	})
	if err != nil {
		return ux.FormatError(err, "load customers")
	}
	return e.print(ux.CustomersView{Page: page})
}

type customerView struct {
	Detail domain.CustomerDetail
}

func (v customerView) Data() any { return v.Detail }

func (v customerView) Text(s ux.Styles) string {
	c := v.Detail
	var b strings.Builder
	b.WriteString(s.Title.Render(strings.TrimSpace(c.FirstName+" "+c.LastName)) + "\n")
	b.WriteString(s.Muted.Render("Email: ") + c.Email + "\n")
	if c.Phone != "" {
		b.WriteString(s.Muted.Render("Phone: ") + c.Phone + "\n")
	}
	if c.IsActive {
		b.WriteString(s.Success.Render("active") + "\n")
	} else {
		b.WriteString(s.Warning.Render("inactive") + "\n")
	}
	if !c.CreatedAt.IsZero() {
		b.WriteString(s.Muted.Render("Customer since: ") + c.CreatedAt.Format("2 Jan 2006") + "\n")
	}
	b.WriteString(ux.OrdersView{Page: domain.OrderPage{Orders: c.Orders}}.Text(s))
	return b.String()
}

func runAdminCustomersShow(cmd *cobra.Command, args []string) error {
	e, a, err := setupAdmin(cmd)
	if err != nil {
		return err
	}
	detail, err := a.API.Customer(cmd.Context(), args[0])
	if err != nil {
		return ux.FormatError(err, "load customer")
	}
	return e.print(customerView{Detail: detail})
}

func setCustomerActive(cmd *cobra.Command, id string, active bool) error {
	e, a, err := setupAdmin(cmd)
	if err != nil {
		return err
	}
	msg, err := a.API.SetCustomerActive(cmd.Context(), id, active)
	if err != nil {
		return ux.FormatError(err, "update customer status")
	}
	text := msg.Message
	if text == "" {
		text = "Customer " + id + " updated"
	}
	return e.done(text, msg)
}
