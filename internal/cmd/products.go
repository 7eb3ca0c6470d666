package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/maison/internal/api"
	"github.com/felixgeelhaar/maison/internal/catalog"
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/ux"
)

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"shop"},
	Short:   "Browse the catalog",
	Long: `Browse the Maison catalog.

Examples:
  # Newest ready-to-wear pieces
  maison products list --category ready-to-wear

  # Cheapest first, second page
  maison products list --sort price:asc --page 2

  # One product with suggestions
  maison products show <product-id>
`,
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Args:  cobra.NoArgs,
	RunE:  runProductsList,
}

var productsShowCmd = &cobra.Command{
	Use:   "show <product-id>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsShow,
}

var productsFeaturedCmd = &cobra.Command{
	Use:   "featured",
	Short: "List featured products",
	Args:  cobra.NoArgs,
	RunE:  runProductsFeatured,
}

var productsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "List new arrivals",
	Args:  cobra.NoArgs,
	RunE:  runProductsNew,
}

var productsCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runProductsCategories,
}

var (
	listCategory    string
	listSubcategory string
	listBadges      string
	listSearch      string
	listSort        string
	listPage        int
	listPageSize    int
	showRelated     int
	curatedLimit    int
)

func init() {
	productsListCmd.Flags().StringVar(&listCategory, "category", "", "category slug, e.g. ready-to-wear")
	productsListCmd.Flags().StringVar(&listSubcategory, "subcategory", "", "subcategory slug, e.g. kurtas")
	productsListCmd.Flags().StringVar(&listBadges, "badges", "", "badge filter, e.g. new or sale")
	productsListCmd.Flags().StringVar(&listSearch, "search", "", "free-text search")
	productsListCmd.Flags().StringVar(&listSort, "sort", catalog.DefaultSort, "sort as field:order (created_at, price, name)")
	productsListCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	productsListCmd.Flags().IntVar(&listPageSize, "page-size", catalog.DefaultPageSize, "products per page")

	productsShowCmd.Flags().IntVar(&showRelated, "related", api.DefaultRelatedLimit, "number of related products to show (0 to skip)")

	productsFeaturedCmd.Flags().IntVar(&curatedLimit, "limit", api.DefaultFeaturedLimit, "maximum number of products")
	productsNewCmd.Flags().IntVar(&curatedLimit, "limit", api.DefaultFeaturedLimit, "maximum number of products")

	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsShowCmd)
	productsCmd.AddCommand(productsFeaturedCmd)
	productsCmd.AddCommand(productsNewCmd)
	productsCmd.AddCommand(productsCategoriesCmd)

	rootCmd.AddCommand(productsCmd)
}

func runProductsList(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	sort, err := catalog.ParseSort(listSort)
	if err != nil {
		return err
	}
	params := catalog.ListParams{
		Page:        listPage,
		PageSize:    listPageSize,
		Sort:        sort,
		Category:    listCategory,
		Subcategory: listSubcategory,
		Badges:      listBadges,
		Search:      listSearch,
	}
	page, err := a.API.Products(cmd.Context(), params)
	if err != nil {
		return ux.FormatError(err, "load products")
	}
	return e.print(ux.ProductsView{Title: params.Title(), Page: page})
}

func runProductsShow(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}

	var (
		product domain.Product
		related []domain.Product
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		p, err := a.API.Product(ctx, args[0])
		product = p
		return err
	})
	if showRelated > 0 {
		g.Go(func() error {
			r, err := a.API.Related(ctx, args[0], showRelated)
			if err != nil {
				e.logger.Warn("failed to load related products", "product_id", args[0], "error", err)
				return nil
			}
			related = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ux.FormatError(err, "load product")
	}
	return e.print(ux.ProductView{Product: product, Related: related})
}

func runProductsFeatured(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	products, err := a.API.Featured(cmd.Context(), curatedLimit)
	if err != nil {
		return ux.FormatError(err, "load featured products")
	}
	return e.print(ux.ProductsView{Title: "Featured", Page: domain.ProductPage{Products: products}})
}

func runProductsNew(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	products, err := a.API.NewArrivals(cmd.Context(), curatedLimit)
	if err != nil {
		return ux.FormatError(err, "load new arrivals")
	}
	return e.print(ux.ProductsView{Title: "New Arrivals", Page: domain.ProductPage{Products: products}})
}

func runProductsCategories(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	cats, err := a.API.Categories(cmd.Context())
	if err != nil {
		return ux.FormatError(err, "load categories")
	}
	return e.print(ux.CategoriesView(cats))
}
