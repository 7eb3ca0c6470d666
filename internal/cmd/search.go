package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/search"
	"github.com/felixgeelhaar/maison/internal/tui"
	"github.com/felixgeelhaar/maison/internal/ux"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog",
	Long: `Search products by name or description.

In a terminal this opens a type-ahead search screen: results follow your
typing, up/down moves the selection and enter shows the product. With
--no-interactive, or when stdin is not a terminal, the query is run once and
the matches are printed.`,
	RunE: runSearch,
}

var searchNoInteractive bool

func init() {
	searchCmd.Flags().BoolVar(&searchNoInteractive, "no-interactive", false, "print matches instead of opening the search screen")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")

	d := a.Searcher()
	defer d.Close()

	if !searchNoInteractive && interactive() {
		product, ok, err := tui.RunSearch(cmd.Context(), d, a.UI, query)
		if err != nil || !ok {
			return err
		}
		return e.print(ux.ProductView{Product: product})
	}

	d.Input(query)
	var res search.Result
	select {
	case res = <-d.Results():
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}
	if res.Cleared {
		return fmt.Errorf("search needs at least %d characters", search.MinQueryLength)
	}
	if res.Err != nil {
		return ux.FormatError(res.Err, "search products")
	}
	return e.print(ux.ProductsView{
		Title: fmt.Sprintf("Search: %q", strings.TrimSpace(query)),
		Page:  domain.ProductPage{Products: res.Products},
	})
}
