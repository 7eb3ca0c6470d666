package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/maison/internal/cart"
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/tui"
	"github.com/felixgeelhaar/maison/internal/ux"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and edit your cart",
	Long: `Your cart is kept on this machine and survives restarts. Prices are
captured when a product is added.

Examples:
  # Add two of a product in size M
  maison cart add <product-id> --size M --qty 2

  # Show the cart priced with express shipping
  maison cart show --shipping express
`,
	RunE: runCartShow,
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart with a price quote",
	Args:  cobra.NoArgs,
	RunE:  runCartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:     "remove <product-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a line from the cart",
	Args:    cobra.ExactArgs(1),
	RunE:    runCartRemove,
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <product-id>",
	Short: "Change the quantity of a line",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartUpdate,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartClear,
}

var (
	cartSize     string
	cartQuantity int
	cartShipping string
	cartYes      bool
)

func init() {
	cartShowCmd.Flags().StringVar(&cartShipping, "shipping", string(domain.ShippingStandard), "shipping method to quote: standard or express")

	cartAddCmd.Flags().StringVar(&cartSize, "size", "", "size to add (defaults to the first size offered)")
	cartAddCmd.Flags().IntVarP(&cartQuantity, "qty", "q", 1, "quantity")

	cartRemoveCmd.Flags().StringVar(&cartSize, "size", "", "size of the line (needed when the product is in the cart in several sizes)")

	cartUpdateCmd.Flags().StringVar(&cartSize, "size", "", "size of the line (needed when the product is in the cart in several sizes)")
	cartUpdateCmd.Flags().IntVarP(&cartQuantity, "qty", "q", 1, "new quantity")
	_ = cartUpdateCmd.MarkFlagRequired("qty")

	cartClearCmd.Flags().BoolVarP(&cartYes, "yes", "y", false, "do not ask for confirmation")

	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartClearCmd)

	rootCmd.AddCommand(cartCmd)
}

func cartView(c *cart.Cart, method domain.ShippingMethod) ux.CartView {
	return ux.CartView{
		Lines:   c.Items(),
		Count:   c.Count(),
		Pricing: c.Quote(method),
	}
}

// findLine resolves the cart line for productID. An empty size matches the
// product's only line.
func findLine(c *cart.Cart, productID, size string) (cart.Line, error) {
	if size != "" {
		if l, ok := c.Line(productID, size); ok {
			return l, nil
		}
		return cart.Line{}, errors.New(errors.ErrCodeCartLineNotFound,
			fmt.Sprintf("product %s in size %s is not in your cart", productID, size))
	}

	var matches []cart.Line
	for _, l := range c.Items() {
		if l.ProductID == productID {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return cart.Line{}, errors.New(errors.ErrCodeCartLineNotFound, "product "+productID+" is not in your cart")
	case 1:
		return matches[0], nil
	default:
		sizes := make([]string, len(matches))
		for i, l := range matches {
			sizes[i] = l.Size
		}
		return cart.Line{}, errors.New(errors.ErrCodeCartLineNotFound, "product "+productID+" is in your cart in several sizes").
			WithSuggestion("Pass --size with one of: " + strings.Join(sizes, ", "))
	}
}

func runCartShow(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	method := domain.ShippingMethod(cartShipping)
	if err := method.Validate(); err != nil {
		return err
	}
	return e.print(cartView(a.Cart, method))
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	p, err := a.AddToCart(cmd.Context(), args[0], cartSize, cartQuantity)
	if err != nil {
		return ux.FormatError(err, "add to cart")
	}
	if cartQuantity > cart.MaxQuantity {
		e.logger.Warn("quantity is above what the shop offers", "quantity", cartQuantity, "max", cart.MaxQuantity)
	}
	return e.done(fmt.Sprintf("Added %d × %s to your cart (%d items)", cartQuantity, p.Name, a.Cart.Count()),
		cartView(a.Cart, domain.ShippingStandard))
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	line, err := findLine(a.Cart, args[0], cartSize)
	if err != nil {
		return err
	}
	if err := a.Cart.RemoveItem(line.ProductID, line.Size); err != nil {
		return ux.FormatError(err, "update cart")
	}
	return e.done("Removed "+line.Name+" ("+line.Size+") from your cart", cartView(a.Cart, domain.ShippingStandard))
}

func runCartUpdate(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	line, err := findLine(a.Cart, args[0], cartSize)
	if err != nil {
		return err
	}
	if err := a.Cart.UpdateQuantity(line.ProductID, line.Size, cartQuantity); err != nil {
		return ux.FormatError(err, "update cart")
	}
	return e.done(fmt.Sprintf("%s (%s) now × %d", line.Name, line.Size, cartQuantity), cartView(a.Cart, domain.ShippingStandard))
}

func runCartClear(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	if a.Cart.IsEmpty() {
		e.note("Your cart is already empty.")
		return nil
	}
	if !cartYes {
		if !interactive() {
			return fmt.Errorf("refusing to clear the cart without --yes")
		}
		ok, err := tui.Confirm(cmd.Context(), fmt.Sprintf("Remove all %d items from your cart?", a.Cart.Count()), false)
		if err != nil || !ok {
			return err
		}
	}
	if err := a.Cart.Clear(); err != nil {
		return ux.FormatError(err, "clear cart")
	}
	return e.done("Cart cleared", nil)
}
