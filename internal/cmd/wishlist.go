package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/maison/internal/ux"
)

var wishlistCmd = &cobra.Command{
	Use:     "wishlist",
	Aliases: []string{"wl"},
	Short:   "Save products for later",
	Long: `Your wishlist is kept on this machine. When you are signed in, changes
are also sent to your account.`,
	RunE: runWishlistList,
}

var wishlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show saved products",
	Args:  cobra.NoArgs,
	RunE:  runWishlistList,
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Save a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runWishlistAdd,
}

var wishlistRemoveCmd = &cobra.Command{
	Use:     "remove <product-id>",
	Aliases: []string{"rm"},
	Short:   "Forget a saved product",
	Args:    cobra.ExactArgs(1),
	RunE:    runWishlistRemove,
}

var wishlistToggleCmd = &cobra.Command{
	Use:   "toggle <product-id>",
	Short: "Save a product, or forget it if already saved",
	Args:  cobra.ExactArgs(1),
	RunE:  runWishlistToggle,
}

func init() {
	wishlistCmd.AddCommand(wishlistListCmd)
	wishlistCmd.AddCommand(wishlistAddCmd)
	wishlistCmd.AddCommand(wishlistRemoveCmd)
	wishlistCmd.AddCommand(wishlistToggleCmd)

	rootCmd.AddCommand(wishlistCmd)
}

type wishlistChange struct {
	ProductID string `json:"product_id" yaml:"product_id"`
	Saved     bool   `json:"saved" yaml:"saved"`
	Count     int    `json:"count" yaml:"count"`
}

func runWishlistList(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	found, missing, err := a.WishlistProducts(cmd.Context())
	if err != nil {
		return ux.FormatError(err, "load wishlist")
	}
	return e.print(ux.WishlistView{Products: found, Missing: missing})
}

func runWishlistAdd(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	id := args[0]
	if !a.Wishlist.Has(id) {
		if _, err := a.ToggleWishlist(cmd.Context(), id); err != nil {
			return ux.FormatError(err, "update wishlist")
		}
	}
	return e.done("Saved to your wishlist", wishlistChange{ProductID: id, Saved: true, Count: a.Wishlist.Count()})
}

func runWishlistRemove(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	id := args[0]
	if a.Wishlist.Has(id) {
		if _, err := a.ToggleWishlist(cmd.Context(), id); err != nil {
			return ux.FormatError(err, "update wishlist")
		}
	}
	return e.done("Removed from your wishlist", wishlistChange{ProductID: id, Saved: false, Count: a.Wishlist.Count()})
}

func runWishlistToggle(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	id := args[0]
	saved, err := a.ToggleWishlist(cmd.Context(), id)
	if err != nil {
		return ux.FormatError(err, "update wishlist")
	}
	msg := "Removed from your wishlist"
	if saved {
		msg = "Saved to your wishlist"
	}
	return e.done(msg, wishlistChange{ProductID: id, Saved: saved, Count: a.Wishlist.Count()})
}
