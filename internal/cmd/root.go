package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "maison",
	Short: "Shop the Maison storefront from your terminal",
	Long: `maison is a terminal client for the Maison clothing storefront.

Browse and search the catalog, keep a cart and wishlist that survive
restarts, check out, follow your orders and, with an administrator
account, manage products, orders and customers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the root command with ctx, which commands use for
// every API request.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("format", "f", "", "output format: text, json or yaml (default from config)")
	flags.BoolP("verbose", "v", false, "log debug output to stderr")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("api-url", "", "storefront API base URL (overrides config)")
	flags.String("config", "", "config file (default $MAISON_CONFIG or ~/.maison/config.yaml)")
	flags.String("env-file", ".env", "dotenv file read for MAISON_* variables")
}
