package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/maison/internal/ux"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Follow your orders",
	Long: `List, inspect, track and cancel orders.

Examples:
  # Your order history
  maison orders list

  # Track an order without signing in
  maison orders track MSN-000123 --email you@example.com
`,
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your orders",
	Args:  cobra.NoArgs,
	RunE:  runOrdersList,
}

var ordersShowCmd = &cobra.Command{
	Use:   "show <order-id>",
	Short: "Show one of your orders",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersShow,
}

var ordersTrackCmd = &cobra.Command{
	Use:   "track <order-number>",
	Short: "Look up an order by number and email",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersTrack,
}

var ordersCancelCmd = &cobra.Command{
	Use:   "cancel <order-id>",
	Short: "Cancel a pending order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersCancel,
}

var (
	ordersPage       int
	ordersPageSize   int
	ordersTrackEmail string
)

func init() {
	ordersListCmd.Flags().IntVar(&ordersPage, "page", 1, "page number")
	ordersListCmd.Flags().IntVar(&ordersPageSize, "page-size", 10, "orders per page")

	ordersTrackCmd.Flags().StringVar(&ordersTrackEmail, "email", "", "email the order was placed with")
	_ = ordersTrackCmd.MarkFlagRequired("email")

	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersShowCmd)
	ordersCmd.AddCommand(ordersTrackCmd)
	ordersCmd.AddCommand(ordersCancelCmd)

	rootCmd.AddCommand(ordersCmd)
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := a.Session.RequireAuth(); err != nil {
		return err
	}
	page, err := a.API.MyOrders(cmd.Context(), ordersPage, ordersPageSize)
	if err != nil {
		return ux.FormatError(err, "load orders")
	}
	return e.print(ux.OrdersView{Page: page})
}

func runOrdersShow(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := a.Session.RequireAuth(); err != nil {
		return err
	}
	order, err := a.API.Order(cmd.Context(), args[0])
	if err != nil {
		return ux.FormatError(err, "load order")
	}
	return e.print(ux.OrderView{Order: order})
}

func runOrdersTrack(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	order, err := a.API.TrackOrder(cmd.Context(), args[0], ordersTrackEmail)
	if err != nil {
		return ux.FormatError(err, "track order")
	}
	return e.print(ux.OrderView{Order: order})
}

func runOrdersCancel(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := a.Session.RequireAuth(); err != nil {
		return err
	}
	order, err := a.API.CancelOrder(cmd.Context(), args[0])
	if err != nil {
		return ux.FormatError(err, "cancel order")
	}
	return e.done("Order "+order.OrderNumber+" cancelled", ux.OrderView{Order: order})
}
