package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sellerkit/gomws/orders"
)

var (
	ordersDays     int
	ordersStatuses []string
	ordersFilter   string
	ordersItems    bool
)

// ordersCmd represents the orders command group
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Work with marketplace orders",
}

// ordersListCmd represents the orders list command
var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders, optionally filtered by an expression",
	Long: `List orders created within the lookback window and print them. The
--filter flag takes an expression evaluated per order, e.g.:

  gomws orders list --filter 'Status == "Shipped" && Total > 50'
  gomws orders list --filter 'daysSince(PurchaseDate) < 7 && IsPrime'`,
	RunE: runOrdersList,
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersListCmd)

	ordersListCmd.Flags().IntVar(&ordersDays, "days", 7, "lookback window in days")
	ordersListCmd.Flags().StringSliceVar(&ordersStatuses, "status", nil, "order statuses to request")
	ordersListCmd.Flags().StringVarP(&ordersFilter, "filter", "f", "", "client-side filter expression")
	ordersListCmd.Flags().BoolVar(&ordersItems, "items", false, "also list each order's items")
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	var filter *orders.Filter
	if ordersFilter != "" {
		var err error
		filter, err = orders.CompileFilter(ordersFilter)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	ordersClient := orders.NewClient(client, logger)
	ctx := context.Background()

	logger.Info().Int("days", ordersDays).Msg("Listing orders")

	all, err := ordersClient.ListAll(ctx, orders.ListParams{
		CreatedAfter: time.Now().AddDate(0, 0, -ordersDays),
		Statuses:     ordersStatuses,
	})
	if err != nil {
		return err
	}

	if filter != nil {
		all = filter.Apply(all)
	}

	if len(all) == 0 {
		fmt.Println("No orders found matching the criteria.")
		return nil
	}

	fmt.Printf("\nFound %d orders:\n", len(all))
	fmt.Println(strings.Repeat("-", 80))

	for _, order := range all {
		total := "-"
		if order.OrderTotal != nil {
			total = fmt.Sprintf("%s %s", order.OrderTotal.Amount, order.OrderTotal.CurrencyCode)
		}
		fmt.Printf("• %s  %-18s %10s  %s\n",
			order.AmazonOrderID, order.OrderStatus, total,
			order.PurchaseDate.Format("2006-01-02"))

		if ordersItems {
			items, err := ordersClient.Items(ctx, order.AmazonOrderID)
			if err != nil {
				logger.Warn().Err(err).Str("order_id", order.AmazonOrderID).Msg("Failed to list order items")
				continue
			}
			for _, item := range items {
				fmt.Printf("    %dx %s (%s)\n", item.QuantityOrdered, item.Title, item.SellerSKU)
			}
		}
	}

	return nil
}
