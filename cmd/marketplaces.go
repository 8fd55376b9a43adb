package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sellerkit/gomws/sellers"
)

// marketplacesCmd represents the marketplaces command
var marketplacesCmd = &cobra.Command{
	Use:   "marketplaces",
	Short: "List the marketplaces this store participates in",
	RunE:  runMarketplaces,
}

func init() {
	rootCmd.AddCommand(marketplacesCmd)
}

func runMarketplaces(cmd *cobra.Command, args []string) error {
	sellersClient := sellers.NewClient(client, logger)

	result, err := sellersClient.ListParticipations(context.Background())
	if err != nil {
		return err
	}

	if len(result.Marketplaces) == 0 {
		fmt.Println("No marketplace participations found.")
		return nil
	}

	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("%-16s %-24s %-8s %s\n", "MARKETPLACE", "NAME", "COUNTRY", "DOMAIN")
	fmt.Println(strings.Repeat("-", 72))
	for _, m := range result.Marketplaces {
		fmt.Printf("%-16s %-24s %-8s %s\n", m.ID, m.Name, m.DefaultCountryCode, m.DomainName)
	}

	return nil
}
