package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sellerkit/gomws/status"
)

// statusConcurrency bounds the section fan-out.
const statusConcurrency = 4

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status [section...]",
	Short: "Check MWS service status per API section",
	Long: `Query GetServiceStatus for one or more MWS API sections and print the
result. With no arguments every known section is checked.

Note that Amazon restores the service-status quota once every five
minutes per section; repeated runs wait out that spacing.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	sections := status.Sections
	if len(args) > 0 {
		sections = make([]status.Section, len(args))
		for i, arg := range args {
			sections[i] = status.Section(arg)
		}
	}

	statusClient := status.NewClient(client, logger)
	ctx := context.Background()

	// Fetch sections concurrently; each section holds its own status
	// quota, so the fan-out doesn't fight the throttler.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(statusConcurrency)

	var mu sync.Mutex
	results := make(map[status.Section]*status.ServiceStatus)

	for _, section := range sections {
		g.Go(func() error {
			st, err := statusClient.Get(ctx, section)
			if err != nil {
				return fmt.Errorf("%s: %w", section, err)
			}
			mu.Lock()
			results[section] = st
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	keys := make([]string, 0, len(results))
	for section := range results {
		keys = append(keys, string(section))
	}
	sort.Strings(keys)

	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("%-30s %-10s %s\n", "SECTION", "STATUS", "CHECKED")
	fmt.Println(strings.Repeat("-", 72))
	for _, key := range keys {
		st := results[status.Section(key)]
		fmt.Printf("%-30s %-10s %s\n", key, st.Status, st.Timestamp.Format("2006-01-02 15:04:05"))
		for _, msg := range st.Messages {
			fmt.Printf("  • [%s] %s\n", msg.Locale, msg.Text)
		}
	}

	return nil
}
