package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server and alert status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := apiClient.Health(ctx); err != nil {
				return fmt.Errorf("server not reachable: %w", err)
			}

			summary, err := apiClient.Alerts().Summary(ctx)
			if err != nil {
				return fmt.Errorf("failed to get summary: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(summary)
			}

			fmt.Println("CreditWatch")
			fmt.Println(strings.Repeat("=", 40))
			fmt.Printf("  Server:          reachable\n")
			fmt.Printf("  Alerts:          %d total\n", summary.Total)
			fmt.Printf("  Unread:          %d", summary.Unread)
			if summary.CriticalUnread > 0 {
				fmt.Printf(" (%d critical)", summary.CriticalUnread)
			}
			fmt.Println()
			return nil
		},
	}
}
