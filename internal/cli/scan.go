package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run a portfolio scan now",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			result, err := apiClient.Scans().Run(ctx)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			fmt.Printf("Scanned %d entities in %dms: %d triggers\n",
				result.Entities, result.DurationMS, result.Triggers)

			if len(result.Alerts) == 0 {
				fmt.Println("No new alerts")
				return nil
			}

			t := NewTable("ID", "TYPE", "SEVERITY", "ENTITY", "TITLE")
			for _, a := range result.Alerts {
				t.AddRow(
					truncate(a.ID, 12),
					a.Type,
					formatSeverity(a.Severity),
					truncate(a.EntityName, 24),
					truncate(a.Title, 50),
				)
			}
			t.Render()
			return nil
		},
	}
}
