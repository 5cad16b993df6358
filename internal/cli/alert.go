package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/creditwatch/pkg/client"
)

func newAlertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Manage alerts",
	}

	cmd.AddCommand(newAlertListCmd())
	cmd.AddCommand(newAlertGetCmd())
	cmd.AddCommand(newAlertSummaryCmd())
	cmd.AddCommand(newAlertReadCmd())
	cmd.AddCommand(newAlertReadAllCmd())
	cmd.AddCommand(newAlertDismissCmd())
	cmd.AddCommand(newAlertResolveCmd())
	cmd.AddCommand(newAlertDeleteCmd())
	cmd.AddCommand(newAlertClearCmd())

	return cmd
}

func newAlertListCmd() *cobra.Command {
	var severity, status, alertType, entityID string
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			opts := &client.AlertListOptions{
				ListOptions: client.ListOptions{Page: page, PageSize: pageSize},
				EntityID:    entityID,
			}
			if severity != "" {
				opts.Severities = strings.Split(severity, ",")
			}
			if status != "" {
				opts.Statuses = strings.Split(status, ",")
			}
			if alertType != "" {
				opts.Types = strings.Split(alertType, ",")
			}

			result, err := apiClient.Alerts().List(ctx, opts)
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			t := NewTable("ID", "TYPE", "SEVERITY", "STATUS", "ENTITY", "TITLE")
			for _, a := range result.Data {
				t.AddRow(
					truncate(a.ID, 12),
					a.Type,
					formatSeverity(a.Severity),
					formatStatus(a.Status),
					truncate(a.EntityName, 24),
					truncate(a.Title, 50),
				)
			}
			t.Render()
			fmt.Printf("\nPage %d of %d (%d alerts)\n", result.Page, result.TotalPages, result.TotalItems)
			return nil
		},
	}

	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity (comma-separated)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (comma-separated)")
	cmd.Flags().StringVar(&alertType, "type", "", "filter by type (comma-separated)")
	cmd.Flags().StringVar(&entityID, "entity", "", "filter by entity ID")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "page size")

	return cmd
}

func newAlertGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get alert details (marks the alert read)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			alert, err := apiClient.Alerts().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get alert: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(alert)
			}

			fmt.Printf("ID:       %s\n", alert.ID)
			fmt.Printf("Type:     %s\n", alert.Type)
			fmt.Printf("Severity: %s\n", formatSeverity(alert.Severity))
			fmt.Printf("Status:   %s\n", alert.Status)
			fmt.Printf("Title:    %s\n", alert.Title)
			fmt.Printf("Message:  %s\n", alert.Message)
			if alert.EntityName != "" {
				fmt.Printf("Entity:   %s (%s)\n", alert.EntityName, alert.EntityID)
			}
			fmt.Printf("Created:  %s\n", alert.CreatedAt.Format("2006-01-02 15:04:05"))
			if alert.ReadAt != nil {
				fmt.Printf("Read:     %s\n", alert.ReadAt.Format("2006-01-02 15:04:05"))
			}
			if alert.DismissedAt != nil {
				fmt.Printf("Dismissed: %s\n", alert.DismissedAt.Format("2006-01-02 15:04:05"))
			}
			if alert.ResolvedAt != nil {
				fmt.Printf("Resolved: %s\n", alert.ResolvedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func newAlertSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show alert summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			summary, err := apiClient.Alerts().Summary(ctx)
			if err != nil {
				return fmt.Errorf("failed to get summary: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(summary)
			}

			fmt.Printf("Total:           %d\n", summary.Total)
			fmt.Printf("Unread:          %d\n", summary.Unread)
			fmt.Printf("Critical unread: %d\n", summary.CriticalUnread)
			if len(summary.BySeverity) > 0 {
				fmt.Println("\nBy severity:")
				for _, sev := range []string{"critical", "high", "medium", "low"} {
					if n := summary.BySeverity[sev]; n > 0 {
						fmt.Printf("  %-10s %d\n", sev, n)
					}
				}
			}
			if len(summary.ByType) > 0 {
				fmt.Println("\nBy type:")
				for typ, n := range summary.ByType {
					fmt.Printf("  %-14s %d\n", typ, n)
				}
			}
			return nil
		},
	}
}

func newAlertReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Mark an alert as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Alerts().MarkRead(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to mark alert as read: %w", err)
			}
			fmt.Println("Alert marked as read")
			return nil
		},
	}
}

func newAlertReadAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark all alerts as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Alerts().MarkAllRead(context.Background()); err != nil {
				return fmt.Errorf("failed to mark alerts as read: %w", err)
			}
			fmt.Println("All alerts marked as read")
			return nil
		},
	}
}

func newAlertDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <id>",
		Short: "Dismiss an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Alerts().Dismiss(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to dismiss alert: %w", err)
			}
			fmt.Println("Alert dismissed")
			return nil
		},
	}
}

func newAlertResolveCmd() *cobra.Command {
	var resolution string

	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Resolve an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Alerts().Resolve(context.Background(), args[0], resolution); err != nil {
				return fmt.Errorf("failed to resolve alert: %w", err)
			}
			fmt.Println("Alert resolved")
			return nil
		},
	}

	cmd.Flags().StringVarP(&resolution, "resolution", "r", "", "resolution note")

	return cmd
}

func newAlertDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently delete an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Alerts().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete alert: %w", err)
			}
			fmt.Println("Alert deleted")
			return nil
		},
	}
}

func newAlertClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every alert",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear all alerts without --yes")
			}
			if err := apiClient.Alerts().ClearAll(context.Background()); err != nil {
				return fmt.Errorf("failed to clear alerts: %w", err)
			}
			fmt.Println("All alerts cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing all alerts")

	return cmd
}
