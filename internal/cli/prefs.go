package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/creditwatch/pkg/client"
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage notification preferences",
	}

	cmd.AddCommand(newPrefsShowCmd())
	cmd.AddCommand(newPrefsSetCmd())

	return cmd
}

func newPrefsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show notification preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := apiClient.Notifications().GetPreferences(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get preferences: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(prefs)
			}

			fmt.Printf("Sound:   %s\n", onOff(prefs.EnableSound))
			fmt.Printf("Desktop: %s\n", onOff(prefs.EnableDesktop))
			fmt.Printf("Email:   %s\n", onOff(prefs.EnableEmail))
			fmt.Printf("SMS:     %s\n", onOff(prefs.EnableSMS))
			if len(prefs.MutedTypes) > 0 {
				fmt.Printf("Muted:   %s\n", strings.Join(prefs.MutedTypes, ", "))
			}
			return nil
		},
	}
}

func newPrefsSetCmd() *cobra.Command {
	var sound, desktop, email, sms bool
	var muted string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace notification preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs := client.Preferences{
				EnableSound:   sound,
				EnableDesktop: desktop,
				EnableEmail:   email,
				EnableSMS:     sms,
			}
			if muted != "" {
				prefs.MutedTypes = strings.Split(muted, ",")
			}

			updated, err := apiClient.Notifications().UpdatePreferences(context.Background(), prefs)
			if err != nil {
				return fmt.Errorf("failed to update preferences: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(updated)
			}
			fmt.Println("Preferences updated")
			return nil
		},
	}

	cmd.Flags().BoolVar(&sound, "sound", true, "enable sound cue for critical alerts")
	cmd.Flags().BoolVar(&desktop, "desktop", true, "enable desktop notifications")
	cmd.Flags().BoolVar(&email, "email", false, "enable email notifications")
	cmd.Flags().BoolVar(&sms, "sms", false, "enable SMS notifications")
	cmd.Flags().StringVar(&muted, "muted", "", "muted alert types (comma-separated)")

	return cmd
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
