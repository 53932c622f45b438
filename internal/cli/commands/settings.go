package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewSettingsCmd creates the settings command group (admin only)
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View and tune system settings (admins)",
	}

	cmd.AddCommand(newSettingsShowCmd())
	cmd.AddCommand(newSettingsSetCmd())

	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current system settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireView("/settings"); err != nil {
				return err
			}

			cfg, err := app.client.GetSystemConfig(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("auto-close enabled:     %t\n", cfg.AutoCloseEnabled)
			fmt.Printf("confidence threshold:   %.2f\n", cfg.ConfidenceThreshold)
			fmt.Printf("SLA hours:              %d\n", cfg.SLAHours)
			fmt.Printf("max tickets per user:   %d\n", cfg.MaxTicketsPerUser)
			fmt.Printf("email notifications:    %t\n", cfg.EmailNotificationsEnabled)
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var (
		autoClose          bool
		confidence         float64
		slaHours           int
		maxTickets         int
		emailNotifications bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the system settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireView("/settings"); err != nil {
				return err
			}

			ctx := context.Background()

			// Start from the current settings so unset flags keep
			// their values.
			current, err := app.client.GetSystemConfig(ctx)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("auto-close") {
				current.AutoCloseEnabled = autoClose
			}
			if cmd.Flags().Changed("confidence") {
				current.ConfidenceThreshold = confidence
			}
			if cmd.Flags().Changed("sla-hours") {
				current.SLAHours = slaHours
			}
			if cmd.Flags().Changed("max-tickets") {
				current.MaxTicketsPerUser = maxTickets
			}
			if cmd.Flags().Changed("email-notifications") {
				current.EmailNotificationsEnabled = emailNotifications
			}

			updated, err := app.client.UpdateSystemConfig(ctx, *current)
			if err != nil {
				return err
			}

			fmt.Println("✓ Configuration updated")
			fmt.Printf("  SLA hours: %d, max tickets per user: %d\n", updated.SLAHours, updated.MaxTicketsPerUser)
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoClose, "auto-close", false, "Auto-close resolved tickets")
	cmd.Flags().Float64Var(&confidence, "confidence", 0, "Agent suggestion confidence threshold")
	cmd.Flags().IntVar(&slaHours, "sla-hours", 0, "SLA window in hours")
	cmd.Flags().IntVar(&maxTickets, "max-tickets", 0, "Maximum open tickets per user")
	cmd.Flags().BoolVar(&emailNotifications, "email-notifications", false, "Send email notifications")

	return cmd
}
