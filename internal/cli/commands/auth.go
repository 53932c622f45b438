package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deskd-dev/deskd/internal/cli/userconfig"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}

			app.store.Logout()
			fmt.Println("✓ Signed out")
			return nil
		},
	}
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}

			user := app.store.CurrentUser()
			if user == nil {
				return fmt.Errorf("not signed in. Run 'deskd login' first")
			}

			fmt.Printf("User:  %s (%s)\n", user.Name, user.Email)
			fmt.Printf("Role:  %s\n", user.Role)
			if expiry, ok := app.store.TokenExpiry(); ok {
				fmt.Printf("Token: expires %s\n", expiry.Format(time.RFC3339))
			}
			return nil
		},
	}
}

// NewRefreshCmd creates the refresh command
func NewRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rotate the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}

			if app.store.CurrentUser() == nil {
				return fmt.Errorf("not signed in. Run 'deskd login' first")
			}

			if !app.store.RefreshToken(context.Background()) {
				return fmt.Errorf("session expired, signed out. Run 'deskd login' again")
			}

			fmt.Println("✓ Token refreshed")
			return nil
		},
	}
}

// NewUseCmd creates the use command, which points the CLI at a backend
func NewUseCmd() *cobra.Command {
	var useKeyring bool

	cmd := &cobra.Command{
		Use:   "use <api-url>",
		Short: "Select the helpdesk API to talk to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storage := userconfig.StorageFile
			if useKeyring {
				storage = userconfig.StorageKeyring
			}

			if err := userconfig.SetServer(args[0], storage); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("✓ Using %s (token storage: %s)\n", args[0], storage)
			return nil
		},
	}

	cmd.Flags().BoolVar(&useKeyring, "keyring", false, "Keep the token in the OS keychain instead of a file")

	return cmd
}
