package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the helpdesk",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set DESKD_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set DESKD_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("DESKD_EMAIL")
	}
	if password == "" {
		password = os.Getenv("DESKD_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or DESKD_EMAIL env var)")
	}

	if password == "" {
		read, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		password = read
	}

	if err := validateForm(loginForm{Email: email, Password: password}); err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}

	fmt.Printf("Signing in to %s...\n", app.cfg.APIURL)

	result := app.store.Login(context.Background(), email, password)
	if !result.Success {
		return fmt.Errorf("login failed: %s", result.Error)
	}

	user := app.store.CurrentUser()
	fmt.Println("✓ Login successful!")
	fmt.Printf("  User: %s (%s)\n", user.Name, user.Email)
	fmt.Printf("  Role: %s\n", user.Role)

	return nil
}

// promptPassword reads a password without echo when stdin is a
// terminal, and refuses to hang in non-interactive mode.
func promptPassword(prompt string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or DESKD_PASSWORD env var)")
	}

	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println() // New line after password input

	return string(bytePassword), nil
}
