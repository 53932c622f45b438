package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deskd-dev/deskd/internal/session"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var name, email, password, role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(name, email, password, role)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address (or set DESKD_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set DESKD_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&role, "role", string(session.RoleUser), "Account role (admin, agent, user)")

	return cmd
}

func runRegister(name, email, password, role string) error {
	if email == "" {
		email = os.Getenv("DESKD_EMAIL")
	}
	if password == "" {
		password = os.Getenv("DESKD_PASSWORD")
	}

	if password == "" {
		read, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		password = read
	}

	if err := validateForm(registerForm{Name: name, Email: email, Password: password, Role: role}); err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}

	result := app.store.Register(context.Background(), name, email, password, session.Role(role))
	if !result.Success {
		return fmt.Errorf("registration failed: %s", result.Error)
	}

	user := app.store.CurrentUser()
	fmt.Println("✓ Account created!")
	fmt.Printf("  User: %s (%s)\n", user.Name, user.Email)
	fmt.Printf("  Role: %s\n", user.Role)

	return nil
}
