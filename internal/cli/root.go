package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deskd-dev/deskd/internal/cli/commands"
	"github.com/deskd-dev/deskd/internal/logger"
)

var version = "dev" // Will be set during build

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "deskd",
	Short: "Deskd - Helpdesk from your terminal",
	Long: `Deskd CLI - Create and browse support tickets, manage the
knowledge base and tune system settings from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logger.Init(level, "console")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("deskd version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewUseCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewRefreshCmd())
	rootCmd.AddCommand(commands.NewTicketsCmd())
	rootCmd.AddCommand(commands.NewKBCmd())
	rootCmd.AddCommand(commands.NewSettingsCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
