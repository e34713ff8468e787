// Package cli implements the crmctl admin command-line interface. It
// operates directly on the database and is meant for operators, not staff.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:           "crmctl",
		Short:         "Visa CRM admin CLI",
		Long:          "Administrative command-line interface for the visa consultancy CRM backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Precedence: flag > env > default.
			if !cmd.Flags().Changed("db") {
				if v := os.Getenv("DB_PATH"); v != "" {
					dbPath = v
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "visacrm.sqlite", "path to the SQLite database file")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSeedCmd(&dbPath))
	rootCmd.AddCommand(newSweepCmd(&dbPath))
	rootCmd.AddCommand(newTokenCmd())

	return rootCmd
}
