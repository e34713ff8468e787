package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"visacrm/internal/app"
)

func newSeedCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixtures.yaml>",
		Short: "Load branch and user fixtures from a YAML file",
		Long: `Load branches and staff users from a YAML fixture file. Existing rows
(matched by branch code and user email) are left untouched, so re-running
the command is safe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, closeFn, err := openApp(*dbPath)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := app.Seed(cmd.Context(), application, args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stdout, "seeded fixtures from %s\n", args[0])
			return nil
		},
	}
}
