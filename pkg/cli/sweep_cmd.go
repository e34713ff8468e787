package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newSweepCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a retention sweep now",
		Long: `Anonymize soft-deleted leads and students whose retention window has
expired. The same sweep runs inside the server on a cron schedule; this
command exists for one-off runs and compliance audits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, closeFn, err := openApp(*dbPath)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := application.Services.Sweeper.Sweep(cmd.Context(), time.Now().UTC())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stdout, "anonymized %d leads, %d students\n", result.Leads, result.Students)
			return nil
		},
	}
}
