package commands

import (
	"github.com/spf13/cobra"

	"github.com/cloudera/director-aws/cmd/director-aws/handlers"
)

// Delete returns the command for terminating instances by virtual ID.
//
// Termination covers every instance carrying one of the given IDs,
// including duplicates left behind by interrupted allocations. IDs with
// nothing behind them are skipped, so delete can be retried safely.
//
// Flags:
//
//	--config, -c: Path to configuration file (default: auto-detect director.yaml)
//	--yes, -y: Skip the confirmation prompt
func Delete() *cobra.Command {
	var (
		configPath string
		skipPrompt bool
	)

	cmd := &cobra.Command{
		Use:   "delete <virtual-id>...",
		Short: "Terminate the instances behind the given virtual IDs",
		Long: `Terminate the instances behind the given virtual instance IDs.

All instances carrying one of the given IDs are terminated, including
duplicates left behind by interrupted allocations. IDs with no instance
behind them are skipped. Re-running delete with the same IDs is safe.

Examples:
  # Tear down three instances
  director-aws delete node-1 node-2 node-3

  # Tear down without a confirmation prompt
  director-aws delete node-1 node-2 node-3 --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Delete(cmd.Context(), configPath, args, skipPrompt)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: director.yaml)")
	cmd.Flags().BoolVarP(&skipPrompt, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
