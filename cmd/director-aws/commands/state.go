package commands

import (
	"github.com/spf13/cobra"

	"github.com/cloudera/director-aws/cmd/director-aws/handlers"
)

// State returns the command for reporting per-instance lifecycle states.
//
// Every requested virtual ID appears in the output. IDs with no instance
// behind them are reported as deleted rather than omitted, which makes the
// output usable as a reconciliation snapshot.
//
// Flags:
//
//	--config, -c: Path to configuration file (default: auto-detect director.yaml)
func State() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "state <virtual-id>...",
		Short: "Report the lifecycle state of the given virtual IDs",
		Long: `Report the lifecycle state of the given virtual instance IDs.

Every requested ID is listed with its provider state (pending, running,
stopped, deleted, and so on). IDs with no instance behind them report as
deleted. When several instances carry the same ID, the state of a live
one wins over terminated leftovers.

Examples:
  # Check on three instances
  director-aws state node-1 node-2 node-3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.State(cmd.Context(), configPath, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: director.yaml)")

	return cmd
}
