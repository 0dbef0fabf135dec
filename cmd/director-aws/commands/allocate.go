package commands

import (
	"github.com/spf13/cobra"

	"github.com/cloudera/director-aws/cmd/director-aws/handlers"
)

// Allocate returns the command for allocating a batch of instances.
//
// Each argument is a virtual instance ID chosen by the caller. IDs that
// already have a live instance reuse it; the rest get one launched. The
// command waits until every instance is ready, gone, or the allocation
// timeout elapses.
//
// Flags:
//
//	--min, -m: Minimum ready count the call must reach (default: all)
//	--config, -c: Path to configuration file (default: auto-detect director.yaml)
//	--plain: Disable the live progress view
func Allocate() *cobra.Command {
	var (
		configPath string
		minCount   int
		plain      bool
	)

	cmd := &cobra.Command{
		Use:   "allocate <virtual-id>...",
		Short: "Allocate instances for the given virtual IDs",
		Long: `Allocate instances for the given virtual instance IDs.

Virtual IDs are caller-chosen identifiers. Each ID is correlated to its
instance through provider tags; re-running allocate with the same IDs
reuses instances that survived and only launches what is missing, so an
interrupted or partially failed run can simply be retried.

The command succeeds when at least --min instances reach ready. IDs that
did not make it are reported with their outcome. With --min 0 the command
always succeeds and simply reports what settled.

Examples:
  # Allocate three instances, all must become ready
  director-aws allocate node-1 node-2 node-3

  # Accept partial results: succeed once 2 of 3 are ready
  director-aws allocate node-1 node-2 node-3 --min 2

  # Retry after a failure; surviving instances are reused
  director-aws allocate node-1 node-2 node-3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			min := minCount
			if !cmd.Flags().Changed("min") {
				min = len(args)
			}
			return handlers.Allocate(cmd.Context(), configPath, args, min, plain)
		},
	}

	cmd.Flags().IntVarP(&minCount, "min", "m", 0, "Minimum ready count (default: every requested ID)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: director.yaml)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable the live progress view")

	return cmd
}
