package commands

import (
	"github.com/spf13/cobra"

	"github.com/cloudera/director-aws/cmd/director-aws/handlers"
)

// Find returns the command for looking up live instances by virtual ID.
//
// Unlike allocate, find never launches or terminates anything. It is the
// read-only view of which virtual IDs currently map to a live instance.
//
// Flags:
//
//	--config, -c: Path to configuration file (default: auto-detect director.yaml)
func Find() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "find <virtual-id>...",
		Short: "Look up live instances for the given virtual IDs",
		Long: `Look up live instances for the given virtual instance IDs.

Only IDs with a live instance appear in the output. IDs whose instance
was terminated, or that never had one launched, are silently omitted.
The lookup is read-only and never changes provider state.

Examples:
  # Show which of three instances exist
  director-aws find node-1 node-2 node-3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Find(cmd.Context(), configPath, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: director.yaml)")

	return cmd
}
