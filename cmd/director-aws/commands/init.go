package commands

import (
	"github.com/spf13/cobra"

	"github.com/cloudera/director-aws/cmd/director-aws/handlers"
)

// Init returns the command for interactively creating a configuration file.
//
// This command guides users through creating a deployment configuration YAML
// file using an interactive wizard with text inputs and select prompts.
//
// Flags:
//
//	--output, -o: Path to output file (default "director.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create a deployment configuration file.

This command guides you through configuring a deployment step by step.
It will ask about:

  - Cloud provider (AWS EC2, AWS RDS, or Hetzner Cloud)
  - Region and instance name prefix
  - Instance tagging strategy
  - Machine image and instance type
  - Network placement and security groups (optional)
  - SSH key pair name (optional)

The resulting file is read by the allocate, find, state and delete
commands. Use --config on those commands to point at a file written
somewhere other than the default location.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "director.yaml", "Output file path")

	return cmd
}
