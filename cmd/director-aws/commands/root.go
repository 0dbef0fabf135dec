// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the director-aws CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "director-aws",
		Short: "Allocate and reconcile groups of cloud instances",
	}

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Allocate())
	cmd.AddCommand(Find())
	cmd.AddCommand(State())
	cmd.AddCommand(Delete())

	// Utility commands
	cmd.AddCommand(Keypair())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
