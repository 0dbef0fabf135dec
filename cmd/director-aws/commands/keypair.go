package commands

import (
	"github.com/spf13/cobra"

	"github.com/cloudera/director-aws/cmd/director-aws/handlers"
)

// Keypair returns the command for generating and registering an SSH key pair.
//
// The command writes a fresh RSA key pair to disk and imports the public
// half with the provider so launched instances can reference it by name.
//
// Flags:
//
//	--name, -n: Key pair name to register (default: "<name-prefix>-key")
//	--out: Directory to write the key files into (default ".")
//	--config, -c: Path to configuration file (default: auto-detect director.yaml)
func Keypair() *cobra.Command {
	var (
		configPath string
		keyName    string
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "keypair",
		Short: "Generate an SSH key pair and register it with the provider",
		Long: `Generate an SSH key pair and register it with the cloud provider.

A 4096-bit RSA key pair is written to the output directory and the
public key is imported under the given name. Reference the name in the
configuration's key_name field to install it on allocated instances.

Examples:
  # Generate and register a key named after the configured prefix
  director-aws keypair

  # Pick the registered name and output directory explicitly
  director-aws keypair --name build-key --out ~/.ssh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Keypair(cmd.Context(), configPath, keyName, outDir)
		},
	}

	cmd.Flags().StringVarP(&keyName, "name", "n", "", "Key pair name to register (default: <name-prefix>-key)")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to write the key files into")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: director.yaml)")

	return cmd
}
