package commands

import (
	"os"

	"github.com/spf13/cobra"
)

// Completion returns the completion command for shell autocompletion.
func Completion() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for the given shell.

The script is written to stdout. Load it in the current session or
install it where the shell picks it up on startup:

  # bash, current session
  source <(director-aws completion bash)

  # bash, persistent (Linux)
  director-aws completion bash > /etc/bash_completion.d/director-aws

  # zsh, persistent
  director-aws completion zsh > "${fpath[1]}/_director-aws"

  # fish, persistent
  director-aws completion fish > ~/.config/fish/completions/director-aws.fish

  # powershell, add to your profile
  director-aws completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := os.Stdout
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
