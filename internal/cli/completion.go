package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCompletionCmd())
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for logsift.

To load completions:

Bash:
  $ source <(logsift completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ logsift completion bash > /etc/bash_completion.d/logsift
  # macOS:
  $ logsift completion bash > $(brew --prefix)/etc/bash_completion.d/logsift

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ logsift completion zsh > "${fpath[1]}/_logsift"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ logsift completion fish | source

  # To load completions for each session, execute once:
  $ logsift completion fish > ~/.config/fish/completions/logsift.fish

PowerShell:
  PS> logsift completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> logsift completion powershell > logsift.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}

	return cmd
}
