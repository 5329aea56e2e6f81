package commands

import (
	"github.com/spf13/cobra"

	"github.com/sonarup/sonarup/cmd/sonarup/handlers"
)

// Plan returns the command for previewing changes without applying them.
//
// Optional flags:
//
//	--config, -c: Path to the stack configuration YAML file (default: auto-detect sonarup.yaml)
func Plan() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the changes an apply would make",
		Long: `Compute and show the changes an apply would make, without mutating
anything.

Examples:
  # Preview against sonarup.yaml in the current directory
  sonarup plan

  # Preview a specific config file
  sonarup plan -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: sonarup.yaml)")

	return cmd
}
