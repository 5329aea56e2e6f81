package commands

import (
	"github.com/spf13/cobra"

	"github.com/sonarup/sonarup/cmd/sonarup/handlers"
)

// Doctor returns the command for diagnosing the local environment.
//
// Optional flags:
//
//	--config, -c: Path to the stack configuration YAML file (default: auto-detect sonarup.yaml)
func Doctor() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration, tooling, and AWS access",
		Long: `Diagnose the local environment before provisioning:

  - Validates the configuration file
  - Checks required and optional client tools
  - Confirms AWS credentials resolve to an identity

Examples:
  sonarup doctor`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: sonarup.yaml)")

	return cmd
}
