package commands

import (
	"github.com/spf13/cobra"

	"github.com/sonarup/sonarup/cmd/sonarup/handlers"
)

// Outputs returns the command for printing the stack outputs.
//
// Optional flags:
//
//	--config, -c: Path to the stack configuration YAML file (default: auto-detect sonarup.yaml)
func Outputs() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Show the outputs of a provisioned stack",
		Long: `Show the outputs of a provisioned stack: the SonarQube URL, the database
endpoint, the cluster, and the command to retrieve the stored database
credential.

Examples:
  sonarup outputs`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Outputs(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: sonarup.yaml)")

	return cmd
}
