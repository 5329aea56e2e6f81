package commands

import (
	"github.com/spf13/cobra"

	"github.com/sonarup/sonarup/cmd/sonarup/handlers"
)

// Destroy returns the command for tearing down the stack.
//
// Resources are deleted in reverse dependency order. The command shows what
// will be deleted and asks for confirmation first.
//
// Optional flags:
//
//	--config, -c: Path to the stack configuration YAML file (default: auto-detect sonarup.yaml)
//	--auto-approve: Skip the confirmation prompt
func Destroy() *cobra.Command {
	var (
		configPath  string
		autoApprove bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear down the SonarQube stack",
		Long: `Tear down the SonarQube stack.

All resources provisioned by apply are deleted in reverse dependency order:
the service first, the network last. The database is deleted without a final
snapshot.

Examples:
  # Destroy the stack described by sonarup.yaml
  sonarup destroy

  # Destroy without the confirmation prompt (CI)
  sonarup destroy --auto-approve`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, autoApprove)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: sonarup.yaml)")
	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Skip the confirmation prompt")

	return cmd
}
