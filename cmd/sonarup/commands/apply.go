package commands

import (
	"github.com/spf13/cobra"

	"github.com/sonarup/sonarup/cmd/sonarup/handlers"
)

// Apply returns the command for provisioning or updating the stack.
//
// The command plans against live AWS state, shows the plan, and asks for
// confirmation before applying. Only "yes" (or "y", case-insensitive)
// proceeds; any other answer aborts with no changes made.
//
// Optional flags:
//
//	--config, -c: Path to the stack configuration YAML file (default: auto-detect sonarup.yaml)
//	--auto-approve: Skip the confirmation prompt
//
// Environment variables:
//
//	SONARUP_REGION: Overrides the configured AWS region
//	SONARUP_DB_PASSWORD: Pre-supplies the database master password
func Apply() *cobra.Command {
	var (
		configPath  string
		autoApprove bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update the SonarQube stack",
		Long: `Create or update your SonarQube stack.

This command provisions all AWS resources the stack needs: VPC and subnets,
security groups, the managed PostgreSQL database, the credential secret, and
the SonarQube service on Fargate behind a load balancer.

If no config file is specified, it looks for sonarup.yaml in the current
directory. Use 'sonarup init' to create a configuration file.

Examples:
  # Provision using sonarup.yaml in the current directory
  sonarup apply

  # Provision using a specific config file
  sonarup apply -c production.yaml

  # Apply without the confirmation prompt (CI)
  sonarup apply --auto-approve`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath, autoApprove)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: sonarup.yaml)")
	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Skip the confirmation prompt")

	return cmd
}
