// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the sonarup CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sonarup",
		Short: "Provision SonarQube on AWS",
		Long: `sonarup provisions a complete SonarQube stack on AWS: network, managed
PostgreSQL database, stored credentials, and the SonarQube server on Fargate
behind an application load balancer.`,
	}

	cmd.AddCommand(Init())
	cmd.AddCommand(Plan())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Outputs())
	cmd.AddCommand(Doctor())
	cmd.AddCommand(Version())

	return cmd
}
