package commands

import (
	"github.com/spf13/cobra"

	"github.com/sonarup/sonarup/cmd/sonarup/handlers"
)

// Init returns the command for creating a stack configuration file.
//
// When a terminal is attached the command runs a short interactive wizard;
// otherwise the name must be passed via --name and defaults fill the rest.
//
// Flags:
//
//	--output, -o: Path to the output file (default "sonarup.yaml")
//	--name, -n: Stack name (skips the wizard prompt)
//	--region, -r: AWS region (skips the wizard prompt)
func Init() *cobra.Command {
	var (
		outputPath string
		name       string
		region     string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a stack configuration file",
		Long: `Create a stack configuration file.

This command asks for the stack name and AWS region and writes a
configuration with sensible defaults for everything else: database sizing,
container resources, and log retention. Edit the file afterwards to tune
them.

Examples:
  # Interactive
  sonarup init

  # Non-interactive
  sonarup init --name sonar --region eu-central-1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, name, region)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "sonarup.yaml", "Output file path")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Stack name")
	cmd.Flags().StringVarP(&region, "region", "r", "", "AWS region")

	return cmd
}
