package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/sonarup/sonarup/internal/config"
)

// runInitWizard prompts for the fields init cannot default. Replaced in
// tests.
var runInitWizard = func(name, region *string) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Stack name").
			Description("Lowercase alphanumeric with hyphens, prefixes every resource").
			Value(name),
		huh.NewSelect[string]().
			Title("AWS region").
			Options(
				huh.NewOption("Frankfurt (eu-central-1)", "eu-central-1"),
				huh.NewOption("Ireland (eu-west-1)", "eu-west-1"),
				huh.NewOption("N. Virginia (us-east-1)", "us-east-1"),
				huh.NewOption("Oregon (us-west-2)", "us-west-2"),
				huh.NewOption("Singapore (ap-southeast-1)", "ap-southeast-1"),
			).
			Value(region),
	))
	return form.Run()
}

// isInteractive reports whether a wizard can run. Replaced in tests.
var isInteractive = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// Init scaffolds a stack configuration file. Name and region come from
// flags or, when a terminal is attached, from a short wizard; everything
// else gets the documented defaults.
func Init(_ context.Context, outputPath, name, region string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists, not overwriting", outputPath)
	}

	if name == "" || region == "" {
		if !isInteractive() {
			return fmt.Errorf("no terminal attached: pass --name and --region")
		}
		if region == "" {
			region = config.DefaultRegion
		}
		if err := runInitWizard(&name, &region); err != nil {
			return fmt.Errorf("init wizard failed: %w", err)
		}
	}

	cfg := &config.Config{
		Name:        name,
		Region:      region,
		Environment: config.DefaultEnvironment,
		Image:       config.DefaultImage,
		Network:     config.NetworkConfig{CIDR: config.DefaultVPCCIDR},
		Database: config.DatabaseConfig{
			InstanceClass:    config.DefaultDBInstanceClass,
			EngineVersion:    config.DefaultDBEngineVersion,
			AllocatedStorage: config.DefaultDBStorageGiB,
			Name:             config.DefaultDBName,
			Username:         config.DefaultDBUsername,
		},
		Service: config.ServiceConfig{
			CPU:          config.DefaultCPU,
			MemoryMiB:    config.DefaultMemoryMiB,
			DesiredCount: config.DefaultDesiredCount,
		},
		LogRetentionDays: config.DefaultLogRetentionDays,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := writeConfigFile(cfg, outputPath); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Wrote %s.\n\nNext steps:\n", outputPath)
	fmt.Fprintln(stdout, "  1. Review and adjust the configuration")
	fmt.Fprintln(stdout, "  2. Run 'sonarup plan' to preview the stack")
	fmt.Fprintln(stdout, "  3. Run 'sonarup apply' to provision it")
	return nil
}
