package handlers

import (
	"context"
	"fmt"
)

// Doctor diagnoses the local environment: configuration validity, client
// tooling, and AWS access. It reports every problem it finds rather than
// stopping at the first.
func Doctor(ctx context.Context, configPath string) error {
	healthy := true

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stdout, "  [fail] configuration: %v\n", err)
		healthy = false
	} else {
		fmt.Fprintf(stdout, "  [ ok ] configuration: stack %q in %s\n", cfg.Name, cfg.Region)
	}

	results := checkAllPrereqs()
	for _, r := range results.Results {
		switch {
		case r.Found:
			version := r.Version
			if version == "" {
				version = "unknown version"
			}
			fmt.Fprintf(stdout, "  [ ok ] tool %s (%s)\n", r.Tool.Name, version)
		case r.Tool.Required:
			fmt.Fprintf(stdout, "  [fail] tool %s missing: %s\n", r.Tool.Name, r.Tool.InstallURL)
			healthy = false
		default:
			fmt.Fprintf(stdout, "  [warn] optional tool %s missing: %s\n", r.Tool.Name, r.Tool.Description)
		}
	}

	if cfg != nil {
		client, err := newCloudClient(ctx, cfg.Region)
		if err != nil {
			fmt.Fprintf(stdout, "  [fail] AWS client: %v\n", err)
			healthy = false
		} else if identity, err := client.CallerIdentity(ctx); err != nil {
			fmt.Fprintf(stdout, "  [fail] AWS credentials: %v\n", err)
			healthy = false
		} else {
			fmt.Fprintf(stdout, "  [ ok ] AWS credentials: %s (account %s)\n", identity.ARN, identity.Account)
		}
	}

	if !healthy {
		return fmt.Errorf("environment is not ready, fix the failures above")
	}
	fmt.Fprintln(stdout, "\nEverything looks good.")
	return nil
}
