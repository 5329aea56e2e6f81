package handlers

import (
	"context"
	"fmt"

	"github.com/sonarup/sonarup/internal/topology"
	"github.com/sonarup/sonarup/internal/ui"
)

// Outputs prints the outputs of a provisioned stack: URL, database endpoint,
// cluster, secret, and the credential retrieval command. It reads live state
// and mutates nothing.
func Outputs(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	eng, g, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}

	plan, err := eng.Plan(ctx, g)
	if err != nil {
		return err
	}

	out := topology.ComputeOutputs(cfg, plan.Live)
	if out.URL == "" {
		fmt.Fprintln(stdout, "The stack is not (fully) provisioned. Run 'sonarup apply' first.")
	}
	fmt.Fprint(stdout, ui.RenderOutputs(out))
	return nil
}
