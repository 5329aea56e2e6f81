package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/sonarup/sonarup/internal/topology"
	"github.com/sonarup/sonarup/internal/ui"
)

// Plan computes and prints the changes an apply would make. Nothing is
// mutated.
func Plan(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log.Printf("Planning stack: %s", topology.StackName(cfg))

	eng, g, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}

	plan, err := eng.Plan(ctx, g)
	if err != nil {
		return err
	}

	if plan.Empty() {
		fmt.Fprintln(stdout, "No changes. The stack matches the configuration.")
		return nil
	}
	fmt.Fprint(stdout, ui.RenderPlan(plan))
	return nil
}
