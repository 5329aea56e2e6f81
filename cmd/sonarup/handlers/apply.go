package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sonarup/sonarup/internal/engine"
	"github.com/sonarup/sonarup/internal/topology"
	"github.com/sonarup/sonarup/internal/ui"
)

// Apply provisions or updates the SonarQube stack.
//
// The workflow:
//  1. Loads and validates the stack configuration
//  2. Checks client tool prerequisites (can be disabled in config)
//  3. Authenticates against AWS, failing before any mutation if that fails
//  4. Resolves the database password (config, stored secret, or generated)
//  5. Plans against live state and shows the plan
//  6. Asks for confirmation unless --auto-approve was given
//  7. Applies in dependency order, one resource at a time
//  8. Prints the stack outputs
//
// A declined confirmation returns engine.ErrAborted with nothing mutated. A
// failed step aborts the rest of the apply; re-running plans against the
// partially provisioned state and continues where it stopped.
func Apply(ctx context.Context, configPath string, autoApprove bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := checkPrerequisites(cfg); err != nil {
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
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, ui.RenderOutputs(topology.ComputeOutputs(cfg, plan.Live)))
		return nil
	}

	fmt.Fprint(stdout, ui.RenderPlan(plan))

	if !autoApprove {
		confirmed, err := newPrompter().Confirm("Apply these changes?")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(stdout, "Apply aborted. No changes were made.")
			return engine.ErrAborted
		}
	}

	outputs, err := eng.Apply(ctx, plan)
	if err != nil {
		var applyErr *engine.ApplyError
		if errors.As(err, &applyErr) {
			fmt.Fprint(stdout, ui.RenderStatuses(applyErr.Statuses))
			fmt.Fprintln(stdout, "\nRe-run 'sonarup apply' to continue from the failed step.")
		}
		return err
	}

	fmt.Fprintln(stdout)
	fmt.Fprint(stdout, ui.RenderOutputs(topology.ComputeOutputs(cfg, outputs)))
	return nil
}
