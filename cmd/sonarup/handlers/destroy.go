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

// Destroy tears down the SonarQube stack in reverse dependency order. The
// plan is shown and confirmed before anything is deleted; the database goes
// without a final snapshot.
func Destroy(ctx context.Context, configPath string, autoApprove bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := checkPrerequisites(cfg); err != nil {
		return err
	}

	log.Printf("Planning teardown of stack: %s", topology.StackName(cfg))

	eng, g, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}

	plan, err := eng.PlanDestroy(ctx, g)
	if err != nil {
		return err
	}

	if plan.Empty() {
		fmt.Fprintln(stdout, "Nothing to destroy. No stack resources exist.")
		return nil
	}

	fmt.Fprint(stdout, ui.RenderPlan(plan))

	if !autoApprove {
		confirmed, err := newPrompter().Confirm("Destroy the stack? This deletes the database without a snapshot.")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(stdout, "Destroy aborted. No changes were made.")
			return engine.ErrAborted
		}
	}

	if _, err := eng.Apply(ctx, plan); err != nil {
		var applyErr *engine.ApplyError
		if errors.As(err, &applyErr) {
			fmt.Fprint(stdout, ui.RenderStatuses(applyErr.Statuses))
			fmt.Fprintln(stdout, "\nRe-run 'sonarup destroy' to continue from the failed step.")
		}
		return err
	}

	fmt.Fprintln(stdout, "Stack destroyed.")
	return nil
}
