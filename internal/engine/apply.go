package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sonarup/sonarup/internal/graph"
)

// StepStatus records where one declaration ended up during an apply run.
type StepStatus struct {
	Name   string
	Kind   graph.Kind
	Action Action
	Status graph.Status
}

// ApplyError reports a failed apply. The remaining sequence was aborted at
// Step; Statuses carries the state every declaration reached so the operator
// can re-run planning against the partially-live state.
type ApplyError struct {
	Step     string
	Statuses []StepStatus
	Err      error
}

func (e *ApplyError) Error() string {
	var applied, failed, pending int
	for _, s := range e.Statuses {
		switch s.Status {
		case graph.StatusApplied:
			applied++
		case graph.StatusFailed:
			failed++
		case graph.StatusPending:
			pending++
		}
	}
	return fmt.Sprintf("apply failed at %q: %v (applied %d, failed %d, pending %d)",
		e.Step, e.Err, applied, failed, pending)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Apply executes a plan sequentially. Each step blocks until its resource
// reaches a terminal state before the next one starts. The first failure
// aborts the remainder; there is no rollback, recovery is re-planning.
//
// On success the returned map holds the outputs of every declaration, keyed
// by declaration name.
func (e *Engine) Apply(ctx context.Context, plan *Plan) (map[string]map[string]string, error) {
	start := time.Now()
	outputs := make(map[string]map[string]string, len(plan.Live))
	for name, out := range plan.Live {
		outputs[name] = out
	}

	statuses := make([]StepStatus, len(plan.Changes))
	for i, c := range plan.Changes {
		statuses[i] = StepStatus{Name: c.Decl.Name, Kind: c.Decl.Kind, Action: c.Action, Status: graph.StatusPlanned}
	}

	for i, c := range plan.Changes {
		if c.Action == ActionNoop {
			statuses[i].Status = graph.StatusApplied
			continue
		}

		statuses[i].Status = graph.StatusApplying
		stepStart := time.Now()
		e.observer.Printf("[%s] %s %q (%d/%d)", c.Action, c.Decl.Kind, c.Decl.Name, i+1, len(plan.Changes))

		if err := e.applyStep(ctx, c, outputs); err != nil {
			statuses[i].Status = graph.StatusFailed
			for j := i + 1; j < len(plan.Changes); j++ {
				if plan.Changes[j].Action == ActionNoop {
					statuses[j].Status = graph.StatusApplied
					continue
				}
				statuses[j].Status = graph.StatusPending
			}
			e.observer.Printf("[%s] %s %q failed: %v", c.Action, c.Decl.Kind, c.Decl.Name, err)
			return nil, &ApplyError{Step: c.Decl.Name, Statuses: statuses, Err: err}
		}

		statuses[i].Status = graph.StatusApplied
		e.observer.Printf("[%s] %s %q done in %v", c.Action, c.Decl.Kind, c.Decl.Name,
			time.Since(stepStart).Round(time.Millisecond))
	}

	e.observer.Printf("Apply complete in %v", time.Since(start).Round(time.Millisecond))
	return outputs, nil
}

func (e *Engine) applyStep(ctx context.Context, c Change, outputs map[string]map[string]string) error {
	handler := e.registry[c.Decl.Kind]

	if c.Action == ActionDelete {
		if err := handler.Delete(ctx, c.Decl, outputs[c.Decl.Name]); err != nil {
			return err
		}
		delete(outputs, c.Decl.Name)
		return nil
	}

	// By now every dependency has been applied, so resolution must succeed.
	attrs, err := graph.Resolve(c.Decl, outputs)
	if err != nil {
		return err
	}

	var out map[string]string
	switch c.Action {
	case ActionCreate:
		out, err = handler.Create(ctx, c.Decl, attrs)
	case ActionUpdate:
		out, err = handler.Update(ctx, c.Decl, attrs)
	default:
		return fmt.Errorf("unexpected action %q", c.Action)
	}
	if err != nil {
		return err
	}

	merged := make(map[string]string, len(out))
	for k, v := range outputs[c.Decl.Name] {
		merged[k] = v
	}
	for k, v := range out {
		merged[k] = v
	}
	outputs[c.Decl.Name] = merged
	return nil
}
