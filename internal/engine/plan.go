package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/sonarup/sonarup/internal/graph"
)

// Action is the operation a plan step performs on one declaration.
type Action string

const (
	// ActionCreate creates a resource that does not exist yet.
	ActionCreate Action = "create"
	// ActionUpdate converges an existing resource to its declared attributes.
	ActionUpdate Action = "update"
	// ActionDelete removes an existing resource.
	ActionDelete Action = "delete"
	// ActionNoop means the live resource already matches its declaration.
	ActionNoop Action = "noop"
)

// AttrDiff records one attribute difference between live and declared state.
// Sensitive diffs carry redacted values.
type AttrDiff struct {
	Attr      string
	Live      string
	Desired   string
	Sensitive bool
}

// Change is one planned step for one declaration.
type Change struct {
	Decl   *graph.Declaration
	Action Action
	Diffs  []AttrDiff
}

// Plan is an ordered sequence of changes. For apply plans the order respects
// every reference edge; for destroy plans it is reversed.
type Plan struct {
	Changes []Change
	// Live holds the observed outputs of resources that already exist,
	// keyed by declaration name. Apply seeds reference resolution from it.
	Live map[string]map[string]string
	// Destroy marks a teardown plan.
	Destroy bool
}

// Empty reports whether the plan contains no mutating change.
func (p *Plan) Empty() bool {
	for _, c := range p.Changes {
		if c.Action != ActionNoop {
			return false
		}
	}
	return true
}

// Summary counts the mutating changes by action.
func (p *Plan) Summary() (create, update, del int) {
	for _, c := range p.Changes {
		switch c.Action {
		case ActionCreate:
			create++
		case ActionUpdate:
			update++
		case ActionDelete:
			del++
		}
	}
	return
}

// PlanError wraps failures during plan computation: reference cycles,
// unknown kinds, invalid attributes, or provider describe calls failing.
// No mutating call has been made when one is returned.
type PlanError struct {
	Err error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("plan computation failed: %v", e.Err)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// Plan computes the diff between the declared graph and live state. Running
// it again right after a successful apply with unchanged declarations yields
// an empty plan.
func (e *Engine) Plan(ctx context.Context, g *graph.Graph) (*Plan, error) {
	sorted, err := g.Sort()
	if err != nil {
		return nil, &PlanError{Err: err}
	}

	plan := &Plan{Live: map[string]map[string]string{}}
	for _, d := range sorted {
		handler, ok := e.registry[d.Kind]
		if !ok {
			return nil, &PlanError{Err: fmt.Errorf("no handler for declaration kind %q", d.Kind)}
		}

		attrs, unresolved := resolvePartial(d, plan.Live)
		live, found, err := handler.Describe(ctx, d, attrs)
		if err != nil {
			return nil, &PlanError{Err: fmt.Errorf("describe %s %q: %w", d.Kind, d.Name, err)}
		}

		if !found {
			plan.Changes = append(plan.Changes, Change{
				Decl:   d,
				Action: ActionCreate,
				Diffs:  createDiffs(d, attrs, unresolved),
			})
			continue
		}

		diffs := updateDiffs(d, attrs, live, unresolved)
		if len(diffs) > 0 {
			// The resource will change, so its outputs are not knowable
			// until apply. Leaving it out of Live forces dependents that
			// reference it to re-converge as well.
			plan.Changes = append(plan.Changes, Change{Decl: d, Action: ActionUpdate, Diffs: diffs})
			continue
		}
		plan.Live[d.Name] = live
		plan.Changes = append(plan.Changes, Change{Decl: d, Action: ActionNoop})
	}
	return plan, nil
}

// PlanDestroy computes a teardown plan: a delete for every declared resource
// that exists, in reverse dependency order.
func (e *Engine) PlanDestroy(ctx context.Context, g *graph.Graph) (*Plan, error) {
	sorted, err := g.Sort()
	if err != nil {
		return nil, &PlanError{Err: err}
	}

	plan := &Plan{Live: map[string]map[string]string{}, Destroy: true}
	// Describe in dependency order so references resolve, then reverse.
	var changes []Change
	for _, d := range sorted {
		handler, ok := e.registry[d.Kind]
		if !ok {
			return nil, &PlanError{Err: fmt.Errorf("no handler for declaration kind %q", d.Kind)}
		}

		attrs, _ := resolvePartial(d, plan.Live)
		live, found, err := handler.Describe(ctx, d, attrs)
		if err != nil {
			return nil, &PlanError{Err: fmt.Errorf("describe %s %q: %w", d.Kind, d.Name, err)}
		}
		if !found {
			changes = append(changes, Change{Decl: d, Action: ActionNoop})
			continue
		}
		plan.Live[d.Name] = live
		changes = append(changes, Change{Decl: d, Action: ActionDelete})
	}
	for i := len(changes) - 1; i >= 0; i-- {
		plan.Changes = append(plan.Changes, changes[i])
	}
	return plan, nil
}

// unknownValue marks attributes whose reference target does not exist yet.
const unknownValue = "(known after apply)"

// resolvePartial resolves what it can against live outputs. Attributes whose
// reference target has not produced a value remain absent from the returned
// map; their names are returned separately for rendering.
func resolvePartial(d *graph.Declaration, live map[string]map[string]string) (map[string]string, []string) {
	resolved := make(map[string]string, len(d.Attrs))
	var unresolved []string
	for attr, v := range d.Attrs {
		if v.Ref == nil {
			resolved[attr] = v.Literal
			continue
		}
		if out, ok := live[v.Ref.Decl]; ok {
			if val, ok := out[v.Ref.Attr]; ok {
				resolved[attr] = val
				continue
			}
		}
		unresolved = append(unresolved, attr)
	}
	return resolved, unresolved
}

const redacted = "(sensitive)"

func createDiffs(d *graph.Declaration, attrs map[string]string, unresolved []string) []AttrDiff {
	diffs := make([]AttrDiff, 0, len(attrs)+len(unresolved))
	for attr, desired := range attrs {
		if d.IsSensitive(attr) {
			desired = redacted
		}
		diffs = append(diffs, AttrDiff{Attr: attr, Desired: desired, Sensitive: d.IsSensitive(attr)})
	}
	for _, attr := range unresolved {
		diffs = append(diffs, AttrDiff{Attr: attr, Desired: unknownValue, Sensitive: d.IsSensitive(attr)})
	}
	sortDiffs(diffs)
	return diffs
}

// updateDiffs compares declared attributes to live values. Only attributes
// the handler reports back participate; write-only attributes never cause an
// update. Declared attributes whose reference target will change are diffed
// against the unknown value.
func updateDiffs(d *graph.Declaration, attrs, live map[string]string, unresolved []string) []AttrDiff {
	var diffs []AttrDiff
	for _, attr := range unresolved {
		diffs = append(diffs, AttrDiff{
			Attr:      attr,
			Live:      live[attr],
			Desired:   unknownValue,
			Sensitive: d.IsSensitive(attr),
		})
	}
	for attr, desired := range attrs {
		current, ok := live[attr]
		if !ok || current == desired {
			continue
		}
		diff := AttrDiff{Attr: attr, Live: current, Desired: desired, Sensitive: d.IsSensitive(attr)}
		if diff.Sensitive {
			diff.Live, diff.Desired = redacted, redacted
		}
		diffs = append(diffs, diff)
	}
	sortDiffs(diffs)
	return diffs
}

func sortDiffs(diffs []AttrDiff) {
	sort.Slice(diffs, func(i, j int) bool { return diffs[i].Attr < diffs[j].Attr })
}
