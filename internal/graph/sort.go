package graph

import (
	"fmt"
	"strings"
)

// CycleError reports a reference cycle between declarations. Planning refuses
// to proceed when one is present.
type CycleError struct {
	// Members are the declarations participating in the cycle, in
	// insertion order.
	Members []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("reference cycle between declarations: %s", strings.Join(e.Members, ", "))
}

// Sort returns the declarations in dependency order: every declaration
// appears after all declarations it references. The sort is deterministic,
// ties are broken by insertion order.
func (g *Graph) Sort() ([]*Declaration, error) {
	indegree := make(map[string]int, len(g.order))
	dependents := make(map[string][]string, len(g.order))

	for _, name := range g.order {
		indegree[name] = 0
	}
	for _, name := range g.order {
		for _, dep := range g.decls[name].Dependencies() {
			if _, ok := g.decls[dep]; !ok {
				return nil, fmt.Errorf("declaration %q references unknown declaration %q", name, dep)
			}
			indegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	// Kahn's algorithm. The ready set is refilled by scanning insertion
	// order so the result is stable for a given graph construction.
	sorted := make([]*Declaration, 0, len(g.order))
	done := make(map[string]bool, len(g.order))
	for len(sorted) < len(g.order) {
		progressed := false
		for _, name := range g.order {
			if done[name] || indegree[name] != 0 {
				continue
			}
			done[name] = true
			sorted = append(sorted, g.decls[name])
			for _, dep := range dependents[name] {
				indegree[dep]--
			}
			progressed = true
		}
		if !progressed {
			var members []string
			for _, name := range g.order {
				if !done[name] {
					members = append(members, name)
				}
			}
			return nil, &CycleError{Members: members}
		}
	}
	return sorted, nil
}
