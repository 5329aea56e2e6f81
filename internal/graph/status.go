package graph

// Status tracks a declaration through an apply run.
type Status string

const (
	// StatusUndeclared means the declaration is not part of the current graph.
	StatusUndeclared Status = "undeclared"
	// StatusPlanned means the declaration has a pending plan action.
	StatusPlanned Status = "planned"
	// StatusApplying means the declaration's action is currently executing.
	StatusApplying Status = "applying"
	// StatusApplied means the declaration reached its desired state.
	StatusApplied Status = "applied"
	// StatusFailed means the declaration's action failed.
	StatusFailed Status = "failed"
	// StatusPending means the declaration was never attempted because an
	// earlier declaration failed.
	StatusPending Status = "pending"
)
