// Package engine computes plans against live cloud state and applies them in
// dependency order.
//
// The engine is deliberately provider-agnostic: it walks the declaration
// graph, asks a ResourceHandler per kind what exists and what to change, and
// executes the resulting plan sequentially. Provider specifics live behind
// the handler registry (see internal/platform/aws).
package engine

import (
	"context"

	"github.com/sonarup/sonarup/internal/graph"
)

// ResourceHandler implements the lifecycle of one resource kind.
//
// Describe returns the live attributes of the resource named by
// attrs["name"]. The returned map contains both comparable attribute values
// (keys matching declared attributes) and output attributes such as IDs,
// ARNs, and endpoints. Attributes that cannot be read back (write-only, e.g.
// a master password) are simply omitted and therefore never diffed.
//
// Create and Update block until the resource reaches a terminal state, so
// dependents can resolve references immediately afterwards.
type ResourceHandler interface {
	Describe(ctx context.Context, d *graph.Declaration, attrs map[string]string) (live map[string]string, found bool, err error)
	Create(ctx context.Context, d *graph.Declaration, attrs map[string]string) (outputs map[string]string, err error)
	Update(ctx context.Context, d *graph.Declaration, attrs map[string]string) (outputs map[string]string, err error)
	Delete(ctx context.Context, d *graph.Declaration, live map[string]string) error
}

// Registry maps declaration kinds to their handlers.
type Registry map[graph.Kind]ResourceHandler

// Engine plans and applies declaration graphs.
type Engine struct {
	registry Registry
	observer Observer
}

// New creates an engine over the given handler registry.
func New(registry Registry, observer Observer) *Engine {
	if observer == nil {
		observer = NewConsoleObserver()
	}
	return &Engine{registry: registry, observer: observer}
}
