package resolver

import "context"

// Resolver computes a Plan (phase-resolution diagnostics) for a given Input.
type Resolver interface {
	Resolve(ctx context.Context, in Input) (Plan, error)
}
