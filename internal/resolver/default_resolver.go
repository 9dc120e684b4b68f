package resolver

import (
	"context"
	"sort"
)

// DefaultResolver checks that every phase the canonical pipeline requires a
// handler for has at least one enabled, registered system providing it.
type DefaultResolver struct{}

func NewDefault() *DefaultResolver {
	return &DefaultResolver{}
}

func (r *DefaultResolver) Resolve(ctx context.Context, in Input) (Plan, error) {
	_ = ctx

	plan := Plan{}

	optional := make(map[string]bool, len(in.OptionalPhases))
	for _, p := range in.OptionalPhases {
		optional[p] = true
	}

	for _, phase := range in.RequiredPhases {
		providers := in.ProvidersByPhase[phase]
		if len(providers) > 0 {
			continue
		}
		reason := "no enabled system declares this phase"
		unresolved := UnresolvedRequirement{Phase: phase, Reason: reason}
		if optional[phase] {
			plan.Diagnostics.UnresolvedOptional = append(plan.Diagnostics.UnresolvedOptional, unresolved)
		} else {
			plan.Diagnostics.UnresolvedRequired = append(plan.Diagnostics.UnresolvedRequired, unresolved)
		}
	}

	sort.Slice(plan.Diagnostics.UnresolvedRequired, func(i, j int) bool {
		return plan.Diagnostics.UnresolvedRequired[i].Phase < plan.Diagnostics.UnresolvedRequired[j].Phase
	})
	sort.Slice(plan.Diagnostics.UnresolvedOptional, func(i, j int) bool {
		return plan.Diagnostics.UnresolvedOptional[i].Phase < plan.Diagnostics.UnresolvedOptional[j].Phase
	})

	return plan, nil
}
