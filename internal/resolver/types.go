package resolver

// Input is the kernel-normalized view of a setup-time world pack that the
// resolver operates on: the set of phases the canonical pipeline requires a
// handler for, and the systems actually registered against each phase.
type Input struct {
	RequiredPhases []string
	// ProvidersByPhase maps a phase tag to the names of enabled, registered
	// systems that declared it.
	ProvidersByPhase map[string][]string
	// OptionalPhases are phases a pack may legitimately leave unhandled
	// without the kernel treating that as a setup failure.
	OptionalPhases []string
}

// Plan is the resolver's output: diagnostics about anything that could not
// be resolved against the registered systems.
type Plan struct {
	Diagnostics Diagnostics
}

// Diagnostics captures human-readable information about resolution, split
// by whether the unmet requirement is fatal to setup.
type Diagnostics struct {
	UnresolvedRequired []UnresolvedRequirement
	UnresolvedOptional []UnresolvedRequirement
}

type UnresolvedRequirement struct {
	Phase  string
	Reason string
}
