package kernel

// Environment is the mode-specific environmental state a WorldPack builds
// during Setup. The kernel calls back into it after the post-SPAWN-commit
// position refresh and whenever an environment-wide modifier needs
// recomputing.
type Environment interface {
	// UpdateAgentPosition is called once per entity after a commit that may
	// have moved entities, so the environment can keep any of its own
	// position-derived caches (distinct from SpatialIndex) current.
	UpdateAgentPosition(e Entity)

	// UpdateDetectionModifier recomputes any environment-wide scalar that
	// depends on the current population (e.g. a density-based detection
	// penalty).
	UpdateDetectionModifier()

	// Bounds returns the world's visible extents.
	Bounds() (width, height float64)
}

// WorldPack assembles a mode (e.g. "tank", "petri") on top of the kernel
// without the kernel knowing any concrete entity type. Setup calls these
// in a fixed order; see Kernel.Setup.
type WorldPack interface {
	// ModeID names the mode, e.g. "tank".
	ModeID() string

	// KernelAPIVersion is a semver constraint (e.g. ">=1.0.0 <2.0.0")
	// checked against the running kernel's Version at the start of Setup
	// (via internal/semver, before any other pack method runs).
	KernelAPIVersion() string

	// BuildCoreSystems constructs and returns the pack's systems keyed by
	// name. The capability resolver does not read these keys: it checks
	// the phases declared by the systems the pack registers, requiring
	// LIFECYCLE, COLLISION, REPRODUCTION and INTERACTION_PROXIMITY.
	BuildCoreSystems(k *Kernel) map[string]System

	// BuildEnvironment constructs the mode's Environment, wiring whatever
	// energy-event recording and spawn/remove requesters it needs from k.
	BuildEnvironment(k *Kernel) Environment

	// RegisterSystems registers the built systems (and any mode-specific
	// ones) into k's SystemRegistry, in execution order.
	RegisterSystems(k *Kernel)

	// RegisterContracts registers action/observation translators for
	// external policy control. Opaque to the kernel; may be a no-op.
	RegisterContracts(k *Kernel)

	// SeedEntities enqueues (or privileged-adds) the mode's initial
	// entities.
	SeedEntities(k *Kernel)

	// Pipeline returns the mode's pipeline, or nil to use the kernel's
	// default.
	Pipeline() *Pipeline

	// IdentityProvider returns the mode's IdentityProvider.
	IdentityProvider() IdentityProvider

	// PhaseHooks returns the mode's hooks, or nil to use NoOpPhaseHooks.
	PhaseHooks() PhaseHooks

	// Metadata is surfaced verbatim in Snapshot.
	Metadata() map[string]any
}

// FastLaneProvider is an optional WorldPack extension. A pack implementing
// it declares which entity tags (e.g. the mode's primary mobile agent)
// should get SpatialIndex fast-lane buckets, per spec §3's "at least one
// such tag per mode." Setup enables these before SeedEntities runs, so the
// index never holds pre-fast-lane entries for a tag that later becomes
// fast-laned.
type FastLaneProvider interface {
	FastLaneTags() []string
}
