package kernel

// SpawnDecision is returned by PhaseHooks.OnEntitySpawned: whether a spawn
// produced during ENTITY_ACT is accepted into the mutation queue.
type SpawnDecision struct {
	Accept bool
	Entity Entity
	Reason string
}

// PhaseHooks are mode-specific slots invoked by the kernel at fixed points
// in the canonical pipeline. Every slot has a no-op default; a WorldPack
// only needs to implement the ones whose default behavior doesn't fit.
type PhaseHooks interface {
	// OnEntitySpawned decides whether a spawn produced by ENTITY_ACT is
	// accepted (population caps, species-specific rules, etc).
	OnEntitySpawned(k *Kernel, spawned, parent Entity) SpawnDecision

	// OnEntityDied reports whether the kernel should request the entity's
	// removal now. A mode may defer this (dying animation) or reject it
	// outright for mode-specific reasons.
	OnEntityDied(k *Kernel, entity Entity) bool

	// OnLifecycleCleanup runs mode-specific bookkeeping during LIFECYCLE,
	// after spawns/removals collected in ENTITY_ACT have been requested.
	OnLifecycleCleanup(k *Kernel)

	// OnReproductionComplete runs after the REPRODUCTION phase commits.
	OnReproductionComplete(k *Kernel)

	// OnFrameEnd runs at the very start of FRAME_END, before pruning and
	// the invariant assertion.
	OnFrameEnd(k *Kernel)
}

// NoOpPhaseHooks accepts every spawn, requests removal for every dead
// entity, and performs no bookkeeping. It is the kernel's default when a
// WorldPack supplies no hooks.
type NoOpPhaseHooks struct{}

func (NoOpPhaseHooks) OnEntitySpawned(_ *Kernel, spawned, _ Entity) SpawnDecision {
	return SpawnDecision{Accept: true, Entity: spawned}
}

func (NoOpPhaseHooks) OnEntityDied(_ *Kernel, _ Entity) bool { return true }

func (NoOpPhaseHooks) OnLifecycleCleanup(_ *Kernel) {}

func (NoOpPhaseHooks) OnReproductionComplete(_ *Kernel) {}

func (NoOpPhaseHooks) OnFrameEnd(_ *Kernel) {}
