package systems

import "github.com/mbolaris/simkernel/internal/kernel"

// Dying is an optional capability an entity may implement so LifecycleSystem
// can track its own death-animation countdown instead of the system having
// to maintain a side table keyed by handle. Grounded on
// core/systems/entity_lifecycle.py's cleanup_dying_fish, which polls
// visual_state.death_effect_timer on the entity itself.
type Dying interface {
	// TickDyingAnimation decrements the entity's own post-death timer by
	// one frame and reports whether it has now expired (removal should be
	// requested). Calling it after it has already expired is a no-op that
	// keeps reporting true.
	TickDyingAnimation() bool
}

// LifecycleSystem resets per-frame death/birth counters and requests
// removal for entities whose dying-animation timer has expired. It owns no
// removal decisions beyond that expiry check; actual death detection
// happens in ENTITY_ACT via PhaseHooks.OnEntityDied, which is what enqueues
// the dying entity in the first place. Grounded on
// core/systems/entity_lifecycle.py's EntityLifecycleSystem, stripped to its
// FRAME_START counter-reset responsibility and the cleanup_dying_fish sweep
// (here generalized to any entity implementing Dying, not just fish).
type LifecycleSystem struct {
	name        string
	enabled     bool
	deathsFrame int
	birthsFrame int
	totalDeaths int
	totalBirths int
	updateCount int
}

// NewLifecycleSystem returns a ready LifecycleSystem.
func NewLifecycleSystem() *LifecycleSystem {
	return &LifecycleSystem{name: "Lifecycle", enabled: true}
}

func (s *LifecycleSystem) Name() string        { return s.name }
func (s *LifecycleSystem) Enabled() bool       { return s.enabled }
func (s *LifecycleSystem) SetEnabled(v bool)   { s.enabled = v }
func (s *LifecycleSystem) Phase() kernel.Phase { return kernel.PhaseFrameStart }

func (s *LifecycleSystem) Update(frame uint64) kernel.SystemResult {
	if !s.enabled {
		return kernel.SystemResult{Skipped: true}
	}
	s.deathsFrame = 0
	s.birthsFrame = 0
	s.updateCount++
	return kernel.SystemResult{}
}

// UpdateCount reports how many non-skipped Update calls this system has run.
func (s *LifecycleSystem) UpdateCount() int { return s.updateCount }

// RecordBirth is called by collaborators (or PhaseHooks.OnEntitySpawned
// wiring) whenever a spawn is accepted, to keep per-frame and lifetime
// counters consistent.
func (s *LifecycleSystem) RecordBirth() {
	s.birthsFrame++
	s.totalBirths++
}

// RecordDeath is called whenever a removal is requested for a live death
// (not a dying-animation expiry, which SweepExpiredDying counts itself).
func (s *LifecycleSystem) RecordDeath() {
	s.deathsFrame++
	s.totalDeaths++
}

// SweepExpiredDying scans entities and requests removal for any whose
// Dying capability reports an expired timer. BoundLifecycleSystem.Update
// invokes it once per LIFECYCLE phase over every entity.
func (s *LifecycleSystem) SweepExpiredDying(k *kernel.Kernel, entities []kernel.Entity) {
	for _, e := range entities {
		dying, ok := e.(Dying)
		if !ok {
			continue
		}
		if !dying.TickDyingAnimation() {
			continue
		}
		if k.RequestRemove(e, "death_effect_complete", nil) {
			s.deathsFrame++
			s.totalDeaths++
		}
	}
}

// DebugInfo mirrors get_debug_info's shape for logging/snapshot metadata.
func (s *LifecycleSystem) DebugInfo() map[string]any {
	return map[string]any{
		"deaths_this_frame":      s.deathsFrame,
		"births_this_frame":      s.birthsFrame,
		"total_deaths":           s.totalDeaths,
		"total_births":           s.totalBirths,
		"net_population_change":  s.totalBirths - s.totalDeaths,
	}
}

var _ kernel.System = (*LifecycleSystem)(nil)

var _ kernel.System = (*BoundLifecycleSystem)(nil)

// BoundLifecycleSystem adapts LifecycleSystem to the kernel.System contract
// by holding its own engine reference, the way BoundCollisionSystem does for
// CollisionSystem. Unlike the bare LifecycleSystem (which only resets
// counters and declares PhaseFrameStart), this is the system a WorldPack
// registers to actually satisfy the kernel's mandatory LIFECYCLE phase
// coverage: its Update ticks every dying entity's animation timer down by
// one frame and requests removal for whichever expire this frame.
type BoundLifecycleSystem struct {
	*LifecycleSystem
	engine *kernel.Kernel
}

// NewBoundLifecycleSystem ties a LifecycleSystem to engine.
func NewBoundLifecycleSystem(engine *kernel.Kernel) *BoundLifecycleSystem {
	return &BoundLifecycleSystem{
		LifecycleSystem: NewLifecycleSystem(),
		engine:          engine,
	}
}

func (s *BoundLifecycleSystem) Phase() kernel.Phase { return kernel.PhaseLifecycle }

func (s *BoundLifecycleSystem) Update(frame uint64) kernel.SystemResult {
	if !s.enabled {
		return kernel.SystemResult{Skipped: true}
	}
	// The bare LifecycleSystem.Update's counter reset is never reached: only
	// BoundLifecycleSystem is ever registered (under PhaseLifecycle), so this
	// is the one place per tick that actually runs. Reset here, before this
	// frame's sweep records anything into deathsFrame.
	s.deathsFrame = 0
	s.birthsFrame = 0
	s.updateCount++
	before := s.totalDeaths
	s.SweepExpiredDying(s.engine, s.engine.Entities().All())
	return kernel.SystemResult{EntitiesAffected: uint32(s.totalDeaths - before)}
}
