package systems

import "github.com/mbolaris/simkernel/internal/kernel"

// Reproducer is the optional capability an entity implements to take part
// in asexual reproduction. Grounded on the source's
// ReproductionComponent.can_asexually_reproduce / _create_asexual_offspring
// pair, generalized away from the fish genome/life-stage specifics: a
// WorldPack's entity type owns all of the eligibility and offspring-shape
// logic, the system only orchestrates the RNG roll and the spawn request.
type Reproducer interface {
	// CanReproduceAsexually reports whether the entity is currently
	// eligible (life stage, energy reserves, cooldowns, etc).
	CanReproduceAsexually() bool
	// AsexualReproductionChance is the entity's own per-tick probability
	// of triggering, typically genome-derived.
	AsexualReproductionChance() float64
	// Reproduce constructs and returns the offspring entity, or nil if
	// construction failed (e.g. no room for it in the environment).
	Reproduce() kernel.Entity
}

// ReproductionSystem scans one population tag each tick and rolls each
// eligible entity's own reproduction chance, requesting a spawn for any
// that trigger. Grounded on core/reproduction_system.py's
// ReproductionSystem, dropping its max-population short-circuit (that
// belongs to PhaseHooks.OnEntitySpawned's capacity check, not here) and its
// sexual/poker-game path (an out-of-scope collaborator, settled instead via
// InteractionSystem + InteractionSettled).
type ReproductionSystem struct {
	name    string
	enabled bool
	engine  *kernel.Kernel
	tag     string

	checks      int
	triggered   int
	updateCount int
}

// NewReproductionSystem returns a system checking every entity tagged tag.
func NewReproductionSystem(engine *kernel.Kernel, tag string) *ReproductionSystem {
	return &ReproductionSystem{name: "Reproduction", enabled: true, engine: engine, tag: tag}
}

func (s *ReproductionSystem) Name() string        { return s.name }
func (s *ReproductionSystem) Enabled() bool       { return s.enabled }
func (s *ReproductionSystem) SetEnabled(v bool)   { s.enabled = v }
func (s *ReproductionSystem) Phase() kernel.Phase { return kernel.PhaseReproduction }

func (s *ReproductionSystem) Update(frame uint64) kernel.SystemResult {
	if !s.enabled {
		return kernel.SystemResult{Skipped: true}
	}

	var triggeredThisFrame uint32
	for _, e := range s.engine.Entities().ByType(s.tag) {
		if e.IsDead() {
			continue
		}
		r, ok := e.(Reproducer)
		if !ok || !r.CanReproduceAsexually() {
			continue
		}

		s.checks++
		if s.engine.RNG().Float64() >= r.AsexualReproductionChance() {
			continue
		}

		baby := r.Reproduce()
		if baby == nil {
			continue
		}
		if s.engine.RequestSpawn(baby, "asexual_reproduction", nil) {
			s.triggered++
			triggeredThisFrame++
		}
	}

	s.updateCount++
	return kernel.SystemResult{
		EntitiesSpawned: triggeredThisFrame,
		Details: map[string]any{
			"asexual_triggered": triggeredThisFrame,
		},
	}
}

// Checks and Triggered mirror the source's debug counters.
func (s *ReproductionSystem) Checks() int    { return s.checks }
func (s *ReproductionSystem) Triggered() int { return s.triggered }

// UpdateCount reports how many non-skipped Update calls this system has run.
func (s *ReproductionSystem) UpdateCount() int { return s.updateCount }

var _ kernel.System = (*ReproductionSystem)(nil)
