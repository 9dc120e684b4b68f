package shared

import (
	"github.com/mbolaris/simkernel/internal/kernel"
	"github.com/mbolaris/simkernel/internal/systems"
)

// TimeOfDaySource is the subset of systems.TimeSystem TankLikePhaseHooks
// needs to bias its cached PopulationSnapshot toward the twilight live-food
// rule, declared locally to avoid an import cycle the same way
// TimeModifierSource is in environment.go.
type TimeOfDaySource interface {
	TimeOfDay() float64
}

// TankLikePhaseHooks implements kernel.PhaseHooks for both the tank and
// petri packs, which differ only in Geometry. Grounded on
// core/worlds/shared/tank_like_phase_hooks.py's TankLikePhaseHooks: fish
// spawns are capped and counted, fish deaths are deferred to the dying
// animation, plant/nectar/food deaths are settled immediately, and the
// cached population snapshot FoodSpawningSystem reads is refreshed once per
// LIFECYCLE and again after REPRODUCTION.
type TankLikePhaseHooks struct {
	lifecycle  *systems.LifecycleSystem
	plants     *RootSpotAllocator
	maxFish    int
	timeSource TimeOfDaySource

	popSnapshot systems.PopulationSnapshot
}

// NewTankLikePhaseHooks returns hooks that cap the fish population at
// maxFish, release plant root spots through plants on plant death, and
// source twilight bias from timeSource (may be nil, in which case
// TimeOfDay always reads 0).
func NewTankLikePhaseHooks(lifecycle *systems.LifecycleSystem, plants *RootSpotAllocator, maxFish int, timeSource TimeOfDaySource) *TankLikePhaseHooks {
	return &TankLikePhaseHooks{lifecycle: lifecycle, plants: plants, maxFish: maxFish, timeSource: timeSource}
}

// OnEntitySpawned accepts every non-fish spawn unconditionally (plant
// sprouts, nectar). A fish spawn is rejected once the population is already
// at maxFish; this only covers spawns produced during ENTITY_ACT (a Fish
// budding is not a thing this pack models), so the authoritative cap for
// ReproductionSystem's direct RequestSpawn calls is still the
// EntityManager.CapacityCheck the pack installs in BuildEnvironment.
func (h *TankLikePhaseHooks) OnEntitySpawned(k *kernel.Kernel, spawned, parent kernel.Entity) kernel.SpawnDecision {
	if _, isFish := spawned.(*Fish); isFish {
		if len(k.Entities().ByType("fish")) >= h.maxFish {
			return kernel.SpawnDecision{Accept: false, Entity: spawned, Reason: "fish_population_cap"}
		}
		if h.lifecycle != nil {
			h.lifecycle.RecordBirth()
		}
	}
	return kernel.SpawnDecision{Accept: true, Entity: spawned}
}

// OnEntityDied defers fish removal to the dying-animation sweep
// (BoundLifecycleSystem, during LIFECYCLE), settles plant death by
// releasing its root spot back to the allocator, and accepts immediate
// removal for every other known kind.
func (h *TankLikePhaseHooks) OnEntityDied(k *kernel.Kernel, entity kernel.Entity) bool {
	switch e := entity.(type) {
	case *Fish:
		return false
	case *Plant:
		e.Die()
		if h.plants != nil {
			h.plants.Release(e.RootSpot())
		}
		return true
	case *PlantNectar, *Food, *LiveFood:
		return true
	default:
		return false
	}
}

// OnLifecycleCleanup refreshes the cached population snapshot right before
// SPAWN's FoodSpawningSystem reads it, so the spawn-rate calculation always
// sees this frame's population, not last frame's.
func (h *TankLikePhaseHooks) OnLifecycleCleanup(k *kernel.Kernel) {
	h.refreshSnapshot(k)
}

// OnReproductionComplete refreshes the snapshot again since asexual
// reproduction (and predation) may have changed the population between
// LIFECYCLE and here.
func (h *TankLikePhaseHooks) OnReproductionComplete(k *kernel.Kernel) {
	h.refreshSnapshot(k)
}

// OnFrameEnd is a no-op: the source's benchmark evaluator and soccer league
// runtime hooked here have no collaborator in this kernel (out of scope,
// per spec.md's "optional poker-benchmarking evaluator" exclusion).
func (h *TankLikePhaseHooks) OnFrameEnd(k *kernel.Kernel) {}

func (h *TankLikePhaseHooks) refreshSnapshot(k *kernel.Kernel) {
	fish := k.Entities().ByType("fish")
	var total float64
	for _, e := range fish {
		if f, ok := e.(*Fish); ok {
			total += f.Energy()
		}
	}
	var timeOfDay float64
	if h.timeSource != nil {
		timeOfDay = h.timeSource.TimeOfDay()
	}
	h.popSnapshot = systems.PopulationSnapshot{Count: len(fish), TotalEnergy: total, TimeOfDay: timeOfDay}
}

// Snapshot satisfies systems.FoodSpawner, returning the most recently
// cached population view.
func (h *TankLikePhaseHooks) Snapshot() systems.PopulationSnapshot { return h.popSnapshot }

var _ kernel.PhaseHooks = (*TankLikePhaseHooks)(nil)
