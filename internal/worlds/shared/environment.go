// Package shared holds the concrete entity and environment types common to
// both the tank and petri world packs: fish, food, plants, and nectar,
// plus the interfaces each pack's Environment implementation satisfies.
// Grounded on core/environment.py and core/entities/__init__.py's exported
// kinds (Fish, Food, LiveFood, Plant, PlantNectar), generalized away from
// the predator/genome machinery that has no equivalent collaborator in
// this kernel.
package shared

import "github.com/mbolaris/simkernel/internal/kernel"

// Geometry abstracts over a world's shape: tank is an axis-aligned
// rectangle, petri is a disk. Entities hold a Geometry reference (assigned
// at construction by the seeding WorldPack) so ConstrainToBounds can defer
// to mode-specific clamping instead of the kernel's generic rectangle clamp.
type Geometry interface {
	// Clamp projects (x, y) into the valid region, returning the same
	// point if it is already inside.
	Clamp(x, y, width, height float64) (float64, float64)
	// Bounds returns the geometry's enclosing rectangle, for spatial
	// indexing and kernel.Environment.Bounds.
	Bounds() (w, h float64)
}

// Environment implements kernel.Environment for both packs. The packs
// differ only in the Geometry they construct it with.
type Environment struct {
	geometry        Geometry
	detectionModifier float64
	timeSystem      TimeModifierSource
}

// TimeModifierSource is the subset of systems.TimeSystem the Environment
// needs to recompute its detection modifier once per ENVIRONMENT phase.
// Declared locally (rather than importing internal/systems) to avoid a
// dependency cycle between worlds/shared and systems.
type TimeModifierSource interface {
	DetectionModifier() float64
}

// NewEnvironment returns an Environment over geometry, recomputing its
// detection modifier from timeSource (may be nil, in which case the
// modifier stays at 1.0).
func NewEnvironment(geometry Geometry, timeSource TimeModifierSource) *Environment {
	return &Environment{geometry: geometry, detectionModifier: 1.0, timeSystem: timeSource}
}

func (e *Environment) Bounds() (float64, float64) {
	return e.geometry.Bounds()
}

// UpdateAgentPosition is a no-op hook point: tank/petri do not currently
// need per-entity bookkeeping beyond what SpatialIndex already tracks, but
// the method exists to satisfy kernel.Environment and to give a future
// mode somewhere to add it without touching the kernel.
func (e *Environment) UpdateAgentPosition(entity kernel.Entity) {}

// UpdateDetectionModifier refreshes the cached modifier from the time
// system, run once per ENVIRONMENT phase.
func (e *Environment) UpdateDetectionModifier() {
	if e.timeSystem != nil {
		e.detectionModifier = e.timeSystem.DetectionModifier()
	}
}

// DetectionModifier returns the most recently computed value.
func (e *Environment) DetectionModifier() float64 { return e.detectionModifier }

// Clamp projects (x, y) into the environment's valid region.
func (e *Environment) Clamp(x, y, width, height float64) (float64, float64) {
	return e.geometry.Clamp(x, y, width, height)
}

var _ kernel.Environment = (*Environment)(nil)
