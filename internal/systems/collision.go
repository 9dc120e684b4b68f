package systems

import "github.com/mbolaris/simkernel/internal/kernel"

// CollisionHandler is the domain collaborator invoked for every candidate
// pair CollisionSystem's spatial query turns up. It must only request
// mutations through the kernel (RequestSpawn/RequestRemove); it must never
// call EntityManager directly. Grounded on core/collision_system.py's
// CollisionSystem.handle_fish_food_collision, generalized away from
// fish/food/nectar specifics.
type CollisionHandler func(k *kernel.Kernel, subject kernel.Entity, candidate kernel.Entity)

// CollisionSystem iterates one tag of "mobile" entities and, for each,
// queries the SpatialIndex for nearby entities matching a set of candidate
// tags, delegating the actual collision test and resolution to a
// CollisionHandler. Grounded on core/collision_system.py, replacing its
// AABB/circle detector duality with a single radius-based query (the
// kernel's SpatialIndex already does AABB cell bucketing; a radius query on
// top of it is the idiomatic Go re-expression per §9).
type CollisionSystem struct {
	name    string
	enabled bool

	subjectTag    string
	candidateTags []string
	queryRadius   float64
	handler       CollisionHandler

	updateCount int
}

// NewCollisionSystem returns a system that, each tick, finds every entity
// tagged subjectTag and checks it against entities tagged any of
// candidateTags within queryRadius, invoking handler per candidate found.
func NewCollisionSystem(subjectTag string, candidateTags []string, queryRadius float64, handler CollisionHandler) *CollisionSystem {
	return &CollisionSystem{
		name:          "Collision",
		enabled:       true,
		subjectTag:    subjectTag,
		candidateTags: candidateTags,
		queryRadius:   queryRadius,
		handler:       handler,
	}
}

func (s *CollisionSystem) Name() string        { return s.name }
func (s *CollisionSystem) Enabled() bool       { return s.enabled }
func (s *CollisionSystem) SetEnabled(v bool)   { s.enabled = v }
func (s *CollisionSystem) Phase() kernel.Phase { return kernel.PhaseCollision }

// Run scans k's entities tagged subjectTag and resolves candidate
// collisions via the configured handler. It is invoked explicitly by the
// owning WorldPack's kernel plumbing (a *CollisionSystem registered on a
// Kernel needs a live kernel reference to query SpatialIndex and entities;
// see NewBoundCollisionSystem for a self-contained variant).
func (s *CollisionSystem) Run(k *kernel.Kernel) kernel.SystemResult {
	if !s.enabled || s.handler == nil {
		return kernel.SystemResult{Skipped: true}
	}

	var affected uint32
	for _, subject := range k.Entities().ByType(s.subjectTag) {
		if subject.IsDead() {
			continue
		}
		candidates := k.Spatial().QueryInteractionCandidates(subject, s.queryRadius, s.candidateTags)
		for _, candidate := range candidates {
			s.handler(k, subject, candidate)
			affected++
		}
	}

	s.updateCount++
	return kernel.SystemResult{EntitiesAffected: affected}
}

// UpdateCount reports how many non-skipped Run calls this system has made.
func (s *CollisionSystem) UpdateCount() int { return s.updateCount }

var _ kernel.System = (*BoundCollisionSystem)(nil)

// BoundCollisionSystem adapts CollisionSystem to the kernel.System
// contract by holding its own engine reference, the way the source's
// BaseSystem subclasses hold self.engine. WorldPacks construct one of
// these (via NewBoundCollisionSystem) rather than the bare CollisionSystem,
// which stays reusable/testable without a live Kernel.
type BoundCollisionSystem struct {
	*CollisionSystem
	engine *kernel.Kernel
}

// NewBoundCollisionSystem ties a CollisionSystem to engine so it can
// satisfy kernel.System directly.
func NewBoundCollisionSystem(engine *kernel.Kernel, subjectTag string, candidateTags []string, queryRadius float64, handler CollisionHandler) *BoundCollisionSystem {
	return &BoundCollisionSystem{
		CollisionSystem: NewCollisionSystem(subjectTag, candidateTags, queryRadius, handler),
		engine:          engine,
	}
}

func (s *BoundCollisionSystem) Update(frame uint64) kernel.SystemResult {
	return s.Run(s.engine)
}
