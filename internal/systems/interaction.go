package systems

import "github.com/mbolaris/simkernel/internal/kernel"

// InteractionHandler resolves whatever domain-specific social interaction
// occurs between two entities found in proximity (the source's poker game,
// or any other collaborator), reporting its outcome via
// kernel.InteractionSettled on the event bus and/or mutation requests.
type InteractionHandler func(k *kernel.Kernel, a, b kernel.Entity)

// ProximitySystem groups nearby entities of a single tag and hands each
// pair found within radius to an InteractionHandler. It declares the
// internal INTERACTION_PROXIMITY phase tag (run alongside INTERACTION
// systems) so the capability resolver can distinguish "found candidates"
// systems from "resolved interaction" systems per §4.13, even though both
// execute in the same pipeline step.
type ProximitySystem struct {
	name    string
	enabled bool
	engine  *kernel.Kernel

	tag         string
	queryRadius float64
	handler     InteractionHandler

	pairsFound  int
	updateCount int
}

// NewProximitySystem returns a ProximitySystem scanning entities tagged tag
// for others of the same tag within queryRadius.
func NewProximitySystem(engine *kernel.Kernel, tag string, queryRadius float64, handler InteractionHandler) *ProximitySystem {
	return &ProximitySystem{name: "Proximity", enabled: true, engine: engine, tag: tag, queryRadius: queryRadius, handler: handler}
}

func (s *ProximitySystem) Name() string        { return s.name }
func (s *ProximitySystem) Enabled() bool       { return s.enabled }
func (s *ProximitySystem) SetEnabled(v bool)   { s.enabled = v }
func (s *ProximitySystem) Phase() kernel.Phase { return kernel.PhaseInteractionProximity }

func (s *ProximitySystem) Update(frame uint64) kernel.SystemResult {
	if !s.enabled || s.handler == nil {
		return kernel.SystemResult{Skipped: true}
	}

	seen := make(map[kernel.Handle]bool)
	var events uint32

	for _, a := range s.engine.Entities().ByType(s.tag) {
		if a.IsDead() {
			continue
		}
		seen[a.Handle()] = true

		for _, b := range s.engine.Spatial().QueryType(a, s.queryRadius, s.tag) {
			if seen[b.Handle()] {
				// already resolved this pair from b's perspective
				continue
			}
			s.handler(s.engine, a, b)
			s.pairsFound++
			events++
		}
	}

	s.updateCount++
	return kernel.SystemResult{EventsEmitted: events}
}

// PairsFound mirrors the kind of debug counters the source's systems carry.
func (s *ProximitySystem) PairsFound() int { return s.pairsFound }

// UpdateCount reports how many non-skipped Update calls this system has run.
func (s *ProximitySystem) UpdateCount() int { return s.updateCount }

var _ kernel.System = (*ProximitySystem)(nil)

// InteractionSystem is the settlement counterpart: a WorldPack registers
// one per distinct interaction kind (combat, trade, mating...) under the
// ordinary INTERACTION phase. It is a thin System wrapper since all of its
// actual logic lives in the InteractionHandler collaborator; the system's
// job is purely to decide *which pairs* get evaluated, mirroring
// ProximitySystem's structure but without the same-phase distinction.
type InteractionSystem struct {
	*ProximitySystem
}

// NewInteractionSystem returns an InteractionSystem; unlike ProximitySystem
// it declares the ordinary INTERACTION phase.
func NewInteractionSystem(engine *kernel.Kernel, tag string, queryRadius float64, handler InteractionHandler) *InteractionSystem {
	return &InteractionSystem{ProximitySystem: NewProximitySystem(engine, tag, queryRadius, handler)}
}

// Name overrides the embedded ProximitySystem's name: both are registered
// side by side in the same SystemRegistry, which keys registration by name
// and would otherwise let this one silently evict the proximity system
// sharing its tag.
func (s *InteractionSystem) Name() string { return "Interaction" }

func (s *InteractionSystem) Phase() kernel.Phase { return kernel.PhaseInteraction }

var _ kernel.System = (*InteractionSystem)(nil)
