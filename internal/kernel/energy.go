package kernel

import (
	"math"
	"reflect"
)

// EnergyDelta is the pure-function output of EnergyLedger.Apply: one signed
// change attributed to a single entity handle, before identity resolution.
type EnergyDelta struct {
	Handle   Handle
	Delta    float64
	Reason   string
	Metadata map[string]any
}

// EnergyLedger converts domain events into energy deltas. It holds no
// state: given an event, Apply always returns the same deltas. Events
// whose purpose is telemetry only must yield zero deltas, to avoid
// double-accounting when the emitting component already mutated the
// entity's energy directly.
type EnergyLedger struct{}

// NewEnergyLedger returns a ledger. It carries no state; a constructor
// exists for symmetry with the rest of the kernel's collaborators and to
// leave room for future configuration (e.g. a energy-scaling factor).
func NewEnergyLedger() *EnergyLedger { return &EnergyLedger{} }

// Apply dispatches on the event's concrete type and returns zero or more
// deltas.
func (l *EnergyLedger) Apply(event any) []EnergyDelta {
	switch e := event.(type) {
	case AteFood:
		return []EnergyDelta{{
			Handle: e.Entity,
			Delta:  e.EnergyGained,
			Reason: "ate_food",
			Metadata: map[string]any{
				"food_type":   e.FoodType,
				"food_id":     e.FoodID,
				"algorithm_id": e.AlgorithmID,
			},
		}}
	case Moved:
		return []EnergyDelta{{
			Handle: e.Entity,
			Delta:  -math.Abs(e.EnergyCost),
			Reason: "movement",
			Metadata: map[string]any{
				"distance": e.Distance,
				"speed":    e.Speed,
			},
		}}
	case EnergyBurned:
		// Telemetry only: the emitting component already mutated the
		// entity's energy directly. Returning deltas here would
		// double-count the change.
		return nil
	case ReproducedEvent:
		return []EnergyDelta{{
			Handle: e.Entity,
			Delta:  e.EnergyChange,
			Reason: "reproduction",
			Metadata: map[string]any{
				"offspring_type": e.OffspringType,
			},
		}}
	case InteractionSettled:
		return []EnergyDelta{{
			Handle: e.Entity,
			Delta:  e.EnergyChange,
			Reason: "interaction",
			Metadata: map[string]any{
				"opponent_type": e.OpponentType,
				"won":           e.Won,
				"outcome":       e.Outcome,
			},
		}}
	default:
		return nil
	}
}

// builtinEventTypes lists every event class the EnergyLedger knows how to
// convert into deltas, used by the kernel to wire its energy recorder onto
// the event bus once per construction.
func builtinEventTypes() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(AteFood{}),
		reflect.TypeOf(Moved{}),
		reflect.TypeOf(EnergyBurned{}),
		reflect.TypeOf(ReproducedEvent{}),
		reflect.TypeOf(InteractionSettled{}),
	}
}

// AteFood is emitted when an entity consumes a food resource.
type AteFood struct {
	Entity       Handle
	EnergyGained float64
	FoodType     string
	FoodID       string
	AlgorithmID  string
}

// Moved is emitted after an entity's position changes, carrying the
// movement energy cost.
type Moved struct {
	Entity     Handle
	EnergyCost float64
	Distance   float64
	Speed      float64
}

// EnergyBurned is a telemetry-only broadcast for energy already deducted by
// the emitting component. The ledger yields zero deltas for it.
type EnergyBurned struct {
	Entity   Handle
	Amount   float64
	Reason   string
	Metadata map[string]any
}

// ReproducedEvent is emitted when an entity pays (or recoups) energy as part
// of reproduction.
type ReproducedEvent struct {
	Entity        Handle
	EnergyChange  float64
	OffspringType string
}

// InteractionSettled generalizes the source's poker-specific
// PokerGamePlayed event into a collaborator-neutral interaction-settlement
// event, since the interaction game itself is an out-of-scope collaborator.
type InteractionSettled struct {
	Entity       Handle
	EnergyChange float64
	OpponentType string
	Won          bool
	Outcome      string
}
