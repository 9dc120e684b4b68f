package kernel

// Phase names one step of the canonical pipeline. The kernel records the
// currently executing phase so that privileged mutation calls can detect
// and reject unsafe direct edits to the entity collection.
type Phase string

// Canonical phase order. A WorldPack may substitute its own Pipeline, but
// should reproduce these semantics unless it has a specific reason not to.
const (
	PhaseFrameStart         Phase = "FRAME_START"
	PhaseTimeUpdate         Phase = "TIME_UPDATE"
	PhaseEnvironment        Phase = "ENVIRONMENT"
	PhaseEntityAct          Phase = "ENTITY_ACT"
	PhaseLifecycle          Phase = "LIFECYCLE"
	PhaseSpawn              Phase = "SPAWN"
	PhaseCollision          Phase = "COLLISION"
	PhaseInteraction        Phase = "INTERACTION"
	PhaseReproduction       Phase = "REPRODUCTION"
	PhaseFrameEnd           Phase = "FRAME_END"

	// PhaseInteractionProximity is a declared-phase tag for proximity-only
	// systems (candidate discovery), run alongside PhaseInteraction
	// (settlement) within the same INTERACTION pipeline step. Exported so
	// WorldPacks outside this package can tag their own proximity systems.
	PhaseInteractionProximity Phase = "INTERACTION_PROXIMITY"
)

// FrameContext carries per-tick state produced by early phases and consumed
// by later ones. It is rebuilt fresh at FRAME_START.
type FrameContext struct {
	TimeModifier float64
	TimeOfDay    float64

	Spawns       []SpawnRequest
	Removals     []RemovalRequest
	EnergyDeltas []EnergyDeltaRecord

	// actSpawns/actDeaths carry entities collected during ENTITY_ACT
	// (filtered through PhaseHooks) across to LIFECYCLE, where they are
	// turned into actual mutation-queue requests. Unexported: this is
	// pipeline-internal bookkeeping, not part of the stable output shape
	// documented in §3.
	actSpawns []Entity
	actDeaths []Entity
}

// SpawnRequest is one entry of the stable, per-frame spawn output.
type SpawnRequest struct {
	EntityType string
	EntityID   string
	Reason     string
	Metadata   map[string]any
}

// RemovalRequest is one entry of the stable, per-frame removal output.
type RemovalRequest struct {
	EntityType string
	EntityID   string
	Reason     string
	Metadata   map[string]any
}

// EnergyDeltaRecord is one entry of the stable, per-frame energy-change
// output.
type EnergyDeltaRecord struct {
	EntityID   string
	StableID   string
	EntityType string
	Delta      float64
	Source     string
	Metadata   map[string]any
}
