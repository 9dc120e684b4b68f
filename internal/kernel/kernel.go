// Package kernel implements the deterministic, headless multi-agent
// simulation engine: a fixed phase pipeline, a deferred-mutation entity
// collection, a uniform-grid spatial index, stable cross-frame identity,
// and the pluggable WorldPack contract that lets world modes compose a
// kernel without the kernel knowing any concrete entity type.
package kernel

import (
	"context"
	"fmt"
	"math/rand"
	"reflect"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/mbolaris/simkernel/internal/graph"
	"github.com/mbolaris/simkernel/internal/resolver"
	"github.com/mbolaris/simkernel/internal/semver"
)

// Version is the kernel's own API version, checked against a WorldPack's
// declared KernelAPIVersion constraint at Setup.
const Version = "1.0.0"

// mandatoryPhases are the phase tags the capability resolver treats as
// required: every pack must have at least one enabled system declaring
// each of these, or Setup fails with ErrSetup.
var mandatoryPhases = []string{
	string(PhaseLifecycle),
	string(PhaseCollision),
	string(PhaseReproduction),
	string(PhaseInteractionProximity),
}

// Kernel (the SimulationEngine) owns per-tick state and drives the
// pipeline. It is the sole type embedding applications construct directly;
// everything else is assembled through a WorldPack.
type Kernel struct {
	config KernelConfig

	frameCount   uint64
	paused       bool
	currentPhase *Phase

	rng    *rand.Rand
	seed   uint64
	runID  string

	entities   *EntityManager
	spatial    *SpatialIndex
	queue      *MutationQueue
	txn        *MutationTransaction
	identity   IdentityProvider
	events     *EventBus
	energy     *EnergyLedger
	systems    *SystemRegistry
	pipeline   *Pipeline
	hooks      PhaseHooks
	env        Environment

	logger    logr.Logger
	metrics   MetricsRecorder
	publisher DeltaPublisher

	worldType string
	metadata  map[string]any

	frameSpawns       []SpawnRequest
	frameRemovals     []RemovalRequest
	frameEnergyDeltas []EnergyDeltaRecord
}

// New constructs a Kernel from config. Setup must be called before Update.
func New(config KernelConfig, logger logr.Logger) *Kernel {
	config = config.normalize()

	var seed uint64
	if config.Seed != nil {
		seed = *config.Seed
	} else {
		seed = uint64(rand.New(rand.NewSource(int64(uuid.New().ID()))).Int63())
	}
	rng := rand.New(rand.NewSource(int64(seed)))

	spatial := NewSpatialIndex(config.Display.Width, config.Display.Height, config.SpatialCellSize)
	entities := NewEntityManager(spatial)
	events := NewEventBus()
	identity := NewStableIdentityProvider(DefaultTypeOffsets())
	queue := NewMutationQueue()

	k := &Kernel{
		config:   config,
		rng:      rng,
		seed:     seed,
		runID:    uuid.New().String(),
		entities: entities,
		spatial:  spatial,
		queue:    queue,
		identity: identity,
		events:   events,
		energy:   NewEnergyLedger(),
		systems:  NewSystemRegistry(),
		hooks:    NoOpPhaseHooks{},
		logger:   logger,
		metrics:  NoOpMetricsRecorder{},
		publisher: NoOpPublisher{},
	}
	k.txn = NewMutationTransaction(queue, identity, events)
	k.energyRecorder()
	events.Subscribe(spawnRejectedType, func(event any) {
		if rejected, ok := event.(SpawnRejected); ok {
			k.metrics.IncSpawnRejected(rejected.EntityType)
		}
	})

	return k
}

var spawnRejectedType = reflect.TypeOf(SpawnRejected{})

// energyRecorder wires the EnergyLedger to the kernel's built-in events so
// every AteFood/Moved/EnergyBurned/ReproducedEvent/InteractionSettled
// emitted to the EventBus is also appended to the current frame's
// EnergyDeltaRecord list.
func (k *Kernel) energyRecorder() {
	record := func(event any) {
		deltas := k.energy.Apply(event)
		for _, d := range deltas {
			typeName, stableID := k.identity.GetIdentity(entityOrNil(k, d.Handle))
			k.frameEnergyDeltas = append(k.frameEnergyDeltas, EnergyDeltaRecord{
				EntityID:   stableID,
				StableID:   stableID,
				EntityType: typeName,
				Delta:      d.Delta,
				Source:     d.Reason,
				Metadata:   d.Metadata,
			})
		}
	}
	for _, eventType := range builtinEventTypes() {
		k.events.handlers[eventType] = append(k.events.handlers[eventType], record)
	}
}

// entityOrNil resolves a Handle back to the live Entity instance so the
// identity provider can compute its (typeName, stableID) pair. Energy
// events are expected to fire only for handles still present in the
// collection this frame.
func entityOrNil(k *Kernel, h Handle) Entity {
	for _, e := range k.entities.entities {
		if e.Handle() == h {
			return e
		}
	}
	return handleOnlyEntity{handle: h}
}

// handleOnlyEntity is a degenerate Entity used only so GetIdentity can
// resolve a stable ID for a handle whose owning entity has already left
// the collection (e.g. a death that emits an energy event in the same
// phase as its removal request).
type handleOnlyEntity struct{ handle Handle }

func (h handleOnlyEntity) Handle() Handle                                      { return h.handle }
func (h handleOnlyEntity) Position() (float64, float64)                        { return 0, 0 }
func (h handleOnlyEntity) Size() (float64, float64)                            { return 0, 0 }
func (h handleOnlyEntity) IsDead() bool                                        { return true }
func (h handleOnlyEntity) Update(uint64, float64, float64) UpdateResult       { return UpdateResult{} }
func (h handleOnlyEntity) ConstrainToBounds(float64, float64)                  {}

// Setup wires a WorldPack onto the kernel, in the fixed order the teacher's
// sample engine and the source's SimulationEngine.setup both use: build
// core systems, build the environment, register systems and contracts,
// validate the assembled pack against the capability resolver, seed
// entities, capture the pipeline/identity provider/hooks, and finally
// commit whatever mutations seeding queued.
func (k *Kernel) Setup(pack WorldPack) error {
	if err := k.checkAPIVersion(pack); err != nil {
		return err
	}

	if flp, ok := pack.(FastLaneProvider); ok {
		k.spatial.EnableFastLane(flp.FastLaneTags()...)
	}

	coreSystems := pack.BuildCoreSystems(k)
	k.logger.V(1).Info("built core systems", "count", len(coreSystems), "mode", pack.ModeID())

	k.env = pack.BuildEnvironment(k)

	pack.RegisterSystems(k)
	pack.RegisterContracts(k)

	if err := k.validateSystemCoverage(); err != nil {
		return err
	}

	pack.SeedEntities(k)

	if p := pack.Pipeline(); p != nil {
		k.pipeline = p
	} else {
		k.pipeline = DefaultPipeline()
	}

	if idp := pack.IdentityProvider(); idp != nil {
		k.identity = idp
		k.txn = NewMutationTransaction(k.queue, idp, k.events)
	}

	if h := pack.PhaseHooks(); h != nil {
		k.hooks = h
	}

	k.worldType = pack.ModeID()
	k.metadata = pack.Metadata()

	k.txn.Commit(k.entities, false, nil)
	k.entities.RebuildViews()

	return nil
}

func (k *Kernel) checkAPIVersion(pack WorldPack) error {
	raw := pack.KernelAPIVersion()
	if raw == "" {
		return nil
	}
	constraint, err := semver.ParseConstraint(raw)
	if err != nil {
		return fmt.Errorf("%w: parse KernelAPIVersion %q: %v", ErrSetup, raw, err)
	}
	running, err := semver.ParseVersion(Version)
	if err != nil {
		return fmt.Errorf("%w: parse running kernel version %q: %v", ErrSetup, Version, err)
	}
	if !semver.Satisfies(running, constraint) {
		return fmt.Errorf("%w: kernel version %s does not satisfy pack constraint %q", ErrSetup, Version, raw)
	}
	return nil
}

// validateSystemCoverage runs the capability resolver over the registered
// systems and fails Setup with ErrSetup if any mandatory phase lacks an
// enabled provider.
func (k *Kernel) validateSystemCoverage() error {
	dg := graph.DependencyGraph{}
	for _, s := range k.systems.All() {
		dg.Systems = append(dg.Systems, graph.SystemNode{
			Name:    s.Name(),
			Phase:   string(s.Phase()),
			Enabled: s.Enabled(),
		})
	}

	plan, err := resolver.NewDefault().Resolve(context.Background(), resolver.Input{
		RequiredPhases:   mandatoryPhases,
		ProvidersByPhase: dg.ProvidersByPhase(),
	})
	if err != nil {
		return fmt.Errorf("%w: capability resolution: %v", ErrSetup, err)
	}
	if len(plan.Diagnostics.UnresolvedRequired) > 0 {
		return fmt.Errorf("%w: unresolved required systems: %+v", ErrSetup, plan.Diagnostics.UnresolvedRequired)
	}
	return nil
}

// SetLogger replaces the kernel's logger.
func (k *Kernel) SetLogger(l logr.Logger) { k.logger = l }

// Logger returns the kernel's current logger.
func (k *Kernel) Logger() logr.Logger { return k.logger }

// SetMetrics installs a metrics recorder. Passing nil restores the no-op
// default.
func (k *Kernel) SetMetrics(m MetricsRecorder) {
	if m == nil {
		m = NoOpMetricsRecorder{}
	}
	k.metrics = m
}

// SetDeltaPublisher installs an optional fan-out sink for the per-frame
// delta stream. Passing nil restores the no-op default. This is an
// embedding-process wiring point; the kernel's own tests never configure
// one.
func (k *Kernel) SetDeltaPublisher(p DeltaPublisher) {
	if p == nil {
		p = NoOpPublisher{}
	}
	k.publisher = p
}

// Publisher returns the kernel's currently configured delta publisher
// (NoOpPublisher if none was set), for an embedding process to drive
// itself each frame alongside DrainFrameOutputs.
func (k *Kernel) Publisher() DeltaPublisher { return k.publisher }

// Update advances the simulation by one frame, unless paused. Wall-clock
// time is measured only to report kernel_frame_duration_seconds; it never
// feeds back into simulation state, which advances purely by frame count.
func (k *Kernel) Update() error {
	if k.paused {
		return nil
	}
	start := time.Now()
	err := k.pipeline.Run(k)
	k.metrics.ObserveFrameDuration(time.Since(start).Seconds())
	return err
}

// SetPaused toggles the paused flag, consulted only at the top of Update.
func (k *Kernel) SetPaused(paused bool) { k.paused = paused }

// Paused reports the current paused flag.
func (k *Kernel) Paused() bool { return k.paused }

// Frame returns the current frame count.
func (k *Kernel) Frame() uint64 { return k.frameCount }

// RunID returns this engine instance's run identifier.
func (k *Kernel) RunID() string { return k.runID }

// Seed returns the RNG seed this engine was constructed with.
func (k *Kernel) Seed() uint64 { return k.seed }

// RNG returns the engine's single seeded random source. Collaborators
// needing their own *rand.Rand must seed it once from RNG().Int63() at
// construction time, never from wall-clock or the global source.
func (k *Kernel) RNG() *rand.Rand { return k.rng }

// CurrentPhase returns the phase in progress, or nil outside Update.
func (k *Kernel) CurrentPhase() *Phase { return k.currentPhase }

// Config returns the kernel's normalized configuration.
func (k *Kernel) Config() KernelConfig { return k.config }

// Entities returns the entity manager.
func (k *Kernel) Entities() *EntityManager { return k.entities }

// Spatial returns the spatial index.
func (k *Kernel) Spatial() *SpatialIndex { return k.spatial }

// Events returns the event bus.
func (k *Kernel) Events() *EventBus { return k.events }

// Energy returns the energy ledger.
func (k *Kernel) Energy() *EnergyLedger { return k.energy }

// Systems returns the system registry.
func (k *Kernel) Systems() *SystemRegistry { return k.systems }

// Identity returns the identity provider.
func (k *Kernel) Identity() IdentityProvider { return k.identity }

// Environment returns the mode's environment, or nil before Setup.
func (k *Kernel) Environment() Environment { return k.env }

// WorldType returns the active mode's ID.
func (k *Kernel) WorldType() string { return k.worldType }

// RequestSpawn enqueues e for addition at the next commit.
func (k *Kernel) RequestSpawn(e Entity, reason string, metadata map[string]any) bool {
	return k.queue.RequestSpawn(e, reason, metadata)
}

// RequestRemove enqueues e for removal at the next commit.
func (k *Kernel) RequestRemove(e Entity, reason string, metadata map[string]any) bool {
	return k.queue.RequestRemove(e, reason, metadata)
}

// AddEntity privileged-adds e directly, bypassing the mutation queue. Only
// legal outside an active phase (setup, persistence restore); returns
// ErrUnsafeMutation otherwise.
func (k *Kernel) AddEntity(e Entity) error {
	if k.currentPhase != nil {
		return fmt.Errorf("%w: AddEntity called during phase %s", ErrUnsafeMutation, *k.currentPhase)
	}
	k.entities.Add(e, true)
	return nil
}

// RemoveEntity privileged-removes e directly, bypassing the mutation
// queue. Only legal outside an active phase.
func (k *Kernel) RemoveEntity(e Entity) error {
	if k.currentPhase != nil {
		return fmt.Errorf("%w: RemoveEntity called during phase %s", ErrUnsafeMutation, *k.currentPhase)
	}
	k.entities.Remove(e, true)
	return nil
}

// DrainFrameOutputs returns copies of the current frame's delta buffers and
// clears them.
func (k *Kernel) DrainFrameOutputs() ([]SpawnRequest, []RemovalRequest, []EnergyDeltaRecord) {
	spawns := append([]SpawnRequest(nil), k.frameSpawns...)
	removals := append([]RemovalRequest(nil), k.frameRemovals...)
	deltas := append([]EnergyDeltaRecord(nil), k.frameEnergyDeltas...)

	k.frameSpawns = nil
	k.frameRemovals = nil
	k.frameEnergyDeltas = nil

	return spawns, removals, deltas
}

// commit drains the mutation queue into the entity collection, appending
// outputs to the per-frame buffers.
func (k *Kernel) commit() {
	spawns, removals := k.txn.Commit(k.entities, true, func(Entity) {})
	k.frameSpawns = append(k.frameSpawns, spawns...)
	k.frameRemovals = append(k.frameRemovals, removals...)
	k.metrics.SetMutationQueueDepth(float64(k.queue.PendingSpawnCount() + k.queue.PendingRemovalCount()))
}

// Snapshot is the kernel's read-only external view of current state.
type Snapshot struct {
	Frame      uint64
	Paused     bool
	Width      float64
	Height     float64
	Entities   []EntitySnapshot
	RenderHint map[string]any
	WorldType  string
}

// EntitySnapshot carries the stable-ID-keyed, mode-defined fields a
// renderer needs. The kernel only fills TypeName/StableID/X/Y; everything
// else is mode-defined via Extra.
type EntitySnapshot struct {
	TypeName string
	StableID string
	X, Y     float64
	Extra    map[string]any
}

// Snapshot returns a read-only view of the current frame's state. Entity
// IDs always match IdentityProvider's stable IDs.
func (k *Kernel) Snapshot(renderHint map[string]any) Snapshot {
	entities := k.entities.All()
	out := make([]EntitySnapshot, 0, len(entities))
	for _, e := range entities {
		typeName, stableID := k.identity.GetIdentity(e)
		x, y := e.Position()
		out = append(out, EntitySnapshot{TypeName: typeName, StableID: stableID, X: x, Y: y})
	}

	return Snapshot{
		Frame:      k.frameCount,
		Paused:     k.paused,
		Width:      k.config.Display.Width,
		Height:     k.config.Display.Height,
		Entities:   out,
		RenderHint: renderHint,
		WorldType:  k.worldType,
	}
}
