package shared

import (
	"github.com/mbolaris/simkernel/internal/kernel"
	"github.com/mbolaris/simkernel/internal/systems"
)

// PackConfig configures a generic tank-like Pack. The tank and petri
// WorldPack wrappers differ only in Geometry (and petri's smaller default
// population), both constructing the same Pack underneath. Grounded on
// core/worlds/tank/pack.py's TankPack, which core/worlds/petri/pack.py
// subclassed with almost no divergence; here the divergence is pushed into
// Geometry instead of a subclass, so both modes share one implementation.
type PackConfig struct {
	ModeID   string
	Geometry Geometry

	InitialFish   int
	InitialPlants int
	MaxFish       int

	TimeCycleLength      uint64
	DyingAnimationFrames int

	FoodSinkSpeed          float64
	FoodNutrition          float64
	LiveFoodNutrition      float64
	LiveFoodLifetimeFrames int
	PlantBudIntervalFrames int

	CollisionQueryRadius   float64
	InteractionQueryRadius float64

	InitialFishEnergy float64
}

// DefaultPackConfig mirrors the source's tank-scale module constants.
func DefaultPackConfig() PackConfig {
	return PackConfig{
		InitialFish:            10,
		InitialPlants:          4,
		MaxFish:                60,
		TimeCycleLength:        kernel.DefaultTimeCycleLength,
		DyingAnimationFrames:   45,
		FoodSinkSpeed:          0.6,
		FoodNutrition:          25,
		LiveFoodNutrition:      40,
		LiveFoodLifetimeFrames: 600,
		PlantBudIntervalFrames: 300,
		CollisionQueryRadius:   24,
		InteractionQueryRadius: 30,
		InitialFishEnergy:      120,
	}
}

func (c PackConfig) normalize() PackConfig {
	d := DefaultPackConfig()
	if c.InitialFish <= 0 {
		c.InitialFish = d.InitialFish
	}
	if c.InitialPlants <= 0 {
		c.InitialPlants = d.InitialPlants
	}
	if c.MaxFish <= 0 {
		c.MaxFish = d.MaxFish
	}
	if c.TimeCycleLength == 0 {
		c.TimeCycleLength = d.TimeCycleLength
	}
	if c.DyingAnimationFrames <= 0 {
		c.DyingAnimationFrames = d.DyingAnimationFrames
	}
	if c.FoodSinkSpeed <= 0 {
		c.FoodSinkSpeed = d.FoodSinkSpeed
	}
	if c.FoodNutrition <= 0 {
		c.FoodNutrition = d.FoodNutrition
	}
	if c.LiveFoodNutrition <= 0 {
		c.LiveFoodNutrition = d.LiveFoodNutrition
	}
	if c.LiveFoodLifetimeFrames <= 0 {
		c.LiveFoodLifetimeFrames = d.LiveFoodLifetimeFrames
	}
	if c.PlantBudIntervalFrames <= 0 {
		c.PlantBudIntervalFrames = d.PlantBudIntervalFrames
	}
	if c.CollisionQueryRadius <= 0 {
		c.CollisionQueryRadius = d.CollisionQueryRadius
	}
	if c.InteractionQueryRadius <= 0 {
		c.InteractionQueryRadius = d.InteractionQueryRadius
	}
	if c.InitialFishEnergy <= 0 {
		c.InitialFishEnergy = d.InitialFishEnergy
	}
	return c
}

// registrationOrder is the system registration order core/worlds/tank/
// pack.py's register_systems uses: lifecycle, time, food_spawning,
// collision, proximity, reproduction, interaction.
var registrationOrder = []string{
	"lifecycle",
	"time",
	"food_spawning",
	"collision",
	"interaction_proximity",
	"reproduction",
	"interaction",
}

// Pack assembles a tank-like WorldPack: the fixed system wiring and entity
// seeding core/worlds/tank/pack.py's TankPack uses, parameterized over
// Geometry so petri only needs to supply a DiskGeometry and smaller
// InitialFish/MaxFish defaults.
type Pack struct {
	cfg    PackConfig
	plants *RootSpotAllocator

	env        *Environment
	timeSystem *systems.TimeSystem
	lifecycle  *systems.LifecycleSystem
	hooks      *TankLikePhaseHooks

	coreSystems map[string]kernel.System
}

// NewPack returns a Pack over cfg, defaulting any zero-valued field.
func NewPack(cfg PackConfig) *Pack {
	return &Pack{cfg: cfg.normalize(), plants: &RootSpotAllocator{}}
}

func (p *Pack) ModeID() string { return p.cfg.ModeID }

// KernelAPIVersion accepts any 1.x kernel.
func (p *Pack) KernelAPIVersion() string { return ">=1.0.0 <2.0.0" }

// BuildCoreSystems constructs every system the pack needs and returns them
// keyed by the names RegisterSystems uses. A BoundLifecycleSystem (not the bare
// LifecycleSystem) is used here so the registered system actually declares
// kernel.PhaseLifecycle, satisfying the resolver's mandatory-phase check.
func (p *Pack) BuildCoreSystems(k *kernel.Kernel) map[string]kernel.System {
	p.timeSystem = systems.NewTimeSystem(p.cfg.TimeCycleLength)

	boundLifecycle := systems.NewBoundLifecycleSystem(k)
	p.lifecycle = boundLifecycle.LifecycleSystem

	food := systems.NewFoodSpawningSystem(k, p, systems.DefaultSpawnRateConfig())
	collision := systems.NewBoundCollisionSystem(k, "fish", []string{"food", "nectar"}, p.cfg.CollisionQueryRadius, FishFoodCollision(p.plants))
	proximity := systems.NewProximitySystem(k, "fish", p.cfg.InteractionQueryRadius, neutralEncounter)
	interaction := systems.NewInteractionSystem(k, "fish", p.cfg.InteractionQueryRadius, neutralEncounter)
	reproduction := systems.NewReproductionSystem(k, "fish")

	p.coreSystems = map[string]kernel.System{
		"lifecycle":             boundLifecycle,
		"time":                  p.timeSystem,
		"food_spawning":         food,
		"collision":             collision,
		"interaction_proximity": proximity,
		"reproduction":          reproduction,
		"interaction":           interaction,
	}
	return p.coreSystems
}

// BuildEnvironment constructs the Environment over cfg.Geometry, wires the
// fish population cap onto the EntityManager (the authoritative cap;
// PhaseHooks.OnEntitySpawned only covers ENTITY_ACT-originated spawns), and
// builds the PhaseHooks that need a live lifecycle/time reference.
func (p *Pack) BuildEnvironment(k *kernel.Kernel) kernel.Environment {
	p.env = NewEnvironment(p.cfg.Geometry, p.timeSystem)
	p.hooks = NewTankLikePhaseHooks(p.lifecycle, p.plants, p.cfg.MaxFish, p.timeSystem)

	maxFish := p.cfg.MaxFish
	k.Entities().SetCapacityCheck(func(e kernel.Entity) bool {
		if _, ok := e.(*Fish); !ok {
			return true
		}
		return len(k.Entities().ByType("fish")) < maxFish
	})

	return p.env
}

// RegisterSystems registers the built systems in source order.
func (p *Pack) RegisterSystems(k *kernel.Kernel) {
	for _, name := range registrationOrder {
		if s, ok := p.coreSystems[name]; ok {
			k.Systems().Register(s)
		}
	}
}

// RegisterContracts is a no-op: action/observation translation for
// external policy control is an out-of-scope collaborator (spec.md's
// agent-behavior exclusion covers the policy that would consume it).
func (p *Pack) RegisterContracts(k *kernel.Kernel) {}

// SeedEntities enqueues the initial fish and plants, mirroring
// core/worlds/tank/pack.py's seed_entities (fish first, then plants).
func (p *Pack) SeedEntities(k *kernel.Kernel) {
	width, height := p.cfg.Geometry.Bounds()

	for i := 0; i < p.cfg.InitialFish; i++ {
		x := k.RNG().Float64() * width
		y := k.RNG().Float64() * height
		fish := NewFish(-1, x, y, p.cfg.InitialFishEnergy, p.env, k.Events(), k.RNG(), p.cfg.DyingAnimationFrames)
		k.RequestSpawn(fish, "seed", nil)
	}

	for i := 0; i < p.cfg.InitialPlants; i++ {
		x := k.RNG().Float64() * width
		y := height - 20
		spot := p.plants.Allocate()
		plant := NewPlant(-1, x, y, spot, p.cfg.PlantBudIntervalFrames)
		k.RequestSpawn(plant, "seed", nil)
	}
}

// Pipeline defers to the kernel's default canonical pipeline.
func (p *Pack) Pipeline() *kernel.Pipeline { return nil }

// IdentityProvider defers to the kernel's default StableIdentityProvider:
// its DefaultTypeOffsets bands (fish/plant/food/nectar) already match this
// pack's SnapshotType tags exactly.
func (p *Pack) IdentityProvider() kernel.IdentityProvider { return nil }

// PhaseHooks returns the pack's TankLikePhaseHooks.
func (p *Pack) PhaseHooks() kernel.PhaseHooks { return p.hooks }

// FastLaneTags declares "fish" (the mode's primary mobile agent) and "food"
// (its highest-churn spawn/despawn type) as SpatialIndex fast-lane buckets,
// satisfying kernel.FastLaneProvider.
func (p *Pack) FastLaneTags() []string { return []string{"fish", "food"} }

// Metadata mirrors core/worlds/tank/pack.py's get_metadata.
func (p *Pack) Metadata() map[string]any {
	width, height := p.cfg.Geometry.Bounds()
	return map[string]any{
		"world_type": p.cfg.ModeID,
		"width":      width,
		"height":     height,
	}
}

// Snapshot satisfies systems.FoodSpawner by delegating to the cached
// population view PhaseHooks refreshes each LIFECYCLE/REPRODUCTION phase.
func (p *Pack) Snapshot() systems.PopulationSnapshot {
	if p.hooks == nil {
		return systems.PopulationSnapshot{}
	}
	return p.hooks.Snapshot()
}

// SpawnRegularFood constructs sinking Food at a random point along the top
// of the world and queues it for spawn.
func (p *Pack) SpawnRegularFood(k *kernel.Kernel) {
	width, _ := p.cfg.Geometry.Bounds()
	x := k.RNG().Float64() * width
	food := NewFood(-1, x, p.cfg.FoodSinkSpeed, p.cfg.FoodNutrition)
	k.RequestSpawn(food, "food_spawn", nil)
}

// SpawnLiveFood constructs timer-expiring LiveFood at a random point and
// queues it for spawn.
func (p *Pack) SpawnLiveFood(k *kernel.Kernel) {
	width, height := p.cfg.Geometry.Bounds()
	x := k.RNG().Float64() * width
	y := k.RNG().Float64() * height
	live := NewLiveFood(-1, x, y, p.cfg.LiveFoodLifetimeFrames, p.cfg.LiveFoodNutrition)
	k.RequestSpawn(live, "live_food_spawn", nil)
}

// neutralEncounter settles a fish-fish proximity/interaction pair as a
// neutral, zero-energy encounter. The source's actual interaction policy
// (a poker minigame) is an out-of-scope collaborator per spec.md; this
// stub still exercises the INTERACTION/INTERACTION_PROXIMITY phases and
// the InteractionSettled event shape a real policy collaborator would use.
func neutralEncounter(k *kernel.Kernel, a, b kernel.Entity) {
	fish, ok := a.(*Fish)
	if !ok {
		return
	}
	events := k.Events()
	if events == nil {
		return
	}
	events.Emit(kernel.InteractionSettled{
		Entity:       fish,
		EnergyChange: 0,
		OpponentType: "fish",
		Won:          false,
		Outcome:      "neutral_encounter",
	})
}

var (
	_ kernel.WorldPack        = (*Pack)(nil)
	_ kernel.FastLaneProvider = (*Pack)(nil)
	_ systems.FoodSpawner     = (*Pack)(nil)
)
