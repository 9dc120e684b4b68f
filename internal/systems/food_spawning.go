package systems

import "github.com/mbolaris/simkernel/internal/kernel"

// SpawnRateConfig tunes FoodSpawningSystem's timer, grounded on
// core/systems/food_spawning.py's SpawnRateConfig dataclass. Thresholds are
// evaluated against a caller-supplied population energy total so the
// system stays agnostic of any specific entity type.
type SpawnRateConfig struct {
	BaseRate                int
	UltraLowEnergyThreshold float64
	LowEnergyThreshold      float64
	HighEnergyThreshold1    float64
	HighEnergyThreshold2    float64
	HighPopThreshold1       int
	HighPopThreshold2       int
	LiveFoodChance          float64
}

// DefaultSpawnRateConfig mirrors the source's module-level constants at
// typical tank scale.
func DefaultSpawnRateConfig() SpawnRateConfig {
	return SpawnRateConfig{
		BaseRate:                180,
		UltraLowEnergyThreshold: 200,
		LowEnergyThreshold:      500,
		HighEnergyThreshold1:    2000,
		HighEnergyThreshold2:    4000,
		HighPopThreshold1:       20,
		HighPopThreshold2:       40,
		LiveFoodChance:          0.35,
	}
}

// PopulationSnapshot is what FoodSpawningSystem needs to know about the
// world to pick a spawn rate and food kind: the mobile population count and
// its aggregate energy, plus the current time of day (0..1) for twilight
// live-food bias.
type PopulationSnapshot struct {
	Count       int
	TotalEnergy float64
	TimeOfDay   float64
}

// FoodSpawner is the collaborator hook a WorldPack supplies: given the
// kernel (for RNG and RequestSpawn) and a decision of which food kind to
// produce, construct and spawn the concrete entity. The system itself never
// constructs domain entities.
type FoodSpawner interface {
	Snapshot() PopulationSnapshot
	SpawnRegularFood(k *kernel.Kernel)
	SpawnLiveFood(k *kernel.Kernel)
}

// FoodSpawningSystem decides *when* and *what kind* of food to spawn;
// construction is delegated to a FoodSpawner collaborator. Grounded on
// core/systems/food_spawning.py's FoodSpawningSystem, keeping its dynamic
// spawn-rate thresholds and twilight live-food bias, dropping the object
// pool and environment-bounds plumbing (WorldPack/collaborator concerns).
//
// Like the source's BaseSystem, it holds its engine reference at
// construction time rather than receiving it per call.
type FoodSpawningSystem struct {
	name    string
	enabled bool
	engine  *kernel.Kernel
	config  SpawnRateConfig
	spawner FoodSpawner

	timer       int
	spawned     int
	liveSpawned int
	updateCount int
}

// NewFoodSpawningSystem returns a system wired to engine and spawner, using
// cfg (or DefaultSpawnRateConfig if cfg.BaseRate is zero).
func NewFoodSpawningSystem(engine *kernel.Kernel, spawner FoodSpawner, cfg SpawnRateConfig) *FoodSpawningSystem {
	if cfg.BaseRate <= 0 {
		cfg = DefaultSpawnRateConfig()
	}
	return &FoodSpawningSystem{name: "FoodSpawning", enabled: true, engine: engine, config: cfg, spawner: spawner}
}

func (s *FoodSpawningSystem) Name() string        { return s.name }
func (s *FoodSpawningSystem) Enabled() bool       { return s.enabled }
func (s *FoodSpawningSystem) SetEnabled(v bool)   { s.enabled = v }
func (s *FoodSpawningSystem) Phase() kernel.Phase { return kernel.PhaseSpawn }

func (s *FoodSpawningSystem) Update(frame uint64) kernel.SystemResult {
	if !s.enabled || s.spawner == nil {
		return kernel.SystemResult{Skipped: true}
	}
	s.updateCount++

	snap := s.spawner.Snapshot()
	rate := s.calculateSpawnRate(snap)

	s.timer++
	if s.timer < rate {
		return kernel.SystemResult{}
	}
	s.timer = 0

	spawnedLive := s.shouldSpawnLiveFood(snap.TimeOfDay)
	if spawnedLive {
		s.spawner.SpawnLiveFood(s.engine)
		s.liveSpawned++
	} else {
		s.spawner.SpawnRegularFood(s.engine)
	}
	s.spawned++

	return kernel.SystemResult{
		EntitiesSpawned: 1,
		Details: map[string]any{
			"live_food": spawnedLive,
		},
	}
}

func (s *FoodSpawningSystem) calculateSpawnRate(snap PopulationSnapshot) int {
	c := s.config
	switch {
	case snap.TotalEnergy < c.UltraLowEnergyThreshold:
		return c.BaseRate / 4
	case snap.TotalEnergy < c.LowEnergyThreshold:
		return c.BaseRate / 3
	case snap.TotalEnergy > c.HighEnergyThreshold2 || snap.Count > c.HighPopThreshold2:
		return c.BaseRate * 3
	case snap.TotalEnergy > c.HighEnergyThreshold1 || snap.Count > c.HighPopThreshold1:
		return int(float64(c.BaseRate) * 1.67)
	default:
		return c.BaseRate
	}
}

func (s *FoodSpawningSystem) shouldSpawnLiveFood(timeOfDay float64) bool {
	chance := s.config.LiveFoodChance

	isDawn := timeOfDay >= 0.15 && timeOfDay < 0.35
	isDay := timeOfDay >= 0.35 && timeOfDay < 0.65
	isDusk := timeOfDay >= 0.65 && timeOfDay < 0.85
	isNight := !isDawn && !isDay && !isDusk

	switch {
	case isDawn || isDusk:
		chance = minFloat(0.95, chance*2.2)
	case isNight:
		chance = minFloat(0.85, chance*1.6)
	case isDay:
		chance = maxFloat(0.25, chance*0.9)
	}

	return s.engine.RNG().Float64() < chance
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// SpawnedCount and LiveSpawnedCount mirror the source's debug counters.
func (s *FoodSpawningSystem) SpawnedCount() int     { return s.spawned }
func (s *FoodSpawningSystem) LiveSpawnedCount() int { return s.liveSpawned }

// UpdateCount reports how many non-skipped Update calls this system has run.
func (s *FoodSpawningSystem) UpdateCount() int { return s.updateCount }

var _ kernel.System = (*FoodSpawningSystem)(nil)
