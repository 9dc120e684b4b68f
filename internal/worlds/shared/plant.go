package shared

import "github.com/mbolaris/simkernel/internal/kernel"

// Plant is a stationary resource that ages and periodically buds
// PlantNectar. Grounded on core/entities/fractal_plant.py's FractalPlant,
// stripped of its L-system fractal-growth rendering geometry — a headless
// kernel has no renderer to grow a shape for, only the nectar-production
// rate that rendering geometry was a proxy for.
type Plant struct {
	id     int64
	x, y   float64
	width  float64
	height float64

	age          uint64
	dead         bool
	budTimer     int
	budInterval  int
	rootSpot     int
}

// NewPlant constructs a plant at (x, y) occupying rootSpot (an index into
// the pack's root-spot allocator, released on death), producing nectar
// every budInterval frames.
func NewPlant(id int64, x, y float64, rootSpot, budInterval int) *Plant {
	if budInterval <= 0 {
		budInterval = 300
	}
	return &Plant{id: id, x: x, y: y, width: 24, height: 24, budInterval: budInterval, rootSpot: rootSpot}
}

func (p *Plant) Handle() kernel.Handle        { return p }
func (p *Plant) Position() (float64, float64) { return p.x, p.y }
func (p *Plant) Size() (float64, float64)     { return p.width, p.height }
func (p *Plant) IsDead() bool                 { return p.dead }
func (p *Plant) EntityID() (int64, bool)      { return p.id, p.id >= 0 }
func (p *Plant) SnapshotType() string         { return "plant" }
func (p *Plant) RootSpot() int                { return p.rootSpot }

func (p *Plant) Update(frame uint64, timeModifier, timeOfDay float64) kernel.UpdateResult {
	if p.dead {
		return kernel.UpdateResult{}
	}
	p.age++

	p.budTimer++
	if p.budTimer < p.budInterval {
		return kernel.UpdateResult{}
	}
	p.budTimer = 0

	nectar := NewPlantNectar(-1, p.x, p.y-p.height/2, p)
	return kernel.UpdateResult{Spawned: []kernel.Entity{nectar}}
}

func (p *Plant) ConstrainToBounds(width, height float64) {}

// Die marks the plant dead; it does not release its root spot. The pack's
// PhaseHooks (TankLikePhaseHooks.OnEntityDied) returns RootSpot() to the
// allocator.
func (p *Plant) Die() { p.dead = true }

var (
	_ kernel.Entity        = (*Plant)(nil)
	_ kernel.Identifiable  = (*Plant)(nil)
	_ kernel.SnapshotTyped = (*Plant)(nil)
)

// PlantNectar is food produced by a Plant: it drifts briefly then expires,
// and when consumed can trigger a new plant sprouting (handled by a
// collision handler, not by the nectar itself). Grounded on
// core/entities/fractal_plant.py's PlantNectar.
type PlantNectar struct {
	id          int64
	x, y        float64
	width       float64
	height      float64
	framesLeft  int
	consumed    bool
	sourcePlant *Plant
}

// NewPlantNectar constructs nectar budded from source at (x, y).
func NewPlantNectar(id int64, x, y float64, source *Plant) *PlantNectar {
	return &PlantNectar{id: id, x: x, y: y, width: 4, height: 4, framesLeft: 450, sourcePlant: source}
}

func (n *PlantNectar) Handle() kernel.Handle        { return n }
func (n *PlantNectar) Position() (float64, float64) { return n.x, n.y }
func (n *PlantNectar) Size() (float64, float64)     { return n.width, n.height }
func (n *PlantNectar) IsDead() bool                 { return n.consumed || n.framesLeft <= 0 }
func (n *PlantNectar) EntityID() (int64, bool)      { return n.id, n.id >= 0 }
func (n *PlantNectar) SnapshotType() string         { return "nectar" }
func (n *PlantNectar) SourcePlant() *Plant          { return n.sourcePlant }

func (n *PlantNectar) Update(frame uint64, timeModifier, timeOfDay float64) kernel.UpdateResult {
	if n.framesLeft > 0 {
		n.framesLeft--
	}
	n.y += 0.05 * timeModifier
	return kernel.UpdateResult{}
}

func (n *PlantNectar) ConstrainToBounds(width, height float64) {}

func (n *PlantNectar) Consume() { n.consumed = true }

var (
	_ kernel.Entity        = (*PlantNectar)(nil)
	_ kernel.Identifiable  = (*PlantNectar)(nil)
	_ kernel.SnapshotTyped = (*PlantNectar)(nil)
)
