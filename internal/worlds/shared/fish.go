package shared

import (
	"math"
	"math/rand"

	"github.com/mbolaris/simkernel/internal/kernel"
)

// Fish is the mobile, energy-consuming agent both world packs seed.
// Grounded on core/entities/fish.py's Fish (energy economy, death-effect
// delay, asexual reproduction trait), stripped of the genome/behavior
// machinery — movement here is a simple wandering steering, not a learned
// policy, since the policy collaborator is out of this kernel's scope.
type Fish struct {
	id     int64
	x, y   float64
	vx, vy float64
	width  float64
	height float64

	energy    float64
	maxEnergy float64

	dead           bool
	dyingFrames    int
	deathHandled   bool
	asexualChance  float64

	env    *Environment
	events *kernel.EventBus
	rng    *rand.Rand

	dyingAnimationFrames int
}

// NewFish constructs a live fish at (x, y) with the given starting energy.
// dyingAnimationFrames bounds how long it lingers after death (see
// TickDyingAnimation); 0 falls back to 45, the source's default.
func NewFish(id int64, x, y float64, energy float64, env *Environment, events *kernel.EventBus, rng *rand.Rand, dyingAnimationFrames int) *Fish {
	if dyingAnimationFrames <= 0 {
		dyingAnimationFrames = 45
	}
	return &Fish{
		id:                   id,
		x:                    x,
		y:                    y,
		vx:                   (rng.Float64() - 0.5) * 2,
		vy:                   (rng.Float64() - 0.5) * 2,
		width:                20,
		height:               12,
		energy:               energy,
		maxEnergy:            200,
		asexualChance:        0.002,
		env:                  env,
		events:               events,
		rng:                  rng,
		dyingAnimationFrames: dyingAnimationFrames,
	}
}

func (f *Fish) Handle() kernel.Handle         { return f }
func (f *Fish) Position() (float64, float64)  { return f.x, f.y }
func (f *Fish) Size() (float64, float64)      { return f.width, f.height }
func (f *Fish) IsDead() bool                  { return f.dead }
func (f *Fish) EntityID() (int64, bool)       { return f.id, f.id >= 0 }
func (f *Fish) SnapshotType() string          { return "fish" }
func (f *Fish) Energy() float64               { return f.energy }

// Update advances the fish by one frame: steers gently, pays a
// speed-proportional energy cost, and transitions to the dying state once
// energy is exhausted. Reproduction and eating are driven by other systems
// (ReproductionSystem, a collision handler) which call AddEnergy/Reproduce
// directly; Update only owns locomotion and the energy clock.
func (f *Fish) Update(frame uint64, timeModifier, timeOfDay float64) kernel.UpdateResult {
	if f.dead {
		return kernel.UpdateResult{}
	}

	f.vx += (f.rng.Float64() - 0.5) * 0.2
	f.vy += (f.rng.Float64() - 0.5) * 0.2
	f.vx = clampFloat(f.vx, -2, 2)
	f.vy = clampFloat(f.vy, -2, 2)

	speed := math.Hypot(f.vx, f.vy)
	f.x += f.vx * timeModifier
	f.y += f.vy * timeModifier

	cost := 0.02 + 0.01*speed
	f.energy -= cost
	if f.events != nil {
		f.events.Emit(kernel.Moved{Entity: f, EnergyCost: cost, Distance: speed * timeModifier, Speed: speed})
	}

	if f.energy <= 0 {
		f.energy = 0
		f.dead = true
		f.dyingFrames = f.dyingAnimationFrames
	}

	return kernel.UpdateResult{}
}

// ConstrainToBounds defers to the owning Environment's geometry when one
// is set (petri's circular clamp, tank's rectangular clamp); falls back to
// a plain rectangular clamp against (width, height) otherwise.
func (f *Fish) ConstrainToBounds(width, height float64) {
	if f.env != nil {
		f.x, f.y = f.env.Clamp(f.x, f.y, f.width, f.height)
		return
	}
	f.x = clampFloat(f.x, 0, width-f.width)
	f.y = clampFloat(f.y, 0, height-f.height)
}

// AddEnergy applies a signed energy change, clamped to [0, maxEnergy], used
// by collision/interaction/reproduction handlers instead of mutating
// f.energy directly. It emits no event itself: its callers (eatFood,
// Reproduce) emit the matching AteFood/ReproducedEvent for the
// EnergyLedger.
func (f *Fish) AddEnergy(delta float64, source string) {
	f.energy += delta
	if f.energy > f.maxEnergy {
		f.energy = f.maxEnergy
	}
	if f.energy < 0 {
		f.energy = 0
	}
}

// TickDyingAnimation decrements the post-death timer and reports whether it
// has expired (removal should now be requested). Grounded on
// core/systems/entity_lifecycle.py's cleanup_dying_fish, generalized to a
// per-entity method rather than a system-owned sweep list.
func (f *Fish) TickDyingAnimation() bool {
	if !f.dead {
		return false
	}
	if f.dyingFrames > 0 {
		f.dyingFrames--
	}
	return f.dyingFrames <= 0
}

func (f *Fish) DyingFramesRemaining() int { return f.dyingFrames }

// CanReproduceAsexually requires the fish to be alive and above half its
// max energy, mirroring the source's life-stage + energy eligibility gate
// without a life-stage concept.
func (f *Fish) CanReproduceAsexually() bool {
	return !f.dead && f.energy > f.maxEnergy*0.5
}

func (f *Fish) AsexualReproductionChance() float64 { return f.asexualChance }

// Reproduce pays half the parent's energy and returns a new Fish at a
// nearby offset.
func (f *Fish) Reproduce() kernel.Entity {
	cost := f.energy * 0.5
	f.AddEnergy(-cost, "reproduction")
	if f.events != nil {
		f.events.Emit(kernel.ReproducedEvent{Entity: f, EnergyChange: -cost, OffspringType: "fish"})
	}

	offsetX := (f.rng.Float64() - 0.5) * 40
	offsetY := (f.rng.Float64() - 0.5) * 40
	// -1: no intrinsic ID. IdentityProvider assigns the baby a monotonic
	// counter within the fish offset band rather than reusing the
	// parent's stable ID.
	baby := NewFish(-1, f.x+offsetX, f.y+offsetY, cost, f.env, f.events, f.rng, f.dyingAnimationFrames)
	return baby
}

var (
	_ kernel.Entity       = (*Fish)(nil)
	_ kernel.Identifiable = (*Fish)(nil)
	_ kernel.SnapshotTyped = (*Fish)(nil)
)
