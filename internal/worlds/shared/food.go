package shared

import "github.com/mbolaris/simkernel/internal/kernel"

// Food is a sinking, non-agentic resource: it drifts downward until it
// either hits the bottom (removed as off-screen waste) or is consumed by a
// Fish via a collision handler. Grounded on core/entities/resources.py's
// Food, stripped of the object-pool lifecycle (a rendering-side memory
// optimization with no headless-kernel equivalent).
type Food struct {
	id     int64
	x, y   float64
	width  float64
	height float64

	sinkSpeed float64
	nutrition float64
	eaten     bool
}

// NewFood constructs food at (x, 0), sinking toward the bottom of its
// environment at sinkSpeed.
func NewFood(id int64, x float64, sinkSpeed, nutrition float64) *Food {
	if sinkSpeed <= 0 {
		sinkSpeed = 0.6
	}
	return &Food{id: id, x: x, y: 0, width: 6, height: 6, sinkSpeed: sinkSpeed, nutrition: nutrition}
}

func (f *Food) Handle() kernel.Handle        { return f }
func (f *Food) Position() (float64, float64) { return f.x, f.y }
func (f *Food) Size() (float64, float64)     { return f.width, f.height }
func (f *Food) IsDead() bool                 { return f.eaten }
func (f *Food) EntityID() (int64, bool)      { return f.id, f.id >= 0 }
func (f *Food) SnapshotType() string         { return "food" }
func (f *Food) Nutrition() float64           { return f.nutrition }

func (f *Food) Update(frame uint64, timeModifier, timeOfDay float64) kernel.UpdateResult {
	if f.eaten {
		return kernel.UpdateResult{}
	}
	f.y += f.sinkSpeed * timeModifier
	return kernel.UpdateResult{}
}

// ConstrainToBounds marks food dead once it sinks past the bottom of the
// world rather than clamping it in place — off-screen removal, per
// DESIGN.md's Open Question 2 decision, is a PhaseHooks concern that reacts
// to this death flag rather than the kernel enforcing it directly.
func (f *Food) ConstrainToBounds(width, height float64) {
	if f.y >= height-f.height {
		f.eaten = true
	}
}

// Consume marks the food eaten, for a collision handler to call once a
// fish has fully consumed it.
func (f *Food) Consume() { f.eaten = true }

var (
	_ kernel.Entity        = (*Food)(nil)
	_ kernel.Identifiable  = (*Food)(nil)
	_ kernel.SnapshotTyped = (*Food)(nil)
)

// LiveFood is food that expires on a timer instead of sinking off-screen —
// grounded on core/entities/resources.py's LiveFood.is_expired.
type LiveFood struct {
	id          int64
	x, y        float64
	width       float64
	height      float64
	framesLeft  int
	nutrition   float64
	eaten       bool
}

// NewLiveFood constructs live food at (x, y) that expires after
// lifetimeFrames frames unless eaten first.
func NewLiveFood(id int64, x, y float64, lifetimeFrames int, nutrition float64) *LiveFood {
	if lifetimeFrames <= 0 {
		lifetimeFrames = 600
	}
	return &LiveFood{id: id, x: x, y: y, width: 5, height: 5, framesLeft: lifetimeFrames, nutrition: nutrition}
}

func (f *LiveFood) Handle() kernel.Handle        { return f }
func (f *LiveFood) Position() (float64, float64) { return f.x, f.y }
func (f *LiveFood) Size() (float64, float64)     { return f.width, f.height }
func (f *LiveFood) IsDead() bool                 { return f.eaten || f.framesLeft <= 0 }
func (f *LiveFood) EntityID() (int64, bool)      { return f.id, f.id >= 0 }
func (f *LiveFood) SnapshotType() string         { return "food" }
func (f *LiveFood) Nutrition() float64           { return f.nutrition }

func (f *LiveFood) Update(frame uint64, timeModifier, timeOfDay float64) kernel.UpdateResult {
	if f.framesLeft > 0 {
		f.framesLeft--
	}
	return kernel.UpdateResult{}
}

func (f *LiveFood) ConstrainToBounds(width, height float64) {}

func (f *LiveFood) Consume() { f.eaten = true }

var (
	_ kernel.Entity        = (*LiveFood)(nil)
	_ kernel.Identifiable  = (*LiveFood)(nil)
	_ kernel.SnapshotTyped = (*LiveFood)(nil)
)
