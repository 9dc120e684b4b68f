package kernel

import "os"

// Display describes the world's visible extents. FrameRate is informational
// only; it never drives the simulation clock, which advances purely by
// frame count.
type Display struct {
	Width     float64
	Height    float64
	FrameRate float64
}

// KernelConfig configures a Kernel instance before Setup is called. It is
// constructed by value and normalized once, mirroring the teacher's
// Config/SampleGameConfig defaulting pattern.
type KernelConfig struct {
	// Seed, if non-nil, is used to construct the engine's single RNG. If
	// nil, the engine draws its own seed and records it on RunID for logs.
	Seed *uint64

	Display Display

	// SpatialCellSize is the SpatialIndex's uniform grid cell size, in
	// world units. Must be positive; defaulted if zero or negative.
	SpatialCellSize float64

	// TimeCycleLength is the number of frames in one full day/night cycle.
	TimeCycleLength uint64

	// DyingAnimationFrames bounds how long an entity may remain in the
	// collection after IsDead() becomes true before the lifecycle system
	// requests its removal. Mode-specific lifecycle systems enforce this;
	// the kernel itself only carries the config value.
	DyingAnimationFrames int

	// EnablePhaseDebug reserves room for additional, heavier FRAME_END
	// assertions (spatial index / identity provider drift checks) beyond
	// the pending-mutation check, which the kernel always runs regardless
	// of this flag. SIMKERNEL_ENFORCE_MUTATION_INVARIANTS=1 forces this on
	// regardless of the configured value, mirroring the source's
	// TANK_ENFORCE_MUTATION_INVARIANTS override.
	EnablePhaseDebug bool
}

const (
	defaultDisplayWidth     = 1280.0
	defaultDisplayHeight    = 720.0
	defaultFrameRate        = 30.0
	defaultSpatialCellSize  = 150.0
	defaultTimeCycleLength  = 1800
	defaultDyingAnimFrames  = 45
	enforceInvariantsEnvVar = "SIMKERNEL_ENFORCE_MUTATION_INVARIANTS"
)

// DefaultTimeCycleLength is the frame count of one full day/night cycle
// when a KernelConfig leaves TimeCycleLength unset. Exported so collaborator
// systems built outside this package (e.g. a TimeSystem) can fall back to
// the same default the kernel itself uses.
const DefaultTimeCycleLength uint64 = defaultTimeCycleLength

// normalize fills zero-valued fields with defaults, exactly as the
// teacher's normalizeSampleGame fills a SampleGameConfig. It returns a new
// value; the receiver is not mutated.
func (c KernelConfig) normalize() KernelConfig {
	out := c

	if out.Display.Width <= 0 {
		out.Display.Width = defaultDisplayWidth
	}
	if out.Display.Height <= 0 {
		out.Display.Height = defaultDisplayHeight
	}
	if out.Display.FrameRate <= 0 {
		out.Display.FrameRate = defaultFrameRate
	}
	if out.SpatialCellSize <= 0 {
		out.SpatialCellSize = defaultSpatialCellSize
	}
	if out.TimeCycleLength == 0 {
		out.TimeCycleLength = defaultTimeCycleLength
	}
	if out.DyingAnimationFrames <= 0 {
		out.DyingAnimationFrames = defaultDyingAnimFrames
	}
	if os.Getenv(enforceInvariantsEnvVar) == "1" {
		out.EnablePhaseDebug = true
	}

	return out
}
