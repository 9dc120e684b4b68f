// Package systems provides the kernel's built-in, mode-agnostic phase
// systems: time advancement, lifecycle/dying-animation expiry, food
// spawning, collision, proximity/interaction, and reproduction. They are
// behavior skeletons in the spirit of the original per-tick systems: the
// domain rules (what an interaction resolves to, what a spawned food looks
// like) are left to the collaborators a WorldPack wires in.
package systems

import (
	"math"

	"github.com/mbolaris/simkernel/internal/kernel"
)

// TimeSystem advances a cyclic day/night scalar and exposes the derived
// timeModifier/timeOfDay pair TIME_UPDATE writes into the FrameContext.
// Grounded on core/time_system.py's TimeSystem: same cycle_length wraparound
// and sine-based modifier shape, stripped of rendering-only helpers
// (screen tint, time-of-day string) that have no place in a headless kernel.
type TimeSystem struct {
	name        string
	enabled     bool
	updateCount uint64

	cycleLength uint64
	time        uint64
	daysElapsed uint64
}

// NewTimeSystem returns a TimeSystem with the given cycle length in frames.
func NewTimeSystem(cycleLength uint64) *TimeSystem {
	if cycleLength == 0 {
		cycleLength = kernel.DefaultTimeCycleLength
	}
	return &TimeSystem{name: "Time", enabled: true, cycleLength: cycleLength}
}

func (s *TimeSystem) Name() string       { return s.name }
func (s *TimeSystem) Enabled() bool      { return s.enabled }
func (s *TimeSystem) SetEnabled(v bool)  { s.enabled = v }
func (s *TimeSystem) Phase() kernel.Phase { return kernel.PhaseTimeUpdate }

func (s *TimeSystem) Update(frame uint64) kernel.SystemResult {
	if !s.enabled {
		return kernel.SystemResult{Skipped: true}
	}

	before := s.time
	s.time = (s.time + 1) % s.cycleLength
	if s.time < before {
		s.daysElapsed++
	}
	s.updateCount++

	return kernel.SystemResult{
		Details: map[string]any{
			"time_of_day": s.TimeOfDay(),
			"days_elapsed": s.daysElapsed,
		},
	}
}

// TimeOfDay returns the normalized position in the cycle, 0 at cycle start
// and approaching 1 just before wraparound.
func (s *TimeSystem) TimeOfDay() float64 {
	return float64(s.time) / float64(s.cycleLength)
}

// TimeModifier returns an activity multiplier derived from TimeOfDay: low at
// night, high at midday, following the same sine-wave shape as the source's
// get_activity_modifier (clamped 0.5..1.0).
func (s *TimeSystem) TimeModifier() float64 {
	t := s.TimeOfDay()
	activity := 0.75 + 0.25*math.Sin(2*math.Pi*(t-0.25))
	if activity < 0.5 {
		return 0.5
	}
	if activity > 1.0 {
		return 1.0
	}
	return activity
}

// DetectionModifier mirrors get_detection_range_modifier: entities see less
// far at night, less sharply at dawn/dusk, fully by day.
func (s *TimeSystem) DetectionModifier() float64 {
	t := s.TimeOfDay()
	switch {
	case t < 0.25 || t > 0.75:
		return 0.25
	case t < 0.35:
		return 0.75
	case t < 0.65:
		return 1.0
	default:
		return 0.75
	}
}

// UpdateCount reports how many non-skipped Update calls this system has run.
func (s *TimeSystem) UpdateCount() uint64 { return s.updateCount }

var _ kernel.System = (*TimeSystem)(nil)
var _ kernel.TimeProvider = (*TimeSystem)(nil)
