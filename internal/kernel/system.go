package kernel

// System is a single named subsystem that runs during one phase of the
// pipeline. Systems read through EntityManager/SpatialIndex, emit domain
// events to the EventBus, and submit deferred mutations to the
// MutationQueue — they never mutate the entity collection directly.
type System interface {
	// Name is a unique, stable identifier used by SystemRegistry.Get and by
	// the capability resolver's phase-coverage check.
	Name() string

	// Enabled reports whether Update should run this tick.
	Enabled() bool

	// SetEnabled toggles Enabled.
	SetEnabled(bool)

	// Phase is the system's declared intended phase, cross-checked by the
	// capability resolver at Setup.
	Phase() Phase

	// Update runs the system for one frame.
	Update(frame uint64) SystemResult
}

// SystemResult reports what a System did on one Update call. It supports
// component-wise addition so a phase can aggregate results from every
// system that ran.
type SystemResult struct {
	EntitiesAffected uint32
	EntitiesSpawned  uint32
	EntitiesRemoved  uint32
	EventsEmitted    uint32
	Skipped          bool
	Details          map[string]any
}

// Add combines r with other, returning the aggregate. Adding a skipped
// result yields the other operand unchanged (a skip contributes nothing).
func (r SystemResult) Add(other SystemResult) SystemResult {
	if r.Skipped {
		return other
	}
	if other.Skipped {
		return r
	}

	out := SystemResult{
		EntitiesAffected: r.EntitiesAffected + other.EntitiesAffected,
		EntitiesSpawned:  r.EntitiesSpawned + other.EntitiesSpawned,
		EntitiesRemoved:  r.EntitiesRemoved + other.EntitiesRemoved,
		EventsEmitted:    r.EventsEmitted + other.EventsEmitted,
	}
	out.Details = mergeDetails(r.Details, other.Details)
	return out
}

// mergeDetails merges b into a, summing numeric values that appear under
// the same key in both maps and letting b win for any other collision.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, bv := range b {
		av, exists := out[k]
		if !exists {
			out[k] = bv
			continue
		}
		if sum, ok := addNumeric(av, bv); ok {
			out[k] = sum
			continue
		}
		out[k] = bv
	}
	return out
}

func addNumeric(a, b any) (any, bool) {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if !aok || !bok {
		return nil, false
	}
	return af + bf, true
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// SystemRegistry holds systems in registration order. Insertion order
// matters: systems registered first run first within a phase.
type SystemRegistry struct {
	order []string
	byName map[string]System
}

// NewSystemRegistry returns an empty registry.
func NewSystemRegistry() *SystemRegistry {
	return &SystemRegistry{byName: make(map[string]System)}
}

// Register adds s to the registry. Registering a name that already exists
// replaces the prior system in place, preserving its position in order.
func (r *SystemRegistry) Register(s System) {
	name := s.Name()
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = s
}

// Unregister drops a system by name.
func (r *SystemRegistry) Unregister(name string) {
	if _, exists := r.byName[name]; !exists {
		return
	}
	delete(r.byName, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the named system, if registered.
func (r *SystemRegistry) Get(name string) (System, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// SetEnabled toggles a registered system's enabled flag. No-op if the name
// is not registered.
func (r *SystemRegistry) SetEnabled(name string, enabled bool) {
	if s, ok := r.byName[name]; ok {
		s.SetEnabled(enabled)
	}
}

// All returns every registered system in registration order.
func (r *SystemRegistry) All() []System {
	out := make([]System, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// ByPhase returns the registered systems declaring the given phase, in
// registration order.
func (r *SystemRegistry) ByPhase(p Phase) []System {
	var out []System
	for _, name := range r.order {
		s := r.byName[name]
		if s.Phase() == p {
			out = append(out, s)
		}
	}
	return out
}

// DebugInfo returns a name-keyed snapshot of every system's enabled state
// and declared phase, useful for diagnostics and snapshots.
func (r *SystemRegistry) DebugInfo() map[string]map[string]any {
	out := make(map[string]map[string]any, len(r.order))
	for _, name := range r.order {
		s := r.byName[name]
		out[name] = map[string]any{
			"enabled": s.Enabled(),
			"phase":   string(s.Phase()),
		}
	}
	return out
}

// Len returns the number of registered systems.
func (r *SystemRegistry) Len() int { return len(r.order) }
