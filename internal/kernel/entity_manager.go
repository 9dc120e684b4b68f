package kernel

// CapacityCheck reports whether one more entity of this kind may be added.
// A WorldPack wires its own population-cap policy (e.g. per-species limits)
// via EntityManager.SetCapacityCheck; the default always allows.
type CapacityCheck func(e Entity) bool

// EntityManager owns the authoritative entity collection. Canonical order
// (the slice order) is part of the simulation's determinism contract — it
// must never be derived from map iteration.
type EntityManager struct {
	entities []Entity

	typeViews map[string][]Entity
	dirty     bool

	locked    bool
	lockPhase string

	spatial  *SpatialIndex
	capacity CapacityCheck
}

// NewEntityManager returns an EntityManager backed by the given spatial
// index. spatial may be nil for tests that don't exercise proximity
// queries.
func NewEntityManager(spatial *SpatialIndex) *EntityManager {
	return &EntityManager{
		spatial:  spatial,
		capacity: func(Entity) bool { return true },
	}
}

// SetCapacityCheck installs a population-cap policy. Passing nil restores
// the always-allow default.
func (m *EntityManager) SetCapacityCheck(c CapacityCheck) {
	if c == nil {
		c = func(Entity) bool { return true }
	}
	m.capacity = c
}

// LockMutations engages the mutation lock for the named phase. Only
// internal=true callers (MutationTransaction.Commit, privileged setup
// paths) may Add/Remove while locked.
func (m *EntityManager) LockMutations(phaseName string) {
	m.locked = true
	m.lockPhase = phaseName
}

// UnlockMutations releases the mutation lock.
func (m *EntityManager) UnlockMutations() {
	m.locked = false
	m.lockPhase = ""
}

// Add inserts e into the collection. internal=true is required while
// mutations are locked; any other caller gets a false return, and no
// ErrMutationLock error is produced (Add reports every outcome only via the
// returned bool, matching the source's "rejection means the investment is
// lost" contract).
func (m *EntityManager) Add(e Entity, internal bool) bool {
	if m.locked && !internal {
		return false
	}
	if !m.capacity(e) {
		return false
	}

	m.entities = append(m.entities, e)
	if m.spatial != nil {
		m.spatial.Add(e)
	}
	m.dirty = true
	return true
}

// Remove drops e from the collection if present, releasing it from the
// spatial index and invoking OnBeforeRemove if the entity exposes it.
func (m *EntityManager) Remove(e Entity, internal bool) bool {
	if m.locked && !internal {
		return false
	}

	idx := -1
	for i, existing := range m.entities {
		if existing.Handle() == e.Handle() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	if br, ok := e.(BeforeRemover); ok {
		br.OnBeforeRemove()
	}

	m.entities = append(m.entities[:idx], m.entities[idx+1:]...)
	if m.spatial != nil {
		m.spatial.Remove(e)
	}
	m.dirty = true
	return true
}

// All returns the canonical, read-only entity order. Callers must not
// mutate the returned slice; the kernel never exposes the backing array
// directly outside the package.
func (m *EntityManager) All() []Entity {
	out := make([]Entity, len(m.entities))
	copy(out, m.entities)
	return out
}

// Len reports the number of entities currently in the collection.
func (m *EntityManager) Len() int { return len(m.entities) }

// ByType returns the cached, canonical-order view of entities whose
// SnapshotType (or Go type fallback) equals tag. Views are rebuilt lazily
// on first access after invalidation.
func (m *EntityManager) ByType(tag string) []Entity {
	m.rebuildViewsIfNeeded()
	return m.typeViews[tag]
}

// IsDirty reports whether the type-view cache needs rebuilding.
func (m *EntityManager) IsDirty() bool { return m.dirty }

// RebuildViews forces an immediate rebuild of the cached type-indexed
// views, regardless of the dirty flag.
func (m *EntityManager) RebuildViews() {
	views := make(map[string][]Entity)
	for _, e := range m.entities {
		tag := typeTagOf(e)
		views[tag] = append(views[tag], e)
	}
	m.typeViews = views
	m.dirty = false
}

func (m *EntityManager) rebuildViewsIfNeeded() {
	if m.dirty || m.typeViews == nil {
		m.RebuildViews()
	}
}

// typeTagOf resolves an entity's kind tag: SnapshotType() if the entity
// implements it, else a lowercase Go type name.
func typeTagOf(e Entity) string {
	if st, ok := e.(SnapshotTyped); ok {
		return st.SnapshotType()
	}
	return lowerTypeName(e)
}
