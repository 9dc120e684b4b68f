package kernel

// Handle is an opaque, comparable identity for an entity's runtime instance.
// The kernel never needs unsafe.Pointer or reflect to track entities across
// collections: any type implementing Entity supplies its own Handle, which
// only needs to be stable and unique for the lifetime of the instance (a
// pointer-backed type works well).
type Handle interface{}

// Entity is the minimal protocol the kernel imposes on anything that can
// live inside the simulation. The kernel never knows about concrete domain
// types; it only calls through this interface and the optional capability
// interfaces below.
type Entity interface {
	// Handle returns this entity's opaque, comparable identity.
	Handle() Handle

	// Position returns the entity's location in world coordinates.
	Position() (x, y float64)

	// Size returns the entity's bounding box extents.
	Size() (width, height float64)

	// IsDead reports whether the entity should be considered for removal.
	// An entity may remain in the collection for a bounded number of
	// frames after IsDead() becomes true (a "dying animation"); the
	// lifecycle system is responsible for eventually requesting removal.
	IsDead() bool

	// Update advances the entity by one frame and returns any entities it
	// spawned this frame. The kernel calls Update during ENTITY_ACT, in
	// canonical (insertion) order, and the entity collection must not be
	// mutated while Update is running.
	Update(frame uint64, timeModifier, timeOfDay float64) UpdateResult

	// ConstrainToBounds clamps the entity's position to the world's visible
	// extents. Called by the kernel immediately after Update.
	ConstrainToBounds(worldWidth, worldHeight float64)
}

// UpdateResult is returned by Entity.Update.
type UpdateResult struct {
	Spawned []Entity
}

// Identifiable is an optional capability: an entity that owns an intrinsic
// stable identifier (independent of the IdentityProvider's own per-type
// counters).
type Identifiable interface {
	// EntityID returns the entity's intrinsic ID and true, or (0, false) if
	// it has none and should receive a synthetic counter-assigned ID.
	EntityID() (int64, bool)
}

// SnapshotTyped is an optional capability: an entity that declares its own
// kind tag rather than falling back to its Go type name.
type SnapshotTyped interface {
	// SnapshotType returns a lowercase kind tag, e.g. "fish", "plant",
	// "food".
	SnapshotType() string
}

// BeforeRemover is an optional capability invoked by EntityManager.Remove
// immediately before the entity is dropped from the collection, letting it
// release mode-specific resources (e.g. returning a Food instance to a
// pool).
type BeforeRemover interface {
	OnBeforeRemove()
}
