package kernel

import "strconv"

// IdentityProvider produces stable, cross-frame string identity for
// entities. The kernel depends only on this interface; a WorldPack may
// supply its own implementation (e.g. to change offset bands) via
// WorldPack.IdentityProvider.
type IdentityProvider interface {
	// GetIdentity returns the entity's (typeName, stableID) pair,
	// assigning one on first observation. Idempotent: the same entity
	// always gets the same pair for as long as it is tracked.
	GetIdentity(e Entity) (typeName, stableID string)

	// GetEntityByID performs the O(1) reverse lookup.
	GetEntityByID(stableID string) (Entity, bool)

	// SyncEntities clears the reverse map and reassigns it by scanning
	// entities, used before batch operations that need reverse lookup to
	// be current.
	SyncEntities(entities []Entity)

	// PruneStaleIDs drops every tracked mapping whose handle is not in
	// liveHandles. Called at FRAME_END.
	PruneStaleIDs(liveHandles map[Handle]struct{})
}

// TypeOffsets assigns each type name a disjoint ID band so that stable IDs
// never collide across types. OtherOffset is used for any type name with
// no explicit entry.
type TypeOffsets struct {
	Offsets     map[string]int64
	OtherOffset int64
}

// DefaultTypeOffsets mirrors the source's offset bands for a tank-like
// world: fish at 0, plant at 1_000_000, food at 3_000_000, nectar at
// 4_000_000, anything else at 5_000_000.
func DefaultTypeOffsets() TypeOffsets {
	return TypeOffsets{
		Offsets: map[string]int64{
			"fish":   0,
			"plant":  1_000_000,
			"food":   3_000_000,
			"nectar": 4_000_000,
		},
		OtherOffset: 5_000_000,
	}
}

func (o TypeOffsets) offsetFor(typeName string) int64 {
	if v, ok := o.Offsets[typeName]; ok {
		return v
	}
	return o.OtherOffset
}

// StableIdentityProvider is the kernel's default IdentityProvider,
// grounded on core/worlds/shared/identity.py's
// TankLikeEntityIdentityProvider: entities with an intrinsic EntityID get
// stableID = intrinsicID + offset; others get a monotonically increasing
// per-type counter within their offset band.
type StableIdentityProvider struct {
	offsets TypeOffsets

	handleToStableID map[Handle]string
	handleToType      map[Handle]string
	stableIDToHandle  map[string]Entity

	nextCounter map[string]int64
}

// NewStableIdentityProvider returns a provider using the given offset
// bands.
func NewStableIdentityProvider(offsets TypeOffsets) *StableIdentityProvider {
	return &StableIdentityProvider{
		offsets:          offsets,
		handleToStableID: make(map[Handle]string),
		handleToType:     make(map[Handle]string),
		stableIDToHandle: make(map[string]Entity),
		nextCounter:      make(map[string]int64),
	}
}

func (p *StableIdentityProvider) GetIdentity(e Entity) (string, string) {
	h := e.Handle()
	typeName := typeTagOf(e)

	if stableID, ok := p.handleToStableID[h]; ok {
		return p.handleToType[h], stableID
	}

	var numericID int64
	if id, ok := e.(Identifiable); ok {
		if intrinsic, hasIntrinsic := id.EntityID(); hasIntrinsic {
			numericID = intrinsic + p.offsets.offsetFor(typeName)
		} else {
			numericID = p.nextForType(typeName)
		}
	} else {
		numericID = p.nextForType(typeName)
	}

	stableID := strconv.FormatInt(numericID, 10)
	p.handleToStableID[h] = stableID
	p.handleToType[h] = typeName
	p.stableIDToHandle[stableID] = e
	return typeName, stableID
}

func (p *StableIdentityProvider) nextForType(typeName string) int64 {
	counter := p.nextCounter[typeName]
	id := counter + p.offsets.offsetFor(typeName)
	p.nextCounter[typeName] = counter + 1
	return id
}

func (p *StableIdentityProvider) GetEntityByID(stableID string) (Entity, bool) {
	e, ok := p.stableIDToHandle[stableID]
	return e, ok
}

func (p *StableIdentityProvider) SyncEntities(entities []Entity) {
	p.stableIDToHandle = make(map[string]Entity, len(entities))
	for _, e := range entities {
		_, stableID := p.GetIdentity(e)
		p.stableIDToHandle[stableID] = e
	}
}

// PruneStaleIDs drops entries for handles no longer present. Unlike the
// Python original (which only scrubs _entity_stable_ids and relies on a
// later SyncEntities call to implicitly drop stale reverse-map entries),
// this directly cleans both the forward and reverse maps so that
// GetEntityByID stops resolving a pruned entity's ID immediately, per the
// stated invariant and Scenario S4.
func (p *StableIdentityProvider) PruneStaleIDs(liveHandles map[Handle]struct{}) {
	for h, stableID := range p.handleToStableID {
		if _, live := liveHandles[h]; live {
			continue
		}
		delete(p.handleToStableID, h)
		delete(p.handleToType, h)
		delete(p.stableIDToHandle, stableID)
	}
}
