package kernel

// EntityMutation is one deferred spawn or removal request.
type EntityMutation struct {
	Entity   Entity
	Reason   string
	Metadata map[string]any
}

// SpawnRejected is emitted to the EventBus (not returned as an error) when
// a commit's EntityManager.Add call declines a spawn, typically due to a
// population cap.
type SpawnRejected struct {
	EntityType string
	Reason     string
}

// MutationQueue collects deferred spawn/remove requests between commit
// points. No entity appears twice in the same list; requesting removal of
// an entity that is only a pending spawn cancels the spawn outright (the
// entity never enters the simulation, and no removal record is emitted —
// the round-trip law requires this to be a true no-op).
type MutationQueue struct {
	pendingSpawns   []EntityMutation
	pendingRemovals []EntityMutation

	spawnHandles   map[Handle]int // handle -> index into pendingSpawns
	removalHandles map[Handle]struct{}
}

// NewMutationQueue returns an empty queue.
func NewMutationQueue() *MutationQueue {
	return &MutationQueue{
		spawnHandles:   make(map[Handle]int),
		removalHandles: make(map[Handle]struct{}),
	}
}

// RequestSpawn enqueues e for addition at the next commit. Returns false if
// e is already pending spawn or pending removal (duplicate request,
// deliberately declined).
func (q *MutationQueue) RequestSpawn(e Entity, reason string, metadata map[string]any) bool {
	h := e.Handle()
	if _, removing := q.removalHandles[h]; removing {
		return false
	}
	if _, spawning := q.spawnHandles[h]; spawning {
		return false
	}

	q.spawnHandles[h] = len(q.pendingSpawns)
	q.pendingSpawns = append(q.pendingSpawns, EntityMutation{Entity: e, Reason: reason, Metadata: metadata})
	return true
}

// RequestRemove enqueues e for removal at the next commit. If e is only a
// pending spawn, the spawn is cancelled instead and no removal record is
// appended — this is a deliberate divergence from the source, whose prose
// also appends a removal in this case; the round-trip law (RequestSpawn
// then RequestRemove before commit is a full no-op) and its accompanying
// test require true cancellation.
func (q *MutationQueue) RequestRemove(e Entity, reason string, metadata map[string]any) bool {
	h := e.Handle()
	if _, already := q.removalHandles[h]; already {
		return false
	}

	if idx, spawning := q.spawnHandles[h]; spawning {
		q.dropSpawn(h, idx)
		return true
	}

	q.removalHandles[h] = struct{}{}
	q.pendingRemovals = append(q.pendingRemovals, EntityMutation{Entity: e, Reason: reason, Metadata: metadata})
	return true
}

// dropSpawn removes the pending spawn at idx for handle h, re-indexing the
// spawnHandles map for any entries that shifted.
func (q *MutationQueue) dropSpawn(h Handle, idx int) {
	q.pendingSpawns = append(q.pendingSpawns[:idx], q.pendingSpawns[idx+1:]...)
	delete(q.spawnHandles, h)
	for handle, i := range q.spawnHandles {
		if i > idx {
			q.spawnHandles[handle] = i - 1
		}
	}
}

// PendingSpawnCount reports the number of spawns awaiting commit.
func (q *MutationQueue) PendingSpawnCount() int { return len(q.pendingSpawns) }

// PendingRemovalCount reports the number of removals awaiting commit.
func (q *MutationQueue) PendingRemovalCount() int { return len(q.pendingRemovals) }

// IsPendingRemoval reports whether e is already queued for removal.
func (q *MutationQueue) IsPendingRemoval(e Entity) bool {
	_, ok := q.removalHandles[e.Handle()]
	return ok
}

// MutationTransaction drains a MutationQueue into an EntityManager at a
// commit point. Removals are always applied before spawns; within each
// list, order matches request order.
type MutationTransaction struct {
	queue     *MutationQueue
	eventBus  *EventBus
	identity  IdentityProvider
}

// NewMutationTransaction wires a transaction to its queue, identity
// provider, and event bus (for SpawnRejected notifications).
func NewMutationTransaction(queue *MutationQueue, identity IdentityProvider, eventBus *EventBus) *MutationTransaction {
	return &MutationTransaction{queue: queue, identity: identity, eventBus: eventBus}
}

// Commit drains the queue into em. When recordOutputs is true, it returns
// SpawnRequest/RemovalRequest records suitable for appending to the
// current FrameContext; preAddHook, if non-nil, runs on each surviving
// spawn immediately before EntityManager.Add.
func (t *MutationTransaction) Commit(em *EntityManager, recordOutputs bool, preAddHook func(Entity)) (spawns []SpawnRequest, removals []RemovalRequest) {
	for _, removal := range t.queue.pendingRemovals {
		if recordOutputs {
			typeName, stableID := t.identity.GetIdentity(removal.Entity)
			removals = append(removals, RemovalRequest{
				EntityType: typeName,
				EntityID:   stableID,
				Reason:     removal.Reason,
				Metadata:   removal.Metadata,
			})
		}
		em.Remove(removal.Entity, true)
	}

	for _, spawn := range t.queue.pendingSpawns {
		typeName, stableID := t.identity.GetIdentity(spawn.Entity)

		if preAddHook != nil {
			preAddHook(spawn.Entity)
		}

		if !em.Add(spawn.Entity, true) {
			if t.eventBus != nil {
				t.eventBus.Emit(SpawnRejected{EntityType: typeName, Reason: "capacity"})
			}
			continue
		}

		if recordOutputs {
			spawns = append(spawns, SpawnRequest{
				EntityType: typeName,
				EntityID:   stableID,
				Reason:     spawn.Reason,
				Metadata:   spawn.Metadata,
			})
		}
	}

	t.queue.pendingSpawns = nil
	t.queue.pendingRemovals = nil
	t.queue.spawnHandles = make(map[Handle]int)
	t.queue.removalHandles = make(map[Handle]struct{})

	return spawns, removals
}
