package kernel_test

import (
	"reflect"
	"testing"

	"github.com/mbolaris/simkernel/internal/kernel"
)

func TestMutationQueueRequestSpawnRejectsDuplicate(t *testing.T) {
	q := kernel.NewMutationQueue()
	e := &fakeEntity{typ: "a"}

	if !q.RequestSpawn(e, "r1", nil) {
		t.Fatal("expected first RequestSpawn to succeed")
	}
	if q.RequestSpawn(e, "r2", nil) {
		t.Fatal("expected duplicate RequestSpawn to be rejected")
	}
	if q.PendingSpawnCount() != 1 {
		t.Fatalf("expected 1 pending spawn, got %d", q.PendingSpawnCount())
	}
}

func TestMutationQueueRoundTripCancelsSpawn(t *testing.T) {
	q := kernel.NewMutationQueue()
	e := &fakeEntity{typ: "a"}

	q.RequestSpawn(e, "spawn", nil)
	if !q.RequestRemove(e, "cancel", nil) {
		t.Fatal("expected RequestRemove to succeed")
	}
	if q.PendingSpawnCount() != 0 {
		t.Fatalf("expected the pending spawn to be cancelled, got %d", q.PendingSpawnCount())
	}
	if q.PendingRemovalCount() != 0 {
		t.Fatalf("expected no removal record for a cancelled spawn, got %d", q.PendingRemovalCount())
	}
	if q.IsPendingRemoval(e) {
		t.Fatal("a cancelled spawn must not register as a pending removal")
	}
}

func TestMutationQueueRequestRemoveRejectsDuplicate(t *testing.T) {
	q := kernel.NewMutationQueue()
	e := &fakeEntity{typ: "a"}

	if !q.RequestRemove(e, "r1", nil) {
		t.Fatal("expected first RequestRemove to succeed")
	}
	if q.RequestRemove(e, "r2", nil) {
		t.Fatal("expected duplicate RequestRemove to be rejected")
	}
	if q.PendingRemovalCount() != 1 {
		t.Fatalf("expected 1 pending removal, got %d", q.PendingRemovalCount())
	}
}

func TestMutationQueueDropSpawnReindexesHandles(t *testing.T) {
	q := kernel.NewMutationQueue()
	a := &fakeEntity{typ: "a"}
	b := &fakeEntity{typ: "b"}
	c := &fakeEntity{typ: "c"}

	q.RequestSpawn(a, "a", nil)
	q.RequestSpawn(b, "b", nil)
	q.RequestSpawn(c, "c", nil)

	// Cancel the middle spawn; b's index should shift down without
	// disturbing a's or c's own cancellability.
	q.RequestRemove(b, "cancel", nil)
	if q.PendingSpawnCount() != 2 {
		t.Fatalf("expected 2 pending spawns after cancelling one of three, got %d", q.PendingSpawnCount())
	}

	if !q.RequestRemove(c, "cancel", nil) {
		t.Fatal("expected c's spawn to still be cancellable after b's removal re-indexed the map")
	}
	if q.PendingSpawnCount() != 1 {
		t.Fatalf("expected 1 pending spawn (a) remaining, got %d", q.PendingSpawnCount())
	}
}

func TestMutationTransactionCommitAppliesRemovalsBeforeSpawns(t *testing.T) {
	em := kernel.NewEntityManager(nil)
	existing := &fakeEntity{typ: "existing"}
	em.Add(existing, true)

	identity := kernel.NewStableIdentityProvider(kernel.DefaultTypeOffsets())
	events := kernel.NewEventBus()
	queue := kernel.NewMutationQueue()
	txn := kernel.NewMutationTransaction(queue, identity, events)

	queue.RequestRemove(existing, "bye", nil)
	incoming := &fakeEntity{typ: "incoming"}
	queue.RequestSpawn(incoming, "hello", nil)

	spawns, removals := txn.Commit(em, true, nil)

	if len(removals) != 1 || removals[0].Reason != "bye" {
		t.Fatalf("expected one removal record for 'bye', got %+v", removals)
	}
	if len(spawns) != 1 || spawns[0].Reason != "hello" {
		t.Fatalf("expected one spawn record for 'hello', got %+v", spawns)
	}
	if em.Len() != 1 {
		t.Fatalf("expected exactly the incoming entity to remain, got %d entities", em.Len())
	}
	if got := em.ByType("incoming"); len(got) != 1 {
		t.Fatalf("expected incoming entity committed, got %v", got)
	}
}

func TestMutationTransactionEmitsSpawnRejectedOnCapacity(t *testing.T) {
	em := kernel.NewEntityManager(nil)
	em.SetCapacityCheck(func(kernel.Entity) bool { return false })

	identity := kernel.NewStableIdentityProvider(kernel.DefaultTypeOffsets())
	events := kernel.NewEventBus()
	queue := kernel.NewMutationQueue()
	txn := kernel.NewMutationTransaction(queue, identity, events)

	var rejected kernel.SpawnRejected
	var gotEvent bool
	events.Subscribe(spawnRejectedReflectType(), func(e any) {
		rejected = e.(kernel.SpawnRejected)
		gotEvent = true
	})

	queue.RequestSpawn(&fakeEntity{typ: "overflow"}, "spawn", nil)
	spawns, _ := txn.Commit(em, true, nil)

	if len(spawns) != 0 {
		t.Fatalf("expected no recorded spawn when capacity rejects it, got %+v", spawns)
	}
	if !gotEvent {
		t.Fatal("expected a SpawnRejected event")
	}
	if rejected.EntityType != "overflow" {
		t.Fatalf("expected rejected entity type 'overflow', got %q", rejected.EntityType)
	}
}

func spawnRejectedReflectType() reflect.Type {
	return reflect.TypeOf(kernel.SpawnRejected{})
}
