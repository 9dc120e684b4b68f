package kernel_test

import (
	"testing"

	"github.com/mbolaris/simkernel/internal/kernel"
)

type identityEntity struct {
	typ        string
	intrinsic  int64
	hasIntrinsic bool
}

func (e *identityEntity) Handle() kernel.Handle              { return e }
func (e *identityEntity) Position() (float64, float64)       { return 0, 0 }
func (e *identityEntity) Size() (float64, float64)           { return 1, 1 }
func (e *identityEntity) IsDead() bool                       { return false }
func (e *identityEntity) SnapshotType() string               { return e.typ }
func (e *identityEntity) ConstrainToBounds(float64, float64) {}
func (e *identityEntity) Update(uint64, float64, float64) kernel.UpdateResult {
	return kernel.UpdateResult{}
}
func (e *identityEntity) EntityID() (int64, bool) { return e.intrinsic, e.hasIntrinsic }

var (
	_ kernel.Entity       = (*identityEntity)(nil)
	_ kernel.Identifiable = (*identityEntity)(nil)
)

func TestIdentityProviderIdempotentAcrossCalls(t *testing.T) {
	p := kernel.NewStableIdentityProvider(kernel.DefaultTypeOffsets())
	e := &identityEntity{typ: "fish"}

	_, id1 := p.GetIdentity(e)
	_, id2 := p.GetIdentity(e)
	if id1 != id2 {
		t.Fatalf("expected idempotent stable ID, got %q then %q", id1, id2)
	}
}

func TestIdentityProviderIntrinsicIDUsesOffset(t *testing.T) {
	p := kernel.NewStableIdentityProvider(kernel.DefaultTypeOffsets())
	e := &identityEntity{typ: "plant", intrinsic: 7, hasIntrinsic: true}

	_, id := p.GetIdentity(e)
	if id != "1000007" {
		t.Fatalf("expected plant offset 1_000_000 + 7, got %q", id)
	}
}

func TestIdentityProviderSyntheticCounterPerType(t *testing.T) {
	p := kernel.NewStableIdentityProvider(kernel.DefaultTypeOffsets())
	a := &identityEntity{typ: "food"}
	b := &identityEntity{typ: "food"}

	_, idA := p.GetIdentity(a)
	_, idB := p.GetIdentity(b)
	if idA == idB {
		t.Fatalf("expected distinct synthetic IDs for distinct entities, got %q twice", idA)
	}
	if idA != "3000000" || idB != "3000001" {
		t.Fatalf("expected sequential food-band IDs, got %q then %q", idA, idB)
	}
}

func TestIdentityProviderUnknownTypeUsesOtherOffset(t *testing.T) {
	p := kernel.NewStableIdentityProvider(kernel.DefaultTypeOffsets())
	e := &identityEntity{typ: "rock"}

	_, id := p.GetIdentity(e)
	if id != "5000000" {
		t.Fatalf("expected other-offset band for unknown type, got %q", id)
	}
}

func TestIdentityProviderReverseLookup(t *testing.T) {
	p := kernel.NewStableIdentityProvider(kernel.DefaultTypeOffsets())
	e := &identityEntity{typ: "fish"}
	_, id := p.GetIdentity(e)

	got, ok := p.GetEntityByID(id)
	if !ok || got.Handle() != e.Handle() {
		t.Fatalf("expected reverse lookup to resolve to the original entity, got %v ok=%v", got, ok)
	}

	if _, ok := p.GetEntityByID("no-such-id"); ok {
		t.Fatal("expected lookup of an unknown ID to fail")
	}
}

func TestIdentityProviderPruneStaleIDsDropsRemovedEntities(t *testing.T) {
	p := kernel.NewStableIdentityProvider(kernel.DefaultTypeOffsets())
	live := &identityEntity{typ: "fish"}
	gone := &identityEntity{typ: "fish"}

	_, liveID := p.GetIdentity(live)
	_, goneID := p.GetIdentity(gone)

	p.PruneStaleIDs(map[kernel.Handle]struct{}{live.Handle(): {}})

	if _, ok := p.GetEntityByID(goneID); ok {
		t.Fatal("expected pruned entity's ID to no longer resolve")
	}
	if _, ok := p.GetEntityByID(liveID); !ok {
		t.Fatal("expected live entity's ID to still resolve after pruning")
	}

	// Re-observing the pruned handle assigns a fresh ID rather than
	// resurrecting the old one, since the forward map entry is gone too.
	_, newID := p.GetIdentity(gone)
	if newID == goneID {
		t.Fatalf("expected a fresh ID after pruning, got the same one back: %q", newID)
	}
}

func TestIdentityProviderSyncEntitiesRebuildsReverseMap(t *testing.T) {
	p := kernel.NewStableIdentityProvider(kernel.DefaultTypeOffsets())
	a := &identityEntity{typ: "fish"}
	b := &identityEntity{typ: "fish"}
	_, idA := p.GetIdentity(a)

	p.SyncEntities([]kernel.Entity{b})

	if _, ok := p.GetEntityByID(idA); ok {
		t.Fatal("expected SyncEntities to drop entries for entities outside the new set")
	}
	_, idB := p.GetIdentity(b)
	if got, ok := p.GetEntityByID(idB); !ok || got.Handle() != b.Handle() {
		t.Fatal("expected SyncEntities to register the new set's identities")
	}
}

func TestIdentityProviderDistinctEntitiesGetDistinctIDs(t *testing.T) {
	p := kernel.NewStableIdentityProvider(kernel.DefaultTypeOffsets())
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		e := &identityEntity{typ: "fish"}
		_, id := p.GetIdentity(e)
		if seen[id] {
			t.Fatalf("duplicate stable ID %q assigned", id)
		}
		seen[id] = true
	}
}
