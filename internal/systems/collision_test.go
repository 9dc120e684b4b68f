package systems_test

import (
	"testing"

	"github.com/mbolaris/simkernel/internal/kernel"
	"github.com/mbolaris/simkernel/internal/systems"
)

type collisionEntity struct {
	x, y float64
	typ  string
}

func (e *collisionEntity) Handle() kernel.Handle              { return e }
func (e *collisionEntity) Position() (float64, float64)       { return e.x, e.y }
func (e *collisionEntity) Size() (float64, float64)           { return 1, 1 }
func (e *collisionEntity) IsDead() bool                       { return false }
func (e *collisionEntity) SnapshotType() string                { return e.typ }
func (e *collisionEntity) ConstrainToBounds(float64, float64) {}
func (e *collisionEntity) Update(uint64, float64, float64) kernel.UpdateResult {
	return kernel.UpdateResult{}
}

var _ kernel.Entity = (*collisionEntity)(nil)

func TestCollisionSystemInvokesHandlerForNearbyCandidates(t *testing.T) {
	k := newTestKernel(t)
	subject := &collisionEntity{x: 5, y: 5, typ: "fish"}
	candidate := &collisionEntity{x: 6, y: 5, typ: "food"}
	far := &collisionEntity{x: 90, y: 90, typ: "food"}
	for _, e := range []kernel.Entity{subject, candidate, far} {
		if err := k.AddEntity(e); err != nil {
			t.Fatalf("AddEntity failed: %v", err)
		}
	}

	var seen []kernel.Entity
	handler := func(k *kernel.Kernel, s kernel.Entity, c kernel.Entity) {
		seen = append(seen, c)
	}

	sys := systems.NewBoundCollisionSystem(k, "fish", []string{"food"}, 10, handler)
	result := sys.Update(1)

	if len(seen) != 1 || seen[0].Handle() != candidate.Handle() {
		t.Fatalf("expected only the nearby food candidate, got %v", seen)
	}
	if result.EntitiesAffected != 1 {
		t.Fatalf("expected EntitiesAffected=1, got %d", result.EntitiesAffected)
	}
	if sys.UpdateCount() != 1 {
		t.Fatalf("expected UpdateCount=1 after one non-skipped Update, got %d", sys.UpdateCount())
	}
}

func TestCollisionSystemNoSubjectsIsNoOp(t *testing.T) {
	k := newTestKernel(t)
	handlerCalls := 0
	sys := systems.NewBoundCollisionSystem(k, "fish", []string{"food"}, 10, func(*kernel.Kernel, kernel.Entity, kernel.Entity) {
		handlerCalls++
	})

	result := sys.Update(1)
	if handlerCalls != 0 || result.EntitiesAffected != 0 {
		t.Fatalf("expected no-op on an empty subject set, got calls=%d result=%+v", handlerCalls, result)
	}
}

func TestCollisionSystemDisabledReportsSkipped(t *testing.T) {
	k := newTestKernel(t)
	sys := systems.NewBoundCollisionSystem(k, "fish", []string{"food"}, 10, func(*kernel.Kernel, kernel.Entity, kernel.Entity) {})
	sys.SetEnabled(false)
	result := sys.Update(1)
	if !result.Skipped {
		t.Fatal("expected a disabled collision system to report Skipped")
	}
	if sys.UpdateCount() != 0 {
		t.Fatalf("expected a skipped Update not to increment UpdateCount, got %d", sys.UpdateCount())
	}
}
