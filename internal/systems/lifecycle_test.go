package systems_test

import (
	"testing"

	"github.com/go-logr/logr"

	"github.com/mbolaris/simkernel/internal/kernel"
	"github.com/mbolaris/simkernel/internal/systems"
)

type dyingEntity struct {
	x, y      float64
	remaining int
}

func (e *dyingEntity) Handle() kernel.Handle                 { return e }
func (e *dyingEntity) Position() (float64, float64)          { return e.x, e.y }
func (e *dyingEntity) Size() (float64, float64)              { return 1, 1 }
func (e *dyingEntity) IsDead() bool                          { return e.remaining <= 0 }
func (e *dyingEntity) SnapshotType() string                  { return "dying" }
func (e *dyingEntity) ConstrainToBounds(float64, float64)    {}
func (e *dyingEntity) Update(uint64, float64, float64) kernel.UpdateResult {
	return kernel.UpdateResult{}
}
func (e *dyingEntity) TickDyingAnimation() bool {
	if e.remaining > 0 {
		e.remaining--
	}
	return e.remaining <= 0
}

var (
	_ kernel.Entity    = (*dyingEntity)(nil)
	_ systems.Dying    = (*dyingEntity)(nil)
)

func newTestKernel(t *testing.T) *kernel.Kernel {
	t.Helper()
	seed := uint64(5)
	return kernel.New(kernel.KernelConfig{Seed: &seed}, logr.Discard())
}

// TestLifecycleSystemSweepsExpiredDyingEntities exercises the "dying
// animation" lifecycle described in spec.md's Open Question 1: an entity
// may remain in the collection for a bounded number of frames after
// IsDead() becomes true, and the lifecycle system is responsible for
// eventually requesting its removal once the animation timer lapses.
func TestLifecycleSystemSweepsExpiredDyingEntities(t *testing.T) {
	k := newTestKernel(t)
	lifecycle := systems.NewLifecycleSystem()

	e := &dyingEntity{remaining: 2}
	if err := k.AddEntity(e); err != nil {
		t.Fatalf("AddEntity failed: %v", err)
	}

	lifecycle.SweepExpiredDying(k, k.Entities().All())
	if k.Entities().Len() != 1 {
		t.Fatalf("expected entity to survive the first sweep, got %d entities", k.Entities().Len())
	}

	lifecycle.SweepExpiredDying(k, k.Entities().All())
	spawns, removals, _ := k.DrainFrameOutputs()
	if len(spawns) != 0 {
		t.Fatalf("expected no spawns from the sweep, got %v", spawns)
	}
	if len(removals) != 1 {
		t.Fatalf("expected exactly one removal request once the timer expired, got %v", removals)
	}
}

func TestLifecycleSystemDebugInfoTracksCounters(t *testing.T) {
	lifecycle := systems.NewLifecycleSystem()
	lifecycle.RecordBirth()
	lifecycle.RecordBirth()
	lifecycle.RecordDeath()

	info := lifecycle.DebugInfo()
	if info["total_births"] != 2 || info["total_deaths"] != 1 {
		t.Fatalf("unexpected debug info: %+v", info)
	}
}

func TestLifecycleSystemResetsPerFrameCountersOnUpdate(t *testing.T) {
	lifecycle := systems.NewLifecycleSystem()
	lifecycle.RecordBirth()
	lifecycle.RecordDeath()

	lifecycle.Update(1)

	info := lifecycle.DebugInfo()
	if info["births_this_frame"] != 0 || info["deaths_this_frame"] != 0 {
		t.Fatalf("expected per-frame counters reset by Update, got %+v", info)
	}
	if info["total_births"] != 1 || info["total_deaths"] != 1 {
		t.Fatalf("expected lifetime counters to survive Update, got %+v", info)
	}
}

// TestBoundLifecycleSystemUpdateResetsPerFrameCounters guards against the
// bare LifecycleSystem's counter reset going unreached: only
// BoundLifecycleSystem is ever registered into a pipeline (under
// PhaseLifecycle, not PhaseFrameStart), so its own Update must perform the
// reset itself.
func TestBoundLifecycleSystemUpdateResetsPerFrameCounters(t *testing.T) {
	k := newTestKernel(t)
	bound := systems.NewBoundLifecycleSystem(k)
	bound.RecordBirth()
	bound.RecordDeath()

	bound.Update(1)

	info := bound.DebugInfo()
	if info["births_this_frame"] != 0 || info["deaths_this_frame"] != 0 {
		t.Fatalf("expected BoundLifecycleSystem.Update to reset per-frame counters, got %+v", info)
	}
	if info["total_births"] != 1 || info["total_deaths"] != 1 {
		t.Fatalf("expected lifetime counters to survive Update, got %+v", info)
	}
	if bound.UpdateCount() != 1 {
		t.Fatalf("expected UpdateCount=1 after one non-skipped Update, got %d", bound.UpdateCount())
	}
}

func TestLifecycleSystemSkippedWhenDisabled(t *testing.T) {
	lifecycle := systems.NewLifecycleSystem()
	lifecycle.SetEnabled(false)
	result := lifecycle.Update(1)
	if !result.Skipped {
		t.Fatal("expected a disabled system to report Skipped")
	}
}
