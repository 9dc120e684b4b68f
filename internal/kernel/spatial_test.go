package kernel_test

import (
	"testing"

	"github.com/mbolaris/simkernel/internal/kernel"
)

type spatialEntity struct {
	x, y float64
	typ  string
}

func (e *spatialEntity) Handle() kernel.Handle                 { return e }
func (e *spatialEntity) Position() (float64, float64)          { return e.x, e.y }
func (e *spatialEntity) Size() (float64, float64)              { return 1, 1 }
func (e *spatialEntity) IsDead() bool                          { return false }
func (e *spatialEntity) SnapshotType() string                  { return e.typ }
func (e *spatialEntity) ConstrainToBounds(float64, float64)    {}
func (e *spatialEntity) Update(uint64, float64, float64) kernel.UpdateResult {
	return kernel.UpdateResult{}
}

var _ kernel.Entity = (*spatialEntity)(nil)

func TestSpatialIndexQueryRadiusExcludesSelf(t *testing.T) {
	idx := kernel.NewSpatialIndex(100, 100, 10, "fish")
	self := &spatialEntity{x: 5, y: 5, typ: "fish"}
	other := &spatialEntity{x: 6, y: 5, typ: "fish"}
	idx.Add(self)
	idx.Add(other)

	got := idx.QueryRadius(self, 10)
	if len(got) != 1 || got[0].Handle() != other.Handle() {
		t.Fatalf("expected exactly [other], got %v", got)
	}
}

func TestSpatialIndexRadiusZeroOnlyMatchesIdenticalCoords(t *testing.T) {
	idx := kernel.NewSpatialIndex(100, 100, 10)
	self := &spatialEntity{x: 5, y: 5, typ: "fish"}
	same := &spatialEntity{x: 5, y: 5, typ: "fish"}
	near := &spatialEntity{x: 5.5, y: 5, typ: "fish"}
	idx.Add(self)
	idx.Add(same)
	idx.Add(near)

	got := idx.QueryRadius(self, 0)
	if len(got) != 1 || got[0].Handle() != same.Handle() {
		t.Fatalf("expected exactly [same], got %v", got)
	}
}

func TestSpatialIndexBoundaryCoordinateStillReachable(t *testing.T) {
	// An entity sitting exactly on a cell boundary (x a multiple of
	// cellSize) is floored into the higher-index cell; a query whose
	// bounding box spans both sides of the boundary must still find it by
	// distance regardless of which cell holds it.
	idx := kernel.NewSpatialIndex(100, 100, 10)
	onBoundary := &spatialEntity{x: 10, y: 10, typ: "fish"}
	idx.Add(onBoundary)

	probe := &spatialEntity{x: 9, y: 10, typ: "fish"}
	got := idx.QueryRadius(probe, 1.5)
	if len(got) != 1 || got[0].Handle() != onBoundary.Handle() {
		t.Fatalf("expected boundary entity reachable across the cell split, got %v", got)
	}
}

func TestSpatialIndexUpdateMovesEntityBetweenCells(t *testing.T) {
	idx := kernel.NewSpatialIndex(100, 100, 10, "fish")
	e := &spatialEntity{x: 5, y: 5, typ: "fish"}
	idx.Add(e)

	probeOld := &spatialEntity{x: 5, y: 5, typ: "fish"}
	if got := idx.QueryRadius(probeOld, 0); len(got) != 1 {
		t.Fatalf("expected entity in old cell before move, got %v", got)
	}

	e.x, e.y = 55, 55
	idx.Update(e)

	if got := idx.QueryRadius(probeOld, 0); len(got) != 0 {
		t.Fatalf("expected entity gone from old cell after move, got %v", got)
	}
	probeNew := &spatialEntity{x: 55, y: 55, typ: "fish"}
	if got := idx.QueryRadius(probeNew, 0); len(got) != 1 {
		t.Fatalf("expected entity present in new cell after move, got %v", got)
	}
}

func TestSpatialIndexRemoveDropsEntityFromAllQueries(t *testing.T) {
	idx := kernel.NewSpatialIndex(100, 100, 10, "fish")
	e := &spatialEntity{x: 5, y: 5, typ: "fish"}
	other := &spatialEntity{x: 5, y: 5, typ: "fish"}
	idx.Add(e)
	idx.Add(other)

	idx.Remove(e)

	got := idx.QueryRadius(other, 50)
	for _, c := range got {
		if c.Handle() == e.Handle() {
			t.Fatal("expected removed entity to be absent from subsequent queries")
		}
	}
	if got := idx.QueryType(other, 0, "fish"); len(got) != 0 {
		t.Fatalf("expected no fish besides other at its own coords, got %v", got)
	}
}

func TestSpatialIndexPositionsOutsideBoundsClampIntoValidCell(t *testing.T) {
	idx := kernel.NewSpatialIndex(100, 100, 10)
	outOfBounds := &spatialEntity{x: -50, y: 500, typ: "fish"}
	idx.Add(outOfBounds)

	// The entity is stored in the clamped corner cell (0,9) but keeps its
	// real position; a probe near that real position only scans cell (0,9)
	// (its own range clamps there too), so a hit proves the clamped storage.
	probe := &spatialEntity{x: -45, y: 495, typ: "fish"}
	got := idx.QueryRadius(probe, 15)
	if len(got) != 1 {
		t.Fatalf("expected clamped entity to be reachable from the clamped corner cell, got %v", got)
	}
}

func TestSpatialIndexQueryTypeFastLaneMatchesGeneric(t *testing.T) {
	idxFast := kernel.NewSpatialIndex(100, 100, 10, "fish")
	idxSlow := kernel.NewSpatialIndex(100, 100, 10)

	probeFast := &spatialEntity{x: 5, y: 5, typ: "fish"}
	otherFast := &spatialEntity{x: 6, y: 6, typ: "fish"}
	idxFast.Add(probeFast)
	idxFast.Add(otherFast)

	probeSlow := &spatialEntity{x: 5, y: 5, typ: "fish"}
	otherSlow := &spatialEntity{x: 6, y: 6, typ: "fish"}
	idxSlow.Add(probeSlow)
	idxSlow.Add(otherSlow)

	gotFast := idxFast.QueryType(probeFast, 10, "fish")
	gotSlow := idxSlow.QueryType(probeSlow, 10, "fish")
	if len(gotFast) != len(gotSlow) || len(gotFast) != 1 {
		t.Fatalf("expected fast-lane and generic paths to agree, got %d vs %d", len(gotFast), len(gotSlow))
	}
}

func TestSpatialIndexQueryNearestOfTag(t *testing.T) {
	idx := kernel.NewSpatialIndex(100, 100, 10)
	probe := &spatialEntity{x: 0, y: 0, typ: "fish"}
	near := &spatialEntity{x: 2, y: 0, typ: "food"}
	far := &spatialEntity{x: 9, y: 0, typ: "food"}
	idx.Add(probe)
	idx.Add(near)
	idx.Add(far)

	got, ok := idx.QueryNearestOfTag(probe, 20, "food")
	if !ok || got.Handle() != near.Handle() {
		t.Fatalf("expected nearest food to be `near`, got %v ok=%v", got, ok)
	}
}

func TestSpatialIndexRebuildReflectsNewSet(t *testing.T) {
	idx := kernel.NewSpatialIndex(100, 100, 10, "fish")
	stale := &spatialEntity{x: 5, y: 5, typ: "fish"}
	idx.Add(stale)

	fresh := []kernel.Entity{&spatialEntity{x: 50, y: 50, typ: "fish"}}
	idx.Rebuild(fresh)

	probeStale := &spatialEntity{x: 5, y: 5, typ: "fish"}
	if got := idx.QueryRadius(probeStale, 0); len(got) != 0 {
		t.Fatalf("expected stale entity gone after rebuild, got %v", got)
	}
	probeFresh := &spatialEntity{x: 50, y: 50, typ: "fish"}
	if got := idx.QueryRadius(probeFresh, 0); len(got) != 1 {
		t.Fatalf("expected fresh entity present after rebuild, got %v", got)
	}
}

func TestSpatialIndexQueryInteractionCandidatesFusesTags(t *testing.T) {
	idx := kernel.NewSpatialIndex(100, 100, 10, "fish")
	probe := &spatialEntity{x: 5, y: 5, typ: "fish"}
	fishNeighbor := &spatialEntity{x: 6, y: 5, typ: "fish"}
	foodNeighbor := &spatialEntity{x: 5, y: 6, typ: "food"}
	idx.Add(probe)
	idx.Add(fishNeighbor)
	idx.Add(foodNeighbor)

	got := idx.QueryInteractionCandidates(probe, 10, []string{"fish", "food"})
	if len(got) != 2 {
		t.Fatalf("expected both fish and food neighbors, got %v", got)
	}
}
