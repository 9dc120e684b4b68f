package petri_test

import (
	"testing"

	"github.com/go-logr/logr"

	"github.com/mbolaris/simkernel/internal/kernel"
	"github.com/mbolaris/simkernel/internal/worlds/petri"
)

func TestPetriPackRunsFramesWithinDishBounds(t *testing.T) {
	seed := uint64(11)
	k := kernel.New(kernel.KernelConfig{Seed: &seed}, logr.Discard())
	pack := petri.New(petri.Config{Radius: 150, InitialFish: 4, InitialPlants: 2, MaxFish: 10})
	if err := k.Setup(pack); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if k.WorldType() != "petri" {
		t.Fatalf("expected world type petri, got %q", k.WorldType())
	}

	for i := 0; i < 30; i++ {
		if err := k.Update(); err != nil {
			t.Fatalf("frame %d: Update failed: %v", i, err)
		}
	}

	width, height := k.Environment().Bounds()
	if width != 300 || height != 300 {
		t.Fatalf("expected a 2*radius square bounding box, got %vx%v", width, height)
	}

	// Only Fish defers ConstrainToBounds to the Environment's circular
	// Clamp; food/plants are seeded along a rectangular strip and are not
	// geometry-clamped (see shared.Food/Plant.ConstrainToBounds), so only
	// fish positions are checked against the dish radius here.
	snap := k.Snapshot(nil)
	cx, cy := width/2, height/2
	for _, e := range snap.Entities {
		if e.TypeName != "fish" {
			continue
		}
		dx, dy := e.X-cx, e.Y-cy
		dist := dx*dx + dy*dy
		if dist > (150.0+1)*(150.0+1) {
			t.Fatalf("fish %s at (%v,%v) escaped the dish radius", e.StableID, e.X, e.Y)
		}
	}
}
