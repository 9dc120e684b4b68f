package worlds_test

import (
	"testing"

	"github.com/go-logr/logr"

	"github.com/mbolaris/simkernel/internal/kernel"
	"github.com/mbolaris/simkernel/internal/worlds"
)

func TestWorldPackForKnownModes(t *testing.T) {
	for _, mode := range []string{"tank", "petri"} {
		pack, err := worlds.WorldPackFor(mode, nil)
		if err != nil {
			t.Fatalf("WorldPackFor(%q) failed: %v", mode, err)
		}
		seed := uint64(1)
		k := kernel.New(kernel.KernelConfig{Seed: &seed}, logr.Discard())
		if err := k.Setup(pack); err != nil {
			t.Fatalf("Setup(%q) failed: %v", mode, err)
		}
		if k.WorldType() != mode {
			t.Fatalf("expected world type %q, got %q", mode, k.WorldType())
		}
	}
}

func TestWorldPackForUnknownModeReturnsError(t *testing.T) {
	_, err := worlds.WorldPackFor("nonexistent", nil)
	if err == nil {
		t.Fatal("expected an error for an unregistered mode")
	}
}

func TestKnownWorldTypesListsRegisteredModes(t *testing.T) {
	types := worlds.KnownWorldTypes()
	seen := make(map[string]bool, len(types))
	for _, t := range types {
		seen[t] = true
	}
	if !seen["tank"] || !seen["petri"] {
		t.Fatalf("expected tank and petri to be registered, got %v", types)
	}
}

func TestRegisterWorldPackAddsCustomMode(t *testing.T) {
	worlds.RegisterWorldPack("custom-test-mode", func(map[string]any) kernel.WorldPack {
		return nil
	})
	found := false
	for _, mode := range worlds.KnownWorldTypes() {
		if mode == "custom-test-mode" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected RegisterWorldPack to add the custom mode to KnownWorldTypes")
	}
}
