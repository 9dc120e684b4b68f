// Package worlds is a package-level registry of named WorldPack
// constructors, letting a caller select a mode ("tank", "petri") by string
// instead of importing every mode's package directly. Grounded on
// core/worlds/registry.py's WorldRegistry.create_world, re-expressed as a
// closed, table-registered string-enum per the expansion's tagged-dispatch
// guidance rather than the source's if/elif ladder.
package worlds

import (
	"fmt"

	"github.com/mbolaris/simkernel/internal/kernel"
	"github.com/mbolaris/simkernel/internal/worlds/petri"
	"github.com/mbolaris/simkernel/internal/worlds/tank"
)

// Constructor builds a WorldPack from mode-specific config passed as a
// generic map, the most permissive shape every mode's Config can be
// populated from without this package importing any mode-specific flag
// parsing.
type Constructor func(args map[string]any) kernel.WorldPack

var constructors = map[string]Constructor{
	"tank":  newTank,
	"petri": newPetri,
}

// RegisterWorldPack adds or replaces the constructor for name, letting an
// embedding application register additional modes without modifying this
// package.
func RegisterWorldPack(name string, ctor Constructor) {
	constructors[name] = ctor
}

// WorldPackFor builds the named mode's WorldPack, or returns an error
// listing the known modes if name isn't registered.
func WorldPackFor(name string, args map[string]any) (kernel.WorldPack, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("worlds: unknown world type %q (known: %v)", name, KnownWorldTypes())
	}
	return ctor(args), nil
}

// KnownWorldTypes lists every currently registered mode name.
func KnownWorldTypes() []string {
	out := make([]string, 0, len(constructors))
	for name := range constructors {
		out = append(out, name)
	}
	return out
}

func newTank(args map[string]any) kernel.WorldPack {
	cfg := tank.Config{
		Width:         floatArg(args, "width"),
		Height:        floatArg(args, "height"),
		InitialFish:   intArg(args, "initial_fish"),
		InitialPlants: intArg(args, "initial_plants"),
		MaxFish:       intArg(args, "max_fish"),
	}
	return tank.New(cfg)
}

func newPetri(args map[string]any) kernel.WorldPack {
	cfg := petri.Config{
		Radius:        floatArg(args, "radius"),
		InitialFish:   intArg(args, "initial_fish"),
		InitialPlants: intArg(args, "initial_plants"),
		MaxFish:       intArg(args, "max_fish"),
	}
	return petri.New(cfg)
}

func floatArg(args map[string]any, key string) float64 {
	if v, ok := args[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}

func intArg(args map[string]any, key string) int {
	if v, ok := args[key]; ok {
		if i, ok := v.(int); ok {
			return i
		}
	}
	return 0
}
