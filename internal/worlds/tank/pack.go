// Package tank wires shared.Pack to an axis-aligned rectangular world: the
// default mode, grounded directly on core/worlds/tank/pack.py's TankPack.
package tank

import (
	"github.com/mbolaris/simkernel/internal/kernel"
	"github.com/mbolaris/simkernel/internal/worlds/shared"
)

// Config is the tank mode's tunable surface; everything not set falls back
// to shared.DefaultPackConfig's tank-scale defaults.
type Config struct {
	Width, Height float64

	InitialFish   int
	InitialPlants int
	MaxFish       int
}

// New returns a tank-mode WorldPack over the given width/height (defaulting
// to 1280x720, the kernel's own Display default, if either is zero).
func New(cfg Config) kernel.WorldPack {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}

	packCfg := shared.PackConfig{
		ModeID:        "tank",
		Geometry:      shared.RectGeometry{Width: cfg.Width, Height: cfg.Height},
		InitialFish:   cfg.InitialFish,
		InitialPlants: cfg.InitialPlants,
		MaxFish:       cfg.MaxFish,
	}
	return shared.NewPack(packCfg)
}
