// Package petri wires shared.Pack to a circular dish world. Grounded on
// core/worlds/petri/pack.py's PetriPack, a near-bare TankPack subclass in
// the source that only renamed mode_id and world_type; here the mode gets
// an actual geometric differentiator (shared.DiskGeometry) instead of a
// purely cosmetic rename, per the expansion's "circular petri dish"
// framing — a smaller, denser world with a lower fish cap fits the mode's
// name better than an unmodified rectangle would.
package petri

import (
	"github.com/mbolaris/simkernel/internal/kernel"
	"github.com/mbolaris/simkernel/internal/worlds/shared"
)

// Config is the petri mode's tunable surface; everything not set falls
// back to a smaller dish than tank's default rectangle.
type Config struct {
	Radius float64

	InitialFish   int
	InitialPlants int
	MaxFish       int
}

// New returns a petri-mode WorldPack over a dish of the given radius
// (defaulting to 360, matching the source's tighter petri-dish scale).
func New(cfg Config) kernel.WorldPack {
	if cfg.Radius <= 0 {
		cfg.Radius = 360
	}
	if cfg.InitialFish <= 0 {
		cfg.InitialFish = 6
	}
	if cfg.MaxFish <= 0 {
		cfg.MaxFish = 24
	}

	packCfg := shared.PackConfig{
		ModeID:   "petri",
		Geometry: shared.DiskGeometry{CenterX: cfg.Radius, CenterY: cfg.Radius, Radius: cfg.Radius},

		InitialFish:   cfg.InitialFish,
		InitialPlants: cfg.InitialPlants,
		MaxFish:       cfg.MaxFish,
	}
	return shared.NewPack(packCfg)
}
