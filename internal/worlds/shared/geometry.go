package shared

import "math"

// RectGeometry is the tank pack's axis-aligned, open-rectangle world: an
// entity's position is clamped independently on each axis. Grounded on
// core/environment.py's screen_width/screen_height bounds check.
type RectGeometry struct {
	Width, Height float64
}

func (g RectGeometry) Bounds() (float64, float64) { return g.Width, g.Height }

func (g RectGeometry) Clamp(x, y, width, height float64) (float64, float64) {
	maxX := g.Width - width
	maxY := g.Height - height
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	return clampFloat(x, 0, maxX), clampFloat(y, 0, maxY)
}

// DiskGeometry is the petri pack's circular world: an entity outside the
// dish radius is projected back onto the boundary along the line from the
// dish center, rather than clamped per axis. This is the expansion's
// "circular petri dish" differentiator — the Python source's PetriPack was
// a thin TankPack subclass with no geometry divergence at all; here the
// geometry is genuinely circular, matching what the spec promises for this
// mode.
type DiskGeometry struct {
	CenterX, CenterY float64
	Radius           float64
}

func (g DiskGeometry) Bounds() (float64, float64) {
	return g.Radius * 2, g.Radius * 2
}

func (g DiskGeometry) Clamp(x, y, width, height float64) (float64, float64) {
	cx := x + width/2
	cy := y + height/2

	dx := cx - g.CenterX
	dy := cy - g.CenterY
	dist := math.Hypot(dx, dy)

	usable := g.Radius - math.Hypot(width, height)/2
	if usable < 0 {
		usable = 0
	}

	if dist <= usable || dist == 0 {
		return x, y
	}

	scale := usable / dist
	newCx := g.CenterX + dx*scale
	newCy := g.CenterY + dy*scale
	return newCx - width/2, newCy - height/2
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

var (
	_ Geometry = RectGeometry{}
	_ Geometry = DiskGeometry{}
)
