package kernel

import "math"

type cellCoord struct {
	col, row int
}

// SpatialIndex is a uniform grid over the world bounds, used for proximity
// queries. It is a pure mirror of EntityManager: every entity Add-ed and
// not Remove-d appears in exactly one cell's bucket, for every tag it
// belongs to.
//
// A position exactly on a cell boundary is assigned to the cell of higher
// index (a natural consequence of flooring col = x / cellSize). Positions
// outside the configured bounds are clamped into the nearest valid cell.
type SpatialIndex struct {
	width, height float64
	cellSize      float64
	cols, rows    int

	// cells[coord][tag] holds every entity of that tag currently in that
	// cell.
	cells map[cellCoord]map[string][]Entity

	// fastLane duplicates the cells[coord][tag] entries for configured
	// high-frequency tags into a dedicated top-level map, so multi-tag
	// fused queries (QueryInteractionCandidates) can walk them directly
	// without a generic per-cell type lookup.
	fastLaneTags map[string]bool
	fastLane     map[string]map[cellCoord][]Entity

	handleCell map[Handle]cellCoord
}

// NewSpatialIndex returns an index over [0,width) x [0,height), with the
// given cell size and fast-lane tags (e.g. "fish", "food").
func NewSpatialIndex(width, height, cellSize float64, fastLaneTags ...string) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = 150
	}
	idx := &SpatialIndex{
		width:        width,
		height:       height,
		cellSize:     cellSize,
		cols:         int(math.Ceil(width / cellSize)),
		rows:         int(math.Ceil(height / cellSize)),
		cells:        make(map[cellCoord]map[string][]Entity),
		fastLaneTags: make(map[string]bool, len(fastLaneTags)),
		fastLane:     make(map[string]map[cellCoord][]Entity, len(fastLaneTags)),
		handleCell:   make(map[Handle]cellCoord),
	}
	for _, tag := range fastLaneTags {
		idx.fastLaneTags[tag] = true
		idx.fastLane[tag] = make(map[cellCoord][]Entity)
	}
	if idx.cols < 1 {
		idx.cols = 1
	}
	if idx.rows < 1 {
		idx.rows = 1
	}
	return idx
}

// EnableFastLane adds tags to the fast-lane set. Intended to be called
// during Setup, before any entity is added to the index; a tag already
// holding entities in cells map when enabled would not be backfilled into
// fastLane.
func (s *SpatialIndex) EnableFastLane(tags ...string) {
	for _, tag := range tags {
		if s.fastLaneTags[tag] {
			continue
		}
		s.fastLaneTags[tag] = true
		s.fastLane[tag] = make(map[cellCoord][]Entity)
	}
}

func (s *SpatialIndex) cellOf(x, y float64) cellCoord {
	col := int(math.Floor(x / s.cellSize))
	row := int(math.Floor(y / s.cellSize))
	if col < 0 {
		col = 0
	}
	if col >= s.cols {
		col = s.cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= s.rows {
		row = s.rows - 1
	}
	return cellCoord{col: col, row: row}
}

// Add inserts e into the cell matching its current position.
func (s *SpatialIndex) Add(e Entity) {
	x, y := e.Position()
	cell := s.cellOf(x, y)
	tag := typeTagOf(e)

	s.insert(cell, tag, e)
	s.handleCell[e.Handle()] = cell
}

func (s *SpatialIndex) insert(cell cellCoord, tag string, e Entity) {
	bucket, ok := s.cells[cell]
	if !ok {
		bucket = make(map[string][]Entity)
		s.cells[cell] = bucket
	}
	bucket[tag] = append(bucket[tag], e)

	if s.fastLaneTags[tag] {
		s.fastLane[tag][cell] = append(s.fastLane[tag][cell], e)
	}
}

func (s *SpatialIndex) remove(cell cellCoord, tag string, e Entity) {
	if bucket, ok := s.cells[cell]; ok {
		bucket[tag] = removeEntity(bucket[tag], e)
	}
	if s.fastLaneTags[tag] {
		s.fastLane[tag][cell] = removeEntity(s.fastLane[tag][cell], e)
	}
}

func removeEntity(list []Entity, target Entity) []Entity {
	for i, e := range list {
		if e.Handle() == target.Handle() {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// Remove drops e from its current cell.
func (s *SpatialIndex) Remove(e Entity) {
	cell, ok := s.handleCell[e.Handle()]
	if !ok {
		return
	}
	tag := typeTagOf(e)
	s.remove(cell, tag, e)
	delete(s.handleCell, e.Handle())
}

// Update moves e to the cell matching its current position, if it has
// changed; otherwise it is a no-op.
func (s *SpatialIndex) Update(e Entity) {
	h := e.Handle()
	oldCell, tracked := s.handleCell[h]
	x, y := e.Position()
	newCell := s.cellOf(x, y)

	if tracked && oldCell == newCell {
		return
	}

	tag := typeTagOf(e)
	if tracked {
		s.remove(oldCell, tag, e)
	}
	s.insert(newCell, tag, e)
	s.handleCell[h] = newCell
}

// Rebuild clears the index and reinserts every entity.
func (s *SpatialIndex) Rebuild(entities []Entity) {
	s.cells = make(map[cellCoord]map[string][]Entity)
	for tag := range s.fastLane {
		s.fastLane[tag] = make(map[cellCoord][]Entity)
	}
	s.handleCell = make(map[Handle]cellCoord)
	for _, e := range entities {
		s.Add(e)
	}
}

// boundsRange returns every cell coordinate intersecting the axis-aligned
// box [x-r,x+r] x [y-r,y+r].
func (s *SpatialIndex) boundsRange(x, y, r float64) (minCell, maxCell cellCoord) {
	minCell = s.cellOf(x-r, y-r)
	maxCell = s.cellOf(x+r, y+r)
	return minCell, maxCell
}

// QueryRadius returns every entity within Euclidean distance r of e,
// excluding e itself, across every tag bucket.
func (s *SpatialIndex) QueryRadius(e Entity, r float64) []Entity {
	x, y := e.Position()
	rSq := r * r
	minCell, maxCell := s.boundsRange(x, y, r)

	var out []Entity
	for col := minCell.col; col <= maxCell.col; col++ {
		for row := minCell.row; row <= maxCell.row; row++ {
			bucket, ok := s.cells[cellCoord{col: col, row: row}]
			if !ok {
				continue
			}
			for _, candidates := range bucket {
				out = appendWithinRadius(out, e, candidates, x, y, rSq)
			}
		}
	}
	return out
}

// QueryType returns every entity of the given tag within radius r of e,
// excluding e itself.
func (s *SpatialIndex) QueryType(e Entity, r float64, tag string) []Entity {
	x, y := e.Position()
	rSq := r * r
	minCell, maxCell := s.boundsRange(x, y, r)

	var out []Entity
	if s.fastLaneTags[tag] {
		for col := minCell.col; col <= maxCell.col; col++ {
			for row := minCell.row; row <= maxCell.row; row++ {
				out = appendWithinRadius(out, e, s.fastLane[tag][cellCoord{col: col, row: row}], x, y, rSq)
			}
		}
		return out
	}

	for col := minCell.col; col <= maxCell.col; col++ {
		for row := minCell.row; row <= maxCell.row; row++ {
			bucket, ok := s.cells[cellCoord{col: col, row: row}]
			if !ok {
				continue
			}
			out = appendWithinRadius(out, e, bucket[tag], x, y, rSq)
		}
	}
	return out
}

// QueryNearestOfTag returns the closest entity of tag within radius r of e,
// excluding e itself.
func (s *SpatialIndex) QueryNearestOfTag(e Entity, r float64, tag string) (Entity, bool) {
	candidates := s.QueryType(e, r, tag)
	if len(candidates) == 0 {
		return nil, false
	}
	x, y := e.Position()
	best := candidates[0]
	bestDistSq := distSq(x, y, best)
	for _, c := range candidates[1:] {
		if d := distSq(x, y, c); d < bestDistSq {
			best, bestDistSq = c, d
		}
	}
	return best, true
}

// QueryInteractionCandidates fuses several tag buckets into a single grid
// traversal, for systems that need more than one type of neighbor per
// entity examined (e.g. collision checks against both mobile agents and
// food).
func (s *SpatialIndex) QueryInteractionCandidates(e Entity, r float64, tags []string) []Entity {
	x, y := e.Position()
	rSq := r * r
	minCell, maxCell := s.boundsRange(x, y, r)

	var out []Entity
	for col := minCell.col; col <= maxCell.col; col++ {
		for row := minCell.row; row <= maxCell.row; row++ {
			coord := cellCoord{col: col, row: row}
			for _, tag := range tags {
				if s.fastLaneTags[tag] {
					out = appendWithinRadius(out, e, s.fastLane[tag][coord], x, y, rSq)
					continue
				}
				if bucket, ok := s.cells[coord]; ok {
					out = appendWithinRadius(out, e, bucket[tag], x, y, rSq)
				}
			}
		}
	}
	return out
}

func appendWithinRadius(out []Entity, self Entity, candidates []Entity, x, y, rSq float64) []Entity {
	for _, c := range candidates {
		if c.Handle() == self.Handle() {
			continue
		}
		if distSq(x, y, c) <= rSq {
			out = append(out, c)
		}
	}
	return out
}

func distSq(x, y float64, e Entity) float64 {
	ex, ey := e.Position()
	dx := ex - x
	dy := ey - y
	return dx*dx + dy*dy
}
