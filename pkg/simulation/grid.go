package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/geometry"
)

type gridKey struct {
	x, y int
}

// gridEntry is what a cell remembers: a point and who it belongs to.
// For food, owner is the food index; for bodies it is the snake index.
type gridEntry struct {
	owner int
	pos   geometry.Vector2D
}

// spatialGrid is a uniform spatial hash used as broad phase for the
// consumption and collision tests. Positions are copied in, so a grid filled
// at the start of a tick keeps answering with tick-start positions.
type spatialGrid struct {
	cellSize float64
	cells    map[gridKey][]gridEntry
}

func newSpatialGrid(cellSize float64) *spatialGrid {
	// Clamp to a minimum of 1 to avoid tiny grids or div by zero
	return &spatialGrid{
		cellSize: math.Max(cellSize, 1),
		cells:    make(map[gridKey][]gridEntry),
	}
}

// reset empties every cell but keeps the backing arrays for the next tick.
func (g *spatialGrid) reset() {
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
}

// cellIndices floors rather than truncates: the world is centred on the
// origin and int(-0.5) would fold two cells into one.
func (g *spatialGrid) cellIndices(p geometry.Vector2D) (int, int) {
	return int(math.Floor(p.X / g.cellSize)), int(math.Floor(p.Y / g.cellSize))
}

func (g *spatialGrid) insert(owner int, p geometry.Vector2D) {
	gx, gy := g.cellIndices(p)
	key := gridKey{x: gx, y: gy}
	g.cells[key] = append(g.cells[key], gridEntry{owner: owner, pos: p})
}

// visit calls fn for every entry stored in a cell overlapping the square of
// half-side radius around p. Callers do the exact distance test.
func (g *spatialGrid) visit(p geometry.Vector2D, radius float64, fn func(e gridEntry)) {
	minGx, minGy := g.cellIndices(geometry.Vector2D{X: p.X - radius, Y: p.Y - radius})
	maxGx, maxGy := g.cellIndices(geometry.Vector2D{X: p.X + radius, Y: p.Y + radius})
	for gx := minGx; gx <= maxGx; gx++ {
		for gy := minGy; gy <= maxGy; gy++ {
			for _, e := range g.cells[gridKey{x: gx, y: gy}] {
				fn(e)
			}
		}
	}
}

// within returns the owners of entries strictly closer than radius to p, in
// grid visiting order.
func (g *spatialGrid) within(p geometry.Vector2D, radius float64) []int {
	var out []int
	r2 := radius * radius
	g.visit(p, radius, func(e gridEntry) {
		if p.DistanceSquaredTo(e.pos) < r2 {
			out = append(out, e.owner)
		}
	})
	return out
}
