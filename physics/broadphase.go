package physics

import (
	"math"

	"github.com/ethaniccc/float32-cube/cube"
)

type partRef struct {
	collider ColliderHandle
	index    int
}

// spatialHash buckets compound parts by the grid cells their boxes touch.
// Cells are keyed by exact coordinates so parts can be removed again.
type spatialHash struct {
	cellSize float32
	cells    map[[3]int][]partRef
}

func newSpatialHash(cellSize float32) *spatialHash {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &spatialHash{
		cellSize: cellSize,
		cells:    make(map[[3]int][]partRef),
	}
}

func (g *spatialHash) getCellIndex(pos float32) int {
	return int(math.Floor(float64(pos / g.cellSize)))
}

func (g *spatialHash) cellRange(b cube.BBox) (lo, hi [3]int) {
	for i := 0; i < 3; i++ {
		lo[i] = g.getCellIndex(b.Min()[i])
		hi[i] = g.getCellIndex(b.Max()[i])
	}
	return lo, hi
}

func (g *spatialHash) forCells(b cube.BBox, fn func(key [3]int)) {
	lo, hi := g.cellRange(b)
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				fn([3]int{x, y, z})
			}
		}
	}
}

func (g *spatialHash) insert(h ColliderHandle, shape *Compound) {
	for i, p := range shape.Parts {
		ref := partRef{collider: h, index: i}
		g.forCells(p.Bounds(), func(key [3]int) {
			g.cells[key] = append(g.cells[key], ref)
		})
	}
}

func (g *spatialHash) remove(h ColliderHandle, shape *Compound) {
	for _, p := range shape.Parts {
		g.forCells(p.Bounds(), func(key [3]int) {
			refs := g.cells[key]
			kept := refs[:0]
			for _, r := range refs {
				if r.collider != h {
					kept = append(kept, r)
				}
			}
			if len(kept) == 0 {
				delete(g.cells, key)
				return
			}
			g.cells[key] = kept
		})
	}
}

// query returns each part ref touching a cell of b once, in first-seen order.
func (g *spatialHash) query(b cube.BBox) []partRef {
	unique := make(map[partRef]struct{})
	var results []partRef
	g.forCells(b, func(key [3]int) {
		for _, r := range g.cells[key] {
			if _, ok := unique[r]; !ok {
				unique[r] = struct{}{}
				results = append(results, r)
			}
		}
	})
	return results
}
