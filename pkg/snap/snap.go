// Package snap moves a requested cell onto the nearest free cell of a grid.
package snap

import (
	"errors"
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"

	"lintang/blocknav/pkg/datastructure"
)

var ErrNoFreeCell = errors.New("grid has no free cell")

var tol = 0.01

// candidates is how many rtree neighbors are compared exactly at first.
const candidates = 4

type freeCell struct {
	Location rtreego.Point
	Node     datastructure.Node
}

func (c *freeCell) Bounds() rtreego.Rect {
	return c.Location.ToRect(tol)
}

// Snapper indexes every free cell of a grid in an rtree. read only after construction.
type Snapper struct {
	grid *datastructure.Grid
	tree *rtreego.Rtree
	size int
}

func NewSnapper(grid *datastructure.Grid) *Snapper {
	objs := make([]rtreego.Spatial, 0)
	for i := 0; i < grid.Height(); i++ {
		for j := 0; j < grid.Width(); j++ {
			n := datastructure.NewNode(i, j)
			if grid.IsFree(n) {
				objs = append(objs, &freeCell{Location: rtreego.Point{float64(i), float64(j)}, Node: n})
			}
		}
	}
	return &Snapper{
		grid: grid,
		tree: rtreego.NewTree(2, 25, 50, objs...), // 2 dimension, 25 min entries, 50 max entries
		size: len(objs),
	}
}

// Len is the number of indexed free cells.
func (s *Snapper) Len() int { return s.size }

// Snap returns n itself when it is free, else the free cell with the smallest
// euclidean distance, ties going to the smaller (row, col).
func (s *Snapper) Snap(n datastructure.Node) (datastructure.Node, error) {
	if s.grid.IsFree(n) {
		return n, nil
	}
	if s.size == 0 {
		return datastructure.Node{}, ErrNoFreeCell
	}
	want := rtreego.Point{float64(n.Row), float64(n.Col)}

	// the rtree orders by distance to the cell bounds, which is off by less
	// than 2*tol, so every cell tied with the nearest one is only known to be
	// among the candidates once a candidate lies clearly farther away.
	best, bestDist := datastructure.Node{}, math.Inf(1)
	for k := candidates; ; k *= 2 {
		farthest := 0.0
		best, bestDist = datastructure.Node{}, math.Inf(1)
		for _, obj := range s.tree.NearestNeighbors(k, want) {
			c, ok := obj.(*freeCell)
			if !ok || c == nil {
				continue
			}
			d := sqDist(want, c.Location)
			farthest = max(farthest, d)
			if d < bestDist || (d == bestDist && less(c.Node, best)) {
				best, bestDist = c.Node, d
			}
		}
		if k >= s.size || math.Sqrt(farthest)-math.Sqrt(bestDist) > 2*tol {
			break
		}
	}
	if math.IsInf(bestDist, 1) {
		return datastructure.Node{}, fmt.Errorf("snap (%d, %d): %w", n.Row, n.Col, ErrNoFreeCell)
	}
	return best, nil
}

func sqDist(a, b rtreego.Point) float64 {
	dr, dc := a[0]-b[0], a[1]-b[1]
	return dr*dr + dc*dc
}

func less(a, b datastructure.Node) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}
