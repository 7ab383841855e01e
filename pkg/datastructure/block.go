package datastructure

import (
	"fmt"
	"iter"
	"strings"
)

// MaxBlockSize is the largest block side whose cells still fit in a PatternID.
const MaxBlockSize = 8

// PatternID encodes the obstacle layout of a block. bit row*size+col is set iff
// cell (row, col) is blocked.
type PatternID uint64

// LocalNode is a cell address inside a block.
type LocalNode struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Node is a cell address on the whole map, origin at the top-left corner.
type Node struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewNode(row, col int) Node {
	return Node{Row: row, Col: col}
}

// BlockAddr is the (row, col) position of a block inside a BlockMap.
type BlockAddr struct {
	Row int
	Col int
}

// Direction is a unit step between cells or between blocks.
type Direction struct {
	DRow int
	DCol int
}

var (
	Left  = Direction{0, -1}
	Up    = Direction{-1, 0}
	Right = Direction{0, 1}
	Down  = Direction{1, 0}
)

// Directions is the neighbor enumeration order used everywhere: left, up, right, down.
// bfs tie breaking in the local distance database depends on it.
var Directions = [4]Direction{Left, Up, Right, Down}

// InvalidNodeError is returned by unchecked accessors for nodes outside the block.
type InvalidNodeError struct {
	Row  int
	Col  int
	Size int
}

func (e *InvalidNodeError) Error() string {
	return fmt.Sprintf("invalid node (%d, %d) for block of size %d", e.Row, e.Col, e.Size)
}

// BlockGrid is a size x size square of free/blocked cells packed into a PatternID.
type BlockGrid struct {
	Pattern PatternID
	Size    int
	Addr    BlockAddr
}

func NewBlockGrid(pattern PatternID, size int) BlockGrid {
	return BlockGrid{Pattern: pattern, Size: size}
}

// NewBlockGridFromCells packs a size x size 0/1 matrix, cell (i,j) into bit i*size+j.
func NewBlockGridFromCells(cells [][]uint8) (BlockGrid, error) {
	size := len(cells)
	if size == 0 || size > MaxBlockSize {
		return BlockGrid{}, fmt.Errorf("block size %d out of range [1, %d]", size, MaxBlockSize)
	}
	var pattern PatternID
	for i, row := range cells {
		if len(row) != size {
			return BlockGrid{}, fmt.Errorf("block row %d has %d cells, want %d", i, len(row), size)
		}
		for j, c := range row {
			if c != 0 {
				pattern |= 1 << (i*size + j)
			}
		}
	}
	return NewBlockGrid(pattern, size), nil
}

// Cells returns the number of cells in the block.
func (b BlockGrid) Cells() int {
	return b.Size * b.Size
}

func (b BlockGrid) Contains(n LocalNode) bool {
	return n.Row >= 0 && n.Row < b.Size && n.Col >= 0 && n.Col < b.Size
}

// At reports whether n is blocked. It fails with *InvalidNodeError when n is out of bounds.
func (b BlockGrid) At(n LocalNode) (bool, error) {
	if !b.Contains(n) {
		return false, &InvalidNodeError{Row: n.Row, Col: n.Col, Size: b.Size}
	}
	return b.blocked(b.Index(n)), nil
}

// IsFree is the checked accessor: out of bounds cells are never free.
func (b BlockGrid) IsFree(n LocalNode) bool {
	return b.Contains(n) && !b.blocked(b.Index(n))
}

func (b BlockGrid) blocked(idx int) bool {
	return b.Pattern&(1<<idx) != 0
}

// Index linearises a local node as row*size+col.
func (b BlockGrid) Index(n LocalNode) int {
	return n.Row*b.Size + n.Col
}

func (b BlockGrid) NodeAt(idx int) LocalNode {
	return LocalNode{Row: idx / b.Size, Col: idx % b.Size}
}

// Neighbors4 returns the free in-bounds neighbors of n in left, up, right, down order.
func (b BlockGrid) Neighbors4(n LocalNode) []LocalNode {
	nbs := make([]LocalNode, 0, 4)
	for _, d := range Directions {
		nb := LocalNode{Row: n.Row + d.DRow, Col: n.Col + d.DCol}
		if b.IsFree(nb) {
			nbs = append(nbs, nb)
		}
	}
	return nbs
}

func (b BlockGrid) IsBoundary(n LocalNode) bool {
	last := b.Size - 1
	return b.Contains(n) && (n.Row == 0 || n.Col == 0 || n.Row == last || n.Col == last)
}

// BoundaryNodes yields every node touching the block edge exactly once: the top
// row, the bottom row, then the left and right columns without their corners.
func (b BlockGrid) BoundaryNodes() iter.Seq[LocalNode] {
	return BoundaryNodes(b.Size)
}

// BoundaryNodes is the pattern independent boundary enumeration for a block side.
func BoundaryNodes(size int) iter.Seq[LocalNode] {
	return func(yield func(LocalNode) bool) {
		last := size - 1
		for x := 0; x < size; x++ {
			if !yield(LocalNode{0, x}) {
				return
			}
		}
		if size > 1 {
			for x := 0; x < size; x++ {
				if !yield(LocalNode{last, x}) {
					return
				}
			}
		}
		for y := 1; y < last; y++ {
			if !yield(LocalNode{y, 0}) {
				return
			}
		}
		for y := 1; y < last; y++ {
			if !yield(LocalNode{y, last}) {
				return
			}
		}
	}
}

func (b BlockGrid) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "pattern: %d\n", b.Pattern)
	for i := 0; i < b.Size; i++ {
		for j := 0; j < b.Size; j++ {
			if b.blocked(i*b.Size + j) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		if i < b.Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
