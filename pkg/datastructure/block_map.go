package datastructure

import (
	"fmt"
	"slices"
)

// BlockNeighbor is an adjacent block and the direction leading to it.
type BlockNeighbor struct {
	Addr BlockAddr
	Dir  Direction
}

// BlockMap partitions a Grid into blockSize x blockSize BlockGrids. The grid is
// padded with blocked cells on the bottom and right so both sides divide evenly.
// A BlockMap is immutable once built.
type BlockMap struct {
	blocks       []BlockGrid // row-major, heightBlocks*widthBlocks
	blockSize    int
	heightBlocks int
	widthBlocks  int
	height       int
	width        int
}

func NewBlockMap(g *Grid, blockSize int) (*BlockMap, error) {
	if blockSize < 1 || blockSize > MaxBlockSize {
		return nil, fmt.Errorf("block size %d out of range [1, %d]", blockSize, MaxBlockSize)
	}
	hb := (g.Height() + blockSize - 1) / blockSize
	wb := (g.Width() + blockSize - 1) / blockSize

	bm := &BlockMap{
		blocks:       make([]BlockGrid, hb*wb),
		blockSize:    blockSize,
		heightBlocks: hb,
		widthBlocks:  wb,
		height:       g.Height(),
		width:        g.Width(),
	}

	for i := 0; i < hb; i++ {
		for j := 0; j < wb; j++ {
			var pattern PatternID
			for y := 0; y < blockSize; y++ {
				for x := 0; x < blockSize; x++ {
					// Cell returns 1 outside the grid, which is exactly the padding.
					if g.Cell(i*blockSize+y, j*blockSize+x) != 0 {
						pattern |= 1 << (y*blockSize + x)
					}
				}
			}
			bm.blocks[i*wb+j] = BlockGrid{
				Pattern: pattern,
				Size:    blockSize,
				Addr:    BlockAddr{Row: i, Col: j},
			}
		}
	}
	return bm, nil
}

func (bm *BlockMap) BlockSize() int { return bm.blockSize }

func (bm *BlockMap) HeightInBlocks() int { return bm.heightBlocks }

func (bm *BlockMap) WidthInBlocks() int { return bm.widthBlocks }

func (bm *BlockMap) NumBlocks() int { return len(bm.blocks) }

// Height is the height of the unpadded input grid.
func (bm *BlockMap) Height() int { return bm.height }

// Width is the width of the unpadded input grid.
func (bm *BlockMap) Width() int { return bm.width }

func (bm *BlockMap) InBounds(addr BlockAddr) bool {
	return addr.Row >= 0 && addr.Row < bm.heightBlocks && addr.Col >= 0 && addr.Col < bm.widthBlocks
}

func (bm *BlockMap) Block(addr BlockAddr) BlockGrid {
	return bm.blocks[bm.BlockIndex(addr)]
}

// BlockIndex linearises a block address as row*widthInBlocks+col.
func (bm *BlockMap) BlockIndex(addr BlockAddr) int {
	return addr.Row*bm.widthBlocks + addr.Col
}

func (bm *BlockMap) AddrOf(idx int) BlockAddr {
	return BlockAddr{Row: idx / bm.widthBlocks, Col: idx % bm.widthBlocks}
}

// BlockNeighbors returns the in-range adjacent blocks in left, up, right, down order.
func (bm *BlockMap) BlockNeighbors(addr BlockAddr) []BlockNeighbor {
	nbs := make([]BlockNeighbor, 0, 4)
	for _, d := range Directions {
		nb := BlockAddr{Row: addr.Row + d.DRow, Col: addr.Col + d.DCol}
		if bm.InBounds(nb) {
			nbs = append(nbs, BlockNeighbor{Addr: nb, Dir: d})
		}
	}
	return nbs
}

// GlobalToLocal maps a non-negative map node to its block and local address.
func (bm *BlockMap) GlobalToLocal(n Node) (BlockAddr, LocalNode) {
	return BlockAddr{Row: n.Row / bm.blockSize, Col: n.Col / bm.blockSize},
		LocalNode{Row: n.Row % bm.blockSize, Col: n.Col % bm.blockSize}
}

func (bm *BlockMap) LocalToGlobal(addr BlockAddr, l LocalNode) Node {
	return Node{Row: addr.Row*bm.blockSize + l.Row, Col: addr.Col*bm.blockSize + l.Col}
}

// Contains reports whether n lies on the unpadded input grid.
func (bm *BlockMap) Contains(n Node) bool {
	return n.Row >= 0 && n.Row < bm.height && n.Col >= 0 && n.Col < bm.width
}

func (bm *BlockMap) IsFree(n Node) bool {
	if !bm.Contains(n) {
		return false
	}
	addr, l := bm.GlobalToLocal(n)
	return bm.Block(addr).IsFree(l)
}

// Patterns returns the distinct block patterns used by the map in ascending order.
func (bm *BlockMap) Patterns() []PatternID {
	seen := make(map[PatternID]struct{})
	patterns := make([]PatternID, 0)
	for _, b := range bm.blocks {
		if _, ok := seen[b.Pattern]; ok {
			continue
		}
		seen[b.Pattern] = struct{}{}
		patterns = append(patterns, b.Pattern)
	}
	slices.Sort(patterns)
	return patterns
}
