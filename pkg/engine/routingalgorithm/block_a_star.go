package routingalgorithm

import (
	"context"
	"fmt"
	"math"

	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/lddb"
	"lintang/blocknav/pkg/util"
)

const (
	infinity = math.MaxInt

	// ctxCheckInterval is how many loop iterations pass between ctx checks.
	ctxCheckInterval = 100
)

// Result of one query. Path runs from start to goal inclusive and has
// Length+1 nodes. Expanded counts expanded blocks for Block A* and expanded
// cells for A*.
type Result struct {
	Found    bool
	Path     []datastructure.Node
	Length   int
	Expanded int
}

type searchConfig struct {
	maxIterations int
}

type SearchOption func(*searchConfig)

// WithMaxIterations aborts the search with ErrSearchAborted after n queue pops.
// n <= 0 means no limit.
func WithMaxIterations(n int) SearchOption {
	return func(c *searchConfig) {
		c.maxIterations = n
	}
}

func newSearchConfig(opts []SearchOption) searchConfig {
	var cfg searchConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// nodeRef addresses a cell by linearised block index and local index.
type nodeRef struct {
	block int32
	local int32
}

var noParent = nodeRef{block: -1, local: -1}

// blockState is the per block part of the search, indexed by local index.
type blockState struct {
	g      []int
	dirty  []bool
	parent []nodeRef
}

type searchState struct {
	bm   *datastructure.BlockMap
	view *lddb.View
	h    Heuristic
	goal datastructure.Node

	blocks    []*blockState // by block index, allocated on first touch
	heapValue []int
	queue     *datastructure.MinHeap[int, int]
}

func newSearchState(bm *datastructure.BlockMap, view *lddb.View, h Heuristic, goal datastructure.Node) *searchState {
	s := &searchState{
		bm:        bm,
		view:      view,
		h:         h,
		goal:      goal,
		blocks:    make([]*blockState, bm.NumBlocks()),
		heapValue: make([]int, bm.NumBlocks()),
		queue:     datastructure.NewMinHeap[int, int](),
	}
	for i := range s.heapValue {
		s.heapValue[i] = infinity
	}
	return s
}

func (s *searchState) block(idx int) *blockState {
	if bs := s.blocks[idx]; bs != nil {
		return bs
	}
	cells := s.bm.BlockSize() * s.bm.BlockSize()
	bs := &blockState{
		g:      make([]int, cells),
		dirty:  make([]bool, cells),
		parent: make([]nodeRef, cells),
	}
	for i := range bs.g {
		bs.g[i] = infinity
		bs.parent[i] = noParent
	}
	s.blocks[idx] = bs
	return bs
}

func (s *searchState) local(idx int) datastructure.LocalNode {
	size := s.bm.BlockSize()
	return datastructure.LocalNode{Row: idx / size, Col: idx % size}
}

func (s *searchState) global(ref nodeRef) datastructure.Node {
	return s.bm.LocalToGlobal(s.bm.AddrOf(int(ref.block)), s.local(int(ref.local)))
}

// ingress returns the dirty nodes of a block in ascending local index.
func (s *searchState) ingress(idx int) []int {
	bs := s.blocks[idx]
	if bs == nil {
		return nil
	}
	nodes := make([]int, 0)
	for i, d := range bs.dirty {
		if d {
			nodes = append(nodes, i)
		}
	}
	return nodes
}

// distance is the overlay distance with +inf for unreachable pairs.
func (s *searchState) distance(p datastructure.PatternID, a, b int) int {
	d, ok := s.view.Distance(p, s.local(a), s.local(b))
	if !ok {
		return infinity
	}
	return d
}

// BlockAStar finds a shortest path from start to goal on bm using the local
// distance database db. start or goal off the map or blocked yields
// Found == false and no error, same as an unreachable goal.
func BlockAStar(ctx context.Context, bm *datastructure.BlockMap, db *lddb.DB, start, goal datastructure.Node,
	h Heuristic, opts ...SearchOption) (Result, error) {
	cfg := newSearchConfig(opts)
	if h == nil {
		h = Manhattan
	}
	if db.Size() != bm.BlockSize() {
		return Result{}, fmt.Errorf("%w: block map %d, lddb %d", lddb.ErrSizeMismatch, bm.BlockSize(), db.Size())
	}
	if !bm.IsFree(start) || !bm.IsFree(goal) {
		return Result{}, nil
	}
	if start == goal {
		return Result{Found: true, Path: []datastructure.Node{start}}, nil
	}

	startAddr, startLocal := bm.GlobalToLocal(start)
	goalAddr, goalLocal := bm.GlobalToLocal(goal)
	startBlock, goalBlock := bm.Block(startAddr), bm.Block(goalAddr)

	view := lddb.NewView(db)
	if err := view.Init(startBlock, startLocal); err != nil {
		return Result{}, err
	}
	if err := view.Init(goalBlock, goalLocal); err != nil {
		return Result{}, err
	}

	s := newSearchState(bm, view, h, goal)
	startRef := nodeRef{block: int32(bm.BlockIndex(startAddr)), local: int32(startBlock.Index(startLocal))}
	goalRef := nodeRef{block: int32(bm.BlockIndex(goalAddr)), local: int32(goalBlock.Index(goalLocal))}

	sb := s.block(int(startRef.block))
	sb.g[startRef.local] = 0
	sb.dirty[startRef.local] = true
	s.heapValue[startRef.block] = 0
	s.queue.Push(int(startRef.block), 0)

	best := infinity
	expanded := 0
	for iter := 1; s.queue.Len() > 0; iter++ {
		_, top, err := s.queue.PeekMin()
		if err != nil {
			return Result{}, err
		}
		if top >= best {
			break
		}
		if cfg.maxIterations > 0 && iter > cfg.maxIterations {
			return Result{}, fmt.Errorf("%w: more than %d iterations", ErrSearchAborted, cfg.maxIterations)
		}
		if iter%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("%w: %w", ErrSearchAborted, err)
			}
		}

		cur, _, err := s.queue.Pop()
		if err != nil {
			return Result{}, err
		}
		ingress := s.ingress(cur)
		if len(ingress) == 0 {
			continue
		}
		blk := bm.Block(bm.AddrOf(cur))
		if !db.HasPattern(blk.Pattern) {
			return Result{}, fmt.Errorf("%w %d", ErrPatternMissing, blk.Pattern)
		}
		bs := s.blocks[cur]

		if cur == int(goalRef.block) {
			length, via := infinity, -1
			for _, y := range ingress {
				d := s.distance(blk.Pattern, y, int(goalRef.local))
				if d == infinity {
					continue
				}
				if c := bs.g[y] + d; c < length {
					length, via = c, y
				}
			}
			if length < best {
				best = length
				if via != int(goalRef.local) {
					bs.parent[goalRef.local] = nodeRef{block: int32(cur), local: int32(via)}
					// keeps a later, longer relaxation from replacing the goal parent.
					bs.g[goalRef.local] = length
				}
			}
		}

		s.expand(cur, blk, ingress)
		expanded++
		for _, y := range ingress {
			bs.dirty[y] = false
		}
	}

	if best == infinity {
		return Result{Expanded: expanded}, nil
	}

	path, err := s.reconstruct(startRef, goalRef, best)
	if err != nil {
		return Result{}, err
	}
	return Result{Found: true, Path: path, Length: best, Expanded: expanded}, nil
}

// egressPair returns the i-th cell on the d facing edge of a block and the
// cell facing it across the edge in the neighbor block.
func egressPair(size int, d datastructure.Direction, i int) (datastructure.LocalNode, datastructure.LocalNode) {
	last := size - 1
	switch d {
	case datastructure.Left:
		return datastructure.LocalNode{Row: i, Col: 0}, datastructure.LocalNode{Row: i, Col: last}
	case datastructure.Right:
		return datastructure.LocalNode{Row: i, Col: last}, datastructure.LocalNode{Row: i, Col: 0}
	case datastructure.Up:
		return datastructure.LocalNode{Row: 0, Col: i}, datastructure.LocalNode{Row: last, Col: i}
	default:
		return datastructure.LocalNode{Row: last, Col: i}, datastructure.LocalNode{Row: 0, Col: i}
	}
}

// expand relaxes every egress cell of cur from its ingress cells, pushes the
// result one step across each edge and requeues the neighbors that improved.
func (s *searchState) expand(cur int, blk datastructure.BlockGrid, ingress []int) {
	bs := s.blocks[cur]
	size := s.bm.BlockSize()

	for _, nb := range s.bm.BlockNeighbors(s.bm.AddrOf(cur)) {
		nIdx := s.bm.BlockIndex(nb.Addr)
		nBlk := s.bm.Block(nb.Addr)

		candidate := infinity
		newlyDirty := false
		for i := 0; i < size; i++ {
			e, eNb := egressPair(size, nb.Dir, i)
			if !blk.IsFree(e) || !nBlk.IsFree(eNb) {
				continue
			}
			ei := blk.Index(e)

			bestG, via := infinity, -1
			for _, y := range ingress {
				d := s.distance(blk.Pattern, y, ei)
				if d == infinity {
					continue
				}
				if c := bs.g[y] + d; c < bestG {
					bestG, via = c, y
				}
			}
			if bestG < bs.g[ei] {
				bs.g[ei] = bestG
				bs.parent[ei] = nodeRef{block: int32(cur), local: int32(via)}
			}
			if bs.g[ei] == infinity {
				continue
			}

			ns := s.block(nIdx)
			ni := nBlk.Index(eNb)
			if c := bs.g[ei] + 1; c < ns.g[ni] {
				ns.g[ni] = c
				ns.parent[ni] = nodeRef{block: int32(cur), local: int32(ei)}
				ns.dirty[ni] = true
				newlyDirty = true
			}
			if ns.g[ni] != infinity {
				f := ns.g[ni] + s.h(s.bm.LocalToGlobal(nb.Addr, eNb), s.goal)
				candidate = min(candidate, f)
			}
		}

		if candidate == infinity {
			continue
		}
		if candidate < s.heapValue[nIdx] || newlyDirty {
			// a queued block keeps its lower priority so it is never popped late.
			if s.queue.Contains(nIdx) && s.heapValue[nIdx] < candidate {
				continue
			}
			s.heapValue[nIdx] = candidate
			s.queue.Push(nIdx, candidate)
		}
	}
}

// reconstruct walks parent pointers from goal back to start, splicing in the
// local path whenever a parent lies in the same block. the result must have
// exactly length steps.
func (s *searchState) reconstruct(start, goal nodeRef, length int) ([]datastructure.Node, error) {
	path := []datastructure.Node{s.global(goal)}
	seen := map[nodeRef]struct{}{goal: {}}

	cur := goal
	for cur != start {
		bs := s.blocks[cur.block]
		if bs == nil || bs.parent[cur.local] == noParent {
			return nil, &InvariantError{Reason: "missing parent", Node: s.global(cur)}
		}
		p := bs.parent[cur.local]

		if p.block == cur.block {
			addr := s.bm.AddrOf(int(cur.block))
			pattern := s.bm.Block(addr).Pattern
			frag := s.view.Path(pattern, s.local(int(p.local)), s.local(int(cur.local))) // p .. cur
			if len(frag) == 0 {
				return nil, &InvariantError{Reason: "no local path to parent", Node: s.global(cur)}
			}
			for i := len(frag) - 2; i >= 0; i-- {
				path = append(path, s.bm.LocalToGlobal(addr, frag[i]))
			}
		} else {
			path = append(path, s.global(p))
		}

		if _, ok := seen[p]; ok {
			return nil, &InvariantError{Reason: "parent cycle", Node: s.global(p)}
		}
		seen[p] = struct{}{}
		cur = p
	}

	if len(path)-1 != length {
		return nil, &InvariantError{
			Reason: fmt.Sprintf("path has %d steps, length is %d", len(path)-1, length),
			Node:   s.global(goal),
		}
	}
	util.ReverseG(path)
	return path, nil
}
