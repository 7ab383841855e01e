package routingalgorithm

import (
	"context"
	"fmt"

	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/util"
)

// AStar is the plain cell level search over the raw grid. neighbors are
// visited left, up, right, down, same as inside blocks.
func AStar(ctx context.Context, grid *datastructure.Grid, start, goal datastructure.Node,
	h Heuristic, opts ...SearchOption) (Result, error) {
	cfg := newSearchConfig(opts)
	if h == nil {
		h = Manhattan
	}
	if !grid.IsFree(start) || !grid.IsFree(goal) {
		return Result{}, nil
	}

	width := grid.Width()
	index := func(n datastructure.Node) int { return n.Row*width + n.Col }
	node := func(idx int) datastructure.Node { return datastructure.Node{Row: idx / width, Col: idx % width} }

	costSoFar := make([]int, grid.Height()*width)
	cameFrom := make([]int, len(costSoFar))
	closed := make([]bool, len(costSoFar))
	for i := range costSoFar {
		costSoFar[i] = infinity
		cameFrom[i] = -1
	}

	heap := datastructure.NewMinHeap[int, int]()
	costSoFar[index(start)] = 0
	heap.Push(index(start), h(start, goal))

	expanded := 0
	for iter := 1; heap.Len() > 0; iter++ {
		if cfg.maxIterations > 0 && iter > cfg.maxIterations {
			return Result{}, fmt.Errorf("%w: more than %d iterations", ErrSearchAborted, cfg.maxIterations)
		}
		if iter%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("%w: %w", ErrSearchAborted, err)
			}
		}

		current, _, err := heap.Pop()
		if err != nil {
			return Result{}, err
		}
		if closed[current] {
			continue
		}
		closed[current] = true
		expanded++

		if current == index(goal) {
			path := make([]datastructure.Node, 0, costSoFar[current]+1)
			for at := current; at != -1; at = cameFrom[at] {
				path = append(path, node(at))
			}
			util.ReverseG(path)
			return Result{Found: true, Path: path, Length: costSoFar[current], Expanded: expanded}, nil
		}

		for _, nb := range grid.Neighbors4(node(current)) {
			ni := index(nb)
			if closed[ni] {
				continue
			}
			newCost := costSoFar[current] + 1
			if newCost < costSoFar[ni] {
				costSoFar[ni] = newCost
				cameFrom[ni] = current
				heap.Push(ni, newCost+h(nb, goal))
			}
		}
	}
	return Result{Expanded: expanded}, nil
}
