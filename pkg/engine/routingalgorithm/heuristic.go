package routingalgorithm

import (
	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/util"
)

// Heuristic estimates the remaining cost from a to b. it must never
// overestimate and must be consistent for the searches to stay optimal.
type Heuristic func(a, b datastructure.Node) int

// Manhattan is exact on an empty 4-connected unit grid.
func Manhattan(a, b datastructure.Node) int {
	return util.AbsInt(a.Row-b.Row) + util.AbsInt(a.Col-b.Col)
}

// Zero turns A* into Dijkstra.
func Zero(a, b datastructure.Node) int {
	return 0
}

// HeuristicByName resolves the -heuristic flag of the server.
func HeuristicByName(name string) (Heuristic, bool) {
	switch name {
	case "", "manhattan":
		return Manhattan, true
	case "zero", "dijkstra":
		return Zero, true
	}
	return nil, false
}
