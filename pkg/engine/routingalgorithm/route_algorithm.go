package routingalgorithm

import (
	"context"

	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/lddb"
)

// RouteAlgorithm binds one map, its block partition and the lddb of the same
// block size. all three are read only so a RouteAlgorithm serves concurrent queries.
type RouteAlgorithm struct {
	grid *datastructure.Grid
	bm   *datastructure.BlockMap
	db   *lddb.DB
}

func NewRouteAlgorithm(grid *datastructure.Grid, bm *datastructure.BlockMap, db *lddb.DB) *RouteAlgorithm {
	return &RouteAlgorithm{grid: grid, bm: bm, db: db}
}

func (rt *RouteAlgorithm) Grid() *datastructure.Grid { return rt.grid }

func (rt *RouteAlgorithm) BlockMap() *datastructure.BlockMap { return rt.bm }

func (rt *RouteAlgorithm) ShortestPathBlockAStar(ctx context.Context, from, to datastructure.Node,
	h Heuristic, opts ...SearchOption) (Result, error) {
	return BlockAStar(ctx, rt.bm, rt.db, from, to, h, opts...)
}

func (rt *RouteAlgorithm) ShortestPathAStar(ctx context.Context, from, to datastructure.Node,
	h Heuristic, opts ...SearchOption) (Result, error) {
	return AStar(ctx, rt.grid, from, to, h, opts...)
}
