package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/engine/routingalgorithm"
	"lintang/blocknav/pkg/lddb"
	"lintang/blocknav/pkg/server"
	"lintang/blocknav/pkg/server/rest/service"
	"lintang/blocknav/pkg/snap"
)

func newService(t *testing.T, opts ...service.Option) *service.NavigationService {
	t.Helper()
	g, err := datastructure.ParseGrid(strings.NewReader(strings.Join([]string{
		"........",
		"........",
		"..####..",
		"..#..#..",
		"..#..#..",
		"..####..",
		"######.#",
		"........",
	}, "\n")))
	require.NoError(t, err)
	bm, err := datastructure.NewBlockMap(g, 4)
	require.NoError(t, err)
	db, err := lddb.BuildPatterns(context.Background(), 4, bm.Patterns())
	require.NoError(t, err)

	rt := routingalgorithm.NewRouteAlgorithm(g, bm, db)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewNavigationService(rt, snap.NewSnapper(g), log, opts...)
}

func errCode(t *testing.T, err error) error {
	t.Helper()
	var serr *server.Error
	require.True(t, errors.As(err, &serr), "not a server error: %v", err)
	return serr.Code()
}

func TestNavigationService(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	t.Run("shortest path", func(t *testing.T) {
		from, to := datastructure.NewNode(0, 0), datastructure.NewNode(7, 0)
		res, err := svc.ShortestPath(ctx, from, to, false)
		require.NoError(t, err)
		assert.True(t, res.Found)
		// east along the top, down through the gap at col 6, back west
		assert.Equal(t, 19, res.Length)
		assert.Len(t, res.Route, 20)
		assert.NotEmpty(t, res.Navigations)
		assert.Greater(t, res.Expanded, 0)

		decoded, err := service.DecodePath(res.Path)
		require.NoError(t, err)
		assert.Equal(t, res.Route, decoded)
	})

	t.Run("no path is not found", func(t *testing.T) {
		_, err := svc.ShortestPath(ctx, datastructure.NewNode(0, 0), datastructure.NewNode(3, 3), false)
		require.Error(t, err)
		assert.Equal(t, server.ErrNotFound, errCode(t, err))
	})

	t.Run("snap blocked endpoints", func(t *testing.T) {
		res, err := svc.ShortestPath(ctx, datastructure.NewNode(6, 0), datastructure.NewNode(0, 1), true)
		require.NoError(t, err)
		assert.Equal(t, datastructure.NewNode(5, 0), res.Start)
		assert.Equal(t, datastructure.NewNode(0, 1), res.Goal)
		assert.Equal(t, 6, res.Length)
	})

	t.Run("waypoint", func(t *testing.T) {
		from, via, to := datastructure.NewNode(0, 0), datastructure.NewNode(0, 7), datastructure.NewNode(7, 7)
		res, err := svc.ShortestPathWaypoint(ctx, from, via, to, false)
		require.NoError(t, err)
		assert.True(t, res.Found)
		assert.Equal(t, 16, res.Length)
		assert.Len(t, res.Route, 17)
		assert.Equal(t, via, res.Route[7])

		_, err = svc.ShortestPathWaypoint(ctx, from, datastructure.NewNode(3, 3), to, false)
		assert.Equal(t, server.ErrNotFound, errCode(t, err))
	})

	t.Run("compare", func(t *testing.T) {
		res, err := svc.Compare(ctx, datastructure.NewNode(0, 0), datastructure.NewNode(7, 7))
		require.NoError(t, err)
		assert.True(t, res.Match)
		assert.Equal(t, res.AStar.Length, res.BlockAStar.Length)
	})

	t.Run("distance matrix", func(t *testing.T) {
		matrix, err := svc.DistanceMatrix(ctx,
			[]datastructure.Node{{Row: 0, Col: 0}},
			[]datastructure.Node{{Row: 0, Col: 7}, {Row: 3, Col: 3}})
		require.NoError(t, err)
		assert.Equal(t, [][]int{{7, -1}}, matrix)
	})

	t.Run("tour", func(t *testing.T) {
		stops := []datastructure.Node{
			datastructure.NewNode(0, 0), datastructure.NewNode(0, 7), datastructure.NewNode(7, 7),
		}
		res, err := svc.Tour(ctx, stops, false)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, res.Order)
		// 7 along the top, 9 down the right side, 14 back through the gap
		assert.Equal(t, 30, res.Length)
		require.Len(t, res.Route, 31)
		assert.Equal(t, stops[0], res.Route[0])
		assert.Equal(t, stops[0], res.Route[30])
		assert.Equal(t, stops[1], res.Route[7])

		single, err := svc.Tour(ctx, stops[:1], false)
		require.NoError(t, err)
		assert.Equal(t, 0, single.Length)
		assert.Equal(t, []datastructure.Node{stops[0]}, single.Route)

		_, err = svc.Tour(ctx, []datastructure.Node{stops[0], datastructure.NewNode(3, 3)}, false)
		require.Error(t, err)
		assert.Equal(t, server.ErrNotFound, errCode(t, err))
	})

	t.Run("zero heuristic finds the same length", func(t *testing.T) {
		dijkstra := newService(t, service.WithHeuristic(routingalgorithm.Zero))
		res, err := dijkstra.ShortestPath(ctx, datastructure.NewNode(0, 0), datastructure.NewNode(7, 0), false)
		require.NoError(t, err)
		assert.Equal(t, 19, res.Length)
	})

	t.Run("map info", func(t *testing.T) {
		info := svc.MapInfo(ctx)
		assert.Equal(t, 8, info.Height)
		assert.Equal(t, 4, info.BlockSize)
		assert.Equal(t, 4, info.NumBlocks)
		assert.Equal(t, 4, info.NumPatterns)
	})

	t.Run("iteration budget is a timeout", func(t *testing.T) {
		limited := newService(t, service.WithMaxIterations(1))
		_, err := limited.ShortestPath(ctx, datastructure.NewNode(0, 0), datastructure.NewNode(7, 7), false)
		assert.Equal(t, server.ErrTimeout, errCode(t, err))
		assert.True(t, errors.Is(err, routingalgorithm.ErrSearchAborted))

		_, err = limited.DistanceMatrix(ctx, []datastructure.Node{{Row: 0, Col: 0}}, []datastructure.Node{{Row: 7, Col: 7}})
		assert.Equal(t, server.ErrTimeout, errCode(t, err))
	})
}

type brokenRouting struct {
	*routingalgorithm.RouteAlgorithm
}

func (brokenRouting) ShortestPathBlockAStar(ctx context.Context, from, to datastructure.Node, h routingalgorithm.Heuristic,
	opts ...routingalgorithm.SearchOption) (routingalgorithm.Result, error) {
	return routingalgorithm.Result{}, &routingalgorithm.InvariantError{Reason: "parent cycle", Node: to}
}

func TestNavigationServiceInternalError(t *testing.T) {
	svc := service.NewNavigationService(brokenRouting{}, nil, nil)
	_, err := svc.ShortestPath(context.Background(), datastructure.NewNode(0, 0), datastructure.NewNode(1, 1), false)
	assert.Equal(t, server.ErrInternalServerError, errCode(t, err))
	var ierr *routingalgorithm.InvariantError
	assert.True(t, errors.As(err, &ierr))
}
