package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/twpayne/go-polyline"
	"golang.org/x/sync/errgroup"

	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/engine/heuristics"
	"lintang/blocknav/pkg/engine/routingalgorithm"
	"lintang/blocknav/pkg/guidance"
	"lintang/blocknav/pkg/server"
)

type RoutingAlgorithm interface {
	ShortestPathBlockAStar(ctx context.Context, from, to datastructure.Node, h routingalgorithm.Heuristic,
		opts ...routingalgorithm.SearchOption) (routingalgorithm.Result, error)
	ShortestPathAStar(ctx context.Context, from, to datastructure.Node, h routingalgorithm.Heuristic,
		opts ...routingalgorithm.SearchOption) (routingalgorithm.Result, error)
	DistanceMatrix(ctx context.Context, sources, targets []datastructure.Node, h routingalgorithm.Heuristic,
		numWorkers int, opts ...routingalgorithm.SearchOption) ([][]int, error)
	BlockMap() *datastructure.BlockMap
}

type Snapper interface {
	Snap(n datastructure.Node) (datastructure.Node, error)
}

type NavigationService struct {
	routing       RoutingAlgorithm
	snapper       Snapper
	log           *slog.Logger
	maxIterations int
	workers       int
	annealingOpts []heuristics.Option
	heuristic     routingalgorithm.Heuristic
}

type Option func(*NavigationService)

// WithMaxIterations caps the queue pops of every search.
func WithMaxIterations(n int) Option {
	return func(s *NavigationService) {
		s.maxIterations = n
	}
}

// WithWorkers sets the worker count for distance matrix queries.
func WithWorkers(n int) Option {
	return func(s *NavigationService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithHeuristic replaces the default manhattan heuristic.
func WithHeuristic(h routingalgorithm.Heuristic) Option {
	return func(s *NavigationService) {
		if h != nil {
			s.heuristic = h
		}
	}
}

// WithAnnealing forwards options to the tour solver.
func WithAnnealing(opts ...heuristics.Option) Option {
	return func(s *NavigationService) {
		s.annealingOpts = append(s.annealingOpts, opts...)
	}
}

func NewNavigationService(routing RoutingAlgorithm, snapper Snapper, log *slog.Logger, opts ...Option) *NavigationService {
	if log == nil {
		log = slog.Default()
	}
	s := &NavigationService{routing: routing, snapper: snapper, log: log, workers: 4, heuristic: routingalgorithm.Manhattan}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ShortestPathResult struct {
	Path        string
	Route       []datastructure.Node
	Length      int
	Navigations []guidance.DrivingInstruction
	Expanded    int
	Found       bool
	Start       datastructure.Node
	Goal        datastructure.Node
}

type CompareResult struct {
	BlockAStar routingalgorithm.Result
	AStar      routingalgorithm.Result
	Match      bool
}

type TourResult struct {
	Stops  []datastructure.Node
	Order  []int
	Path   string
	Route  []datastructure.Node
	Length int
}

type MapInfo struct {
	Height         int
	Width          int
	BlockSize      int
	HeightInBlocks int
	WidthInBlocks  int
	NumBlocks      int
	NumPatterns    int
}

func (uc *NavigationService) searchOptions() []routingalgorithm.SearchOption {
	if uc.maxIterations > 0 {
		return []routingalgorithm.SearchOption{routingalgorithm.WithMaxIterations(uc.maxIterations)}
	}
	return nil
}

func (uc *NavigationService) resolve(n datastructure.Node, snap bool) (datastructure.Node, error) {
	if !snap {
		return n, nil
	}
	snapped, err := uc.snapper.Snap(n)
	if err != nil {
		return n, server.WrapErrorf(err, server.ErrNotFound, "sorry!! there is no free cell near (%d, %d)", n.Row, n.Col)
	}
	return snapped, nil
}

// searchError maps search failures to server error codes.
func (uc *NavigationService) searchError(err error, from, to datastructure.Node) error {
	if errors.Is(err, routingalgorithm.ErrSearchAborted) {
		return server.WrapErrorf(err, server.ErrTimeout, "search from (%d, %d) to (%d, %d) ran out of budget", from.Row, from.Col, to.Row, to.Col)
	}
	var ierr *routingalgorithm.InvariantError
	if errors.As(err, &ierr) {
		uc.log.Error("search invariant violated",
			slog.Any("from", from), slog.Any("to", to), slog.String("error", err.Error()))
	}
	return server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
}

func encodePath(route []datastructure.Node) string {
	coords := make([][]float64, 0, len(route))
	for _, n := range route {
		coords = append(coords, []float64{float64(n.Row), float64(n.Col)})
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePath is the inverse of the polyline encoding used in responses.
func DecodePath(path string) ([]datastructure.Node, error) {
	coords, _, err := polyline.DecodeCoords([]byte(path))
	if err != nil {
		return nil, err
	}
	route := make([]datastructure.Node, 0, len(coords))
	for _, c := range coords {
		route = append(route, datastructure.NewNode(int(c[0]), int(c[1])))
	}
	return route, nil
}

func (uc *NavigationService) ShortestPath(ctx context.Context, from, to datastructure.Node, snap bool) (ShortestPathResult, error) {
	var err error
	from, err = uc.resolve(from, snap)
	if err != nil {
		return ShortestPathResult{}, err
	}
	to, err = uc.resolve(to, snap)
	if err != nil {
		return ShortestPathResult{}, err
	}

	res, err := uc.routing.ShortestPathBlockAStar(ctx, from, to, uc.heuristic, uc.searchOptions()...)
	if err != nil {
		return ShortestPathResult{}, uc.searchError(err, from, to)
	}
	uc.log.Debug("block a* query",
		slog.Any("from", from), slog.Any("to", to),
		slog.Bool("found", res.Found), slog.Int("length", res.Length), slog.Int("expanded_blocks", res.Expanded))

	if !res.Found {
		return ShortestPathResult{Expanded: res.Expanded, Start: from, Goal: to},
			server.WrapErrorf(nil, server.ErrNotFound, "sorry!! no path from (%d, %d) to (%d, %d)", from.Row, from.Col, to.Row, to.Col)
	}

	instructions, err := guidance.GetDrivingInstructions(res.Path)
	if err != nil {
		return ShortestPathResult{}, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}

	return ShortestPathResult{
		Path:        encodePath(res.Path),
		Route:       res.Path,
		Length:      res.Length,
		Navigations: instructions,
		Expanded:    res.Expanded,
		Found:       true,
		Start:       from,
		Goal:        to,
	}, nil
}

// ShortestPathWaypoint routes from -> via -> to. both legs run concurrently.
func (uc *NavigationService) ShortestPathWaypoint(ctx context.Context, from, via, to datastructure.Node, snap bool) (ShortestPathResult, error) {
	var err error
	for _, n := range []*datastructure.Node{&from, &via, &to} {
		if *n, err = uc.resolve(*n, snap); err != nil {
			return ShortestPathResult{}, err
		}
	}

	var first, second routingalgorithm.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := uc.routing.ShortestPathBlockAStar(gctx, from, via, uc.heuristic, uc.searchOptions()...)
		if err != nil {
			return uc.searchError(err, from, via)
		}
		first = res
		return nil
	})
	g.Go(func() error {
		res, err := uc.routing.ShortestPathBlockAStar(gctx, via, to, uc.heuristic, uc.searchOptions()...)
		if err != nil {
			return uc.searchError(err, via, to)
		}
		second = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return ShortestPathResult{}, err
	}

	if !first.Found || !second.Found {
		return ShortestPathResult{Expanded: first.Expanded + second.Expanded, Start: from, Goal: to},
			server.WrapErrorf(nil, server.ErrNotFound, "sorry!! no path from (%d, %d) to (%d, %d) through (%d, %d)",
				from.Row, from.Col, to.Row, to.Col, via.Row, via.Col)
	}

	route := make([]datastructure.Node, 0, len(first.Path)+len(second.Path)-1)
	route = append(route, first.Path...)
	route = append(route, second.Path[1:]...)

	instructions, err := guidance.GetDrivingInstructions(route)
	if err != nil {
		return ShortestPathResult{}, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}
	return ShortestPathResult{
		Path:        encodePath(route),
		Route:       route,
		Length:      first.Length + second.Length,
		Navigations: instructions,
		Expanded:    first.Expanded + second.Expanded,
		Found:       true,
		Start:       from,
		Goal:        to,
	}, nil
}

// Compare runs Block A* and plain A* on the same query.
func (uc *NavigationService) Compare(ctx context.Context, from, to datastructure.Node) (CompareResult, error) {
	block, err := uc.routing.ShortestPathBlockAStar(ctx, from, to, uc.heuristic, uc.searchOptions()...)
	if err != nil {
		return CompareResult{}, uc.searchError(err, from, to)
	}
	flat, err := uc.routing.ShortestPathAStar(ctx, from, to, uc.heuristic, uc.searchOptions()...)
	if err != nil {
		return CompareResult{}, uc.searchError(err, from, to)
	}
	match := block.Found == flat.Found && block.Length == flat.Length
	if !match {
		uc.log.Warn("block a* and a* disagree",
			slog.Any("from", from), slog.Any("to", to),
			slog.Int("block_length", block.Length), slog.Int("astar_length", flat.Length))
	}
	return CompareResult{BlockAStar: block, AStar: flat, Match: match}, nil
}

// DistanceMatrix returns the path length for every source and target pair, -1 when unreachable.
func (uc *NavigationService) DistanceMatrix(ctx context.Context, sources, targets []datastructure.Node) ([][]int, error) {
	matrix, err := uc.routing.DistanceMatrix(ctx, sources, targets, uc.heuristic, uc.workers, uc.searchOptions()...)
	if errors.Is(err, routingalgorithm.ErrSearchAborted) {
		return nil, server.WrapErrorf(err, server.ErrTimeout, "distance matrix ran out of budget")
	}
	if err != nil {
		uc.log.Error("distance matrix failed", slog.String("error", err.Error()))
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}
	return matrix, nil
}

// Tour visits every stop once and returns to the first one. the visiting
// order comes from simulated annealing over the Block A* distance matrix.
func (uc *NavigationService) Tour(ctx context.Context, stops []datastructure.Node, snap bool) (TourResult, error) {
	stops = append([]datastructure.Node(nil), stops...)
	var err error
	for i := range stops {
		if stops[i], err = uc.resolve(stops[i], snap); err != nil {
			return TourResult{}, err
		}
	}

	matrix, err := uc.DistanceMatrix(ctx, stops, stops)
	if err != nil {
		return TourResult{}, err
	}
	sa, err := heuristics.NewSimulatedAnnealing(matrix, uc.annealingOpts...)
	if errors.Is(err, heuristics.ErrUnreachableLeg) {
		return TourResult{}, server.WrapErrorf(err, server.ErrNotFound, "sorry!! some stops can not reach each other")
	}
	if err != nil {
		return TourResult{}, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}
	order, _ := sa.Solve()

	legs := make([]routingalgorithm.Result, len(order))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i := range order {
		from, to := stops[order[i]], stops[order[(i+1)%len(order)]]
		g.Go(func() error {
			res, err := uc.routing.ShortestPathBlockAStar(gctx, from, to, uc.heuristic, uc.searchOptions()...)
			if err != nil {
				return uc.searchError(err, from, to)
			}
			legs[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TourResult{}, err
	}

	route := []datastructure.Node{stops[order[0]]}
	length := 0
	for _, leg := range legs {
		if !leg.Found {
			return TourResult{}, server.WrapErrorf(nil, server.ErrNotFound, "sorry!! some stops can not reach each other")
		}
		route = append(route, leg.Path[1:]...)
		length += leg.Length
	}
	uc.log.Debug("tour query", slog.Int("stops", len(stops)), slog.Int("length", length))

	return TourResult{
		Stops:  stops,
		Order:  order,
		Path:   encodePath(route),
		Route:  route,
		Length: length,
	}, nil
}

func (uc *NavigationService) MapInfo(ctx context.Context) MapInfo {
	bm := uc.routing.BlockMap()
	return MapInfo{
		Height:         bm.Height(),
		Width:          bm.Width(),
		BlockSize:      bm.BlockSize(),
		HeightInBlocks: bm.HeightInBlocks(),
		WidthInBlocks:  bm.WidthInBlocks(),
		NumBlocks:      bm.NumBlocks(),
		NumPatterns:    len(bm.Patterns()),
	}
}
