package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/guidance"
	"lintang/blocknav/pkg/server"
	"lintang/blocknav/pkg/server/rest/service"
)

const (
	algBlockAStar = "Block A* + Local Distance Database"
	algAStar      = "A* Algorithm"

	maxMatrixNodes = 100
	maxTourStops   = 20
)

type NavigationService interface {
	ShortestPath(ctx context.Context, from, to datastructure.Node, snap bool) (service.ShortestPathResult, error)
	ShortestPathWaypoint(ctx context.Context, from, via, to datastructure.Node, snap bool) (service.ShortestPathResult, error)
	Compare(ctx context.Context, from, to datastructure.Node) (service.CompareResult, error)
	DistanceMatrix(ctx context.Context, sources, targets []datastructure.Node) ([][]int, error)
	Tour(ctx context.Context, stops []datastructure.Node, snap bool) (service.TourResult, error)
	MapInfo(ctx context.Context) service.MapInfo
}

type NavigationHandler struct {
	svc          NavigationService
	promeMetrics *metrics
}

func NavigatorRouter(r *chi.Mux, svc NavigationService, m *metrics) {
	handler := &NavigationHandler{svc, m}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/shortest-path", handler.shortestPath)
			r.Post("/shortest-path-waypoint", handler.shortestPathWaypoint)
			r.Post("/compare", handler.compare)
			r.Post("/distance-matrix", handler.distanceMatrix)
			r.Post("/tour", handler.tour)
			r.Get("/map", handler.mapInfo)
			r.Get("/hello", handler.Hello)
		})
	})
}

// validateRequest writes a 400 with translated messages and returns false when data is invalid.
func validateRequest(w http.ResponseWriter, r *http.Request, data interface{}) bool {
	validate := validator.New()
	if err := validate.Struct(data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return false
	}
	return true
}

// NodeRequest model info
//
//	@Description	a grid cell, origin at the top-left corner
type NodeRequest struct {
	Row int `json:"row" validate:"gte=0"`
	Col int `json:"col" validate:"gte=0"`
}

func (n *NodeRequest) node() datastructure.Node {
	return datastructure.NewNode(n.Row, n.Col)
}

// ShortestPathRequest model info
//
//	@Description	request body for a shortest path query between 2 cells of the map
type ShortestPathRequest struct {
	Start *NodeRequest `json:"start" validate:"required"`
	Goal  *NodeRequest `json:"goal" validate:"required"`
	Snap  bool         `json:"snap"`
}

func (s *ShortestPathRequest) Bind(r *http.Request) error {
	if s.Start == nil || s.Goal == nil {
		return errors.New("invalid request")
	}
	return nil
}

// ShortestPathWaypointRequest model info
//
//	@Description	request body for a shortest path query that passes through a waypoint
type ShortestPathWaypointRequest struct {
	Start *NodeRequest `json:"start" validate:"required"`
	Via   *NodeRequest `json:"via" validate:"required"`
	Goal  *NodeRequest `json:"goal" validate:"required"`
	Snap  bool         `json:"snap"`
}

func (s *ShortestPathWaypointRequest) Bind(r *http.Request) error {
	if s.Start == nil || s.Via == nil || s.Goal == nil {
		return errors.New("invalid request")
	}
	return nil
}

// ShortestPathResponse	model info
//
//	@Description	response body for a shortest path query
type ShortestPathResponse struct {
	Found          bool                          `json:"found"`
	Length         int                           `json:"length"`
	Path           string                        `json:"path"`
	Route          []datastructure.Node          `json:"route,omitempty"`
	Navigations    []guidance.DrivingInstruction `json:"navigations"`
	ExpandedBlocks int                           `json:"expanded_blocks"`
	Start          datastructure.Node            `json:"start"`
	Goal           datastructure.Node            `json:"goal"`
	Alg            string                        `json:"algorithm"`
}

func NewShortestPathResponse(res service.ShortestPathResult) *ShortestPathResponse {
	return &ShortestPathResponse{
		Found:          res.Found,
		Length:         res.Length,
		Path:           res.Path,
		Route:          res.Route,
		Navigations:    res.Navigations,
		ExpandedBlocks: res.Expanded,
		Start:          res.Start,
		Goal:           res.Goal,
		Alg:            algBlockAStar,
	}
}

// shortestPath
//
//	@Summary		shortest path query between 2 cells of the grid map.
//	@Description	shortest path query between 2 cells of the grid map using Block A*. set snap to move blocked endpoints to the nearest free cell
//	@Tags			navigations
//	@Param			body	body	ShortestPathRequest	true	"request body shortest path query between 2 cells"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/shortest-path [post]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
//	@Failure		504	{object}	ErrResponse
func (h *NavigationHandler) shortestPath(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !validateRequest(w, r, data) {
		return
	}

	res, err := h.svc.ShortestPath(r.Context(), data.Start.node(), data.Goal.node(), data.Snap)
	h.observe(res, err)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewShortestPathResponse(res))
}

// shortestPathWaypoint
//
//	@Summary		shortest path query between 2 cells of the grid map through a waypoint.
//	@Description	shortest path query from start to goal that passes through via. both legs are searched concurrently
//	@Tags			navigations
//	@Param			body	body	ShortestPathWaypointRequest	true	"request body shortest path query with a waypoint"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/shortest-path-waypoint [post]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
//	@Failure		504	{object}	ErrResponse
func (h *NavigationHandler) shortestPathWaypoint(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathWaypointRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !validateRequest(w, r, data) {
		return
	}

	res, err := h.svc.ShortestPathWaypoint(r.Context(), data.Start.node(), data.Via.node(), data.Goal.node(), data.Snap)
	h.observe(res, err)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewShortestPathResponse(res))
}

func (h *NavigationHandler) observe(res service.ShortestPathResult, err error) {
	if h.promeMetrics == nil {
		return
	}
	found := "true"
	if err != nil || !res.Found {
		found = "false"
	}
	h.promeMetrics.SPQueryCount.WithLabelValues(found).Inc()
	if res.Expanded > 0 {
		h.promeMetrics.ExpandedBlocks.Observe(float64(res.Expanded))
	}
}

// CompareRequest model info
//
//	@Description	request body for comparing Block A* with A* on the same query
type CompareRequest struct {
	Start *NodeRequest `json:"start" validate:"required"`
	Goal  *NodeRequest `json:"goal" validate:"required"`
}

func (s *CompareRequest) Bind(r *http.Request) error {
	if s.Start == nil || s.Goal == nil {
		return errors.New("invalid request")
	}
	return nil
}

type AlgorithmResult struct {
	Alg      string `json:"algorithm"`
	Found    bool   `json:"found"`
	Length   int    `json:"length"`
	Path     int    `json:"path_nodes"`
	Expanded int    `json:"expanded"`
}

// CompareResponse model info
//
//	@Description	response body with the Block A* and A* results of one query
type CompareResponse struct {
	BlockAStar AlgorithmResult `json:"block_astar"`
	AStar      AlgorithmResult `json:"astar"`
	Match      bool            `json:"match"`
}

func NewCompareResponse(res service.CompareResult) *CompareResponse {
	return &CompareResponse{
		BlockAStar: AlgorithmResult{
			Alg:      algBlockAStar,
			Found:    res.BlockAStar.Found,
			Length:   res.BlockAStar.Length,
			Path:     len(res.BlockAStar.Path),
			Expanded: res.BlockAStar.Expanded,
		},
		AStar: AlgorithmResult{
			Alg:      algAStar,
			Found:    res.AStar.Found,
			Length:   res.AStar.Length,
			Path:     len(res.AStar.Path),
			Expanded: res.AStar.Expanded,
		},
		Match: res.Match,
	}
}

// compare
//
//	@Summary		compare Block A* with A*.
//	@Description	runs Block A* and cell level A* on the same query and reports whether the path lengths agree
//	@Tags			navigations
//	@Param			body	body	CompareRequest	true	"request body compare query"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/compare [post]
//	@Success		200	{object}	CompareResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
//	@Failure		504	{object}	ErrResponse
func (h *NavigationHandler) compare(w http.ResponseWriter, r *http.Request) {
	data := &CompareRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !validateRequest(w, r, data) {
		return
	}

	res, err := h.svc.Compare(r.Context(), data.Start.node(), data.Goal.node())
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewCompareResponse(res))
}

// DistanceMatrixRequest model info
//
//	@Description	request body for path lengths between many sources and many targets
type DistanceMatrixRequest struct {
	Sources []NodeRequest `json:"sources" validate:"required,min=1,max=100,dive"`
	Targets []NodeRequest `json:"targets" validate:"required,min=1,max=100,dive"`
}

func (s *DistanceMatrixRequest) Bind(r *http.Request) error {
	if len(s.Sources) == 0 || len(s.Targets) == 0 {
		return errors.New("invalid request")
	}
	if len(s.Sources)*len(s.Targets) > maxMatrixNodes*maxMatrixNodes {
		return fmt.Errorf("at most %d queries per request", maxMatrixNodes*maxMatrixNodes)
	}
	return nil
}

// DistanceMatrixResponse model info
//
//	@Description	lengths[i][j] is the path length from sources[i] to targets[j], -1 when unreachable
type DistanceMatrixResponse struct {
	Sources []datastructure.Node `json:"sources"`
	Targets []datastructure.Node `json:"targets"`
	Lengths [][]int              `json:"lengths"`
}

func toNodes(reqs []NodeRequest) []datastructure.Node {
	nodes := make([]datastructure.Node, 0, len(reqs))
	for i := range reqs {
		nodes = append(nodes, reqs[i].node())
	}
	return nodes
}

// distanceMatrix
//
//	@Summary		many to many path lengths.
//	@Description	path lengths between every source and every target, computed concurrently with Block A*
//	@Tags			navigations
//	@Param			body	body	DistanceMatrixRequest	true	"request body distance matrix query"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/distance-matrix [post]
//	@Success		200	{object}	DistanceMatrixResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
//	@Failure		504	{object}	ErrResponse
func (h *NavigationHandler) distanceMatrix(w http.ResponseWriter, r *http.Request) {
	data := &DistanceMatrixRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !validateRequest(w, r, data) {
		return
	}

	sources, targets := toNodes(data.Sources), toNodes(data.Targets)
	lengths, err := h.svc.DistanceMatrix(r.Context(), sources, targets)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &DistanceMatrixResponse{Sources: sources, Targets: targets, Lengths: lengths})
}

// TourRequest model info
//
//	@Description	request body for a closed tour through every stop
type TourRequest struct {
	Stops []NodeRequest `json:"stops" validate:"required,min=1,max=20,dive"`
	Snap  bool          `json:"snap"`
}

func (s *TourRequest) Bind(r *http.Request) error {
	if len(s.Stops) == 0 {
		return errors.New("invalid request")
	}
	if len(s.Stops) > maxTourStops {
		return fmt.Errorf("at most %d stops per tour", maxTourStops)
	}
	return nil
}

// TourResponse model info
//
//	@Description	stops in visiting order and the closed route through them
type TourResponse struct {
	Stops  []datastructure.Node `json:"stops"`
	Order  []int                `json:"order"`
	Length int                  `json:"length"`
	Path   string               `json:"path"`
	Route  []datastructure.Node `json:"route,omitempty"`
	Alg    string               `json:"algorithm"`
}

// tour
//
//	@Summary		closed tour through many stops.
//	@Description	orders the stops with simulated annealing over Block A* path lengths and returns to the first stop
//	@Tags			navigations
//	@Param			body	body	TourRequest	true	"request body tour query"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/tour [post]
//	@Success		200	{object}	TourResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
//	@Failure		504	{object}	ErrResponse
func (h *NavigationHandler) tour(w http.ResponseWriter, r *http.Request) {
	data := &TourRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !validateRequest(w, r, data) {
		return
	}

	res, err := h.svc.Tour(r.Context(), toNodes(data.Stops), data.Snap)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &TourResponse{
		Stops:  res.Stops,
		Order:  res.Order,
		Length: res.Length,
		Path:   res.Path,
		Route:  res.Route,
		Alg:    algBlockAStar + " + Simulated Annealing",
	})
}

// MapInfoResponse model info
//
//	@Description	dimensions of the loaded grid map and its block decomposition
type MapInfoResponse struct {
	Height         int `json:"height"`
	Width          int `json:"width"`
	BlockSize      int `json:"block_size"`
	HeightInBlocks int `json:"height_in_blocks"`
	WidthInBlocks  int `json:"width_in_blocks"`
	NumBlocks      int `json:"num_blocks"`
	NumPatterns    int `json:"num_patterns"`
}

// mapInfo
//
//	@Summary		grid map info.
//	@Description	dimensions of the loaded map, block size and number of distinct block patterns
//	@Tags			navigations
//	@Produce		application/json
//	@Router			/navigations/map [get]
//	@Success		200	{object}	MapInfoResponse
func (h *NavigationHandler) mapInfo(w http.ResponseWriter, r *http.Request) {
	info := h.svc.MapInfo(r.Context())
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &MapInfoResponse{
		Height:         info.Height,
		Width:          info.Width,
		BlockSize:      info.BlockSize,
		HeightInBlocks: info.HeightInBlocks,
		WidthInBlocks:  info.WidthInBlocks,
		NumBlocks:      info.NumBlocks,
		NumPatterns:    info.NumPatterns,
	})
}

func (h *NavigationHandler) Hello(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, "hello")
}

// ErrResponse model info
//
//	@Description	model untuk error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	switch getStatusCode(err) {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusGatewayTimeout:
		statusText = "Search timed out."
	default:
		statusText = "Error."
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: getStatusCode(err),
		StatusText:     statusText,
		ErrorText:      err.Error(),
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	}
	switch ierr.Code() {
	case server.ErrInternalServerError:
		return http.StatusInternalServerError
	case server.ErrNotFound:
		return http.StatusNotFound
	case server.ErrTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}
