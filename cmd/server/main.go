package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"runtime"

	"github.com/cockroachdb/pebble"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/k0kubun/go-ansi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "lintang/blocknav/docs"
	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/engine/routingalgorithm"
	"lintang/blocknav/pkg/kv"
	"lintang/blocknav/pkg/lddb"
	"lintang/blocknav/pkg/server/rest"
	"lintang/blocknav/pkg/server/rest/service"
	"lintang/blocknav/pkg/snap"
)

var (
	listenAddr    = flag.String("listenaddr", ":5000", "server listen address")
	mapFile       = flag.String("f", "map.txt", "grid map file, one row per line, '.' free and '#' blocked")
	blockSize     = flag.Int("b", 4, "block size of the local distance database")
	dbDir         = flag.String("db", "blocknavDB", "pebble db directory")
	maxIterations = flag.Int("maxiter", 0, "queue pops allowed per search, 0 means no limit")
	debug         = flag.Bool("debug", false, "log every query")
	heuristicName = flag.String("heuristic", "manhattan", "search heuristic, manhattan or zero")
)

//	@title			blocknav lintangbs API
//	@version		1.0
//	@description	grid map pathfinding in go

//	@contact.name	lintang birda saputra
//	@description 	grid map pathfinding in go. Block A* over a precomputed local distance database

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	h, ok := routingalgorithm.HeuristicByName(*heuristicName)
	if !ok {
		log.Fatalf("unknown heuristic %q", *heuristicName)
	}

	grid, err := datastructure.LoadGrid(*mapFile)
	if err != nil {
		log.Fatal(err)
	}
	bm, err := datastructure.NewBlockMap(grid, *blockSize)
	if err != nil {
		log.Fatal(err)
	}

	db, err := pebble.Open(*dbDir, &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}
	kvDB := kv.NewKVDB(db, kv.WithProgress(nil))
	defer kvDB.Close()

	ldb, err := kvDB.LoadOrBuild(context.Background(), *blockSize, bm.Patterns(),
		lddb.WithProgress(ansi.NewAnsiStdout()))
	if err != nil {
		log.Fatal(err)
	}
	runtime.GC()
	logger.Info("local distance database loaded",
		slog.Int("block_size", *blockSize), slog.Int("patterns", ldb.Len()),
		slog.Int("height", grid.Height()), slog.Int("width", grid.Width()))

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:5000/swagger/doc.json"), //The url pointing to API definition
	))

	routingAlgorithm := routingalgorithm.NewRouteAlgorithm(grid, bm, ldb)
	snapper := snap.NewSnapper(grid)

	navigatorSvc := service.NewNavigationService(routingAlgorithm, snapper, logger,
		service.WithMaxIterations(*maxIterations), service.WithWorkers(runtime.GOMAXPROCS(0)), service.WithHeuristic(h))
	rest.NavigatorRouter(r, navigatorSvc, m)

	fmt.Printf("\nserver started at %s\n", *listenAddr)
	log.Fatal(http.ListenAndServe(*listenAddr, r))
}
