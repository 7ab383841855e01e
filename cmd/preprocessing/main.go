package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/k0kubun/go-ansi"

	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/kv"
	"lintang/blocknav/pkg/lddb"
)

var (
	blockSize = flag.Int("b", 4, "block size of the local distance database")
	dbDir     = flag.String("db", "blocknavDB", "pebble db directory")
	workers   = flag.Int("workers", 0, "number of bfs workers, 0 uses GOMAXPROCS")
	mapFile   = flag.String("f", "", "optional map file, only the patterns of its blocks are built")
)

func main() {
	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := pebble.Open(*dbDir, &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}
	kvDB := kv.NewKVDB(db, kv.WithWorkers(*workers), kv.WithProgress(nil))
	defer kvDB.Close()

	opts := []lddb.BuildOption{lddb.WithWorkers(*workers), lddb.WithProgress(ansi.NewAnsiStdout())}
	now := time.Now()

	var ldb *lddb.DB
	if *mapFile != "" {
		grid, err := datastructure.LoadGrid(*mapFile)
		if err != nil {
			log.Fatal(err)
		}
		bm, err := datastructure.NewBlockMap(grid, *blockSize)
		if err != nil {
			log.Fatal(err)
		}
		ldb, err = kvDB.LoadOrBuild(ctx, *blockSize, bm.Patterns(), opts...)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		ldb, err = lddb.Build(ctx, *blockSize, opts...)
		if err != nil {
			log.Fatal(err)
		}
		if err := kvDB.SaveLDDB(ctx, ldb); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("\nlocal distance database for %dx%d blocks ready!! %d patterns in %s\n",
		*blockSize, *blockSize, ldb.Len(), time.Since(now).Round(time.Millisecond))
}
