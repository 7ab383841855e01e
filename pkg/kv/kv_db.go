package kv

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strconv"

	"github.com/cockroachdb/pebble"
	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"lintang/blocknav/pkg/concurrent"
	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/lddb"
)

const saveBatchSize = 512

var (
	ErrLDDBNotFound   = errors.New("kv: no complete lddb stored for block size")
	ErrIncompleteLDDB = errors.New("kv: stored lddb is incomplete")
)

// KVDB persists local distance databases in pebble. keys:
//
//	lddb/<size>/t/<8 byte big endian pattern id> -> zstd(Encode(table))
//	lddb/<size>/meta                           -> pattern count
//
// meta is only written once every pattern of a size is stored.
type KVDB struct {
	db       *pebble.DB
	workers  int
	progress io.Writer
}

type Option func(*KVDB)

func WithWorkers(n int) Option {
	return func(k *KVDB) {
		if n > 0 {
			k.workers = n
		}
	}
}

// WithProgress draws progress bars on w. WithProgress(nil) uses the ansi stdout.
func WithProgress(w io.Writer) Option {
	return func(k *KVDB) {
		if w == nil {
			w = ansi.NewAnsiStdout()
		}
		k.progress = w
	}
}

func NewKVDB(db *pebble.DB, opts ...Option) *KVDB {
	k := &KVDB{
		db:       db,
		workers:  runtime.GOMAXPROCS(0),
		progress: io.Discard,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func sizePrefix(size int) []byte {
	return []byte("lddb/" + strconv.Itoa(size) + "/")
}

func tablePrefix(size int) []byte {
	return append(sizePrefix(size), "t/"...)
}

func tableKey(size int, p datastructure.PatternID) []byte {
	return binary.BigEndian.AppendUint64(tablePrefix(size), uint64(p))
}

func metaKey(size int) []byte {
	return append(sizePrefix(size), "meta"...)
}

// prefixUpperBound is the smallest key greater than every key with prefix.
// prefixes here end in '/', so bumping the last byte is enough.
func prefixUpperBound(prefix []byte) []byte {
	ub := append([]byte{}, prefix...)
	ub[len(ub)-1]++
	return ub
}

// SaveLDDB writes every table of db. tables are compressed concurrently, then
// committed in pebble batches on the worker pool.
func (k *KVDB) SaveLDDB(ctx context.Context, db *lddb.DB) error {
	size := db.Size()
	patterns := db.Patterns()

	numJobs := (len(patterns) + saveBatchSize - 1) / saveBatchSize
	jobs := make([]concurrent.SaveTableJobItem, numJobs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(k.workers)
	for j := 0; j < numJobs; j++ {
		g.Go(func() error {
			chunk := patterns[j*saveBatchSize : min((j+1)*saveBatchSize, len(patterns))]
			item := concurrent.SaveTableJobItem{
				Keys:   make([][]byte, 0, len(chunk)),
				Values: make([][]byte, 0, len(chunk)),
			}
			for _, p := range chunk {
				if err := gctx.Err(); err != nil {
					return err
				}
				t, _ := db.Table(p)
				val, err := CompressTable(size, t)
				if err != nil {
					return fmt.Errorf("compress pattern %d: %w", p, err)
				}
				item.Keys = append(item.Keys, tableKey(size, p))
				item.Values = append(item.Values, val)
			}
			jobs[j] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("save lddb: %w", err)
	}

	bar := progressbar.NewOptions(numJobs,
		progressbar.OptionSetWriter(k.progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]saving %d lddb tables to pebble db...[reset]", len(patterns))),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	workers := concurrent.NewWorkerPool[concurrent.SaveTableJobItem, error](k.workers, max(numJobs, 1))
	for _, job := range jobs {
		workers.AddJob(job)
	}
	workers.Close()
	workers.Start(k.saveBatch)
	go workers.Wait()

	var firstErr error
	for err := range workers.CollectResults() {
		if err != nil && firstErr == nil {
			firstErr = err
		}
		bar.Add(1)
	}
	bar.Finish()
	if firstErr != nil {
		return fmt.Errorf("save lddb: %w", firstErr)
	}

	if uint64(len(patterns)) == uint64(1)<<(size*size) {
		meta, err := encodeCount(uint64(len(patterns)))
		if err != nil {
			return fmt.Errorf("save lddb meta: %w", err)
		}
		if err := k.db.Set(metaKey(size), meta, pebble.Sync); err != nil {
			return fmt.Errorf("save lddb meta: %w", err)
		}
	}
	return nil
}

func (k *KVDB) saveBatch(item concurrent.SaveTableJobItem) error {
	batch := k.db.NewBatch()
	defer batch.Close()
	for i, key := range item.Keys {
		if err := batch.Set(key, item.Values[i], nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

// HasLDDB reports whether a complete database of the block size is stored.
func (k *KVDB) HasLDDB(size int) bool {
	_, err := k.storedCount(size)
	return err == nil
}

func (k *KVDB) storedCount(size int) (uint64, error) {
	val, closer, err := k.db.Get(metaKey(size))
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, fmt.Errorf("%w %d", ErrLDDBNotFound, size)
	}
	if err != nil {
		return 0, err
	}
	defer closer.Close()
	return decodeCount(val)
}

// LoadLDDB reads the complete database of one block size.
func (k *KVDB) LoadLDDB(ctx context.Context, size int) (*lddb.DB, error) {
	count, err := k.storedCount(size)
	if err != nil {
		return nil, err
	}

	prefix := tablePrefix(size)
	iter, err := k.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("load lddb: %w", err)
	}
	defer iter.Close()

	tables := make(map[datastructure.PatternID]*lddb.Table, count)
	for iter.First(); iter.Valid(); iter.Next() {
		if len(tables)%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		key := iter.Key()
		if len(key) != len(prefix)+8 {
			return nil, fmt.Errorf("%w: key %q", ErrCorruptValue, key)
		}
		p := datastructure.PatternID(binary.BigEndian.Uint64(key[len(prefix):]))
		tSize, t, err := LoadTable(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", p, err)
		}
		if tSize != size {
			return nil, fmt.Errorf("pattern %d: %w", p, lddb.ErrSizeMismatch)
		}
		tables[p] = t
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("load lddb: %w", err)
	}
	if uint64(len(tables)) != count {
		return nil, fmt.Errorf("%w: %d of %d tables", ErrIncompleteLDDB, len(tables), count)
	}
	return lddb.NewDB(size, tables)
}

// LoadPatterns reads the listed patterns and reports the ones not stored.
func (k *KVDB) LoadPatterns(ctx context.Context, size int, patterns []datastructure.PatternID) (*lddb.DB, []datastructure.PatternID, error) {
	tables := make(map[datastructure.PatternID]*lddb.Table, len(patterns))
	missing := make([]datastructure.PatternID, 0)
	for _, p := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		t, err := k.getTable(size, p)
		if errors.Is(err, pebble.ErrNotFound) {
			missing = append(missing, p)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("pattern %d: %w", p, err)
		}
		tables[p] = t
	}
	db, err := lddb.NewDB(size, tables)
	if err != nil {
		return nil, nil, err
	}
	return db, missing, nil
}

func (k *KVDB) getTable(size int, p datastructure.PatternID) (*lddb.Table, error) {
	val, closer, err := k.db.Get(tableKey(size, p))
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	tSize, t, err := LoadTable(val)
	if err != nil {
		return nil, err
	}
	if tSize != size {
		return nil, lddb.ErrSizeMismatch
	}
	return t, nil
}

func (k *KVDB) Close() error {
	return k.db.Close()
}

// LoadOrBuild loads the listed patterns, builds and stores the ones missing,
// and returns a DB holding all of them.
func (k *KVDB) LoadOrBuild(ctx context.Context, size int, patterns []datastructure.PatternID,
	opts ...lddb.BuildOption) (*lddb.DB, error) {
	stored, missing, err := k.LoadPatterns(ctx, size, patterns)
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		return stored, nil
	}
	built, err := lddb.BuildPatterns(ctx, size, missing, opts...)
	if err != nil {
		return nil, err
	}
	if err := k.SaveLDDB(ctx, built); err != nil {
		return nil, err
	}
	return stored.Merge(built)
}
