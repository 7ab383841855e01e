package lddb

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/schollz/progressbar/v3"

	"lintang/blocknav/pkg/concurrent"
	"lintang/blocknav/pkg/datastructure"
)

const defaultChunkSize = 1024

type buildConfig struct {
	workers   int
	chunkSize int
	progress  io.Writer
}

type BuildOption func(*buildConfig)

// WithWorkers sets the number of bfs workers. Defaults to GOMAXPROCS.
func WithWorkers(n int) BuildOption {
	return func(c *buildConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithChunkSize sets how many patterns one worker job covers.
func WithChunkSize(n int) BuildOption {
	return func(c *buildConfig) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithProgress draws a progress bar on w while building.
func WithProgress(w io.Writer) BuildOption {
	return func(c *buildConfig) {
		c.progress = w
	}
}

func newBuildConfig(opts []BuildOption) buildConfig {
	cfg := buildConfig{
		workers:   runtime.GOMAXPROCS(0),
		chunkSize: defaultChunkSize,
		progress:  io.Discard,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

type buildResult struct {
	patterns []datastructure.PatternID
	tables   []*Table
	err      error
}

func newBar(w io.Writer, max int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// Build computes the table of every pattern of the given block size. patterns
// are split into ranges that run on a worker pool; each worker owns its range
// so the merge needs no locking.
func Build(ctx context.Context, size int, opts ...BuildOption) (*DB, error) {
	if size < 1 || size > MaxBlockSize {
		return nil, fmt.Errorf("%w: %d", ErrBlockSizeUnsupported, size)
	}
	cfg := newBuildConfig(opts)
	layout := NewLayout(size)

	total := uint64(1) << (size * size)
	chunk := uint64(cfg.chunkSize)
	numJobs := int((total + chunk - 1) / chunk)

	workers := concurrent.NewWorkerPool[concurrent.PatternRangeJobItem, buildResult](cfg.workers, numJobs)
	for start := uint64(0); start < total; start += chunk {
		workers.AddJob(concurrent.PatternRangeJobItem{
			Size:  size,
			Start: start,
			End:   min(start+chunk, total),
		})
	}
	workers.Close()

	workers.Start(func(job concurrent.PatternRangeJobItem) buildResult {
		if err := ctx.Err(); err != nil {
			return buildResult{err: err}
		}
		res := buildResult{
			patterns: make([]datastructure.PatternID, 0, job.End-job.Start),
			tables:   make([]*Table, 0, job.End-job.Start),
		}
		var queue []int
		for p := job.Start; p < job.End; p++ {
			var t *Table
			t, queue = newTable(layout, datastructure.PatternID(p), queue)
			res.patterns = append(res.patterns, datastructure.PatternID(p))
			res.tables = append(res.tables, t)
		}
		return res
	})

	bar := newBar(cfg.progress, numJobs, fmt.Sprintf("[cyan]building lddb for block size %d...[reset]", size))
	return collect(ctx, workers, layout, int(total), bar)
}

// BuildPatterns computes the tables of the listed patterns only, e.g. the
// distinct patterns of one map.
func BuildPatterns(ctx context.Context, size int, patterns []datastructure.PatternID, opts ...BuildOption) (*DB, error) {
	if size < 1 || size > MaxBlockSize {
		return nil, fmt.Errorf("%w: %d", ErrBlockSizeUnsupported, size)
	}
	cfg := newBuildConfig(opts)
	layout := NewLayout(size)
	limit := uint64(1) << (size * size)
	for _, p := range patterns {
		if uint64(p) >= limit {
			return nil, fmt.Errorf("%w: pattern %d out of range for block size %d", ErrMalformedTable, p, size)
		}
	}

	numJobs := (len(patterns) + cfg.chunkSize - 1) / cfg.chunkSize
	workers := concurrent.NewWorkerPool[concurrent.PatternListJobItem, buildResult](cfg.workers, max(numJobs, 1))
	for start := 0; start < len(patterns); start += cfg.chunkSize {
		end := min(start+cfg.chunkSize, len(patterns))
		ids := make([]uint64, 0, end-start)
		for _, p := range patterns[start:end] {
			ids = append(ids, uint64(p))
		}
		workers.AddJob(concurrent.PatternListJobItem{Size: size, Patterns: ids})
	}
	workers.Close()

	workers.Start(func(job concurrent.PatternListJobItem) buildResult {
		if err := ctx.Err(); err != nil {
			return buildResult{err: err}
		}
		res := buildResult{
			patterns: make([]datastructure.PatternID, 0, len(job.Patterns)),
			tables:   make([]*Table, 0, len(job.Patterns)),
		}
		var queue []int
		for _, p := range job.Patterns {
			var t *Table
			t, queue = newTable(layout, datastructure.PatternID(p), queue)
			res.patterns = append(res.patterns, datastructure.PatternID(p))
			res.tables = append(res.tables, t)
		}
		return res
	})

	bar := newBar(cfg.progress, numJobs, fmt.Sprintf("[cyan]building %d lddb patterns...[reset]", len(patterns)))
	return collect(ctx, workers, layout, len(patterns), bar)
}

type resultPool interface {
	Wait()
	CollectResults() chan buildResult
}

func collect(ctx context.Context, workers resultPool, layout *Layout, hint int, bar *progressbar.ProgressBar) (*DB, error) {
	go workers.Wait()

	tables := make(map[datastructure.PatternID]*Table, hint)
	var firstErr error
	for res := range workers.CollectResults() {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		for i, p := range res.patterns {
			tables[p] = res.tables[i]
		}
		bar.Add(1)
	}
	bar.Finish()

	if firstErr != nil {
		return nil, fmt.Errorf("build lddb: %w", firstErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build lddb: %w", err)
	}
	return &DB{layout: layout, tables: tables}, nil
}
