package routingalgorithm

import (
	"context"
	"fmt"

	"lintang/blocknav/pkg/concurrent"
	"lintang/blocknav/pkg/datastructure"
)

type queryResult struct {
	source int
	target int
	length int
	err    error
}

// DistanceMatrix runs one Block A* query per (source, target) pair on a
// worker pool. matrix[i][j] is the path length from sources[i] to targets[j],
// -1 when there is no path.
func (rt *RouteAlgorithm) DistanceMatrix(ctx context.Context, sources, targets []datastructure.Node,
	h Heuristic, numWorkers int, opts ...SearchOption) ([][]int, error) {
	numJobs := len(sources) * len(targets)
	workers := concurrent.NewWorkerPool[concurrent.QueryJobItem, queryResult](numWorkers, max(numJobs, 1))
	for i := range sources {
		for j := range targets {
			workers.AddJob(concurrent.QueryJobItem{Source: i, Target: j})
		}
	}
	workers.Close()

	workers.Start(func(job concurrent.QueryJobItem) queryResult {
		res, err := rt.ShortestPathBlockAStar(ctx, sources[job.Source], targets[job.Target], h, opts...)
		if err != nil {
			return queryResult{source: job.Source, target: job.Target, err: err}
		}
		length := -1
		if res.Found {
			length = res.Length
		}
		return queryResult{source: job.Source, target: job.Target, length: length}
	})
	go workers.Wait()

	matrix := make([][]int, len(sources))
	for i := range matrix {
		matrix[i] = make([]int, len(targets))
	}
	var firstErr error
	for curr := range workers.CollectResults() {
		if curr.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("query %d -> %d: %w", curr.source, curr.target, curr.err)
			}
			continue
		}
		matrix[curr.source][curr.target] = curr.length
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return matrix, nil
}
