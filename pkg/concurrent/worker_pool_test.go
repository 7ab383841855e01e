package concurrent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lintang/blocknav/pkg/concurrent"
)

func TestWorkerPool(t *testing.T) {
	t.Run("every job yields one result", func(t *testing.T) {
		const n = 100
		wp := concurrent.NewWorkerPool[concurrent.QueryJobItem, int](4, n)
		for i := 0; i < n; i++ {
			wp.AddJob(concurrent.QueryJobItem{Source: i, Target: i + 1})
		}
		wp.Close()
		wp.Start(func(job concurrent.QueryJobItem) int {
			return job.Source * job.Target
		})
		go wp.Wait()

		got := make(map[int]bool)
		for res := range wp.CollectResults() {
			got[res] = true
		}
		assert.Len(t, got, n)
		for i := 0; i < n; i++ {
			assert.True(t, got[i*(i+1)])
		}
	})

	t.Run("no jobs", func(t *testing.T) {
		wp := concurrent.NewWorkerPool[concurrent.PatternRangeJobItem, uint64](0, 1)
		wp.Close()
		wp.Start(func(job concurrent.PatternRangeJobItem) uint64 {
			return job.End - job.Start
		})
		go wp.Wait()
		count := 0
		for range wp.CollectResults() {
			count++
		}
		assert.Equal(t, 0, count)
	})
}
