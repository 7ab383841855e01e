package heuristics_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintang/blocknav/pkg/engine/heuristics"
)

func lineMatrix(positions []int) [][]int {
	mat := make([][]int, len(positions))
	for i := range positions {
		mat[i] = make([]int, len(positions))
		for j := range positions {
			d := positions[i] - positions[j]
			if d < 0 {
				d = -d
			}
			mat[i][j] = d
		}
	}
	return mat
}

func TestSimulatedAnnealing(t *testing.T) {
	t.Run("beats nearest neighbour on a line", func(t *testing.T) {
		mat := lineMatrix([]int{0, -1, 2, -4, 3})
		fmat := make([][]float64, len(mat))
		for i := range mat {
			for _, d := range mat[i] {
				fmat[i] = append(fmat[i], float64(d))
			}
		}
		nn := heuristics.SimpleNNHeuristics(fmat)
		assert.Equal(t, []int{0, 1, 2, 4, 3}, nn)

		sa, err := heuristics.NewSimulatedAnnealing(mat, heuristics.WithSeed(42))
		require.NoError(t, err)
		tour, length := sa.Solve()

		assert.Equal(t, 14.0, length)
		assert.Equal(t, 0, tour[0])
		sorted := slices.Clone(tour)
		slices.Sort(sorted)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, sorted)
	})

	t.Run("same seed same tour", func(t *testing.T) {
		mat := lineMatrix([]int{5, 1, 9, 3, 7, 2})
		a, err := heuristics.NewSimulatedAnnealing(mat, heuristics.WithSeed(7), heuristics.WithCooling(1000, 0.001))
		require.NoError(t, err)
		b, err := heuristics.NewSimulatedAnnealing(mat, heuristics.WithSeed(7), heuristics.WithCooling(1000, 0.001))
		require.NoError(t, err)

		tourA, lenA := a.Solve()
		tourB, lenB := b.Solve()
		assert.Equal(t, tourA, tourB)
		assert.Equal(t, lenA, lenB)
	})

	t.Run("small tours", func(t *testing.T) {
		sa, err := heuristics.NewSimulatedAnnealing([][]int{{heuristics.Unreachable}})
		require.NoError(t, err)
		tour, length := sa.Solve()
		assert.Equal(t, []int{0}, tour)
		assert.Equal(t, 0.0, length)

		sa, err = heuristics.NewSimulatedAnnealing([][]int{{0, 3}, {4, 0}})
		require.NoError(t, err)
		tour, length = sa.Solve()
		assert.Equal(t, []int{0, 1}, tour)
		assert.Equal(t, 7.0, length)
	})

	t.Run("invalid matrices", func(t *testing.T) {
		_, err := heuristics.NewSimulatedAnnealing(nil)
		assert.ErrorIs(t, err, heuristics.ErrEmptyMatrix)

		_, err = heuristics.NewSimulatedAnnealing([][]int{{0, 1}, {1}})
		assert.ErrorIs(t, err, heuristics.ErrNonSquare)

		_, err = heuristics.NewSimulatedAnnealing([][]int{{0, heuristics.Unreachable}, {1, 0}})
		assert.ErrorIs(t, err, heuristics.ErrUnreachableLeg)
	})
}
