package datastructure_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintang/blocknav/pkg/datastructure"
)

func TestBlockGrid(t *testing.T) {
	t.Run("pack cells into pattern id", func(t *testing.T) {
		b, err := datastructure.NewBlockGridFromCells([][]uint8{
			{0, 1, 0},
			{0, 0, 0},
			{1, 0, 0},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, b.Size)
		// bit 1 = (0,1), bit 6 = (2,0)
		assert.Equal(t, datastructure.PatternID(1<<1|1<<6), b.Pattern)
		assert.Equal(t, 9, b.Cells())

		blocked, err := b.At(datastructure.LocalNode{Row: 0, Col: 1})
		require.NoError(t, err)
		assert.True(t, blocked)
		assert.True(t, b.IsFree(datastructure.LocalNode{Row: 1, Col: 1}))
		assert.False(t, b.IsFree(datastructure.LocalNode{Row: 2, Col: 0}))
	})

	t.Run("reject ragged and oversized blocks", func(t *testing.T) {
		_, err := datastructure.NewBlockGridFromCells([][]uint8{{0, 0}, {0}})
		assert.Error(t, err)

		_, err = datastructure.NewBlockGridFromCells(nil)
		assert.Error(t, err)

		big := make([][]uint8, datastructure.MaxBlockSize+1)
		for i := range big {
			big[i] = make([]uint8, len(big))
		}
		_, err = datastructure.NewBlockGridFromCells(big)
		assert.Error(t, err)
	})

	t.Run("out of bounds access", func(t *testing.T) {
		b := datastructure.NewBlockGrid(0, 4)
		_, err := b.At(datastructure.LocalNode{Row: 4, Col: 0})
		var ierr *datastructure.InvalidNodeError
		require.True(t, errors.As(err, &ierr))
		assert.Equal(t, 4, ierr.Row)
		assert.Equal(t, 4, ierr.Size)

		assert.False(t, b.IsFree(datastructure.LocalNode{Row: -1, Col: 0}))
		assert.False(t, b.Contains(datastructure.LocalNode{Row: 0, Col: 4}))
	})

	t.Run("neighbors in left up right down order", func(t *testing.T) {
		b := datastructure.NewBlockGrid(0, 3)
		nbs := b.Neighbors4(datastructure.LocalNode{Row: 1, Col: 1})
		assert.Equal(t, []datastructure.LocalNode{
			{Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 1},
		}, nbs)

		// block the up neighbor and look from a corner
		b = datastructure.NewBlockGrid(1<<1, 3)
		assert.Equal(t, []datastructure.LocalNode{{Row: 1, Col: 0}}, b.Neighbors4(datastructure.LocalNode{Row: 0, Col: 0}))
		assert.Equal(t, []datastructure.LocalNode{{Row: 1, Col: 0}, {Row: 1, Col: 2}, {Row: 2, Col: 1}},
			b.Neighbors4(datastructure.LocalNode{Row: 1, Col: 1}))
	})

	t.Run("index and node at are inverse", func(t *testing.T) {
		b := datastructure.NewBlockGrid(0, 5)
		for i := 0; i < b.Cells(); i++ {
			assert.Equal(t, i, b.Index(b.NodeAt(i)))
		}
	})

	t.Run("boundary nodes", func(t *testing.T) {
		got := slices.Collect(datastructure.BoundaryNodes(3))
		assert.Equal(t, []datastructure.LocalNode{
			{0, 0}, {0, 1}, {0, 2},
			{2, 0}, {2, 1}, {2, 2},
			{1, 0}, {1, 2},
		}, got)

		for size := 1; size <= datastructure.MaxBlockSize; size++ {
			b := datastructure.NewBlockGrid(0, size)
			nodes := slices.Collect(b.BoundaryNodes())
			want := 4*size - 4
			if size == 1 {
				want = 1
			}
			assert.Len(t, nodes, want, "size %d", size)

			seen := make(map[datastructure.LocalNode]bool)
			for _, n := range nodes {
				assert.True(t, b.IsBoundary(n))
				assert.False(t, seen[n], "duplicate %v", n)
				seen[n] = true
			}
		}
	})

	t.Run("string", func(t *testing.T) {
		b := datastructure.NewBlockGrid(1<<1|1<<2, 2)
		assert.Equal(t, "pattern: 6\n01\n10", b.String())
	})
}
