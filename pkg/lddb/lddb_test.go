package lddb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/lddb"
)

// checkPath asserts p is a valid free 4-connected walk from a to b inside blk.
func checkPath(t *testing.T, blk datastructure.BlockGrid, p []datastructure.LocalNode, a, b datastructure.LocalNode, length int) {
	t.Helper()
	require.Len(t, p, length+1)
	assert.Equal(t, a, p[0])
	assert.Equal(t, b, p[len(p)-1])
	for i, n := range p {
		assert.True(t, blk.IsFree(n), "blocked node %v", n)
		if i == 0 {
			continue
		}
		dr, dc := n.Row-p[i-1].Row, n.Col-p[i-1].Col
		assert.Equal(t, 1, dr*dr+dc*dc, "non adjacent step %v -> %v", p[i-1], n)
	}
}

func TestLayout(t *testing.T) {
	t.Run("boundary slots", func(t *testing.T) {
		l := lddb.NewLayout(4)
		assert.Equal(t, 12, l.NumBoundary())
		assert.Equal(t, 16, l.Cells())
		assert.Equal(t, datastructure.LocalNode{Row: 0, Col: 0}, l.Boundary(0))
		assert.Equal(t, datastructure.LocalNode{Row: 3, Col: 0}, l.Boundary(4))
		assert.Equal(t, 8, l.Slot(datastructure.LocalNode{Row: 1, Col: 0}))
		assert.Equal(t, -1, l.Slot(datastructure.LocalNode{Row: 1, Col: 1}))
		assert.Equal(t, -1, l.Slot(datastructure.LocalNode{Row: 4, Col: 0}))
	})

	t.Run("single cell block has one boundary node", func(t *testing.T) {
		l := lddb.NewLayout(1)
		assert.Equal(t, 1, l.NumBoundary())
		assert.Equal(t, 0, l.Slot(datastructure.LocalNode{}))
	})
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported block size", func(t *testing.T) {
		_, err := lddb.Build(ctx, 0)
		assert.True(t, errors.Is(err, lddb.ErrBlockSizeUnsupported))
		_, err = lddb.Build(ctx, lddb.MaxBlockSize+1)
		assert.True(t, errors.Is(err, lddb.ErrBlockSizeUnsupported))
		_, err = lddb.NewDB(lddb.MaxBlockSize+1, nil)
		assert.True(t, errors.Is(err, lddb.ErrBlockSizeUnsupported))
	})

	t.Run("every pattern of size 3", func(t *testing.T) {
		db, err := lddb.Build(ctx, 3, lddb.WithChunkSize(64), lddb.WithWorkers(4))
		require.NoError(t, err)
		assert.Equal(t, 512, db.Len())
		assert.Equal(t, 3, db.Size())
		assert.Empty(t, db.Missing([]datastructure.PatternID{0, 511}))
	})

	t.Run("distances on an empty block are manhattan", func(t *testing.T) {
		db, err := lddb.Build(ctx, 4)
		require.NoError(t, err)
		l := db.Layout()
		blk := datastructure.NewBlockGrid(0, 4)
		for s := 0; s < l.NumBoundary(); s++ {
			for d := 0; d < l.NumBoundary(); d++ {
				a, b := l.Boundary(s), l.Boundary(d)
				dist, ok := db.Distance(0, a, b)
				require.True(t, ok)
				want := abs(a.Row-b.Row) + abs(a.Col-b.Col)
				assert.Equal(t, want, dist)
				checkPath(t, blk, db.Path(0, a, b), a, b, want)
			}
		}
	})

	t.Run("distance and path are symmetric", func(t *testing.T) {
		db, err := lddb.Build(ctx, 3)
		require.NoError(t, err)
		l := db.Layout()
		for _, p := range db.Patterns() {
			blk := datastructure.NewBlockGrid(p, 3)
			for s := 0; s < l.NumBoundary(); s++ {
				for d := 0; d < l.NumBoundary(); d++ {
					a, b := l.Boundary(s), l.Boundary(d)
					ab, okAB := db.Distance(p, a, b)
					ba, okBA := db.Distance(p, b, a)
					require.Equal(t, okAB, okBA)
					if !okAB {
						assert.Nil(t, db.Path(p, a, b))
						continue
					}
					require.Equal(t, ab, ba)

					fwd := db.Path(p, a, b)
					checkPath(t, blk, fwd, a, b, ab)
					rev := db.Path(p, b, a)
					require.Len(t, rev, len(fwd))
					for i := range fwd {
						assert.Equal(t, fwd[i], rev[len(rev)-1-i])
					}
				}
			}
		}
	})

	t.Run("blocked and walled off nodes are unreachable", func(t *testing.T) {
		db, err := lddb.Build(ctx, 3)
		require.NoError(t, err)
		// middle column blocked splits the block in two
		p := datastructure.PatternID(1<<1 | 1<<4 | 1<<7)
		_, ok := db.Distance(p, datastructure.LocalNode{Row: 0, Col: 0}, datastructure.LocalNode{Row: 0, Col: 2})
		assert.False(t, ok)
		_, ok = db.Distance(p, datastructure.LocalNode{Row: 0, Col: 1}, datastructure.LocalNode{Row: 0, Col: 1})
		assert.False(t, ok)
		d, ok := db.Distance(p, datastructure.LocalNode{Row: 0, Col: 0}, datastructure.LocalNode{Row: 2, Col: 0})
		require.True(t, ok)
		assert.Equal(t, 2, d)
		// interior nodes are not in the table
		_, ok = db.Distance(0, datastructure.LocalNode{Row: 1, Col: 1}, datastructure.LocalNode{Row: 0, Col: 0})
		assert.False(t, ok)
	})

	t.Run("detour around an obstacle", func(t *testing.T) {
		db, err := lddb.Build(ctx, 3)
		require.NoError(t, err)
		// 0 0 0
		// 1 1 0
		// 0 0 0
		p := datastructure.PatternID(1<<3 | 1<<4)
		a, b := datastructure.LocalNode{Row: 0, Col: 0}, datastructure.LocalNode{Row: 2, Col: 0}
		d, ok := db.Distance(p, a, b)
		require.True(t, ok)
		assert.Equal(t, 6, d)
		checkPath(t, datastructure.NewBlockGrid(p, 3), db.Path(p, a, b), a, b, 6)
	})

	t.Run("build patterns matches the full build", func(t *testing.T) {
		full, err := lddb.Build(ctx, 3)
		require.NoError(t, err)
		patterns := []datastructure.PatternID{0, 3, 17, 200, 511}
		part, err := lddb.BuildPatterns(ctx, 3, patterns, lddb.WithChunkSize(2))
		require.NoError(t, err)
		assert.Equal(t, patterns, part.Patterns())
		for _, p := range patterns {
			want, _ := full.Table(p)
			got, ok := part.Table(p)
			require.True(t, ok)
			assert.Equal(t, want, got)
		}
		assert.Equal(t, []datastructure.PatternID{1}, part.Missing([]datastructure.PatternID{0, 1}))

		_, err = lddb.BuildPatterns(ctx, 2, []datastructure.PatternID{1 << 4})
		assert.True(t, errors.Is(err, lddb.ErrMalformedTable))
	})

	t.Run("merge", func(t *testing.T) {
		a, err := lddb.BuildPatterns(ctx, 3, []datastructure.PatternID{1, 2})
		require.NoError(t, err)
		b, err := lddb.BuildPatterns(ctx, 3, []datastructure.PatternID{2, 3})
		require.NoError(t, err)
		merged, err := a.Merge(b)
		require.NoError(t, err)
		assert.Equal(t, []datastructure.PatternID{1, 2, 3}, merged.Patterns())
		assert.Equal(t, 2, a.Len())

		c, err := lddb.BuildPatterns(ctx, 2, []datastructure.PatternID{0})
		require.NoError(t, err)
		_, err = a.Merge(c)
		assert.True(t, errors.Is(err, lddb.ErrSizeMismatch))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := lddb.Build(cctx, 3)
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("new db rejects malformed tables", func(t *testing.T) {
		_, err := lddb.NewDB(2, map[datastructure.PatternID]*lddb.Table{0: {Dist: []uint8{0}}})
		assert.True(t, errors.Is(err, lddb.ErrMalformedTable))
	})
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
