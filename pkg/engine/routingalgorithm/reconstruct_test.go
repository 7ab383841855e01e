package routingalgorithm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/lddb"
)

// newTestState returns an empty search state over rows split into 2x2 blocks.
func newTestState(t *testing.T, rows ...string) *searchState {
	t.Helper()
	g, err := datastructure.ParseGrid(strings.NewReader(strings.Join(rows, "\n")))
	require.NoError(t, err)
	bm, err := datastructure.NewBlockMap(g, 2)
	require.NoError(t, err)
	db, err := lddb.BuildPatterns(context.Background(), 2, bm.Patterns())
	require.NoError(t, err)
	return newSearchState(bm, lddb.NewView(db), Manhattan, datastructure.Node{})
}

func setParent(s *searchState, child, parent nodeRef) {
	s.block(int(child.block)).parent[child.local] = parent
}

func requireInvariant(t *testing.T, err error, reason string) {
	t.Helper()
	var ierr *InvariantError
	require.True(t, errors.As(err, &ierr), "want *InvariantError, got %v", err)
	assert.Contains(t, ierr.Reason, reason)
}

func TestReconstruct(t *testing.T) {
	// 2x2 blocks: block 0 holds (0,0) (0,1) (1,0) (1,1), block 1 starts at (0,2).
	start := nodeRef{block: 0, local: 0}
	left := nodeRef{block: 0, local: 1}
	goal := nodeRef{block: 1, local: 0}

	t.Run("splices local paths across blocks", func(t *testing.T) {
		s := newTestState(t, "....", "....")
		setParent(s, goal, left)
		setParent(s, left, start)

		path, err := s.reconstruct(start, goal, 2)
		require.NoError(t, err)
		assert.Equal(t, []datastructure.Node{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}, path)
	})

	t.Run("parent cycle", func(t *testing.T) {
		s := newTestState(t, "....", "....")
		setParent(s, goal, left)
		setParent(s, left, goal)

		_, err := s.reconstruct(start, goal, 2)
		requireInvariant(t, err, "parent cycle")
	})

	t.Run("broken chain", func(t *testing.T) {
		s := newTestState(t, "....", "....")
		setParent(s, goal, left)

		_, err := s.reconstruct(start, goal, 2)
		requireInvariant(t, err, "missing parent")
	})

	t.Run("goal block never touched", func(t *testing.T) {
		s := newTestState(t, "....", "....")

		_, err := s.reconstruct(start, goal, 2)
		requireInvariant(t, err, "missing parent")
	})

	t.Run("no local path to parent", func(t *testing.T) {
		// (0,0) and (1,1) are cut off from each other inside block 0.
		s := newTestState(t, ".#", "#.")
		corner := nodeRef{block: 0, local: 3}
		setParent(s, corner, start)

		_, err := s.reconstruct(start, corner, 2)
		requireInvariant(t, err, "no local path to parent")
	})

	t.Run("length disagrees with the goal cost", func(t *testing.T) {
		s := newTestState(t, "....", "....")
		setParent(s, goal, left)
		setParent(s, left, start)

		_, err := s.reconstruct(start, goal, 3)
		requireInvariant(t, err, "path has 2 steps, length is 3")
	})
}
