package guidance_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintang/blocknav/pkg/datastructure"
	"lintang/blocknav/pkg/guidance"
)

func TestDrivingInstructions(t *testing.T) {
	t.Run("merge straight legs and describe turns", func(t *testing.T) {
		path := []datastructure.Node{
			{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, // east
			{Row: 1, Col: 2}, // south, right turn
			{Row: 1, Col: 3}, // east, left turn
		}
		ins, err := guidance.GetDrivingInstructions(path)
		require.NoError(t, err)
		require.Len(t, ins, 4)

		assert.Equal(t, "Head East for 2 cells", ins[0].Instruction)
		assert.Equal(t, datastructure.NewNode(0, 0), ins[0].Point)
		assert.Equal(t, 2, ins[0].Steps)

		assert.Equal(t, "Turn right, head South for 1 cell", ins[1].Instruction)
		assert.Equal(t, datastructure.NewNode(0, 2), ins[1].Point)
		assert.Equal(t, "South", ins[1].Heading)

		assert.Equal(t, "Turn left, head East for 1 cell", ins[2].Instruction)

		assert.Equal(t, "you have arrived at your destination", ins[3].Instruction)
		assert.Equal(t, datastructure.NewNode(1, 3), ins[3].Point)
		assert.Equal(t, "", ins[3].Heading)
	})

	t.Run("u turn", func(t *testing.T) {
		path := []datastructure.Node{{Row: 2, Col: 2}, {Row: 1, Col: 2}, {Row: 2, Col: 2}}
		ways, err := guidance.InstructionsFromPath(path)
		require.NoError(t, err)
		require.Len(t, ways, 3)
		assert.Equal(t, guidance.START, ways[0].Sign)
		assert.Equal(t, guidance.North, ways[0].Heading)
		assert.Equal(t, guidance.U_TURN, ways[1].Sign)
		assert.Equal(t, guidance.FINISH, ways[2].Sign)
	})

	t.Run("single node path only finishes", func(t *testing.T) {
		ins, err := guidance.GetDrivingInstructions([]datastructure.Node{{Row: 3, Col: 3}})
		require.NoError(t, err)
		require.Len(t, ins, 1)
		assert.Equal(t, "you have arrived at your destination", ins[0].Instruction)
	})

	t.Run("invalid paths", func(t *testing.T) {
		_, err := guidance.GetDrivingInstructions(nil)
		assert.True(t, errors.Is(err, guidance.ErrEmptyPath))

		_, err = guidance.InstructionsFromPath([]datastructure.Node{{Row: 0, Col: 0}, {Row: 1, Col: 1}})
		assert.Error(t, err)
	})
}
