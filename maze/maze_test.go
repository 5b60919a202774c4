package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("fully walled", func(t *testing.T) {
		g, err := New(3, 4, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, g.Rows())
		assert.Equal(t, 4, g.Cols())
		assert.Equal(t, DefaultMaxDimension, g.MaxDimension())
		assert.Equal(t, 0, g.OpenPassageCount())
		assert.NoError(t, g.CheckSymmetry())
	})

	t.Run("rejects bad dimensions", func(t *testing.T) {
		for _, dims := range [][2]int{{0, 3}, {3, 0}, {-1, 5}, {11, 2}} {
			_, err := New(dims[0], dims[1], 10)
			assert.ErrorIs(t, err, ErrInvalidDimension, "dims %v", dims)
		}
	})
}

func TestResize(t *testing.T) {
	g, err := New(10, 10, 20)
	require.NoError(t, err)
	require.NoError(t, g.OpenWall(CellPosition{0, 0}, CellPosition{0, 1}))
	g.Visit(CellPosition{0, 1}, OnPath, 3, 0)

	t.Run("invalid keeps prior state", func(t *testing.T) {
		err := g.Resize(21, 3)
		assert.ErrorIs(t, err, ErrInvalidDimension)
		assert.Equal(t, 10, g.Rows())
		assert.Equal(t, 1, g.OpenPassageCount())
	})

	t.Run("resets walls and search state", func(t *testing.T) {
		require.NoError(t, g.Resize(3, 3))
		assert.Equal(t, 9, g.Len())
		assert.Equal(t, 0, g.OpenPassageCount())
		for i := 0; i < g.Len(); i++ {
			c, err := g.Cell(g.Position(i))
			require.NoError(t, err)
			assert.True(t, c.NorthWall && c.EastWall && c.SouthWall && c.WestWall)
			assert.Equal(t, Unvisited, c.State)
			assert.Equal(t, NoParent, c.Parent)
		}
	})
}

func TestWalls(t *testing.T) {
	g, err := New(3, 3, 0)
	require.NoError(t, err)
	a, b := CellPosition{1, 1}, CellPosition{1, 2}

	t.Run("open is symmetric", func(t *testing.T) {
		require.NoError(t, g.OpenWall(a, b))
		ab, err := g.WallBetween(a, b)
		require.NoError(t, err)
		ba, err := g.WallBetween(b, a)
		require.NoError(t, err)
		assert.False(t, ab)
		assert.False(t, ba)
		assert.NoError(t, g.CheckSymmetry())
		assert.Equal(t, []CellPosition{b}, g.Passages(a))
		assert.Equal(t, []CellPosition{a}, g.Passages(b))
	})

	t.Run("close is symmetric", func(t *testing.T) {
		require.NoError(t, g.CloseWall(b, a))
		wall, err := g.WallBetween(a, b)
		require.NoError(t, err)
		assert.True(t, wall)
		assert.Empty(t, g.Passages(a))
		assert.NoError(t, g.CheckSymmetry())
	})

	t.Run("non adjacent pairs error", func(t *testing.T) {
		_, err := g.WallBetween(CellPosition{0, 0}, CellPosition{1, 1})
		assert.ErrorIs(t, err, ErrNotAdjacent)
		assert.ErrorIs(t, g.OpenWall(CellPosition{0, 0}, CellPosition{0, 2}), ErrNotAdjacent)
		assert.ErrorIs(t, g.CloseWall(CellPosition{0, 0}, CellPosition{0, 0}), ErrNotAdjacent)
		assert.ErrorIs(t, g.OpenWall(CellPosition{0, 0}, CellPosition{-1, 0}), ErrNotAdjacent)
		assert.NoError(t, g.CheckSymmetry())
	})
}

func TestNeighbors(t *testing.T) {
	g, err := New(3, 3, 0)
	require.NoError(t, err)

	assert.Equal(t, []CellPosition{{0, 1}, {1, 0}}, g.Neighbors(CellPosition{0, 0}))
	assert.Len(t, g.Neighbors(CellPosition{0, 1}), 3)
	assert.Equal(t, []CellPosition{{0, 1}, {1, 2}, {2, 1}, {1, 0}}, g.Neighbors(CellPosition{1, 1}))
}

func TestOpenAll(t *testing.T) {
	g, err := New(3, 4, 0)
	require.NoError(t, err)
	g.OpenAll()

	// every interior wall: 3*(4-1) horizontal + (3-1)*4 vertical
	assert.Equal(t, 17, g.OpenPassageCount())
	assert.NoError(t, g.CheckSymmetry())

	g.CloseAll()
	assert.Equal(t, 0, g.OpenPassageCount())
}

func TestResetSearchState(t *testing.T) {
	g, err := New(2, 2, 0)
	require.NoError(t, err)
	require.NoError(t, g.OpenWall(CellPosition{0, 0}, CellPosition{1, 0}))
	g.Visit(CellPosition{1, 0}, Visited, 1, 0)

	g.ResetSearchState()

	c, err := g.Cell(CellPosition{1, 0})
	require.NoError(t, err)
	assert.Equal(t, Unvisited, c.State)
	assert.Zero(t, c.Cost)
	assert.Equal(t, NoParent, c.Parent)
	assert.False(t, c.NorthWall, "walls survive a search reset")
}

func TestCheckSymmetryDetectsCorruption(t *testing.T) {
	g, err := New(2, 2, 0)
	require.NoError(t, err)
	g.at(CellPosition{0, 0}).EastWall = false

	assert.ErrorIs(t, g.CheckSymmetry(), ErrAsymmetricWall)
}

func TestCloneIsIndependent(t *testing.T) {
	g, err := New(2, 2, 0)
	require.NoError(t, err)
	c := g.Clone()
	require.NoError(t, g.OpenWall(CellPosition{0, 0}, CellPosition{0, 1}))

	assert.Equal(t, 1, g.OpenPassageCount())
	assert.Equal(t, 0, c.OpenPassageCount())
}

func TestString(t *testing.T) {
	g, err := New(1, 2, 0)
	require.NoError(t, err)
	require.NoError(t, g.OpenWall(CellPosition{0, 0}, CellPosition{0, 1}))

	expected := "" +
		"+---+---+\n" +
		"|       |\n" +
		"+---+---+\n"
	assert.Equal(t, expected, g.String())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("w")
	require.NoError(t, err)
	assert.Equal(t, West, d)
	assert.Equal(t, East, d.Opposite())

	_, err = ParseDirection("up")
	assert.ErrorIs(t, err, ErrUnknownDirection)

	for _, d := range Directions {
		assert.True(t, d.Valid())
	}
	assert.False(t, Direction(4).Valid())
	assert.False(t, Direction(-1).Valid())
}
