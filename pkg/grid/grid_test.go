package grid

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const corridorMaze = `# 6x5 maze with a wall in the middle
111111
1S0001
101101
1000G1
111111
`

func TestParseMaze(t *testing.T) {
	m, err := ParseMaze(corridorMaze)
	require.NoError(t, err)

	g := m.Grid
	assert.Equal(t, 6, g.Width())
	assert.Equal(t, 5, g.Depth())
	assert.Equal(t, 1, g.Border())
	require.NotNil(t, m.Start)
	require.NotNil(t, m.Goal)
	assert.Equal(t, MakeLocation(1, 1), *m.Start)
	assert.Equal(t, MakeLocation(4, 3), *m.Goal)

	assert.True(t, g.IsBlocked(MakeLocation(2, 2)))
	assert.False(t, g.IsBlocked(MakeLocation(1, 2)))
	assert.False(t, g.IsBlocked(*m.Start))

	if m.AsString() != corridorMaze[len("# 6x5 maze with a wall in the middle\n"):] {
		t.Errorf("Maze wrongly serialized:\n%v", m.AsString())
	}
}

func TestParseMazeErrors(t *testing.T) {
	tests := map[string]string{
		"ragged rows":   "111\n11\n",
		"unknown cell":  "1a1\n",
		"two starts":    "S0S\n",
		"two goals":     "G\nG\n",
		"only comments": "# nothing\n",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseMaze(text)
			assert.Error(t, err)
		})
	}
}

func TestBounds(t *testing.T) {
	g, err := NewGrid(5, 4)
	require.NoError(t, err)

	assert.True(t, g.InBounds(MakeLocation(1, 1)))
	assert.True(t, g.InBounds(MakeLocation(3, 2)))
	assert.False(t, g.InBounds(MakeLocation(0, 1)))
	assert.False(t, g.InBounds(MakeLocation(4, 1)))
	assert.False(t, g.InBounds(MakeLocation(1, 3)))

	noBorder, err := NewGrid(5, 4, WithBorder(0))
	require.NoError(t, err)
	assert.True(t, noBorder.InBounds(MakeLocation(0, 0)))
	assert.True(t, noBorder.InBounds(MakeLocation(4, 3)))
	assert.False(t, noBorder.InBounds(MakeLocation(5, 3)))

	// outside of the map counts as blocked
	assert.True(t, g.IsBlocked(MakeLocation(-1, 0)))
	assert.True(t, g.IsBlocked(MakeLocation(0, 4)))
	assert.False(t, g.Walkable(MakeLocation(0, 0)))
	assert.True(t, g.Walkable(MakeLocation(2, 2)))
}

func TestNewGridValidation(t *testing.T) {
	_, err := NewGrid(0, 3)
	assert.True(t, errors.Is(err, ErrInvalidGrid))

	_, err = NewGrid(3, 3, WithBorder(-1))
	assert.True(t, errors.Is(err, ErrInvalidGrid))

	_, err = NewGrid(3, 3, WithOffsets([]Location{{X: 2, Z: 0}}))
	assert.True(t, errors.Is(err, ErrInvalidGrid))

	_, err = NewGrid(3, 3, WithOffsets(nil))
	assert.True(t, errors.Is(err, ErrInvalidGrid))

	_, err = NewGrid(3, 3, WithOffsets([]Location{{X: 1, Z: 0}, {X: 1, Z: 0}}))
	assert.True(t, errors.Is(err, ErrInvalidGrid))

	_, err = NewGrid(3, 3, WithBlocked(MakeLocation(3, 0)))
	assert.True(t, errors.Is(err, ErrInvalidGrid))
}

func TestNeighborOffsetsAreCopied(t *testing.T) {
	g, err := NewGrid(3, 3, WithDiagonals(true))
	require.NoError(t, err)

	offsets := g.NeighborOffsets()
	require.Len(t, offsets, 8)
	offsets[0] = MakeLocation(0, 0)
	assert.Equal(t, Directions8[0], g.NeighborOffsets()[0])
}

func TestFreeAndBlockedLocations(t *testing.T) {
	m, err := ParseMaze(corridorMaze)
	require.NoError(t, err)

	free := m.Grid.FreeLocations()
	want := []Location{
		{1, 1}, {2, 1}, {3, 1}, {4, 1},
		{1, 2}, {4, 2},
		{1, 3}, {2, 3}, {3, 3}, {4, 3},
	}
	if diff := cmp.Diff(want, free); diff != "" {
		t.Errorf("FreeLocations mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, m.Grid.BlockedLocations(), m.Grid.CellCount()-len(free))
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 1.0, Distance(MakeLocation(1, 1), MakeLocation(2, 1)))
	assert.InDelta(t, math.Sqrt2, Distance(MakeLocation(1, 1), MakeLocation(2, 2)), 1e-12)
	assert.Equal(t, 5.0, Distance(MakeLocation(0, 0), MakeLocation(3, 4)))
}

func TestPointConversion(t *testing.T) {
	l := MakeLocation(3, 7)
	assert.Equal(t, orb.Point{3, 7}, l.Point())
	assert.Equal(t, "(3,7)", l.String())
}

func TestWriteAndReadMaze(t *testing.T) {
	m, err := ParseMaze(corridorMaze)
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "maze.txt")
	require.NoError(t, WriteMaze(m, filename))

	read, err := ReadMazeFile(filename, WithDiagonals(true))
	require.NoError(t, err)
	assert.Equal(t, m.AsString(), read.AsString())
	assert.Len(t, read.Grid.NeighborOffsets(), 8)

	_, err = ReadMazeFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
