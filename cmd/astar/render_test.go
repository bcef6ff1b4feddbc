package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natevvv/grid-astar/pkg/grid"
	"github.com/natevvv/grid-astar/pkg/routing"
)

func TestRender(t *testing.T) {
	m, err := grid.ParseMaze(`11111
1S001
10101
100G1
11111
`)
	require.NoError(t, err)
	router := routing.NewRouter(m.Grid, nil, 1)
	id, err := router.StartSearch(routing.SearchConfig{Start: m.Start, Goal: m.Goal})
	require.NoError(t, err)
	_, err = router.Step(id, 100)
	require.NoError(t, err)

	snapshot, err := router.GetSnapshot(id)
	require.NoError(t, err)
	route, err := router.ComputeRoute(id)
	require.NoError(t, err)
	require.True(t, route.Exists)

	out := render(m.Grid, snapshot, route)
	assert.Len(t, out, 5*6)
	assert.Equal(t, "#####\n", out[:6])
	assert.Equal(t, byte('S'), out[6+1])
	assert.Equal(t, byte('G'), out[3*6+3])
	// both routes have length 4, exactly 3 intermediate cells are marked
	count := 0
	for _, c := range out {
		if c == '*' {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func TestParseLocation(t *testing.T) {
	l, err := parseLocation("3,4")
	require.NoError(t, err)
	assert.Equal(t, grid.MakeLocation(3, 4), l)

	_, err = parseLocation("3;4")
	assert.Error(t, err)
}
