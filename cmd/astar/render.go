package main

import (
	"strings"

	"github.com/natevvv/grid-astar/pkg/grid"
	"github.com/natevvv/grid-astar/pkg/routing"
)

// render characters
const (
	cellWall   = '#'
	cellFree   = ' '
	cellOpen   = 'o'
	cellClosed = '.'
	cellPath   = '*'
	cellStart  = 'S'
	cellGoal   = 'G'
)

// render draws the maze with the search space and the current path on top.
// Later marks win: walls, open, closed, path, endpoints.
func render(g *grid.Grid, snapshot routing.Snapshot, route routing.Route) string {
	rows := make([][]byte, g.Depth())
	for z := range rows {
		rows[z] = make([]byte, g.Width())
		for x := range rows[z] {
			if g.IsBlocked(grid.MakeLocation(x, z)) {
				rows[z][x] = cellWall
			} else {
				rows[z][x] = cellFree
			}
		}
	}
	mark := func(l grid.Location, c byte) {
		if l.Z >= 0 && l.Z < len(rows) && l.X >= 0 && l.X < len(rows[l.Z]) {
			rows[l.Z][l.X] = c
		}
	}

	for _, n := range snapshot.Open {
		mark(n.Location, cellOpen)
	}
	for _, n := range snapshot.Closed {
		mark(n.Location, cellClosed)
	}
	for _, l := range route.Waypoints {
		mark(l, cellPath)
	}
	mark(snapshot.Start, cellStart)
	mark(snapshot.Goal, cellGoal)

	var sb strings.Builder
	// same row order as the maze file
	for _, row := range rows {
		sb.Write(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}
