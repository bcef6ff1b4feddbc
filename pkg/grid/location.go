package grid

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Location identifies a grid cell. x is the column, z the row.
type Location struct {
	X int `json:"x"`
	Z int `json:"z"`
}

func MakeLocation(x, z int) Location {
	return Location{X: x, Z: z}
}

func (l Location) Add(o Location) Location {
	return Location{X: l.X + o.X, Z: l.Z + o.Z}
}

// Point converts the cell center into a planar point.
func (l Location) Point() orb.Point {
	return orb.Point{float64(l.X), float64(l.Z)}
}

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.X, l.Z)
}

// Distance is the euclidean distance between two cell centers.
// It is used for both edge costs and the heuristic.
func Distance(a, b Location) float64 {
	return planar.Distance(a.Point(), b.Point())
}

// Offsets in the order E, N, W, S.
var Directions4 = []Location{
	{X: 1, Z: 0},
	{X: 0, Z: 1},
	{X: -1, Z: 0},
	{X: 0, Z: -1},
}

// Directions8 extends Directions4 by the diagonal moves.
var Directions8 = []Location{
	{X: 1, Z: 0},
	{X: 0, Z: 1},
	{X: -1, Z: 0},
	{X: 0, Z: -1},
	{X: 1, Z: 1},
	{X: 1, Z: -1},
	{X: -1, Z: 1},
	{X: -1, Z: -1},
}

// PathLength sums the distances between consecutive locations.
func PathLength(path []Location) float64 {
	length := 0.0
	for i := 1; i < len(path); i++ {
		length += Distance(path[i-1], path[i])
	}
	return length
}
