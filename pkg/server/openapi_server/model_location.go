// SPDX-License-Identifier: MIT

package openapi_server

import "github.com/natevvv/grid-astar/pkg/grid"

// Location is a grid cell, x is the column and z the row
type Location struct {
	X int `json:"x"`
	Z int `json:"z"`
}

func makeLocation(l grid.Location) Location {
	return Location{X: l.X, Z: l.Z}
}

func (l Location) toGrid() grid.Location {
	return grid.MakeLocation(l.X, l.Z)
}

func makeLocations(locations []grid.Location) []Location {
	result := make([]Location, 0, len(locations))
	for _, l := range locations {
		result = append(result, makeLocation(l))
	}
	return result
}
