package grid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/natevvv/grid-astar/pkg/slice"
)

var ErrInvalidGrid = errors.New("invalid grid")

// Grid is an occupancy map with a fixed set of neighbor offsets.
// It is never modified after construction and can be shared between searches.
type Grid struct {
	width   int
	depth   int
	border  int
	blocked []bool // row-major, index = z*width + x
	offsets []Location
}

type gridOptions struct {
	border  int
	offsets []Location
	blocked []Location
}

type Option func(*gridOptions)

// WithBorder reserves n cells on every side of the map. Cells in the border are never in bounds.
func WithBorder(n int) Option {
	return func(o *gridOptions) { o.border = n }
}

// WithOffsets sets the neighbor offsets which get considered on expansion.
func WithOffsets(offsets []Location) Option {
	return func(o *gridOptions) { o.offsets = offsets }
}

// WithDiagonals is a shorthand for WithOffsets(Directions8) (or Directions4 when disabled).
func WithDiagonals(enabled bool) Option {
	if enabled {
		return WithOffsets(Directions8)
	}
	return WithOffsets(Directions4)
}

func WithBlocked(locations ...Location) Option {
	return func(o *gridOptions) { o.blocked = append(o.blocked, locations...) }
}

func NewGrid(width, depth int, opts ...Option) (*Grid, error) {
	options := gridOptions{border: 1, offsets: Directions4}
	for _, opt := range opts {
		opt(&options)
	}
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: size %vx%v", ErrInvalidGrid, width, depth)
	}
	if options.border < 0 {
		return nil, fmt.Errorf("%w: negative border %v", ErrInvalidGrid, options.border)
	}
	if len(options.offsets) == 0 {
		return nil, fmt.Errorf("%w: no neighbor offsets", ErrInvalidGrid)
	}
	for i, o := range options.offsets {
		if o.X < -1 || o.X > 1 || o.Z < -1 || o.Z > 1 || (o.X == 0 && o.Z == 0) {
			return nil, fmt.Errorf("%w: offset %v is not a unit or diagonal step", ErrInvalidGrid, o)
		}
		if slice.Contains(options.offsets[:i], o) {
			return nil, fmt.Errorf("%w: duplicate offset %v", ErrInvalidGrid, o)
		}
	}

	g := &Grid{
		width:   width,
		depth:   depth,
		border:  options.border,
		blocked: make([]bool, width*depth),
		offsets: append([]Location(nil), options.offsets...),
	}
	for _, l := range options.blocked {
		if !g.contains(l) {
			return nil, fmt.Errorf("%w: blocked cell %v outside of %vx%v map", ErrInvalidGrid, l, width, depth)
		}
		g.blocked[g.index(l)] = true
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Depth() int  { return g.depth }
func (g *Grid) Border() int { return g.border }

func (g *Grid) index(l Location) int { return l.Z*g.width + l.X }

// Index returns the dense row-major index of l. l must be inside the map.
func (g *Grid) Index(l Location) int { return g.index(l) }

// CellCount is the number of cells of the whole map (including the border).
func (g *Grid) CellCount() int { return g.width * g.depth }

func (g *Grid) contains(l Location) bool {
	return l.X >= 0 && l.X < g.width && l.Z >= 0 && l.Z < g.depth
}

// IsBlocked reports whether the cell is a wall. Cells outside the map are blocked.
func (g *Grid) IsBlocked(l Location) bool {
	if !g.contains(l) {
		return true
	}
	return g.blocked[g.index(l)]
}

// InBounds reports whether l lies inside the map without the reserved border.
func (g *Grid) InBounds(l Location) bool {
	return l.X >= g.border && l.X < g.width-g.border && l.Z >= g.border && l.Z < g.depth-g.border
}

// Walkable is InBounds && !IsBlocked.
func (g *Grid) Walkable(l Location) bool {
	return g.InBounds(l) && !g.IsBlocked(l)
}

func (g *Grid) NeighborOffsets() []Location {
	return append([]Location(nil), g.offsets...)
}

// FreeLocations returns all walkable cells in row-major order.
func (g *Grid) FreeLocations() []Location {
	locations := make([]Location, 0)
	for z := g.border; z < g.depth-g.border; z++ {
		for x := g.border; x < g.width-g.border; x++ {
			if l := MakeLocation(x, z); !g.IsBlocked(l) {
				locations = append(locations, l)
			}
		}
	}
	return locations
}

// BlockedLocations returns all walls in row-major order.
func (g *Grid) BlockedLocations() []Location {
	locations := make([]Location, 0)
	for z := 0; z < g.depth; z++ {
		for x := 0; x < g.width; x++ {
			if g.blocked[z*g.width+x] {
				locations = append(locations, MakeLocation(x, z))
			}
		}
	}
	return locations
}

// AsString serializes the grid in the maze text format (without start/goal markers).
func (g *Grid) AsString() string {
	var sb strings.Builder
	for z := 0; z < g.depth; z++ {
		for x := 0; x < g.width; x++ {
			if g.blocked[z*g.width+x] {
				sb.WriteByte(cellWall)
			} else {
				sb.WriteByte(cellFree)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
