package search

import (
	"fmt"

	"github.com/natevvv/grid-astar/pkg/grid"
)

// implements queue.Priorizable
type Node struct {
	location  grid.Location // cell of this node
	g         float64       // cost from the start to this node
	h         float64       // estimated cost from this node to the goal
	f         float64       // g + h
	parent    grid.Location // key of the predecessor in the node arena
	hasParent bool          // false for the start node
	sequence  uint64        // order in which the location entered the open set (tie-breaker)
	closedAt  int           // step in which the node was (last) closed
	index     int           // internal usage
}

func newNode(location grid.Location, sequence uint64) *Node {
	return &Node{location: location, sequence: sequence, index: -1}
}

func (n *Node) Location() grid.Location { return n.location }
func (n *Node) G() float64              { return n.g }
func (n *Node) H() float64              { return n.h }
func (n *Node) F() float64              { return n.f }
func (n *Node) Parent() (grid.Location, bool) {
	return n.parent, n.hasParent
}
func (n *Node) Index() int         { return n.index }
func (n *Node) SetIndex(index int) { n.index = index }
func (n *Node) String() string {
	return fmt.Sprintf("%v: %v, %.2f (g=%.2f h=%.2f)\n", n.index, n.location, n.f, n.g, n.h)
}

func (n *Node) set(g, h float64, parent grid.Location) {
	n.g = g
	n.h = h
	n.f = g + h
	n.parent = parent
	n.hasParent = true
}

// State copies the node into a value which can be handed out.
func (n *Node) State() NodeState {
	s := NodeState{Location: n.location, G: n.g, H: n.h, F: n.f}
	if n.hasParent {
		parent := n.parent
		s.Parent = &parent
	}
	return s
}

// lessNode orders by f, then h, then insertion order.
func lessNode(a, b *Node) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.sequence < b.sequence
}

// NodeState is a snapshot of a node.
type NodeState struct {
	Location grid.Location  `json:"location"`
	G        float64        `json:"g"`
	H        float64        `json:"h"`
	F        float64        `json:"f"`
	Parent   *grid.Location `json:"parent,omitempty"`
}
