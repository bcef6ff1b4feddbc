package search

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/natevvv/grid-astar/pkg/grid"
	"github.com/natevvv/grid-astar/pkg/queue"
	"github.com/natevvv/grid-astar/pkg/slice"
)

type searchOptions struct {
	policy     UpdatePolicy
	logger     *zap.Logger
	debugLevel int // 1: log every expansion, 2: additionally log every touched neighbor
	observers  []Observer
}

type Option func(*searchOptions)

func WithPolicy(policy UpdatePolicy) Option {
	return func(o *searchOptions) { o.policy = policy }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *searchOptions) { o.logger = logger }
}

func WithDebugLevel(level int) Option {
	return func(o *searchOptions) { o.debugLevel = level }
}

func WithObserver(observer Observer) Option {
	return func(o *searchOptions) { o.observers = append(o.observers, observer) }
}

// AStar is an A* search over a grid which is advanced one expansion per Step call.
// It is not safe for concurrent use. The grid it searches is only read.
type AStar struct {
	g       *grid.Grid
	offsets []grid.Location

	start grid.Location
	goal  grid.Location
	state State

	nodes   map[grid.Location]*Node // every discovered node, open or closed
	open    *queue.MinHeap[*Node]
	closed  slice.FixedSizeSlice // indexed by grid cell index
	endNode *Node                // most recently closed node

	sequence uint64 // next insertion sequence number

	options searchOptions
	kpis    KPIs
}

var _ Stepper = (*AStar)(nil)

func New(opts ...Option) *AStar {
	options := searchOptions{policy: PolicyOverwrite, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&options)
	}
	return &AStar{options: options, state: Idle}
}

// Subscribe adds an observer which is notified on every Reset and Step.
func (a *AStar) Subscribe(observer Observer) {
	a.options.observers = append(a.options.observers, observer)
}

func (a *AStar) Policy() UpdatePolicy { return a.options.policy }

// Reset discards the previous search and prepares a new one from start to goal.
// The search is left unchanged if the configuration is invalid.
func (a *AStar) Reset(g *grid.Grid, start, goal grid.Location) error {
	if g == nil {
		return fmt.Errorf("%w: no grid", ErrInvalidConfiguration)
	}
	for _, endpoint := range []struct {
		name     string
		location grid.Location
	}{{"start", start}, {"goal", goal}} {
		if !g.InBounds(endpoint.location) {
			return fmt.Errorf("%w: %v %v is out of bounds", ErrInvalidConfiguration, endpoint.name, endpoint.location)
		}
		if g.IsBlocked(endpoint.location) {
			return fmt.Errorf("%w: %v %v is blocked", ErrInvalidConfiguration, endpoint.name, endpoint.location)
		}
	}

	if a.open != nil {
		a.open.Clear()
	}
	a.g = g
	a.offsets = g.NeighborOffsets()
	a.start = start
	a.goal = goal
	a.nodes = make(map[grid.Location]*Node)
	a.open = queue.NewMinHeap[*Node](lessNode)
	a.closed = slice.MakeFixedSizeSlice(g.CellCount())
	a.sequence = 0
	a.kpis = KPIs{}

	startNode := a.newNode(start)
	a.nodes[start] = startNode
	a.open.Push(startNode)
	a.kpis.PqUpdates++
	a.endNode = startNode
	a.state = Searching

	if a.options.debugLevel >= 1 {
		a.options.logger.Debug("new search",
			zap.Stringer("start", start),
			zap.Stringer("goal", goal),
			zap.Stringer("policy", a.options.policy))
	}
	for _, o := range a.options.observers {
		o.OnReset(start, goal)
	}
	return nil
}

func (a *AStar) newNode(location grid.Location) *Node {
	n := newNode(location, a.sequence)
	a.sequence++
	return n
}

func (a *AStar) isClosed(location grid.Location) bool {
	return a.closed.Has(a.g.Index(location))
}

// Step performs a single expansion.
// Once the search is found or exhausted, Step does nothing and reports the final state.
func (a *AStar) Step() (StepResult, error) {
	if a.state == Idle {
		return StepResult{State: Idle}, ErrSearchNotStarted
	}
	if a.state.Terminal() {
		return StepResult{Touched: []NodeState{}, State: a.state}, nil
	}

	result := a.expand()
	for _, o := range a.options.observers {
		o.OnStep(result)
	}
	return result, nil
}

func (a *AStar) expand() StepResult {
	result := StepResult{Touched: make([]NodeState, 0)}

	if a.open.Len() == 0 {
		a.state = Exhausted
		result.State = a.state
		return result
	}

	current := a.open.Pop()
	a.kpis.PqPops++
	a.kpis.Steps++
	a.closed.Add(a.g.Index(current.location))
	current.closedAt = a.kpis.Steps
	a.endNode = current

	closed := current.State()
	result.Closed = &closed

	if a.options.debugLevel >= 1 {
		a.options.logger.Debug("close node",
			zap.Int("step", a.kpis.Steps),
			zap.Stringer("location", current.location),
			zap.Float64("g", current.g),
			zap.Float64("h", current.h),
			zap.Float64("f", current.f))
	}

	if current.location == a.goal {
		a.state = Found
		result.State = a.state
		return result
	}

	for _, offset := range a.offsets {
		a.kpis.RelaxationAttempts++
		neighbor := current.location.Add(offset)
		if !a.g.InBounds(neighbor) || a.g.IsBlocked(neighbor) {
			continue
		}

		g := grid.Distance(current.location, neighbor) + current.g
		h := grid.Distance(neighbor, a.goal)

		node, known := a.nodes[neighbor]
		switch {
		case !known:
			node = a.newNode(neighbor)
			node.set(g, h, current.location)
			a.nodes[neighbor] = node
			a.open.Push(node)
		case a.isClosed(neighbor):
			if a.options.policy != PolicyRelax || g >= node.g {
				continue
			}
			a.closed.Remove(a.g.Index(neighbor))
			node.set(g, h, current.location)
			a.open.Push(node)
			a.kpis.Reopened++
		default:
			if a.options.policy == PolicyRelax && g >= node.g {
				continue
			}
			node.set(g, h, current.location)
			a.open.Update(node)
		}
		a.kpis.PqUpdates++
		a.kpis.RelaxedEdges++

		touched := node.State()
		result.Touched = append(result.Touched, touched)
		if a.options.debugLevel >= 2 {
			a.options.logger.Debug("touch node",
				zap.Stringer("location", neighbor),
				zap.Bool("new", !known),
				zap.Float64("g", touched.G),
				zap.Float64("h", touched.H),
				zap.Float64("f", touched.F))
		}
	}

	if a.options.debugLevel >= 2 {
		a.options.logger.Debug("open set", zap.Stringer("open", a.open))
	}

	// nothing left to expand
	if a.open.Len() == 0 {
		a.state = Exhausted
	}
	result.State = a.state
	return result
}

// ReconstructPath follows the parent links from the most recently closed node back to the start.
// The result is ordered from that node (the goal, once found) to the start.
// Before the search is found it shows the progress so far.
func (a *AStar) ReconstructPath() ([]grid.Location, error) {
	if a.state == Idle {
		return nil, ErrSearchNotStarted
	}

	path := make([]grid.Location, 0)
	node := a.endNode
	for node.location != a.start {
		if len(path) > len(a.nodes) {
			return nil, fmt.Errorf("%w: cycle through %v", ErrPathReconstruction, node.location)
		}
		path = append(path, node.location)

		parent, ok := node.Parent()
		if !ok {
			return nil, fmt.Errorf("%w: %v has no parent", ErrPathReconstruction, node.location)
		}
		if node, ok = a.nodes[parent]; !ok {
			return nil, fmt.Errorf("%w: unknown parent %v", ErrPathReconstruction, parent)
		}
	}
	path = append(path, a.start)
	return path, nil
}

// Path is ReconstructPath in presentation order (start to goal).
func (a *AStar) Path() ([]grid.Location, error) {
	path, err := a.ReconstructPath()
	if err != nil {
		return nil, err
	}
	return slice.Reversed(path), nil
}

func (a *AStar) IsDone() bool        { return a.state == Found }
func (a *AStar) State() State        { return a.state }
func (a *AStar) Start() grid.Location { return a.start }
func (a *AStar) Goal() grid.Location  { return a.goal }
func (a *AStar) Grid() *grid.Grid     { return a.g }

// EndNode is the most recently closed node (the start node right after Reset).
func (a *AStar) EndNode() (NodeState, error) {
	if a.state == Idle {
		return NodeState{}, ErrSearchNotStarted
	}
	return a.endNode.State(), nil
}

// NextNode is the open node which the next Step expands.
func (a *AStar) NextNode() (NodeState, bool) {
	if a.state != Searching || a.open.Len() == 0 {
		return NodeState{}, false
	}
	return a.open.Peek().State(), true
}

func (a *AStar) KPIs() KPIs {
	kpis := a.kpis
	kpis.ExploredRatio = a.closed.Ratio()
	return kpis
}

// OpenNodes returns the open set in the order in which it would be expanded.
func (a *AStar) OpenNodes() []NodeState {
	if a.open == nil {
		return []NodeState{}
	}
	items := a.open.Items()
	sort.Slice(items, func(i, j int) bool { return lessNode(items[i], items[j]) })
	states := make([]NodeState, len(items))
	for i, n := range items {
		states[i] = n.State()
	}
	return states
}

// ClosedNodes returns the closed set in the order in which the nodes were closed.
func (a *AStar) ClosedNodes() []NodeState {
	closed := make([]*Node, 0, a.closed.Len())
	for location, n := range a.nodes {
		if a.isClosed(location) {
			closed = append(closed, n)
		}
	}
	sort.Slice(closed, func(i, j int) bool { return closed[i].closedAt < closed[j].closedAt })
	states := make([]NodeState, len(closed))
	for i, n := range closed {
		states[i] = n.State()
	}
	return states
}

// ComputeShortestPath runs a complete search from start to goal.
// It returns the cost of the found path, or -1 if the goal is unreachable.
func (a *AStar) ComputeShortestPath(g *grid.Grid, start, goal grid.Location) (float64, error) {
	if err := a.Reset(g, start, goal); err != nil {
		return -1, err
	}
	for !a.state.Terminal() {
		if _, err := a.Step(); err != nil {
			return -1, err
		}
	}
	if a.state != Found {
		return -1, nil
	}
	return a.endNode.g, nil
}
