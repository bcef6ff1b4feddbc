package routing

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/natevvv/grid-astar/pkg/grid"
	"github.com/natevvv/grid-astar/pkg/search"
)

var (
	ErrSessionNotFound = errors.New("search session not found")
	ErrNoFreeCells     = errors.New("maze has less than two free cells")
)

// Config of a new search session
type SearchConfig struct {
	Start  *grid.Location // random free cell if nil
	Goal   *grid.Location // random free cell if nil
	Policy search.UpdatePolicy
}

// Route is the (partial) result of a session.
type Route struct {
	Start     grid.Location
	Goal      grid.Location
	Exists    bool            // goal was reached
	Waypoints []grid.Location // start to the most recently closed node
	Length    float64         // euclidean length of the waypoints
}

// Snapshot of a search session
type Snapshot struct {
	ID      string
	Start   grid.Location
	Goal    grid.Location
	Policy  search.UpdatePolicy
	State   search.State
	EndNode search.NodeState
	Next    *search.NodeState // expanded by the next step, nil once terminal
	Open    []search.NodeState
	Closed  []search.NodeState
	KPIs    search.KPIs
}

// session owns one search. The mutex serializes all calls which reach the search.
type session struct {
	mu     sync.Mutex
	id     string
	search *search.AStar
	trace  *traceRecorder
}

// Router manages concurrent search sessions over a shared, read-only grid.
type Router struct {
	grid       *grid.Grid
	logger     *zap.Logger
	debugLevel int

	mu       sync.RWMutex
	sessions map[string]*session
	rng      *rand.Rand
	rngMu    sync.Mutex
}

func NewRouter(g *grid.Grid, logger *zap.Logger, seed int64) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		grid:     g,
		logger:   logger,
		sessions: make(map[string]*session),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// SetDebugLevel applies to sessions started afterwards.
func (r *Router) SetDebugLevel(level int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debugLevel = level
}

func (r *Router) Grid() *grid.Grid { return r.grid }

// RandomEndpoints picks two distinct free cells, like shuffling the free cells and taking the first two.
func (r *Router) RandomEndpoints() (grid.Location, grid.Location, error) {
	free := r.grid.FreeLocations()
	if len(free) < 2 {
		return grid.Location{}, grid.Location{}, ErrNoFreeCells
	}
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	r.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	return free[0], free[1], nil
}

// StartSearch creates a new session and resets its search. It returns the session id.
func (r *Router) StartSearch(config SearchConfig) (string, error) {
	start, goal := config.Start, config.Goal
	if start == nil || goal == nil {
		a, b, err := r.RandomEndpoints()
		if err != nil {
			return "", err
		}
		switch {
		case start == nil && goal == nil:
			start, goal = &a, &b
		case start == nil:
			start = other(a, b, *goal)
		default:
			goal = other(a, b, *start)
		}
	}

	r.mu.RLock()
	debugLevel := r.debugLevel
	r.mu.RUnlock()

	trace := &traceRecorder{}
	s := &session{
		id: uuid.NewString(),
		search: search.New(
			search.WithPolicy(config.Policy),
			search.WithLogger(r.logger),
			search.WithDebugLevel(debugLevel),
		),
		trace: trace,
	}
	s.search.Subscribe(trace)
	if err := s.search.Reset(r.grid, *start, *goal); err != nil {
		return "", err
	}

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	r.logger.Info("search started",
		zap.String("id", s.id),
		zap.Stringer("start", *start),
		zap.Stringer("goal", *goal),
		zap.Stringer("policy", config.Policy))
	return s.id, nil
}

// other returns whichever of a and b differs from not.
func other(a, b, not grid.Location) *grid.Location {
	if a == not {
		return &b
	}
	return &a
}

func (r *Router) session(id string) (*session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, id)
	}
	return s, nil
}

// Step advances the search of the session by up to count expansions. It stops early once the search terminated.
func (r *Router) Step(id string, count int) ([]search.StepResult, error) {
	s, err := r.session(id)
	if err != nil {
		return nil, err
	}
	if count < 1 {
		count = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.search.State()
	// a search closes at most every cell once (more with reopening), count is only an upper bound
	results := make([]search.StepResult, 0, min(count, r.grid.CellCount()+1))
	for i := 0; i < count; i++ {
		result, err := s.search.Step()
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if result.State.Terminal() {
			break
		}
	}
	if state := s.search.State(); state.Terminal() && !before.Terminal() {
		r.logger.Info("search finished", zap.String("id", id), zap.Stringer("state", state), zap.Int("steps", s.search.KPIs().Steps))
	}
	return results, nil
}

// ComputeRoute returns the path from the start to the most recently closed node.
func (r *Router) ComputeRoute(id string) (Route, error) {
	s, err := r.session(id)
	if err != nil {
		return Route{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return routeOf(s.search)
}

func routeOf(a *search.AStar) (Route, error) {
	path, err := a.Path()
	if err != nil {
		return Route{}, err
	}
	return Route{
		Start:     a.Start(),
		Goal:      a.Goal(),
		Exists:    a.IsDone(),
		Waypoints: path,
		Length:    grid.PathLength(path),
	}, nil
}

func (r *Router) GetSnapshot(id string) (Snapshot, error) {
	s, err := r.session(id)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotOf(s)
}

func snapshotOf(s *session) (Snapshot, error) {
	end, err := s.search.EndNode()
	if err != nil {
		return Snapshot{}, err
	}
	var next *search.NodeState
	if n, ok := s.search.NextNode(); ok {
		next = &n
	}
	return Snapshot{
		ID:      s.id,
		Start:   s.search.Start(),
		Goal:    s.search.Goal(),
		Policy:  s.search.Policy(),
		State:   s.search.State(),
		EndNode: end,
		Next:    next,
		Open:    s.search.OpenNodes(),
		Closed:  s.search.ClosedNodes(),
		KPIs:    s.search.KPIs(),
	}, nil
}

// GetTrace returns every step result of the session so far.
func (r *Router) GetTrace(id string) ([]search.StepResult, error) {
	s, err := r.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trace.Steps(), nil
}

func (r *Router) DeleteSearch(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %v", ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	r.logger.Info("search deleted", zap.String("id", id))
	return nil
}

// SessionIDs lists the ids of all open sessions (unordered).
func (r *Router) SessionIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// traceRecorder keeps the step results of a session.
type traceRecorder struct {
	steps []search.StepResult
}

func (t *traceRecorder) OnReset(start, goal grid.Location) { t.steps = nil }
func (t *traceRecorder) OnStep(result search.StepResult)   { t.steps = append(t.steps, result) }
func (t *traceRecorder) Steps() []search.StepResult {
	steps := make([]search.StepResult, len(t.steps))
	copy(steps, t.steps)
	return steps
}
