package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/natevvv/grid-astar/pkg/grid"
)

var (
	ErrInvalidConfiguration = errors.New("invalid search configuration")
	ErrSearchNotStarted     = errors.New("search not started")
	ErrPathReconstruction   = errors.New("broken parent chain")
)

type State int

const (
	Idle State = iota
	Searching
	Found
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Found:
		return "found"
	case Exhausted:
		return "exhausted"
	}
	return "invalid"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(text []byte) error {
	for _, state := range []State{Idle, Searching, Found, Exhausted} {
		if state.String() == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown search state %q", text)
}

// Terminal reports if no further progress is possible.
func (s State) Terminal() bool { return s == Found || s == Exhausted }

// UpdatePolicy decides what happens when a neighbor is discovered which already has a node.
type UpdatePolicy int

const (
	// PolicyOverwrite replaces the costs and parent of an open node on every rediscovery, whether the new cost
	// is better or not. Closed nodes are never touched again.
	PolicyOverwrite UpdatePolicy = iota
	// PolicyRelax updates a node only if the new cost is strictly better. Closed nodes get reopened when relaxed.
	PolicyRelax
)

func (p UpdatePolicy) String() string {
	switch p {
	case PolicyOverwrite:
		return "overwrite"
	case PolicyRelax:
		return "relax"
	}
	return "invalid"
}

func (p UpdatePolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *UpdatePolicy) UnmarshalText(text []byte) error {
	policy, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = policy
	return nil
}

func ParsePolicy(s string) (UpdatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite":
		return PolicyOverwrite, nil
	case "relax":
		return PolicyRelax, nil
	}
	return PolicyOverwrite, fmt.Errorf("%w: unknown update policy %q", ErrInvalidConfiguration, s)
}

// StepResult describes what a single expansion did.
type StepResult struct {
	Closed  *NodeState  `json:"closed,omitempty"` // node which was closed in this step, nil if none
	Touched []NodeState `json:"touched"`          // neighbors which were inserted or updated
	State   State       `json:"state"`
}

// KPIs of the current search
type KPIs struct {
	Steps              int     `json:"steps"`              // number of expansions (closed nodes, including reopened ones)
	PqPops             int     `json:"pqPops"`             // pops of the open set
	PqUpdates          int     `json:"pqUpdates"`          // pushes and in-place updates of the open set
	RelaxationAttempts int     `json:"relaxationAttempts"` // neighbor offsets considered
	RelaxedEdges       int     `json:"relaxedEdges"`       // neighbors which got inserted or updated
	Reopened           int     `json:"reopened"`           // closed nodes moved back to the open set
	ExploredRatio      float64 `json:"exploredRatio"`      // closed cells / all cells
}

// Observer gets notified synchronously about state changes of a search.
type Observer interface {
	OnReset(start, goal grid.Location)
	OnStep(result StepResult)
}

// Stepper is an incremental search driven one expansion at a time.
type Stepper interface {
	Reset(g *grid.Grid, start, goal grid.Location) error
	Step() (StepResult, error)
	ReconstructPath() ([]grid.Location, error)
	IsDone() bool
	State() State
	KPIs() KPIs
}
