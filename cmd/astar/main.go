package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/natevvv/grid-astar/internal/config"
	"github.com/natevvv/grid-astar/pkg/grid"
	"github.com/natevvv/grid-astar/pkg/routing"
	"github.com/natevvv/grid-astar/pkg/search"
)

type options struct {
	start       string
	goal        string
	interactive bool
	show        int
	geojsonFile string
	saveFile    string
}

func main() {
	var o options
	c, err := config.FromArgs("astar", os.Args[1:], func(fs *flag.FlagSet) {
		fs.StringVar(&o.start, "start", "", "start cell as x,z (maze marker or random if empty)")
		fs.StringVar(&o.goal, "goal", "", "goal cell as x,z (maze marker or random if empty)")
		fs.BoolVar(&o.interactive, "i", false, "read step commands from stdin")
		fs.IntVar(&o.show, "show", 0, "print the maze every n steps (0: only at the end)")
		fs.StringVar(&o.geojsonFile, "geojson", "", "write the final search space to this file")
		fs.StringVar(&o.saveFile, "save", "", "write the maze with the used start and goal markers to this file")
	})
	if errors.Is(err, flag.ErrHelp) {
		return
	} else if err != nil {
		log.Fatal(err)
	}

	logger, err := c.Logger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	maze, err := grid.ReadMazeFile(c.Maze, c.GridOptions()...)
	if err != nil {
		logger.Fatal("failed to read maze", zap.Error(err))
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	router := routing.NewRouter(maze.Grid, logger, seed)
	router.SetDebugLevel(c.DebugLevel)
	policy, _ := c.UpdatePolicy()

	h := &host{
		maze:   maze,
		router: router,
		policy: policy,
		show:   o.show,
	}
	if err := h.configure(o.start, o.goal); err != nil {
		logger.Fatal("invalid endpoints", zap.Error(err))
	}

	if o.interactive {
		err = h.interact(bufio.NewScanner(os.Stdin))
	} else {
		err = h.run()
	}
	if err != nil {
		logger.Fatal("search failed", zap.Error(err))
	}

	if o.saveFile != "" {
		if err := h.saveMaze(o.saveFile); err != nil {
			logger.Fatal("failed to save maze", zap.Error(err))
		}
		fmt.Printf("Maze written to %v\n", o.saveFile)
	}
	if o.geojsonFile != "" {
		if err := h.writeGeoJSON(o.geojsonFile); err != nil {
			logger.Fatal("failed to write geojson", zap.Error(err))
		}
		fmt.Printf("Search space written to %v\n", o.geojsonFile)
	}
}

// host drives one search session step by step and prints its progress.
type host struct {
	maze   *grid.Maze
	router *routing.Router
	policy search.UpdatePolicy
	show   int

	start *grid.Location
	goal  *grid.Location
	id    string
}

func (h *host) configure(start, goal string) error {
	h.start, h.goal = h.maze.Start, h.maze.Goal
	if start != "" {
		l, err := parseLocation(start)
		if err != nil {
			return err
		}
		h.start = &l
	}
	if goal != "" {
		l, err := parseLocation(goal)
		if err != nil {
			return err
		}
		h.goal = &l
	}
	return h.begin()
}

// begin starts a new session. Missing endpoints get picked randomly.
func (h *host) begin() error {
	if h.id != "" {
		_ = h.router.DeleteSearch(h.id)
	}
	id, err := h.router.StartSearch(routing.SearchConfig{Start: h.start, Goal: h.goal, Policy: h.policy})
	if err != nil {
		return err
	}
	h.id = id
	snapshot, err := h.router.GetSnapshot(id)
	if err != nil {
		return err
	}
	fmt.Printf("Search %v from %v to %v (%v)\n", id, snapshot.Start, snapshot.Goal, h.policy)
	return nil
}

func (h *host) run() error {
	start := time.Now()
	for {
		results, err := h.router.Step(h.id, 1)
		if err != nil {
			return err
		}
		state := results[len(results)-1].State
		if state.Terminal() {
			break
		}
		if h.show > 0 {
			snapshot, err := h.router.GetSnapshot(h.id)
			if err != nil {
				return err
			}
			if snapshot.KPIs.Steps%h.show == 0 {
				if err := h.print(); err != nil {
					return err
				}
			}
		}
	}
	elapsed := time.Since(start)
	if err := h.print(); err != nil {
		return err
	}
	fmt.Printf("[TIME-Search] = %s\n", elapsed)
	return nil
}

const usage = `commands:
  p       begin a new search (random endpoints unless given by flags or maze)
  c [n]   continue the search by n steps (default 1)
  r       run the search until it terminates
  m       mark the current path
  q       quit
`

func (h *host) interact(scanner *bufio.Scanner) error {
	fmt.Print(usage)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		var err error
		switch fields[0] {
		case "p":
			err = h.begin()
		case "c":
			count := 1
			if len(fields) > 1 {
				if _, err := fmt.Sscanf(fields[1], "%d", &count); err != nil {
					fmt.Printf("invalid step count %q\n", fields[1])
					continue
				}
			}
			err = h.step(count)
		case "r":
			err = h.step(h.maze.Grid.CellCount() + 1)
		case "m":
			err = h.print()
		case "q":
			return nil
		default:
			fmt.Print(usage)
		}
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (h *host) step(count int) error {
	results, err := h.router.Step(h.id, count)
	if err != nil {
		return err
	}
	for _, result := range results {
		if result.Closed != nil {
			fmt.Printf("closed %v g=%.2f h=%.2f f=%.2f, touched %v\n",
				result.Closed.Location, result.Closed.G, result.Closed.H, result.Closed.F, len(result.Touched))
		}
	}
	fmt.Printf("state: %v\n", results[len(results)-1].State)

	snapshot, err := h.router.GetSnapshot(h.id)
	if err != nil {
		return err
	}
	if snapshot.Next != nil {
		fmt.Printf("next: %v f=%.2f\n", snapshot.Next.Location, snapshot.Next.F)
	}
	return nil
}

func (h *host) print() error {
	snapshot, err := h.router.GetSnapshot(h.id)
	if err != nil {
		return err
	}
	route, err := h.router.ComputeRoute(h.id)
	if err != nil {
		return err
	}
	fmt.Print(render(h.maze.Grid, snapshot, route))

	kpis := snapshot.KPIs
	fmt.Printf("state: %v, path: %v cells, length %.2f\n", snapshot.State, len(route.Waypoints), route.Length)
	fmt.Printf("steps: %v, pq pops: %v, pq updates: %v, relaxed edges: %v/%v, reopened: %v, explored: %.1f%%\n",
		humanize.Comma(int64(kpis.Steps)),
		humanize.Comma(int64(kpis.PqPops)),
		humanize.Comma(int64(kpis.PqUpdates)),
		humanize.Comma(int64(kpis.RelaxedEdges)),
		humanize.Comma(int64(kpis.RelaxationAttempts)),
		humanize.Comma(int64(kpis.Reopened)),
		100*kpis.ExploredRatio)
	return nil
}

func (h *host) writeGeoJSON(filename string) error {
	fc, err := h.router.GetFeatureCollection(h.id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// saveMaze stores the maze with the endpoints of the current session, so random endpoints can be replayed.
func (h *host) saveMaze(filename string) error {
	snapshot, err := h.router.GetSnapshot(h.id)
	if err != nil {
		return err
	}
	maze := &grid.Maze{Grid: h.maze.Grid, Start: &snapshot.Start, Goal: &snapshot.Goal}
	return grid.WriteMaze(maze, filename)
}

func parseLocation(s string) (grid.Location, error) {
	var x, z int
	if _, err := fmt.Sscanf(s, "%d,%d", &x, &z); err != nil {
		return grid.Location{}, fmt.Errorf("invalid location %q, expected x,z: %w", s, err)
	}
	return grid.MakeLocation(x, z), nil
}
