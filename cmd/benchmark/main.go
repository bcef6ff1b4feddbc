package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"runtime/pprof"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/natevvv/grid-astar/internal/config"
	"github.com/natevvv/grid-astar/pkg/grid"
	"github.com/natevvv/grid-astar/pkg/search"
	"github.com/natevvv/grid-astar/pkg/slice"
)

// target is one benchmark case with the result of the reference search (relax policy).
type target struct {
	origin      grid.Location
	destination grid.Location
	length      float64 // -1 if unreachable
	hops        int
}

func main() {
	amountTargets := 100
	targetFile := ""
	storeTargets := false
	cpuProfile := ""
	c, err := config.FromArgs("benchmark", os.Args[1:], func(fs *flag.FlagSet) {
		fs.IntVar(&amountTargets, "n", amountTargets, "How many targets should get created or read")
		fs.StringVar(&targetFile, "targets", targetFile, "Read targets from this file (create random targets if empty)")
		fs.BoolVar(&storeTargets, "store", storeTargets, "Store newly created targets to the -targets file")
		fs.StringVar(&cpuProfile, "cpu", cpuProfile, "write cpu profile to file")
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

	policy, _ := c.UpdatePolicy()
	start := time.Now()
	maze, err := grid.ReadMazeFile(c.Maze, c.GridOptions()...)
	if err != nil {
		logger.Fatal("failed to read maze", zap.Error(err))
	}
	fmt.Printf("[TIME-Import] = %s\n", time.Since(start))

	var targets []target
	if targetFile != "" && !storeTargets {
		targets, err = readTargets(targetFile)
		if err != nil {
			logger.Fatal("failed to read targets", zap.Error(err))
		}
		if amountTargets < len(targets) {
			targets = targets[0:amountTargets]
		}
	} else {
		seed := c.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		targets, err = createTargets(amountTargets, maze.Grid, rand.New(rand.NewSource(seed)))
		if err != nil {
			logger.Fatal("failed to create targets", zap.Error(err))
		}
		if storeTargets && targetFile != "" {
			if err := writeTargets(targets, targetFile); err != nil {
				logger.Fatal("failed to write targets", zap.Error(err))
			}
		}
	}

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			logger.Fatal("failed to create cpu profile", zap.Error(err))
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	astar := search.New(search.WithPolicy(policy), search.WithLogger(logger), search.WithDebugLevel(c.DebugLevel))
	benchmark(astar, maze.Grid, targets)
}

// createTargets picks random pairs of free cells and solves them with the relax policy as reference.
func createTargets(n int, g *grid.Grid, rng *rand.Rand) ([]target, error) {
	free := g.FreeLocations()
	if len(free) < 2 {
		return nil, fmt.Errorf("maze has %v free cells, need at least 2", len(free))
	}
	reference := search.New(search.WithPolicy(search.PolicyRelax))
	targets := make([]target, n)
	for i := 0; i < n; i++ {
		origin := free[rng.Intn(len(free))]
		destination := free[rng.Intn(len(free))]
		length, err := reference.ComputeShortestPath(g, origin, destination)
		if err != nil {
			return nil, err
		}
		hops := 0
		if length > -1 {
			path, err := reference.Path()
			if err != nil {
				return nil, err
			}
			hops = len(path)
		}
		targets[i] = target{origin: origin, destination: destination, length: length, hops: hops}
	}
	return targets, nil
}

func readTargets(filename string) ([]target, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanLines)

	targets := make([]target, 0)

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 1 {
			// skip empty lines
			continue
		} else if line[0] == '#' {
			// skip comments
			continue
		}
		var t target
		if _, err := fmt.Sscanf(line, "%d %d %d %d %g %d", &t.origin.X, &t.origin.Z, &t.destination.X, &t.destination.Z, &t.length, &t.hops); err != nil {
			return nil, fmt.Errorf("invalid target %q: %w", line, err)
		}
		targets = append(targets, t)
	}
	return targets, scanner.Err()
}

func writeTargets(targets []target, targetFile string) error {
	var sb strings.Builder
	sb.WriteString("# origin x z, destination x z, reference length, hops\n")
	for _, t := range targets {
		sb.WriteString(fmt.Sprintf("%v %v %v %v %v %v\n", t.origin.X, t.origin.Z, t.destination.X, t.destination.Z, t.length, t.hops))
	}

	file, err := os.Create(targetFile)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(sb.String()); err != nil {
		return err
	}
	return writer.Flush()
}

// results collects the measurements of a benchmark run.
type results struct {
	runtimes []float64 // ms
	steps    []float64
	kpis     search.KPIs

	invalidLengths [][3]float64 // case, length, reference length
	invalidResults []int
	invalidHops    [][3]int // case, hops, reference hops
	pathMismatches int
}

func (r *results) add(kpis search.KPIs) {
	r.kpis.Steps += kpis.Steps
	r.kpis.PqPops += kpis.PqPops
	r.kpis.PqUpdates += kpis.PqUpdates
	r.kpis.RelaxationAttempts += kpis.RelaxationAttempts
	r.kpis.RelaxedEdges += kpis.RelaxedEdges
	r.kpis.Reopened += kpis.Reopened
	r.steps = append(r.steps, float64(kpis.Steps))
}

func (r *results) show(targets []target) {
	completed := len(r.runtimes)
	if completed == 0 {
		fmt.Println("No completed cases")
		return
	}
	avg := func(v int) string { return humanize.Comma(int64(v / completed)) }

	runtimes := append([]float64(nil), r.runtimes...)
	sort.Float64s(runtimes)
	mean, std := stat.MeanStdDev(runtimes, nil)
	fmt.Printf("Runtime: mean %.3fms, std %.3fms, median %.3fms, p95 %.3fms, max %.3fms\n",
		mean, std,
		stat.Quantile(0.5, stat.Empirical, runtimes, nil),
		stat.Quantile(0.95, stat.Empirical, runtimes, nil),
		runtimes[len(runtimes)-1])
	fmt.Printf("Average steps: %s (mean %.1f)\n", avg(r.kpis.Steps), stat.Mean(r.steps, nil))
	fmt.Printf("Average pq pops: %s\n", avg(r.kpis.PqPops))
	fmt.Printf("Average pq updates: %s\n", avg(r.kpis.PqUpdates))
	fmt.Printf("Average relaxations attempts: %s\n", avg(r.kpis.RelaxationAttempts))
	fmt.Printf("Average edge relaxations: %s\n", avg(r.kpis.RelaxedEdges))
	fmt.Printf("Average reopened nodes: %s\n", avg(r.kpis.Reopened))
	fmt.Printf("%v/%v paths differ from the reference path.\n", r.pathMismatches, completed)

	fmt.Printf("%v/%v invalid Result (source/target).\n", len(r.invalidResults), completed)
	for i, result := range r.invalidResults {
		fmt.Printf("%v: Case %v (%v -> %v) has invalid result\n", i, result, targets[result].origin, targets[result].destination)
	}

	fmt.Printf("%v/%v invalid path lengths.\n", len(r.invalidLengths), completed)
	for i, lengths := range r.invalidLengths {
		testcase := int(lengths[0])
		fmt.Printf("%v: Case %v (%v -> %v) has invalid length. Has: %.3f, Reference: %.3f, Difference: %.3f\n", i, testcase, targets[testcase].origin, targets[testcase].destination, lengths[1], lengths[2], lengths[1]-lengths[2])
	}

	fmt.Printf("%v/%v invalid hops number.\n", len(r.invalidHops), completed)
	for i, hops := range r.invalidHops {
		testcase := hops[0]
		fmt.Printf("%v: Case %v (%v -> %v) has invalid #hops. Has: %v, reference: %v, difference: %v\n", i, testcase, targets[testcase].origin, targets[testcase].destination, hops[1], hops[2], hops[1]-hops[2])
	}
}

// Run benchmarks on the provided maze and targets
func benchmark(astar *search.AStar, g *grid.Grid, targets []target) {
	r := &results{}
	reference := search.New(search.WithPolicy(search.PolicyRelax))

	// an interrupt stops after the running case, the results so far are still shown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	for i, t := range targets {
		select {
		case <-stop:
			fmt.Printf("Interrupted after %v/%v cases\n", i, len(targets))
			r.show(targets)
			return
		default:
		}

		start := time.Now()
		length, err := astar.ComputeShortestPath(g, t.origin, t.destination)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("[%3v] %v -> %v: %v\n", i, t.origin, t.destination, err)
			continue
		}

		var path []grid.Location
		if length > -1 {
			if path, err = astar.Path(); err != nil {
				fmt.Printf("[%3v] %v -> %v: %v\n", i, t.origin, t.destination, err)
				continue
			}
		}
		elapsedPath := time.Since(start)

		kpis := astar.KPIs()
		fmt.Printf("[%3v TIME-Navigate, TIME-Path, Steps, PQ Pops, PQ Updates, relaxed Edges, relax attempts] = %12s, %12s, %7d, %7d, %7d, %7d, %7d\n", i, elapsed, elapsedPath, kpis.Steps, kpis.PqPops, kpis.PqUpdates, kpis.RelaxedEdges, kpis.RelaxationAttempts)

		if math.Abs(length-t.length) > 1e-9 {
			r.invalidLengths = append(r.invalidLengths, [3]float64{float64(i), length, t.length})
		}
		if length > -1 && (path[0] != t.origin || path[len(path)-1] != t.destination) {
			r.invalidResults = append(r.invalidResults, i)
		}
		if t.hops != len(path) {
			r.invalidHops = append(r.invalidHops, [3]int{i, len(path), t.hops})
		}
		if length > -1 {
			if _, err := reference.ComputeShortestPath(g, t.origin, t.destination); err == nil {
				if referencePath, err := reference.Path(); err == nil && slice.Compare(path, referencePath) != 0 {
					r.pathMismatches++
				}
			}
		}

		r.runtimes = append(r.runtimes, float64(elapsed.Microseconds())/1000)
		r.add(kpis)
	}
	r.show(targets)
}
