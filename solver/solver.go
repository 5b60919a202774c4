// Package solver finds routes through the open passages of a maze.Grid.
//
// Every algorithm is exposed through the same resumable Step contract used by
// the generators: one expansion per call, with the cells tagged on the grid
// (Frontier on discovery, Visited on expansion, Backtracked on depth-first
// retreats, OnPath once the route is known). Parent references are flat grid
// indices, so reconstruction never chases pointers.
package solver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beka-birhanu/mazeworks/maze"
)

var (
	ErrNoPathFound        = errors.New("no path found")
	ErrCorruptParentChain = errors.New("corrupt parent chain")
	ErrUnknownAlgorithm   = errors.New("unknown solve algorithm")
)

// Algorithm selects the search strategy.
type Algorithm int

const (
	DFS Algorithm = iota
	BFS
	Dijkstra
	GreedyBestFirst
	AStarManhattan
	AStarChebyshev
	AStarOctile
)

var algorithmNames = map[Algorithm]string{
	DFS:             "dfs",
	BFS:             "bfs",
	Dijkstra:        "dijkstra",
	GreedyBestFirst: "greedy",
	AStarManhattan:  "astar-manhattan",
	AStarChebyshev:  "astar-chebyshev",
	AStarOctile:     "astar-octile",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm maps a case-insensitive name to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range algorithmNames {
		if s == name {
			return a, nil
		}
	}
	switch s {
	case "astar", "a*":
		return AStarManhattan, nil
	case "greedy-best-first", "best-first":
		return GreedyBestFirst, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// Optimal reports whether the algorithm always returns a shortest path.
func (a Algorithm) Optimal() bool {
	switch a {
	case BFS, Dijkstra, AStarManhattan, AStarChebyshev, AStarOctile:
		return true
	}
	return false
}

// Options configures a search.
type Options struct {
	Algorithm Algorithm
	Start     maze.CellPosition
	Goal      maze.CellPosition
}

type outcome int

const (
	searching outcome = iota
	found
	exhausted
)

// strategy performs one expansion and reports what it changed.
type strategy interface {
	step() (changes []maze.Change, backtrack bool, o outcome)
}

// search is the state shared by every strategy.
type search struct {
	grid     *maze.Grid
	start    maze.CellPosition
	goal     maze.CellPosition
	expanded int
}

func (s *search) cell(pos maze.CellPosition) maze.Cell {
	c, _ := s.grid.Cell(pos)
	return c
}

// Solver runs one search over a grid.
type Solver struct {
	search   *search
	opts     Options
	strategy strategy
	path     []maze.CellPosition
	done     bool
	err      error
}

// New clears the grid's search state and returns a solver positioned before its first expansion.
func New(grid *maze.Grid, opts Options) (*Solver, error) {
	for _, pos := range []maze.CellPosition{opts.Start, opts.Goal} {
		if !grid.InBound(pos) {
			return nil, fmt.Errorf("endpoint %s: %w", pos, maze.ErrOutOfBounds)
		}
	}

	s := &search{grid: grid, start: opts.Start, goal: opts.Goal}
	var st strategy
	switch opts.Algorithm {
	case DFS:
		st = &depthFirst{search: s}
	case BFS:
		st = &breadthFirst{search: s}
	case Dijkstra:
		st = newBestFirst(s, nil, true)
	case GreedyBestFirst:
		st = newBestFirst(s, Manhattan, false)
	case AStarManhattan:
		st = newBestFirst(s, Manhattan, true)
	case AStarChebyshev:
		st = newBestFirst(s, Chebyshev, true)
	case AStarOctile:
		st = newBestFirst(s, Octile, true)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(opts.Algorithm))
	}

	grid.ResetSearchState()
	return &Solver{search: s, opts: opts, strategy: st}, nil
}

// Solve runs a search to completion and returns the path.
func Solve(grid *maze.Grid, opts Options) ([]maze.CellPosition, error) {
	s, err := New(grid, opts)
	if err != nil {
		return nil, err
	}
	for {
		res, err := s.Step()
		if err != nil {
			return nil, err
		}
		if res.Completed {
			return s.Path(), nil
		}
	}
}

// Step performs one expansion. The final step returns Completed together with
// ErrNoPathFound when the goal is unreachable.
func (s *Solver) Step() (maze.StepResult, error) {
	if s.done {
		return maze.StepResult{Completed: true}, s.err
	}

	changes, backtrack, o := s.strategy.step()
	res := maze.StepResult{Changes: changes, Backtrack: backtrack}

	switch o {
	case found:
		s.done = true
		res.Completed = true
		path, err := s.reconstruct()
		if err != nil {
			s.err = err
			return res, err
		}
		s.path = path
		for _, pos := range path {
			s.search.grid.Tag(pos, maze.OnPath)
			res.Changes = append(res.Changes, maze.Change{Pos: pos, State: maze.OnPath})
		}
	case exhausted:
		s.done = true
		s.err = ErrNoPathFound
		res.Completed = true
		return res, ErrNoPathFound
	}
	return res, nil
}

// Path returns the route from start to goal, or nil before a successful completion.
func (s *Solver) Path() []maze.CellPosition {
	if s.path == nil {
		return nil
	}
	path := make([]maze.CellPosition, len(s.path))
	copy(path, s.path)
	return path
}

// Expanded returns how many cells have been expanded so far.
func (s *Solver) Expanded() int { return s.search.expanded }

// Options returns the options the solver was built with.
func (s *Solver) Options() Options { return s.opts }

// reconstruct walks parent indices from the goal back to the start.
func (s *Solver) reconstruct() ([]maze.CellPosition, error) {
	grid := s.search.grid
	startIdx := grid.Index(s.search.start)
	idx := grid.Index(s.search.goal)

	var path []maze.CellPosition
	for {
		if len(path) >= grid.Len() {
			return nil, fmt.Errorf("%w: loop reaching %s", ErrCorruptParentChain, grid.Position(idx))
		}
		pos := grid.Position(idx)
		path = append(path, pos)
		if idx == startIdx {
			break
		}
		parent := s.search.cell(pos).Parent
		if parent == maze.NoParent {
			return nil, fmt.Errorf("%w: %s has no parent", ErrCorruptParentChain, pos)
		}
		idx = parent
	}

	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
