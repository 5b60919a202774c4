// Package generator carves perfect mazes into a maze.Grid.
//
// A Generator couples one spanning-tree algorithm (recursive backtracker,
// hunt-and-kill, randomized Prim, randomized Kruskal) with a wall mode that
// decides how each tree decision is applied to the grid. The algorithms keep
// their own visited and union-find state and never read grid walls, so every
// wall mode produces the same tree for a given seed.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/beka-birhanu/mazeworks/maze"
)

var (
	ErrUnknownAlgorithm = errors.New("unknown generation algorithm")
	ErrUnknownWallMode  = errors.New("unknown wall mode")
)

// Algorithm selects the spanning-tree construction.
type Algorithm int

const (
	RecursiveBacktracker Algorithm = iota
	HuntAndKill
	Prim
	Kruskal
)

var algorithmNames = map[Algorithm]string{
	RecursiveBacktracker: "backtracker",
	HuntAndKill:          "hunt-and-kill",
	Prim:                 "prim",
	Kruskal:              "kruskal",
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
	case "recursive-backtracker", "dfs":
		return RecursiveBacktracker, nil
	case "huntandkill", "hunt":
		return HuntAndKill, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// WallMode selects how tree decisions are applied to the grid.
type WallMode int

const (
	// RemoveWalls starts fully walled and opens one wall per carve.
	RemoveWalls WallMode = iota
	// BuildWalls starts fully open and closes every wall that is not a tree edge.
	BuildWalls
	// FillCells starts with every cell filled and clears cells as the tree reaches them.
	FillCells
)

var wallModeNames = map[WallMode]string{
	RemoveWalls: "remove",
	BuildWalls:  "build",
	FillCells:   "fill",
}

func (m WallMode) String() string {
	if name, ok := wallModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("WallMode(%d)", int(m))
}

// ParseWallMode maps a case-insensitive name to a WallMode.
func ParseWallMode(s string) (WallMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range wallModeNames {
		if s == name || s == name+"-walls" || s == name+"-cells" {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWallMode, s)
}

// Options configures a generator run.
type Options struct {
	Algorithm  Algorithm
	Mode       WallMode
	Seed       int64
	ForceTurns bool               // ForceTurns avoids straight continuations (backtracker, hunt-and-kill).
	Start      *maze.CellPosition // Start is the first cell; nil picks one from the seed.
}

// carve is one decision of a spanning algorithm.
type carve struct {
	from      maze.CellPosition
	to        maze.CellPosition
	root      bool                // to is the first cell of the tree
	backtrack bool                // to was popped without carving
	frontier  []maze.CellPosition // cells that joined the frontier
}

// spanner produces tree decisions until it returns false.
type spanner interface {
	next() (carve, bool)
}

// Generator applies a spanning algorithm to a grid one carve at a time.
type Generator struct {
	grid   *maze.Grid
	opts   Options
	algo   spanner
	carved int
	done   bool

	attached []bool              // BuildWalls: cells already part of the tree
	tree     map[[2]int]struct{} // BuildWalls: tree edges by flat index pair
}

// New prepares grid for the selected wall mode and returns a generator positioned before its first step.
func New(grid *maze.Grid, opts Options) (*Generator, error) {
	if _, ok := wallModeNames[opts.Mode]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWallMode, int(opts.Mode))
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	start := maze.CellPosition{Row: rng.Intn(grid.Rows()), Col: rng.Intn(grid.Cols())}
	if opts.Start != nil {
		if !grid.InBound(*opts.Start) {
			return nil, fmt.Errorf("generation start %s: %w", *opts.Start, maze.ErrOutOfBounds)
		}
		start = *opts.Start
	}

	var algo spanner
	switch opts.Algorithm {
	case RecursiveBacktracker:
		algo = newBacktracker(grid, rng, start, opts.ForceTurns)
	case HuntAndKill:
		algo = newHuntAndKill(grid, rng, start, opts.ForceTurns)
	case Prim:
		algo = newPrim(grid, rng, start)
	case Kruskal:
		algo = newKruskal(grid, rng)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(opts.Algorithm))
	}

	grid.ResetSearchState()
	grid.FillAll(false)
	switch opts.Mode {
	case RemoveWalls:
		grid.CloseAll()
	case BuildWalls:
		grid.OpenAll()
	case FillCells:
		grid.CloseAll()
		grid.FillAll(true)
	}

	g := &Generator{grid: grid, opts: opts, algo: algo}
	if opts.Mode == BuildWalls {
		g.attached = make([]bool, grid.Len())
		g.tree = make(map[[2]int]struct{})
	}
	return g, nil
}

// Run carves a complete maze without pausing between steps.
func Run(grid *maze.Grid, opts Options) error {
	g, err := New(grid, opts)
	if err != nil {
		return err
	}
	for {
		res, err := g.Step()
		if err != nil {
			return err
		}
		if res.Completed {
			return nil
		}
	}
}

// Carved returns the number of tree edges applied so far.
func (g *Generator) Carved() int { return g.carved }

// Options returns the options the generator was built with.
func (g *Generator) Options() Options { return g.opts }

// Step applies the next tree decision and tags the cells it touched. The
// completing step clears every tag.
func (g *Generator) Step() (maze.StepResult, error) {
	if g.done {
		return maze.StepResult{Completed: true}, nil
	}

	c, ok := g.algo.next()
	if !ok {
		g.done = true
		g.grid.ResetSearchState()
		if g.opts.Mode == FillCells {
			g.grid.FillAll(false)
		}
		return maze.StepResult{Completed: true}, nil
	}

	if c.backtrack {
		g.grid.Tag(c.to, maze.Backtracked)
		return maze.StepResult{
			Changes:   []maze.Change{{Pos: c.to, State: maze.Backtracked}},
			Backtrack: true,
		}, nil
	}

	changes := make([]maze.Change, 0, 2+len(c.frontier))
	var walled []maze.CellPosition
	if c.root {
		var err error
		if walled, err = g.attach(c.to); err != nil {
			return maze.StepResult{}, err
		}
		changes = append(changes, maze.Change{Pos: c.to, State: maze.Visited})
	} else {
		var err error
		if walled, err = g.apply(c.from, c.to); err != nil {
			return maze.StepResult{}, err
		}
		g.carved++
		changes = append(changes,
			maze.Change{Pos: c.from, State: maze.Visited},
			maze.Change{Pos: c.to, State: maze.Visited},
		)
	}
	// neighbours that gained a wall keep their tag but must be redrawn
	for _, n := range walled {
		cell, err := g.grid.Cell(n)
		if err != nil {
			return maze.StepResult{}, err
		}
		changes = append(changes, maze.Change{Pos: n, State: cell.State})
	}
	for _, p := range c.frontier {
		changes = append(changes, maze.Change{Pos: p, State: maze.Frontier})
	}
	for _, ch := range changes {
		g.grid.Tag(ch.Pos, ch.State)
	}

	return maze.StepResult{Changes: changes}, nil
}

// apply turns the tree edge from-to into a grid mutation according to the wall
// mode. It returns the already attached neighbours that build mode walled off.
func (g *Generator) apply(from, to maze.CellPosition) ([]maze.CellPosition, error) {
	if g.opts.Mode == BuildWalls {
		// recorded before attaching so the edge itself is never closed
		g.tree[g.edgeKey(from, to)] = struct{}{}
	}
	if err := g.grid.OpenWall(from, to); err != nil {
		return nil, fmt.Errorf("carving %s-%s: %w", from, to, err)
	}
	walled, err := g.attach(from)
	if err != nil {
		return nil, err
	}
	more, err := g.attach(to)
	if err != nil {
		return nil, err
	}
	return append(walled, more...), nil
}

// attach marks pos as reached by the tree and returns the neighbours it closed a wall against.
func (g *Generator) attach(pos maze.CellPosition) ([]maze.CellPosition, error) {
	switch g.opts.Mode {
	case FillCells:
		return nil, g.grid.SetFilled(pos, false)
	case BuildWalls:
		idx := g.grid.Index(pos)
		if g.attached[idx] {
			return nil, nil
		}
		var walled []maze.CellPosition
		for _, n := range g.grid.Neighbors(pos) {
			if !g.attached[g.grid.Index(n)] {
				continue
			}
			if _, ok := g.tree[g.edgeKey(pos, n)]; ok {
				continue
			}
			if err := g.grid.CloseWall(pos, n); err != nil {
				return nil, fmt.Errorf("building %s-%s: %w", pos, n, err)
			}
			walled = append(walled, n)
		}
		g.attached[idx] = true
		return walled, nil
	}
	return nil, nil
}

func (g *Generator) edgeKey(a, b maze.CellPosition) [2]int {
	ia, ib := g.grid.Index(a), g.grid.Index(b)
	if ia > ib {
		ia, ib = ib, ia
	}
	return [2]int{ia, ib}
}
