package generator

import (
	"math/rand"

	"github.com/beka-birhanu/mazeworks/maze"
)

// walker holds the state shared by the random-walk algorithms.
type walker struct {
	grid       *maze.Grid
	rng        *rand.Rand
	forceTurns bool
	start      maze.CellPosition
	started    bool
	visited    []bool
	entered    []maze.Direction // direction of the carve that reached each cell
	hasEntered []bool
}

func newWalker(grid *maze.Grid, rng *rand.Rand, start maze.CellPosition, forceTurns bool) walker {
	return walker{
		grid:       grid,
		rng:        rng,
		forceTurns: forceTurns,
		start:      start,
		visited:    make([]bool, grid.Len()),
		entered:    make([]maze.Direction, grid.Len()),
		hasEntered: make([]bool, grid.Len()),
	}
}

func (w *walker) isVisited(pos maze.CellPosition) bool {
	return w.visited[w.grid.Index(pos)]
}

func (w *walker) visit(from, to maze.CellPosition, root bool) {
	idx := w.grid.Index(to)
	w.visited[idx] = true
	if root {
		return
	}
	if d, ok := from.DirectionTo(to); ok {
		w.entered[idx] = d
		w.hasEntered[idx] = true
	}
}

// neighbors returns the in-bound neighbours of pos whose visited flag equals visited.
func (w *walker) neighbors(pos maze.CellPosition, visited bool) []maze.CellPosition {
	var result []maze.CellPosition
	for _, n := range w.grid.Neighbors(pos) {
		if w.isVisited(n) == visited {
			result = append(result, n)
		}
	}
	return result
}

// choose picks the next cell uniformly, dropping the straight continuation
// when turns are forced and another option exists.
func (w *walker) choose(from maze.CellPosition, candidates []maze.CellPosition) maze.CellPosition {
	idx := w.grid.Index(from)
	if w.forceTurns && w.hasEntered[idx] && len(candidates) > 1 {
		straight := from.Step(w.entered[idx])
		turns := make([]maze.CellPosition, 0, len(candidates))
		for _, c := range candidates {
			if c != straight {
				turns = append(turns, c)
			}
		}
		if len(turns) > 0 {
			candidates = turns
		}
	}
	return candidates[w.rng.Intn(len(candidates))]
}

// backtracker is the recursive backtracker with an explicit stack.
type backtracker struct {
	walker
	stack []maze.CellPosition
}

func newBacktracker(grid *maze.Grid, rng *rand.Rand, start maze.CellPosition, forceTurns bool) *backtracker {
	return &backtracker{walker: newWalker(grid, rng, start, forceTurns)}
}

func (b *backtracker) next() (carve, bool) {
	if !b.started {
		b.started = true
		b.visit(b.start, b.start, true)
		b.stack = append(b.stack, b.start)
		return carve{to: b.start, root: true}, true
	}
	if len(b.stack) == 0 {
		return carve{}, false
	}

	top := b.stack[len(b.stack)-1]
	candidates := b.neighbors(top, false)
	if len(candidates) == 0 {
		b.stack = b.stack[:len(b.stack)-1]
		return carve{to: top, backtrack: true}, true
	}

	next := b.choose(top, candidates)
	b.visit(top, next, false)
	b.stack = append(b.stack, next)
	return carve{from: top, to: next}, true
}

// huntAndKill walks randomly without a stack and hunts row by row for a new
// starting point when the walk is stuck.
type huntAndKill struct {
	walker
	current maze.CellPosition
	done    bool
}

func newHuntAndKill(grid *maze.Grid, rng *rand.Rand, start maze.CellPosition, forceTurns bool) *huntAndKill {
	return &huntAndKill{walker: newWalker(grid, rng, start, forceTurns)}
}

func (h *huntAndKill) next() (carve, bool) {
	if !h.started {
		h.started = true
		h.visit(h.start, h.start, true)
		h.current = h.start
		return carve{to: h.start, root: true}, true
	}
	if h.done {
		return carve{}, false
	}

	// kill
	if candidates := h.neighbors(h.current, false); len(candidates) > 0 {
		from := h.current
		next := h.choose(from, candidates)
		h.visit(from, next, false)
		h.current = next
		return carve{from: from, to: next}, true
	}

	// hunt
	for idx := range h.visited {
		if h.visited[idx] {
			continue
		}
		pos := h.grid.Position(idx)
		visited := h.neighbors(pos, true)
		if len(visited) == 0 {
			continue
		}
		from := visited[h.rng.Intn(len(visited))]
		h.visit(from, pos, false)
		h.current = pos
		return carve{from: from, to: pos}, true
	}

	h.done = true
	return carve{}, false
}
