package generator

import (
	"math/rand"

	"github.com/beka-birhanu/mazeworks/maze"
)

// prim grows the tree from a random frontier cell at every step.
type prim struct {
	grid       *maze.Grid
	rng        *rand.Rand
	start      maze.CellPosition
	started    bool
	visited    []bool
	inFrontier []bool
	frontier   []maze.CellPosition
}

func newPrim(grid *maze.Grid, rng *rand.Rand, start maze.CellPosition) *prim {
	return &prim{
		grid:       grid,
		rng:        rng,
		start:      start,
		visited:    make([]bool, grid.Len()),
		inFrontier: make([]bool, grid.Len()),
	}
}

func (p *prim) next() (carve, bool) {
	if !p.started {
		p.started = true
		added := p.claim(p.start)
		return carve{to: p.start, root: true, frontier: added}, true
	}
	if len(p.frontier) == 0 {
		return carve{}, false
	}

	i := p.rng.Intn(len(p.frontier))
	cell := p.frontier[i]
	last := len(p.frontier) - 1
	p.frontier[i] = p.frontier[last]
	p.frontier = p.frontier[:last]

	var inTree []maze.CellPosition
	for _, n := range p.grid.Neighbors(cell) {
		if p.visited[p.grid.Index(n)] {
			inTree = append(inTree, n)
		}
	}
	from := inTree[p.rng.Intn(len(inTree))]

	added := p.claim(cell)
	return carve{from: from, to: cell, frontier: added}, true
}

// claim marks pos visited and pushes its fresh neighbours onto the frontier.
func (p *prim) claim(pos maze.CellPosition) []maze.CellPosition {
	idx := p.grid.Index(pos)
	p.visited[idx] = true
	p.inFrontier[idx] = false

	var added []maze.CellPosition
	for _, n := range p.grid.Neighbors(pos) {
		nIdx := p.grid.Index(n)
		if p.visited[nIdx] || p.inFrontier[nIdx] {
			continue
		}
		p.inFrontier[nIdx] = true
		p.frontier = append(p.frontier, n)
		added = append(added, n)
	}
	return added
}
