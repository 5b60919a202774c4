package generator

import (
	"math/rand"

	"github.com/beka-birhanu/mazeworks/maze"
	"github.com/spakin/disjoint"
)

// cellSets tracks connected components, one disjoint-set element per flat cell index.
type cellSets []*disjoint.Element

func newCellSets(n int) cellSets {
	sets := make(cellSets, n)
	for i := range sets {
		sets[i] = disjoint.NewElement()
	}
	return sets
}

// connect merges the components of a and b and reports whether they were apart.
func (s cellSets) connect(a, b int) bool {
	if s.connected(a, b) {
		return false
	}
	disjoint.Union(s[a], s[b])
	return true
}

// connected reports whether a and b share a component.
func (s cellSets) connected(a, b int) bool {
	return s[a].Find() == s[b].Find()
}

type wall struct {
	a, b maze.CellPosition
}

// kruskal opens shuffled walls whose cells are not yet connected.
type kruskal struct {
	grid   *maze.Grid
	walls  []wall
	cursor int
	sets   cellSets
}

func newKruskal(grid *maze.Grid, rng *rand.Rand) *kruskal {
	walls := make([]wall, 0, 2*grid.Len())
	for idx := 0; idx < grid.Len(); idx++ {
		pos := grid.Position(idx)
		// Because of symmetry, we need only connect to the east or south.
		if pos.Col < grid.Cols()-1 {
			walls = append(walls, wall{a: pos, b: pos.Step(maze.East)})
		}
		if pos.Row < grid.Rows()-1 {
			walls = append(walls, wall{a: pos, b: pos.Step(maze.South)})
		}
	}
	rng.Shuffle(len(walls), func(i, j int) { walls[i], walls[j] = walls[j], walls[i] })

	return &kruskal{grid: grid, walls: walls, sets: newCellSets(grid.Len())}
}

func (k *kruskal) next() (carve, bool) {
	for k.cursor < len(k.walls) {
		w := k.walls[k.cursor]
		k.cursor++
		if k.sets.connect(k.grid.Index(w.a), k.grid.Index(w.b)) {
			return carve{from: w.a, to: w.b}, true
		}
	}
	return carve{}, false
}
