package solver

import (
	"container/heap"
	"math"
	"math/rand"
	"testing"

	"github.com/beka-birhanu/mazeworks/generator"
	"github.com/beka-birhanu/mazeworks/maze"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allAlgorithms = []Algorithm{DFS, BFS, Dijkstra, GreedyBestFirst, AStarManhattan, AStarChebyshev, AStarOctile}

func pos(row, col int) maze.CellPosition { return maze.CellPosition{Row: row, Col: col} }

func generated(t *testing.T, rows, cols int, seed int64) *maze.Grid {
	t.Helper()
	g, err := maze.New(rows, cols, 0)
	require.NoError(t, err)
	require.NoError(t, generator.Run(g, generator.Options{Algorithm: generator.RecursiveBacktracker, Seed: seed}))
	return g
}

// braid opens extra walls so that several routes exist.
func braid(t *testing.T, g *maze.Grid, seed int64, extra int) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	for opened := 0; opened < extra; {
		p := pos(rng.Intn(g.Rows()), rng.Intn(g.Cols()))
		neighbors := g.Neighbors(p)
		n := neighbors[rng.Intn(len(neighbors))]
		wall, err := g.WallBetween(p, n)
		require.NoError(t, err)
		if wall {
			require.NoError(t, g.OpenWall(p, n))
			opened++
		}
	}
}

func requireValidPath(t *testing.T, g *maze.Grid, path []maze.CellPosition, start, goal maze.CellPosition) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, start, path[0])
	assert.Equal(t, goal, path[len(path)-1])
	for i := 1; i < len(path); i++ {
		wall, err := g.WallBetween(path[i-1], path[i])
		require.NoError(t, err)
		require.False(t, wall, "path crosses a wall between %s and %s", path[i-1], path[i])
	}
	for _, p := range path {
		c, err := g.Cell(p)
		require.NoError(t, err)
		assert.Equal(t, maze.OnPath, c.State)
	}
}

func TestShortestPathOptimality(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4} {
		g := generated(t, 12, 12, seed)
		braid(t, g, seed, 25)
		start, goal := pos(0, 0), pos(11, 11)

		shortest, err := Solve(g, Options{Algorithm: BFS, Start: start, Goal: goal})
		require.NoError(t, err)
		requireValidPath(t, g, shortest, start, goal)

		for _, algo := range allAlgorithms {
			path, err := Solve(g, Options{Algorithm: algo, Start: start, Goal: goal})
			require.NoError(t, err, "seed %d algo %s", seed, algo)
			requireValidPath(t, g, path, start, goal)
			if algo.Optimal() {
				assert.Len(t, path, len(shortest), "seed %d algo %s", seed, algo)
			} else {
				assert.GreaterOrEqual(t, len(path), len(shortest), "seed %d algo %s", seed, algo)
			}
		}
	}
}

func TestScenarioBFSMatchesAStar(t *testing.T) {
	g := generated(t, 5, 5, 1)

	bfs, err := Solve(g, Options{Algorithm: BFS, Start: pos(0, 0), Goal: pos(4, 4)})
	require.NoError(t, err)
	astar, err := Solve(g, Options{Algorithm: AStarManhattan, Start: pos(0, 0), Goal: pos(4, 4)})
	require.NoError(t, err)

	assert.Len(t, astar, len(bfs))
	// a perfect maze has a single route
	assert.Empty(t, cmp.Diff(bfs, astar))
}

func TestNoPathFound(t *testing.T) {
	for _, algo := range allAlgorithms {
		t.Run(algo.String(), func(t *testing.T) {
			g := generated(t, 5, 5, 1)
			goal := pos(4, 4)
			for _, n := range g.Neighbors(goal) {
				require.NoError(t, g.CloseWall(goal, n))
			}

			s, err := New(g, Options{Algorithm: algo, Start: pos(0, 0), Goal: goal})
			require.NoError(t, err)
			var res maze.StepResult
			for !res.Completed {
				res, err = s.Step()
			}
			assert.ErrorIs(t, err, ErrNoPathFound)
			assert.Nil(t, s.Path())

			// the explored region stays visible
			c, cellErr := g.Cell(pos(0, 0))
			require.NoError(t, cellErr)
			assert.NotEqual(t, maze.Unvisited, c.State)

			// repeated steps keep reporting the same outcome
			res, err = s.Step()
			assert.True(t, res.Completed)
			assert.ErrorIs(t, err, ErrNoPathFound)
		})
	}
}

func TestDepthFirstBacktracks(t *testing.T) {
	g, err := maze.New(2, 3, 0)
	require.NoError(t, err)
	for _, w := range [][2]maze.CellPosition{
		{pos(0, 0), pos(0, 1)},
		{pos(0, 1), pos(0, 2)},
		{pos(0, 0), pos(1, 0)},
		{pos(1, 0), pos(1, 1)},
		{pos(1, 1), pos(1, 2)},
	} {
		require.NoError(t, g.OpenWall(w[0], w[1]))
	}

	s, err := New(g, Options{Algorithm: DFS, Start: pos(0, 0), Goal: pos(1, 2)})
	require.NoError(t, err)

	var backtracked []maze.CellPosition
	for {
		res, err := s.Step()
		require.NoError(t, err)
		if res.Backtrack {
			backtracked = append(backtracked, res.Changes[0].Pos)
		}
		if res.Completed {
			break
		}
	}

	assert.Equal(t, []maze.CellPosition{pos(0, 2), pos(0, 1)}, backtracked)
	assert.Equal(t, []maze.CellPosition{pos(0, 0), pos(1, 0), pos(1, 1), pos(1, 2)}, s.Path())
	c, err := g.Cell(pos(0, 1))
	require.NoError(t, err)
	assert.Equal(t, maze.Backtracked, c.State)
}

func TestTagsDuringSearch(t *testing.T) {
	g, err := maze.New(3, 3, 0)
	require.NoError(t, err)
	g.OpenAll()

	s, err := New(g, Options{Algorithm: BFS, Start: pos(1, 1), Goal: pos(0, 0)})
	require.NoError(t, err)

	res, err := s.Step()
	require.NoError(t, err)
	assert.Equal(t, []maze.Change{{Pos: pos(1, 1), State: maze.Frontier}}, res.Changes)

	res, err = s.Step()
	require.NoError(t, err)
	assert.Equal(t, []maze.Change{
		{Pos: pos(1, 1), State: maze.Visited},
		{Pos: pos(0, 1), State: maze.Frontier},
		{Pos: pos(1, 2), State: maze.Frontier},
		{Pos: pos(2, 1), State: maze.Frontier},
		{Pos: pos(1, 0), State: maze.Frontier},
	}, res.Changes)
	c, err := g.Cell(pos(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Cost)
	assert.Equal(t, g.Index(pos(1, 1)), c.Parent)
}

func TestOpenGridDepthFirstOrder(t *testing.T) {
	g, err := maze.New(3, 3, 0)
	require.NoError(t, err)
	g.OpenAll()

	path, err := Solve(g, Options{Algorithm: DFS, Start: pos(0, 0), Goal: pos(2, 2)})
	require.NoError(t, err)
	assert.Equal(t, []maze.CellPosition{pos(0, 0), pos(0, 1), pos(0, 2), pos(1, 2), pos(2, 2)}, path)
}

func TestStartIsGoal(t *testing.T) {
	for _, algo := range allAlgorithms {
		g := generated(t, 3, 3, 4)
		path, err := Solve(g, Options{Algorithm: algo, Start: pos(1, 1), Goal: pos(1, 1)})
		require.NoError(t, err)
		assert.Equal(t, []maze.CellPosition{pos(1, 1)}, path)
	}
}

func TestCorruptParentChain(t *testing.T) {
	g, err := maze.New(1, 3, 0)
	require.NoError(t, err)
	g.OpenAll()

	s, err := New(g, Options{Algorithm: BFS, Start: pos(0, 0), Goal: pos(0, 2)})
	require.NoError(t, err)
	_, err = s.Step() // seed the queue
	require.NoError(t, err)
	_, err = s.Step() // expand (0,0), discover (0,1)
	require.NoError(t, err)

	// point (0,1) at itself
	g.Visit(pos(0, 1), maze.Frontier, 1, g.Index(pos(0, 1)))

	var res maze.StepResult
	for !res.Completed {
		res, err = s.Step()
		if err != nil {
			break
		}
	}
	assert.ErrorIs(t, err, ErrCorruptParentChain)
}

func TestNewValidation(t *testing.T) {
	g, err := maze.New(2, 2, 0)
	require.NoError(t, err)

	_, err = New(g, Options{Algorithm: BFS, Start: pos(0, 0), Goal: pos(2, 0)})
	assert.ErrorIs(t, err, maze.ErrOutOfBounds)

	_, err = New(g, Options{Algorithm: Algorithm(99)})
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestParseAlgorithm(t *testing.T) {
	for _, algo := range allAlgorithms {
		parsed, err := ParseAlgorithm(algo.String())
		require.NoError(t, err)
		assert.Equal(t, algo, parsed)
	}

	parsed, err := ParseAlgorithm(" A* ")
	require.NoError(t, err)
	assert.Equal(t, AStarManhattan, parsed)

	_, err = ParseAlgorithm("ida")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestHeuristics(t *testing.T) {
	a, b := pos(0, 0), pos(3, 4)

	assert.Equal(t, 7.0, Manhattan(a, b))
	assert.Equal(t, 4.0, Chebyshev(a, b))
	assert.InDelta(t, 1+3*math.Sqrt2, Octile(a, b), 1e-9)

	// admissible: never above the 4-way distance
	for _, h := range []Heuristic{Manhattan, Chebyshev, Octile} {
		assert.LessOrEqual(t, h(a, b), Manhattan(a, b))
		assert.Equal(t, h(a, b), h(b, a))
		assert.Zero(t, h(b, b))
	}
}

func TestPriorityQueueTieBreak(t *testing.T) {
	queue := make(priorityQueue, 0)
	heap.Init(&queue)
	for seq, prio := range []float64{2, 1, 2, 1, 0} {
		heap.Push(&queue, &queueItem{Index: seq, Priority: prio, Seq: seq})
	}

	var order []int
	for queue.Len() > 0 {
		order = append(order, heap.Pop(&queue).(*queueItem).Index)
	}
	assert.Equal(t, []int{4, 1, 3, 0, 2}, order)
}

func TestExpandedCounter(t *testing.T) {
	g, err := maze.New(1, 4, 0)
	require.NoError(t, err)
	g.OpenAll()

	s, err := New(g, Options{Algorithm: Dijkstra, Start: pos(0, 0), Goal: pos(0, 3)})
	require.NoError(t, err)
	for {
		res, err := s.Step()
		require.NoError(t, err)
		if res.Completed {
			break
		}
	}
	assert.Equal(t, 4, s.Expanded())
	assert.Len(t, s.Path(), 4)
}
