package solver

import (
	"math"

	"github.com/beka-birhanu/mazeworks/maze"
)

// Heuristic returns the estimated cost from one cell to another.
type Heuristic func(from, to maze.CellPosition) float64

func deltas(a, b maze.CellPosition) (float64, float64) {
	return math.Abs(float64(a.Row - b.Row)), math.Abs(float64(a.Col - b.Col))
}

// Manhattan is exact on an open grid with 4-way moves.
func Manhattan(a, b maze.CellPosition) float64 {
	dr, dc := deltas(a, b)
	return dr + dc
}

// Chebyshev never exceeds Manhattan, so it stays admissible with weaker guidance.
func Chebyshev(a, b maze.CellPosition) float64 {
	dr, dc := deltas(a, b)
	return math.Max(dr, dc)
}

// Octile is the diagonal-move distance: straight part plus √2 per diagonal.
// It lies between Chebyshev and Manhattan.
func Octile(a, b maze.CellPosition) float64 {
	dr, dc := deltas(a, b)
	lo, hi := math.Min(dr, dc), math.Max(dr, dc)
	return (hi - lo) + math.Sqrt2*lo
}
