/*
Package maze provides the rectangular grid that generators carve and solvers search.

It defines the `Grid` structure, a dense row-major slice of `Cell` values that carry the four
wall flags plus the search metadata of the current run (state tag, cost and an arena-indexed
parent reference).

Walls are always mutated in pairs so that a wall seen from one side matches the wall seen from
the neighbour, and the outer border stays closed. Utility functions enable neighbour detection,
passage lookup and ASCII visualization of the maze.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultMaxDimension caps rows and columns when no explicit cap is given.
	DefaultMaxDimension = 200
)

var (
	ErrInvalidDimension = errors.New("invalid maze dimension")
	ErrNotAdjacent      = errors.New("cells are not adjacent")
	ErrOutOfBounds      = errors.New("cell is out of the maze")
	ErrAsymmetricWall   = errors.New("asymmetric wall")
	ErrUnknownDirection = errors.New("unknown direction")
)

// Grid represents a rectangular maze consisting of cells with walls and search metadata.
type Grid struct {
	rows         int    // number of rows
	cols         int    // number of columns
	maxDimension int    // upper bound accepted by Resize
	cells        []Cell // row-major cell storage
}

// New initializes a fully walled grid of the given dimensions.
// A non-positive maxDimension selects DefaultMaxDimension.
func New(rows, cols, maxDimension int) (*Grid, error) {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	g := &Grid{maxDimension: maxDimension}
	if err := g.Resize(rows, cols); err != nil {
		return nil, err
	}
	return g, nil
}

// ValidateDimensions checks rows and cols against (0, maxDimension].
func ValidateDimensions(rows, cols, maxDimension int) error {
	if min(rows, cols) <= 0 || max(rows, cols) > maxDimension {
		return fmt.Errorf("%w: %dx%d (allowed 1..%d)", ErrInvalidDimension, rows, cols, maxDimension)
	}
	return nil
}

// Resize discards every cell and reallocates a fully walled grid.
// On error the grid is left untouched.
func (g *Grid) Resize(rows, cols int) error {
	if err := ValidateDimensions(rows, cols, g.maxDimension); err != nil {
		return err
	}

	cells := make([]Cell, rows*cols)
	for i := range cells {
		cells[i] = newWalledCell()
	}
	g.rows, g.cols, g.cells = rows, cols, cells
	return nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// MaxDimension returns the cap applied by Resize.
func (g *Grid) MaxDimension() int { return g.maxDimension }

// InBound reports whether pos lies inside the grid.
func (g *Grid) InBound(pos CellPosition) bool {
	return pos.Row >= 0 && pos.Row < g.rows && pos.Col >= 0 && pos.Col < g.cols
}

// Index returns the flat index of pos. The position must be in bounds.
func (g *Grid) Index(pos CellPosition) int {
	return pos.Row*g.cols + pos.Col
}

// Position is the inverse of Index.
func (g *Grid) Position(index int) CellPosition {
	return CellPosition{Row: index / g.cols, Col: index % g.cols}
}

// Cell returns a copy of the cell at pos.
func (g *Grid) Cell(pos CellPosition) (Cell, error) {
	if !g.InBound(pos) {
		return Cell{}, fmt.Errorf("%w: %s", ErrOutOfBounds, pos)
	}
	return g.cells[g.Index(pos)], nil
}

// at returns the live cell; callers check bounds first.
func (g *Grid) at(pos CellPosition) *Cell {
	return &g.cells[g.Index(pos)]
}

// adjacency resolves the direction from a to b, rejecting anything but in-bound neighbours.
func (g *Grid) adjacency(a, b CellPosition) (Direction, error) {
	if !g.InBound(a) || !g.InBound(b) {
		return 0, fmt.Errorf("%w: %s-%s", ErrNotAdjacent, a, b)
	}
	d, ok := a.DirectionTo(b)
	if !ok {
		return 0, fmt.Errorf("%w: %s-%s", ErrNotAdjacent, a, b)
	}
	return d, nil
}

// WallBetween reports whether the wall separating two adjacent cells is closed.
func (g *Grid) WallBetween(a, b CellPosition) (bool, error) {
	d, err := g.adjacency(a, b)
	if err != nil {
		return false, err
	}
	return g.at(a).HasWall(d), nil
}

// OpenWall removes the wall between two adjacent cells on both sides.
func (g *Grid) OpenWall(a, b CellPosition) error {
	return g.setWallBetween(a, b, false)
}

// CloseWall builds the wall between two adjacent cells on both sides.
func (g *Grid) CloseWall(a, b CellPosition) error {
	return g.setWallBetween(a, b, true)
}

func (g *Grid) setWallBetween(a, b CellPosition, wall bool) error {
	d, err := g.adjacency(a, b)
	if err != nil {
		return err
	}
	g.at(a).setWall(d, wall)
	g.at(b).setWall(d.Opposite(), wall)
	return nil
}

// Neighbors finds all in-bound neighbours of pos in North, East, South, West order.
func (g *Grid) Neighbors(pos CellPosition) []CellPosition {
	result := make([]CellPosition, 0, 4)
	for _, d := range Directions {
		n := pos.Step(d)
		if g.InBound(n) {
			result = append(result, n)
		}
	}
	return result
}

// Passages returns the neighbours of pos reachable through an open wall.
func (g *Grid) Passages(pos CellPosition) []CellPosition {
	result := make([]CellPosition, 0, 4)
	if !g.InBound(pos) {
		return result
	}
	cell := g.at(pos)
	for _, d := range Directions {
		n := pos.Step(d)
		if g.InBound(n) && !cell.HasWall(d) {
			result = append(result, n)
		}
	}
	return result
}

// CloseAll rebuilds every wall without touching search state.
func (g *Grid) CloseAll() {
	for i := range g.cells {
		c := &g.cells[i]
		c.NorthWall, c.EastWall, c.SouthWall, c.WestWall = true, true, true, true
	}
}

// OpenAll removes every interior wall. Border walls stay closed.
func (g *Grid) OpenAll() {
	for i := range g.cells {
		pos := g.Position(i)
		c := &g.cells[i]
		c.NorthWall = pos.Row == 0
		c.SouthWall = pos.Row == g.rows-1
		c.WestWall = pos.Col == 0
		c.EastWall = pos.Col == g.cols-1
	}
}

// SetFilled marks or clears the fill flag of a cell.
func (g *Grid) SetFilled(pos CellPosition, filled bool) error {
	if !g.InBound(pos) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, pos)
	}
	g.at(pos).Filled = filled
	return nil
}

// FillAll sets the fill flag of every cell.
func (g *Grid) FillAll(filled bool) {
	for i := range g.cells {
		g.cells[i].Filled = filled
	}
}

// ResetSearchState clears tags, costs and parents. Walls are untouched.
func (g *Grid) ResetSearchState() {
	for i := range g.cells {
		g.cells[i].clearSearch()
	}
}

// Tag sets the search state of a cell.
func (g *Grid) Tag(pos CellPosition, state SearchState) {
	g.at(pos).State = state
}

// Visit records cost and parent for a cell discovered by a search.
func (g *Grid) Visit(pos CellPosition, state SearchState, cost float64, parent int) {
	c := g.at(pos)
	c.State, c.Cost, c.Parent = state, cost, parent
}

// OpenPassageCount counts the open walls between adjacent cells.
func (g *Grid) OpenPassageCount() int {
	open := 0
	for i := range g.cells {
		pos := g.Position(i)
		c := &g.cells[i]
		if pos.Col < g.cols-1 && !c.EastWall {
			open++
		}
		if pos.Row < g.rows-1 && !c.SouthWall {
			open++
		}
	}
	return open
}

// CheckSymmetry verifies that both sides of every wall agree and the border is closed.
func (g *Grid) CheckSymmetry() error {
	for i := range g.cells {
		pos := g.Position(i)
		c := &g.cells[i]
		for _, d := range Directions {
			n := pos.Step(d)
			if !g.InBound(n) {
				if !c.HasWall(d) {
					return fmt.Errorf("%w: border of %s open to the %s", ErrAsymmetricWall, pos, d)
				}
				continue
			}
			if c.HasWall(d) != g.at(n).HasWall(d.Opposite()) {
				return fmt.Errorf("%w: %s-%s", ErrAsymmetricWall, pos, n)
			}
		}
	}
	return nil
}

// Walls returns a fingerprint of the wall layout: for every cell, in row-major
// order, whether the east and south walls are closed.
func (g *Grid) Walls() []bool {
	walls := make([]bool, 0, 2*len(g.cells))
	for i := range g.cells {
		walls = append(walls, g.cells[i].EastWall, g.cells[i].SouthWall)
	}
	return walls
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{rows: g.rows, cols: g.cols, maxDimension: g.maxDimension, cells: cells}
}

// String provides a textual representation of the maze.
func (g *Grid) String() string {
	return g.Render(func(c Cell) string { return "   " })
}

// Render draws the maze with each cell interior produced by paint (three runes wide).
func (g *Grid) Render(paint func(Cell) string) string {
	var output strings.Builder

	// Top boundary
	output.WriteString("+")
	for col := 0; col < g.cols; col++ {
		if g.cells[col].NorthWall {
			output.WriteString("---+")
		} else {
			output.WriteString("   +")
		}
	}
	output.WriteString("\n")

	for row := 0; row < g.rows; row++ {
		// Cell rows
		if g.cells[row*g.cols].WestWall {
			output.WriteString("|")
		} else {
			output.WriteString(" ")
		}
		for col := 0; col < g.cols; col++ {
			cell := g.cells[row*g.cols+col]
			output.WriteString(paint(cell))
			if cell.EastWall {
				output.WriteString("|")
			} else {
				output.WriteString(" ")
			}
		}
		output.WriteString("\n")

		// Wall rows
		output.WriteString("+")
		for col := 0; col < g.cols; col++ {
			if g.cells[row*g.cols+col].SouthWall {
				output.WriteString("---+")
			} else {
				output.WriteString("   +")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}
