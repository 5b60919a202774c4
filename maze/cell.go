package maze

import "fmt"

// NoParent marks a cell without a parent reference.
const NoParent = -1

// Direction names one of the four sides of a cell.
type Direction int

// Directions in the fixed order used by every neighbour scan.
const (
	North Direction = iota
	East
	South
	West
)

// Directions lists all sides in scan order.
var Directions = [4]Direction{North, East, South, West}

var directionDeltas = [4]CellPosition{
	North: {Row: -1, Col: 0},
	East:  {Row: 0, Col: 1},
	South: {Row: 1, Col: 0},
	West:  {Row: 0, Col: -1},
}

// Valid reports whether d is one of the four sides.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// Delta returns the row/col offset of a step in direction d. d must be valid.
func (d Direction) Delta() CellPosition {
	return directionDeltas[d]
}

// Opposite returns the direction facing back.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection accepts the full name or the first letter, any case.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "North", "north", "N", "n":
		return North, nil
	case "East", "east", "E", "e":
		return East, nil
	case "South", "south", "S", "s":
		return South, nil
	case "West", "west", "W", "w":
		return West, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// SearchState tags a cell with its role in the current run.
type SearchState uint8

const (
	Unvisited SearchState = iota
	Frontier
	Visited
	Backtracked
	OnPath
)

func (s SearchState) String() string {
	switch s {
	case Unvisited:
		return "unvisited"
	case Frontier:
		return "frontier"
	case Visited:
		return "visited"
	case Backtracked:
		return "backtracked"
	case OnPath:
		return "on-path"
	}
	return fmt.Sprintf("SearchState(%d)", uint8(s))
}

// Cell represents a single cell in a maze grid.
// It includes properties for walls on each side and the search metadata of the current run.
type Cell struct {
	NorthWall bool        // NorthWall indicates whether there is a wall on the north side of the cell.
	EastWall  bool        // EastWall indicates whether there is a wall on the east side of the cell.
	SouthWall bool        // SouthWall indicates whether there is a wall on the south side of the cell.
	WestWall  bool        // WestWall indicates whether there is a wall on the west side of the cell.
	Filled    bool        // Filled marks a cell not yet claimed by a fill-mode generator.
	State     SearchState // State is the search-state tag.
	Cost      float64     // Cost is the accumulated distance assigned by a search.
	Parent    int         // Parent is the flat index of the predecessor, or NoParent.
}

func newWalledCell() Cell {
	return Cell{
		NorthWall: true,
		EastWall:  true,
		SouthWall: true,
		WestWall:  true,
		Parent:    NoParent,
	}
}

// HasWall reports whether the side d is walled.
func (c *Cell) HasWall(d Direction) bool {
	switch d {
	case North:
		return c.NorthWall
	case East:
		return c.EastWall
	case South:
		return c.SouthWall
	default:
		return c.WestWall
	}
}

func (c *Cell) setWall(d Direction, wall bool) {
	switch d {
	case North:
		c.NorthWall = wall
	case East:
		c.EastWall = wall
	case South:
		c.SouthWall = wall
	default:
		c.WestWall = wall
	}
}

func (c *Cell) clearSearch() {
	c.State = Unvisited
	c.Cost = 0
	c.Parent = NoParent
}

// CellPosition represents the position of a cell in the maze grid.
type CellPosition struct {
	Row int // Row index of the cell
	Col int // Column index of the cell
}

// Step returns the position one cell away in direction d.
func (p CellPosition) Step(d Direction) CellPosition {
	delta := d.Delta()
	return CellPosition{Row: p.Row + delta.Row, Col: p.Col + delta.Col}
}

// DirectionTo returns the direction from p to an adjacent cell q.
func (p CellPosition) DirectionTo(q CellPosition) (Direction, bool) {
	for _, d := range Directions {
		if p.Step(d) == q {
			return d, true
		}
	}
	return 0, false
}

func (p CellPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Change records a cell whose tag changed during one step.
type Change struct {
	Pos   CellPosition
	State SearchState
}

// StepResult is what a single generator or solver step produced.
type StepResult struct {
	Changes   []Change // Changes lists the cells touched by the step with their new tags.
	Backtrack bool     // Backtrack marks a step that only retreated.
	Completed bool     // Completed is set on the final step.
}
