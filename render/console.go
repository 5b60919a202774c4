// Package render draws engine events on a terminal.
package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/beka-birhanu/mazeworks/config"
	"github.com/beka-birhanu/mazeworks/event"
	"github.com/beka-birhanu/mazeworks/maze"
)

// Console is an event.Sink that prints the maze as ASCII art.
type Console struct {
	w        io.Writer
	snapshot func() *maze.Grid
	inverse  bool
	color    bool
	animate  bool
	mu       sync.Mutex
}

// Options controls how a Console draws.
type Options struct {
	Color         bool // ANSI colours for search states
	InverseColors bool // reverse video for the whole drawing
	Animate       bool // redraw after every forwarded step
}

// NewConsole returns a console that reads the grid through snapshot, usually
// Engine.Snapshot.
func NewConsole(w io.Writer, snapshot func() *maze.Grid, opts Options) *Console {
	return &Console{
		w:        w,
		snapshot: snapshot,
		inverse:  opts.InverseColors,
		color:    opts.Color,
		animate:  opts.Animate,
	}
}

// Publish implements event.Sink.
func (c *Console) Publish(e event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e.Type {
	case event.Step:
		if !c.animate {
			return
		}
		if c.color {
			fmt.Fprint(c.w, config.ClearScreen)
		}
		fmt.Fprint(c.w, c.Draw(c.snapshot()))
	case event.Completed:
		fmt.Fprint(c.w, c.Draw(c.snapshot()))
		if e.Kind == event.Solve {
			c.status(config.LogInfoColor, "DONE", fmt.Sprintf("%s path of %d cells", e.Kind, len(e.Path)))
		} else {
			c.status(config.LogInfoColor, "DONE", e.Kind.String())
		}
	case event.Failed:
		fmt.Fprint(c.w, c.Draw(c.snapshot()))
		c.status(config.LogErrorColor, "FAILED", fmt.Sprintf("%s: %v", e.Kind, e.Err))
	case event.Cancelled:
		c.status(config.LogErrorColor, "CANCELLED", e.Kind.String())
	}
}

func (c *Console) status(color, label, msg string) {
	if c.color {
		fmt.Fprintf(c.w, "%s[%s]%s %s\n", color, label, config.LogColorReset, msg)
		return
	}
	fmt.Fprintf(c.w, "[%s] %s\n", label, msg)
}

// Draw renders grid with its search states painted into the cells.
func (c *Console) Draw(grid *maze.Grid) string {
	out := grid.Render(c.paint)
	if c.inverse {
		out = config.ColorInverse + out + config.ColorReset
	}
	return out
}

var glyphs = map[maze.SearchState]string{
	maze.Unvisited:   "   ",
	maze.Frontier:    " + ",
	maze.Visited:     " . ",
	maze.Backtracked: " x ",
	maze.OnPath:      " * ",
}

var colors = map[maze.SearchState]string{
	maze.Frontier:    config.ColorYellow,
	maze.Visited:     config.ColorBlue,
	maze.Backtracked: config.ColorMagenta,
	maze.OnPath:      config.ColorGreen,
}

func (c *Console) paint(cell maze.Cell) string {
	if cell.Filled {
		return "###"
	}
	glyph := glyphs[cell.State]
	if color, ok := colors[cell.State]; ok && c.color {
		reset := config.ColorReset
		if c.inverse {
			reset += config.ColorInverse
		}
		return color + glyph + reset
	}
	return glyph
}
