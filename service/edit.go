package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beka-birhanu/mazeworks/maze"
)

var ErrUnknownEditAction = errors.New("unknown edit action")

// EditAction is what a manual edit does to one wall.
type EditAction int

const (
	EditOpen EditAction = iota
	EditClose
	EditToggle
)

func (a EditAction) String() string {
	switch a {
	case EditOpen:
		return "open"
	case EditClose:
		return "close"
	case EditToggle:
		return "toggle"
	}
	return fmt.Sprintf("EditAction(%d)", int(a))
}

// ParseEditAction maps "open", "close" or "toggle" to an EditAction.
func ParseEditAction(s string) (EditAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return EditOpen, nil
	case "close":
		return EditClose, nil
	case "toggle":
		return EditToggle, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEditAction, s)
}

// PaintMode is the brush of an interactive editor.
type PaintMode int

const (
	PaintErase PaintMode = iota // removes walls
	PaintBuild                  // adds walls
)

func (m PaintMode) String() string {
	if m == PaintBuild {
		return "build"
	}
	return "erase"
}

// Edit applies action to the wall on side dir of pos and returns whether the
// wall stands afterwards. Border walls cannot be edited. Edits are rejected
// with ErrRunInProgress while a run owns the grid.
func (e *Engine) Edit(pos maze.CellPosition, dir maze.Direction, action EditAction) (bool, error) {
	e.control.Lock()
	defer e.control.Unlock()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return false, ErrRunInProgress
	}
	if !e.grid.InBound(pos) {
		return false, fmt.Errorf("edit %s: %w", pos, maze.ErrOutOfBounds)
	}
	if !dir.Valid() {
		return false, fmt.Errorf("edit %s: %w: %d", pos, maze.ErrUnknownDirection, int(dir))
	}
	other := pos.Step(dir)

	wall, err := e.grid.WallBetween(pos, other)
	if err != nil {
		return false, fmt.Errorf("edit %s %s: %w", pos, dir, err)
	}

	switch action {
	case EditOpen:
		wall = false
	case EditClose:
		wall = true
	case EditToggle:
		wall = !wall
	default:
		return false, fmt.Errorf("%w: %d", ErrUnknownEditAction, int(action))
	}

	if wall {
		err = e.grid.CloseWall(pos, other)
	} else {
		err = e.grid.OpenWall(pos, other)
	}
	if err != nil {
		return false, err
	}
	e.logger.Debug("wall edited", "pos", pos, "dir", dir, "action", action, "wall", wall)
	return wall, nil
}

// Paint is Edit driven by a brush: erase opens the wall, build closes it.
func (e *Engine) Paint(pos maze.CellPosition, dir maze.Direction, mode PaintMode) (bool, error) {
	action := EditOpen
	if mode == PaintBuild {
		action = EditClose
	}
	return e.Edit(pos, dir, action)
}

// ResetFill clears search highlights and fill flags, leaving walls alone.
func (e *Engine) ResetFill() error {
	e.control.Lock()
	defer e.control.Unlock()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return ErrRunInProgress
	}
	e.grid.ResetSearchState()
	e.grid.FillAll(false)
	return nil
}
