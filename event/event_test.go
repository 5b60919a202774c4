package event

import (
	"errors"
	"testing"

	"github.com/beka-birhanu/mazeworks/maze"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	step := Event{
		Type: Step,
		Changes: []maze.Change{
			{Pos: maze.CellPosition{Row: 0, Col: 0}, State: maze.Visited},
			{Pos: maze.CellPosition{Row: 0, Col: 1}, State: maze.Frontier},
		},
	}
	backtrack := Event{Type: Step, Backtrack: true}
	done := Event{Type: Completed}

	t.Run("show all", func(t *testing.T) {
		e, ok := ShowAll.Apply(step)
		assert.True(t, ok)
		assert.Len(t, e.Changes, 2)
		_, ok = ShowAll.Apply(backtrack)
		assert.True(t, ok)
	})

	t.Run("hidden steps still complete", func(t *testing.T) {
		f := Filter{}
		_, ok := f.Apply(step)
		assert.False(t, ok)
		_, ok = f.Apply(done)
		assert.True(t, ok)
		_, ok = f.Apply(Event{Type: Failed, Err: errors.New("boom")})
		assert.True(t, ok)
	})

	t.Run("tracer and backtracks", func(t *testing.T) {
		f := Filter{ShowSteps: true}
		e, ok := f.Apply(step)
		assert.True(t, ok)
		assert.Equal(t, []maze.Change{{Pos: maze.CellPosition{Row: 0, Col: 0}, State: maze.Visited}}, e.Changes)
		assert.Len(t, step.Changes, 2, "input event is not modified")
		_, ok = f.Apply(backtrack)
		assert.False(t, ok)
	})
}

func TestMultiAndRecorder(t *testing.T) {
	first, second := &Recorder{}, &Recorder{}
	sink := Multi(first, Discard, second)

	sink.Publish(Event{Kind: Solve, Type: Step})
	sink.Publish(Event{Kind: Solve, Type: Completed})

	assert.Len(t, first.Events(), 2)
	assert.Equal(t, first.Events(), second.Events())
	assert.Equal(t, "solve", first.Events()[0].Kind.String())
	assert.Equal(t, "completed", first.Events()[1].Type.String())
}
