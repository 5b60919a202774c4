// Package event defines what the engine tells a renderer while a run progresses.
package event

import (
	"fmt"
	"sync"

	"github.com/beka-birhanu/mazeworks/maze"
	"github.com/google/uuid"
)

// Kind names the run family an event belongs to.
type Kind int

const (
	Generate Kind = iota
	Solve
)

func (k Kind) String() string {
	switch k {
	case Generate:
		return "generate"
	case Solve:
		return "solve"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Type distinguishes step, completion and failure events.
type Type int

const (
	Step Type = iota
	Completed
	Failed
	Cancelled
)

func (t Type) String() string {
	switch t {
	case Step:
		return "step"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Event is one notification from a running generation or solve.
type Event struct {
	RunID     uuid.UUID
	Kind      Kind
	Type      Type
	Changes   []maze.Change       // cells tagged by a step
	Backtrack bool                // the step only retreated
	Path      []maze.CellPosition // set on a completed solve
	Err       error               // set on Failed
}

// Sink receives events. Publish is called from the run's worker goroutine and
// must return before the next step starts.
type Sink interface {
	Publish(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

// Publish calls f(e).
func (f SinkFunc) Publish(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Multi fans events out to several sinks in order.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(e Event) {
		for _, s := range sinks {
			s.Publish(e)
		}
	})
}

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish appends e.
func (r *Recorder) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Filter decides which step events reach the sink. Completion and failure
// events always pass.
type Filter struct {
	ShowSteps      bool // forward step events at all
	ShowTracer     bool // keep frontier highlights
	ShowBacktracks bool // forward retreat steps
}

// ShowAll forwards everything.
var ShowAll = Filter{ShowSteps: true, ShowTracer: true, ShowBacktracks: true}

// Apply returns the event to forward and whether to forward it.
func (f Filter) Apply(e Event) (Event, bool) {
	if e.Type != Step {
		return e, true
	}
	if !f.ShowSteps {
		return e, false
	}
	if e.Backtrack && !f.ShowBacktracks {
		return e, false
	}
	if !f.ShowTracer {
		kept := make([]maze.Change, 0, len(e.Changes))
		for _, c := range e.Changes {
			if c.State != maze.Frontier {
				kept = append(kept, c)
			}
		}
		e.Changes = kept
	}
	return e, true
}
