package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/beka-birhanu/mazeworks/event"
	"github.com/beka-birhanu/mazeworks/generator"
	"github.com/beka-birhanu/mazeworks/maze"
	"github.com/beka-birhanu/mazeworks/service/i"
	"github.com/beka-birhanu/mazeworks/solver"
	"github.com/google/uuid"
)

const (
	MaxSpeed         = 50
	DefaultDelayUnit = 2 * time.Millisecond
)

var (
	ErrInvalidCancelSequence = errors.New("run started before the previous run was reset")
	ErrRunInProgress         = errors.New("a run is in progress")
	ErrInvalidSpeed          = errors.New("speed out of range")
)

// RunState is the lifecycle of one run family.
type RunState int

const (
	Idle RunState = iota
	Running
	CancelRequested
	Resetting
)

func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case CancelRequested:
		return "cancel-requested"
	case Resetting:
		return "resetting"
	}
	return fmt.Sprintf("RunState(%d)", int(s))
}

// Config holds what an Engine needs at construction.
type Config struct {
	Rows         int
	Cols         int
	MaxDimension int           // <= 0 selects maze.DefaultMaxDimension
	DelayUnit    time.Duration // delay per speed unit; 0 selects DefaultDelayUnit
	Logger       *slog.Logger
	Sink         event.Sink
}

// GenerateOptions configures one generation run.
type GenerateOptions struct {
	Algorithm      generator.Algorithm
	Mode           generator.WallMode
	Seed           int64
	ForceTurns     bool
	Start          *maze.CellPosition
	Speed          int
	ShowSteps      bool
	ShowBacktracks bool
}

func (o GenerateOptions) filter() event.Filter {
	return event.Filter{ShowSteps: o.ShowSteps, ShowTracer: true, ShowBacktracks: o.ShowBacktracks}
}

// SolveOptions configures one solve run. Nil endpoints default to the top-left
// and bottom-right cells.
type SolveOptions struct {
	Algorithm      solver.Algorithm
	Start          *maze.CellPosition
	Goal           *maze.CellPosition
	Speed          int
	ShowSteps      bool
	ShowTracer     bool
	ShowBacktracks bool
}

func (o SolveOptions) filter() event.Filter {
	return event.Filter{ShowSteps: o.ShowSteps, ShowTracer: o.ShowTracer, ShowBacktracks: o.ShowBacktracks}
}

func validateSpeed(speed int) error {
	if speed < 0 || speed > MaxSpeed {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidSpeed, speed, MaxSpeed)
	}
	return nil
}

// run is one active generation or solve.
type run struct {
	id      uuid.UUID
	kind    event.Kind
	stepper i.Stepper
	filter  event.Filter
	delay   time.Duration
	path    func() []maze.CellPosition
	stats   func() []any
	cancel  context.CancelFunc
	done    chan struct{}
	logger  *slog.Logger
}

// Engine owns the grid and executes at most one run against it at a time.
// Callers never block on animation: steps run on a background goroutine that
// reports to the configured sink.
type Engine struct {
	control sync.Mutex // serialises starts, resizes and edits

	mu     sync.Mutex // guards everything below
	grid   *maze.Grid
	active *run
	latest [2]*run // most recent run per family, possibly finished
	states [2]RunState

	delayUnit time.Duration
	logger    *slog.Logger
	sink      event.Sink
}

// NewEngine builds an engine over a fully walled grid.
func NewEngine(c *Config) (*Engine, error) {
	grid, err := maze.New(c.Rows, c.Cols, c.MaxDimension)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		grid:      grid,
		delayUnit: c.DelayUnit,
		logger:    c.Logger,
		sink:      c.Sink,
	}
	if e.delayUnit <= 0 {
		e.delayUnit = DefaultDelayUnit
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.sink == nil {
		e.sink = event.Discard
	}
	return e, nil
}

// StartGeneration cancels any active run, waits for it to reset, then starts
// generating on a background goroutine.
func (e *Engine) StartGeneration(ctx context.Context, opts GenerateOptions) (uuid.UUID, error) {
	if err := validateSpeed(opts.Speed); err != nil {
		return uuid.Nil, err
	}

	return e.start(ctx, event.Generate, func(grid *maze.Grid, r *run) error {
		gen, err := generator.New(grid, generator.Options{
			Algorithm:  opts.Algorithm,
			Mode:       opts.Mode,
			Seed:       opts.Seed,
			ForceTurns: opts.ForceTurns,
			Start:      opts.Start,
		})
		if err != nil {
			return err
		}
		r.stepper = gen
		r.filter = opts.filter()
		r.delay = time.Duration(opts.Speed) * e.delayUnit
		r.stats = func() []any { return []any{"carved", gen.Carved()} }
		r.logger = e.logger.With(
			"run_id", r.id, "kind", r.kind,
			"algorithm", opts.Algorithm, "mode", opts.Mode, "seed", opts.Seed,
		)
		return nil
	})
}

// StartSolve cancels any active run, waits for it to reset, then starts
// solving on a background goroutine.
func (e *Engine) StartSolve(ctx context.Context, opts SolveOptions) (uuid.UUID, error) {
	if err := validateSpeed(opts.Speed); err != nil {
		return uuid.Nil, err
	}

	return e.start(ctx, event.Solve, func(grid *maze.Grid, r *run) error {
		start := maze.CellPosition{Row: 0, Col: 0}
		goal := maze.CellPosition{Row: grid.Rows() - 1, Col: grid.Cols() - 1}
		if opts.Start != nil {
			start = *opts.Start
		}
		if opts.Goal != nil {
			goal = *opts.Goal
		}

		s, err := solver.New(grid, solver.Options{Algorithm: opts.Algorithm, Start: start, Goal: goal})
		if err != nil {
			return err
		}
		r.stepper = s
		r.filter = opts.filter()
		r.delay = time.Duration(opts.Speed) * e.delayUnit
		r.path = s.Path
		r.stats = func() []any { return []any{"expanded", s.Expanded(), "path_len", len(s.Path())} }
		r.logger = e.logger.With(
			"run_id", r.id, "kind", r.kind,
			"algorithm", opts.Algorithm, "start", start, "goal", goal,
		)
		return nil
	})
}

func (e *Engine) start(ctx context.Context, kind event.Kind, build func(*maze.Grid, *run) error) (uuid.UUID, error) {
	e.control.Lock()
	defer e.control.Unlock()

	if err := e.stopActive(ctx); err != nil {
		return uuid.Nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != nil {
		return uuid.Nil, ErrInvalidCancelSequence
	}

	r := &run{id: uuid.New(), kind: kind, done: make(chan struct{})}
	if err := build(e.grid, r); err != nil {
		return uuid.Nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	e.active = r
	e.latest[kind] = r
	e.states[kind] = Running

	r.logger.Info("run started")
	go e.work(runCtx, r)
	return r.id, nil
}

// stopActive cancels the active run, if any, and waits for its reset.
// The caller holds e.control.
func (e *Engine) stopActive(ctx context.Context) error {
	e.mu.Lock()
	r := e.active
	e.mu.Unlock()
	if r == nil {
		return nil
	}

	e.requestCancel(r)
	return awaitDone(ctx, r)
}

func (e *Engine) requestCancel(r *run) {
	e.mu.Lock()
	if e.active == r && e.states[r.kind] == Running {
		e.states[r.kind] = CancelRequested
	}
	e.mu.Unlock()
	r.cancel()
}

// work runs r and reports its outcome. The run is detached from the engine
// before the final event goes out, so a sink may start the next run from
// inside Publish.
func (e *Engine) work(ctx context.Context, r *run) {
	last := e.steps(ctx, r)
	e.detach(r, last.Type == event.Cancelled)
	e.sink.Publish(last)
	e.finish(r)
}

// steps runs the steps of r until completion, failure or cancellation and
// returns the final event. Each step holds the grid lock; the sink and the
// delay happen outside it.
func (e *Engine) steps(ctx context.Context, r *run) event.Event {
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("run cancelled")
			return event.Event{RunID: r.id, Kind: r.kind, Type: event.Cancelled}
		default:
		}

		e.mu.Lock()
		res, err := r.stepper.Step()
		e.mu.Unlock()

		if len(res.Changes) > 0 {
			e.publish(r, event.Event{
				RunID:     r.id,
				Kind:      r.kind,
				Type:      event.Step,
				Changes:   res.Changes,
				Backtrack: res.Backtrack,
			})
		}

		switch {
		case errors.Is(err, solver.ErrNoPathFound):
			r.logger.Info("no path found", r.stats()...)
			return event.Event{RunID: r.id, Kind: r.kind, Type: event.Failed, Err: err}
		case err != nil:
			r.logger.Error("run aborted", "error", err)
			return event.Event{RunID: r.id, Kind: r.kind, Type: event.Failed, Err: err}
		case res.Completed:
			done := event.Event{RunID: r.id, Kind: r.kind, Type: event.Completed}
			if r.path != nil {
				done.Path = r.path()
			}
			r.logger.Info("run completed", r.stats()...)
			return done
		}

		if r.delay > 0 {
			timer := time.NewTimer(r.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}
}

func (e *Engine) publish(r *run, ev event.Event) {
	if ev, ok := r.filter.Apply(ev); ok {
		e.sink.Publish(ev)
	}
}

// detach releases the grid after the last mutation of r. A cancelled run stays
// Resetting until finish.
func (e *Engine) detach(r *run, cancelled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == r {
		e.active = nil
	}
	if cancelled {
		e.states[r.kind] = Resetting
	} else {
		e.states[r.kind] = Idle
	}
}

// finish completes the reset handshake. Waiters on done observe the final event.
func (e *Engine) finish(r *run) {
	e.mu.Lock()
	if e.states[r.kind] == Resetting {
		e.states[r.kind] = Idle
	}
	e.mu.Unlock()
	r.cancel()
	close(r.done)
}

// Cancel asks the active run of the given kind to stop after its current step.
// It reports whether such a run existed.
func (e *Engine) Cancel(kind event.Kind) bool {
	e.mu.Lock()
	r := e.active
	e.mu.Unlock()
	if r == nil || r.kind != kind {
		return false
	}
	e.requestCancel(r)
	return true
}

// AwaitReset blocks until the latest run of the given kind has reset and its
// final event has been published.
func (e *Engine) AwaitReset(ctx context.Context, kind event.Kind) error {
	e.mu.Lock()
	r := e.latest[kind]
	e.mu.Unlock()
	return awaitDone(ctx, r)
}

// CancelAndWait is Cancel followed by AwaitReset.
func (e *Engine) CancelAndWait(ctx context.Context, kind event.Kind) error {
	e.Cancel(kind)
	return e.AwaitReset(ctx, kind)
}

// Wait blocks until the latest runs of both kinds have finished.
func (e *Engine) Wait(ctx context.Context) error {
	e.mu.Lock()
	runs := e.latest
	e.mu.Unlock()
	for _, r := range runs {
		if err := awaitDone(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func awaitDone(ctx context.Context, r *run) error {
	if r == nil {
		return nil
	}
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the lifecycle state of a run family.
func (e *Engine) State(kind event.Kind) RunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.states[kind]
}

// Resize cancels any active run and replaces the grid with a fully walled one.
// Invalid dimensions are rejected before anything is touched.
func (e *Engine) Resize(ctx context.Context, rows, cols int) error {
	e.mu.Lock()
	maxDimension := e.grid.MaxDimension()
	e.mu.Unlock()
	if err := maze.ValidateDimensions(rows, cols, maxDimension); err != nil {
		return err
	}

	e.control.Lock()
	defer e.control.Unlock()
	if err := e.stopActive(ctx); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.grid.Resize(rows, cols); err != nil {
		return err
	}
	e.logger.Info("grid resized", "rows", rows, "cols", cols)
	return nil
}

// Snapshot returns a copy of the grid that is safe to read while a run continues.
func (e *Engine) Snapshot() *maze.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Clone()
}
