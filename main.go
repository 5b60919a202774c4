package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/beka-birhanu/mazeworks/config"
	"github.com/beka-birhanu/mazeworks/event"
	"github.com/beka-birhanu/mazeworks/generator"
	"github.com/beka-birhanu/mazeworks/maze"
	"github.com/beka-birhanu/mazeworks/render"
	"github.com/beka-birhanu/mazeworks/service"
	"github.com/beka-birhanu/mazeworks/solver"
)

// options is everything the command line controls.
type options struct {
	rows, cols     int
	genAlgorithm   string
	genMode        string
	seed           int64
	forceTurns     bool
	genSpeed       int
	solveAlgorithm string
	solveSpeed     int
	start, goal    string
	skipSolve      bool
	animate        bool
	showBacktracks bool
	showTracer     bool
	color          bool
	inverseColors  bool
	logLevel       string
	logFormat      string
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("mazeworks", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.IntVar(&o.rows, "rows", config.Envs.Rows, "number of maze rows")
	fs.IntVar(&o.cols, "cols", config.Envs.Cols, "number of maze columns")
	fs.StringVar(&o.genAlgorithm, "gen", config.Envs.GenAlgorithm, "generation algorithm: backtracker, hunt-and-kill, prim, kruskal")
	fs.StringVar(&o.genMode, "mode", config.Envs.GenMode, "generation wall mode: remove, build, fill")
	fs.Int64Var(&o.seed, "seed", time.Now().UnixNano(), "random seed")
	fs.BoolVar(&o.forceTurns, "force-turns", false, "avoid carving straight ahead when possible")
	fs.IntVar(&o.genSpeed, "gen-speed", 0, "generation delay in speed units (0-50)")
	fs.StringVar(&o.solveAlgorithm, "solve", config.Envs.SolveAlgorithm, "solve algorithm: dfs, bfs, dijkstra, greedy, astar-manhattan, astar-chebyshev, astar-octile")
	fs.IntVar(&o.solveSpeed, "solve-speed", 0, "solve delay in speed units (0-50)")
	fs.StringVar(&o.start, "start", "", "solve start as row,col (default top-left)")
	fs.StringVar(&o.goal, "goal", "", "solve goal as row,col (default bottom-right)")
	fs.BoolVar(&o.skipSolve, "no-solve", false, "only generate")
	fs.BoolVar(&o.animate, "animate", false, "redraw the maze after every step")
	fs.BoolVar(&o.showBacktracks, "show-backtracks", false, "include backtrack steps when animating")
	fs.BoolVar(&o.showTracer, "show-tracer", true, "include frontier cells when animating a solve")
	fs.BoolVar(&o.color, "color", true, "ANSI colours")
	fs.BoolVar(&o.inverseColors, "inverse", config.Envs.InverseColors, "reverse video")
	fs.StringVar(&o.logLevel, "log-level", config.Envs.LogLevel, "debug, info, warn or error")
	fs.StringVar(&o.logFormat, "log-format", config.Envs.LogFormat, "text or json")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

// parsePosition reads "row,col". An empty string yields nil.
func parsePosition(s string) (*maze.CellPosition, error) {
	if s == "" {
		return nil, nil
	}
	var p maze.CellPosition
	if _, err := fmt.Sscanf(s, "%d,%d", &p.Row, &p.Col); err != nil {
		return nil, fmt.Errorf("position %q must be row,col: %w", s, err)
	}
	return &p, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run generates a maze, optionally solves it, and draws the result on out.
func run(ctx context.Context, out io.Writer, args []string) error {
	o, err := parseFlags(args, out)
	if err != nil {
		return err
	}

	appColor, engineColor := config.ColorGreen, config.ColorCyan
	if !o.color {
		appColor, engineColor = "", ""
	}
	appLogger, err := config.NewComponentLogger("APP", appColor, o.logLevel, o.logFormat, os.Stderr)
	if err != nil {
		return err
	}
	engineLogger, err := config.NewComponentLogger("ENGINE", engineColor, o.logLevel, o.logFormat, os.Stderr)
	if err != nil {
		return err
	}

	genAlgorithm, err := generator.ParseAlgorithm(o.genAlgorithm)
	if err != nil {
		return err
	}
	genMode, err := generator.ParseWallMode(o.genMode)
	if err != nil {
		return err
	}
	solveAlgorithm, err := solver.ParseAlgorithm(o.solveAlgorithm)
	if err != nil {
		return err
	}
	start, err := parsePosition(o.start)
	if err != nil {
		return err
	}
	goal, err := parsePosition(o.goal)
	if err != nil {
		return err
	}

	var engine *service.Engine
	console := render.NewConsole(out, func() *maze.Grid { return engine.Snapshot() }, render.Options{
		Color:         o.color,
		InverseColors: o.inverseColors,
		Animate:       o.animate,
	})
	engine, err = service.NewEngine(&service.Config{
		Rows:         o.rows,
		Cols:         o.cols,
		MaxDimension: config.Envs.MaxDimension,
		DelayUnit:    config.Envs.DelayUnit,
		Logger:       engineLogger,
		Sink:         console,
	})
	if err != nil {
		return err
	}
	appLogger.Debug("engine initialized", "rows", o.rows, "cols", o.cols)

	if _, err := engine.StartGeneration(ctx, service.GenerateOptions{
		Algorithm:      genAlgorithm,
		Mode:           genMode,
		Seed:           o.seed,
		ForceTurns:     o.forceTurns,
		Speed:          o.genSpeed,
		ShowSteps:      o.animate,
		ShowBacktracks: o.showBacktracks,
	}); err != nil {
		return err
	}
	if err := awaitRun(ctx, appLogger, engine, event.Generate); err != nil {
		return err
	}
	if o.skipSolve {
		return nil
	}

	if _, err := engine.StartSolve(ctx, service.SolveOptions{
		Algorithm:      solveAlgorithm,
		Start:          start,
		Goal:           goal,
		Speed:          o.solveSpeed,
		ShowSteps:      o.animate,
		ShowTracer:     o.showTracer,
		ShowBacktracks: o.showBacktracks,
	}); err != nil {
		return err
	}
	return awaitRun(ctx, appLogger, engine, event.Solve)
}

// awaitRun waits for the active run, cancelling it when ctx ends first.
func awaitRun(ctx context.Context, logger *slog.Logger, engine *service.Engine, kind event.Kind) error {
	err := engine.Wait(ctx)
	if err == nil {
		return nil
	}

	cleanup, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cancelErr := engine.CancelAndWait(cleanup, kind); cancelErr != nil {
		logger.Error("run did not stop", "kind", kind, "error", cancelErr)
	}
	return err
}
