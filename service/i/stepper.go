package i

import "github.com/beka-birhanu/mazeworks/maze"

// Stepper is a resumable algorithm run against a grid.
type Stepper interface {
	// Step performs one atomic unit of work. It is called repeatedly until
	// the returned result is Completed.
	Step() (maze.StepResult, error)
}
