package report

import (
	"errors"
	"fmt"
)

// Stage names the step of report generation that failed.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageTransform Stage = "transform"
	StageRender    Stage = "render"
)

// ErrNotSVG is returned when the downloaded chart carries no SVG markup.
var ErrNotSVG = errors.New("chart response is not an SVG document")

// Error is the single failure type of Generate. Callers show it as one
// user-facing message; Stage exists for logs and metrics only.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("report generation failed (%s): %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
