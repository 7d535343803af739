// Package analysis defines the analysis engine boundary and its current
// stub implementation.
//
// The real DSP/clustering pipeline does not exist yet. StubEngine fabricates
// deterministic placeholder data and synthetic preview plots so the shell
// and the run contract can be exercised end-to-end. A real engine replaces
// StubEngine behind the Engine interface without touching the runner.
package analysis

import (
	"context"

	"github.com/skysift-io/skysift/types"
)

// Reporter receives stage and progress notifications from an engine while a
// run is in flight. Implementations must tolerate being called from the
// worker goroutine.
type Reporter interface {
	// Stage announces entry into a named stage, once per stage in order.
	Stage(name string)
	// Progress reports a 0..100 percentage. Values must be non-decreasing
	// over the run; the last call before completion must yield 100.
	Progress(percent int)
}

// Engine produces an AnalysisResult for a run request.
//
// Contract: the returned result is a fully assembled success record. On an
// internal fault the engine returns an error (or panics; the runner converts
// both into a failure record) rather than a partially populated result.
// Cancellation surfaces as ctx.Err().
type Engine interface {
	Analyze(ctx context.Context, req types.RunRequest, rep Reporter) (*types.AnalysisResult, error)
}
