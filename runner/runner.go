// Package runner executes analysis runs off the caller's goroutine and
// streams ordered stage/progress/terminal events back over a channel.
//
// The runner is the fault boundary of the system: whatever happens inside
// the engine (an error, a panic, a cancellation), the consumer always
// receives a well-formed terminal event and never an exception, and the
// event stream is always closed afterwards.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/skysift-io/skysift/analysis"
	"github.com/skysift-io/skysift/log"
	"github.com/skysift-io/skysift/metrics"
	"github.com/skysift-io/skysift/types"
)

// ErrRunInFlight is returned by Start when a run is already active on this
// runner. One run per runner instance; the shell disables its trigger until
// the terminal event arrives.
var ErrRunInFlight = errors.New("a run is already in flight")

// eventBuffer sizes the per-run event channel. A full run emits
// stages*(substeps+1)+2 events; the buffer holds all of them so a slow
// consumer never blocks the worker.
const eventBuffer = 64

// Runner orchestrates single analysis runs.
type Runner struct {
	engine    analysis.Engine
	logger    *log.Logger
	collector *metrics.Collector
	inFlight  atomic.Bool
}

// New creates a runner. logger and collector may be nil.
func New(engine analysis.Engine, logger *log.Logger, collector *metrics.Collector) *Runner {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Runner{
		engine:    engine,
		logger:    logger.Named("runner"),
		collector: collector,
	}
}

// Start validates the request and launches the run on a worker goroutine.
// The returned channel delivers events in emission order and is closed
// right after the terminal event. The caller's goroutine is never blocked
// by the run itself.
//
// Cancellation of ctx between progress sub-steps ends the run with a
// terminal event classified as canceled.
func (r *Runner) Start(ctx context.Context, req types.RunRequest) (<-chan types.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !r.inFlight.CompareAndSwap(false, true) {
		return nil, ErrRunInFlight
	}

	r.collector.IncRunStarted()
	r.logger.Info("starting run", map[string]any{
		"input":  req.InputPath,
		"preset": req.Preset,
	})

	ch := make(chan types.Event, eventBuffer)
	go r.run(ctx, req, ch)
	return ch, nil
}

// run drives the engine and guarantees terminal delivery. Runs on the
// worker goroutine. The in-flight flag clears after the terminal event is
// on the channel and before the channel closes, so a consumer that drains
// the stream to its close can Start again immediately.
func (r *Runner) run(ctx context.Context, req types.RunRequest, ch chan types.Event) {
	em := newEmitter(ch, r.collector)
	r.drive(ctx, req, em)
	r.inFlight.Store(false)
	em.Close()
}

// drive executes the engine and emits the terminal event on every path,
// converting panics and errors into failure records.
func (r *Runner) drive(ctx context.Context, req types.RunRequest, em *emitter) {
	defer func() {
		if p := recover(); p != nil {
			msg := fmt.Sprintf("internal fault: %v", p)
			r.logger.Error("run panicked", map[string]any{"panic": fmt.Sprint(p)})
			r.finish(em, types.NewFailureResult(msg), types.OutcomeFailure)
		}
	}()

	result, err := r.engine.Analyze(ctx, req, em)

	switch {
	case err == nil:
		// Final progress and the done marker are unconditional, then
		// exactly one terminal event.
		em.Progress(100)
		em.Stage(analysis.StageDone)
		r.finish(em, result, types.OutcomeSuccess)

	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		r.logger.Warn("run canceled", map[string]any{"input": req.InputPath})
		r.finish(em, types.NewFailureResult("run canceled"), types.OutcomeCanceled)

	default:
		r.logger.Error("run failed", map[string]any{"error": err.Error()})
		r.finish(em, types.NewFailureResult(err.Error()), types.OutcomeFailure)
	}
}

func (r *Runner) finish(em *emitter, result *types.AnalysisResult, outcome types.OutcomeStatus) {
	em.Done(result, outcome)

	switch outcome {
	case types.OutcomeSuccess:
		r.collector.IncRunSucceeded()
	case types.OutcomeCanceled:
		r.collector.IncRunCanceled()
	default:
		r.collector.IncRunFailed()
	}
	r.logger.Info("run finished", map[string]any{"outcome": string(outcome)})
}
