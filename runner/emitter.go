package runner

import (
	"github.com/skysift-io/skysift/analysis"
	"github.com/skysift-io/skysift/metrics"
	"github.com/skysift-io/skysift/types"
)

// emitter enforces the event-stream invariants at the point of emission,
// not by consumer convention:
//
//   - Seq is monotonic, starting at 1
//   - observed progress never decreases
//   - exactly one terminal event, after which everything is dropped
//
// It implements analysis.Reporter so engines report straight into the
// stream. Not safe for concurrent use; the worker goroutine is the only
// producer.
type emitter struct {
	ch          chan types.Event
	collector   *metrics.Collector
	seq         int64
	lastPercent int
	terminal    bool
	closed      bool
}

// Verify emitter implements analysis.Reporter.
var _ analysis.Reporter = (*emitter)(nil)

func newEmitter(ch chan types.Event, collector *metrics.Collector) *emitter {
	return &emitter{ch: ch, collector: collector}
}

// Stage emits a stage event.
func (e *emitter) Stage(name string) {
	e.emit(types.Event{Type: types.EventTypeStage, Stage: name})
}

// Progress emits a progress event, clamped so the observed sequence is
// non-decreasing even if a sloppy engine reports a lower value.
func (e *emitter) Progress(percent int) {
	if percent < e.lastPercent {
		percent = e.lastPercent
	}
	if percent > 100 {
		percent = 100
	}
	e.lastPercent = percent
	e.emit(types.Event{Type: types.EventTypeProgress, Percent: percent})
}

// Done emits the terminal event. Subsequent calls are ignored, keeping the
// exactly-one-terminal guarantee even on overlapping failure paths.
func (e *emitter) Done(result *types.AnalysisResult, outcome types.OutcomeStatus) {
	if e.terminal {
		return
	}
	e.emit(types.Event{
		Type:    types.EventTypeDone,
		Result:  result,
		Outcome: outcome,
	})
	e.terminal = true
}

// Close closes the stream. Emissions after Close are dropped.
func (e *emitter) Close() {
	if e.closed {
		return
	}
	e.closed = true
	close(e.ch)
}

func (e *emitter) emit(ev types.Event) {
	if e.terminal || e.closed {
		return
	}
	e.seq++
	ev.Seq = e.seq
	e.ch <- ev
	e.collector.IncEventEmitted()
}
