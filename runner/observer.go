package runner

import "github.com/skysift-io/skysift/types"

// Observer is the callback-style face of the event stream, for consumers
// that want onStage/onProgress/onDone handlers instead of draining a
// channel. Any handler may be nil.
type Observer struct {
	OnStage    func(name string)
	OnProgress func(percent int)
	OnDone     func(result *types.AnalysisResult, outcome types.OutcomeStatus)
}

// Relay drains the event stream in order, dispatching each event to the
// matching handler. It blocks until the stream is closed, so callers that
// need to stay responsive run it on its own goroutine. Events are never
// dropped or reordered.
func Relay(events <-chan types.Event, obs Observer) {
	for ev := range events {
		switch ev.Type {
		case types.EventTypeStage:
			if obs.OnStage != nil {
				obs.OnStage(ev.Stage)
			}
		case types.EventTypeProgress:
			if obs.OnProgress != nil {
				obs.OnProgress(ev.Percent)
			}
		case types.EventTypeDone:
			if obs.OnDone != nil {
				obs.OnDone(ev.Result, ev.Outcome)
			}
		}
	}
}
