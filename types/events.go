package types

// EventType discriminates events on the run event stream.
type EventType string

// Event type constants.
const (
	// EventTypeStage announces entry into a named stage.
	EventTypeStage EventType = "stage"
	// EventTypeProgress carries a 0..100 progress percentage.
	EventTypeProgress EventType = "progress"
	// EventTypeDone is the terminal event carrying the result record.
	EventTypeDone EventType = "done"
)

// IsTerminal returns true if this event type ends the run stream.
func (e EventType) IsTerminal() bool {
	return e == EventTypeDone
}

// Event is the envelope for all run events.
//
// Delivery contract: events are delivered in emission order over a
// single-consumer channel; Seq is monotonic and starts at 1; exactly one
// terminal event is delivered per run, after every stage/progress event,
// and the stream is closed immediately after it.
type Event struct {
	// Seq is the monotonic sequence number, starts at 1.
	Seq int64
	// Type is the event type discriminator.
	Type EventType
	// Stage is the stage name (stage events only).
	Stage string
	// Percent is the progress percentage 0..100 (progress events only).
	Percent int
	// Result is the final result record (done events only).
	Result *AnalysisResult
	// Outcome classifies the terminal record (done events only).
	Outcome OutcomeStatus
}
