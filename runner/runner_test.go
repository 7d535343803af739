package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skysift-io/skysift/analysis"
	"github.com/skysift-io/skysift/metrics"
	"github.com/skysift-io/skysift/store"
	"github.com/skysift-io/skysift/types"
)

// scriptedEngine runs an injected function, for fault injection.
type scriptedEngine struct {
	fn func(ctx context.Context, req types.RunRequest, rep analysis.Reporter) (*types.AnalysisResult, error)
}

func (e *scriptedEngine) Analyze(ctx context.Context, req types.RunRequest, rep analysis.Reporter) (*types.AnalysisResult, error) {
	return e.fn(ctx, req, rep)
}

func newStubRunner(t *testing.T, collector *metrics.Collector) *Runner {
	t.Helper()
	engine := analysis.NewStubEngine(analysis.Config{
		Writer:    store.NewStubWriter(),
		Collector: collector,
		StepDelay: time.Microsecond,
		Seed:      1,
	})
	return New(engine, nil, collector)
}

func drain(t *testing.T, events <-chan types.Event) []types.Event {
	t.Helper()
	var out []types.Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func TestStart_FullRunEventContract(t *testing.T) {
	r := newStubRunner(t, nil)

	events, err := r.Start(context.Background(), types.RunRequest{InputPath: "sample.dat", Preset: "A"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	all := drain(t, events)

	// Exactly one terminal event, delivered last.
	terminals := 0
	for _, ev := range all {
		if ev.Type.IsTerminal() {
			terminals++
		}
	}
	if terminals != 1 {
		t.Fatalf("terminal events = %d, want 1", terminals)
	}
	last := all[len(all)-1]
	if last.Type != types.EventTypeDone {
		t.Fatalf("last event type = %s, want done", last.Type)
	}

	// Seq is monotonic from 1.
	for i, ev := range all {
		if ev.Seq != int64(i+1) {
			t.Fatalf("event %d has seq %d, want %d", i, ev.Seq, i+1)
		}
	}

	// Progress is non-decreasing and ends at exactly 100.
	lastPercent := 0
	finalPercent := -1
	for _, ev := range all {
		if ev.Type != types.EventTypeProgress {
			continue
		}
		if ev.Percent < lastPercent {
			t.Fatalf("progress decreased: %d after %d", ev.Percent, lastPercent)
		}
		lastPercent = ev.Percent
		finalPercent = ev.Percent
	}
	if finalPercent != 100 {
		t.Fatalf("final progress = %d, want 100", finalPercent)
	}

	// Distinct stage names = configured count + the done marker.
	seen := make(map[string]bool)
	var stageOrder []string
	for _, ev := range all {
		if ev.Type == types.EventTypeStage {
			if !seen[ev.Stage] {
				stageOrder = append(stageOrder, ev.Stage)
			}
			seen[ev.Stage] = true
		}
	}
	if len(seen) != analysis.StageCount()+1 {
		t.Fatalf("distinct stages = %d, want %d", len(seen), analysis.StageCount()+1)
	}
	if stageOrder[len(stageOrder)-1] != analysis.StageDone {
		t.Fatalf("last stage = %q, want %q", stageOrder[len(stageOrder)-1], analysis.StageDone)
	}

	// Terminal record is a well-formed success.
	if last.Outcome != types.OutcomeSuccess {
		t.Fatalf("outcome = %s, want success", last.Outcome)
	}
	if last.Result.Failed() {
		t.Fatalf("unexpected failure record: %s", last.Result.ErrorMessage)
	}
}

func TestStart_EndToEndFixture(t *testing.T) {
	r := newStubRunner(t, nil)

	events, err := r.Start(context.Background(), types.RunRequest{InputPath: "sample.dat", Preset: "A"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	all := drain(t, events)
	result := all[len(all)-1].Result

	if got := len(result.WindowScores); got != 5 {
		t.Fatalf("window scores = %d, want 5", got)
	}
	wantScores := []string{"90%", "89%", "88%", "87%", "86%"}
	for i, ws := range result.WindowScores {
		if ws.Score != wantScores[i] {
			t.Errorf("window %d score = %q, want %q", i, ws.Score, wantScores[i])
		}
	}

	if got := len(result.Candidates); got != 8 {
		t.Fatalf("candidates = %d, want 8", got)
	}
	for i, c := range result.Candidates {
		want := types.CandidateStatusRFI
		if i%2 != 0 {
			want = types.CandidateStatusInteresting
		}
		if c.Status != want {
			t.Errorf("candidate %d status = %q, want %q", i, c.Status, want)
		}
	}
}

func TestStart_EmptyInputPathRejected(t *testing.T) {
	r := newStubRunner(t, nil)

	_, err := r.Start(context.Background(), types.RunRequest{Preset: "A"})
	if !errors.Is(err, types.ErrEmptyInputPath) {
		t.Fatalf("err = %v, want ErrEmptyInputPath", err)
	}
}

func TestStart_SecondRunWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	engine := &scriptedEngine{fn: func(context.Context, types.RunRequest, analysis.Reporter) (*types.AnalysisResult, error) {
		<-release
		return &types.AnalysisResult{}, nil
	}}
	r := New(engine, nil, nil)

	events, err := r.Start(context.Background(), types.RunRequest{InputPath: "a.dat", Preset: "A"})
	if err != nil {
		t.Fatalf("first Start: %v", err)
	}

	if _, err := r.Start(context.Background(), types.RunRequest{InputPath: "b.dat", Preset: "A"}); !errors.Is(err, ErrRunInFlight) {
		t.Fatalf("second Start err = %v, want ErrRunInFlight", err)
	}

	close(release)
	drain(t, events)

	// Draining to the stream close means the runner is idle again: the next
	// Start must succeed without retrying.
	events, err = r.Start(context.Background(), types.RunRequest{InputPath: "c.dat", Preset: "A"})
	if err != nil {
		t.Fatalf("Start after completion: %v", err)
	}
	drain(t, events)
}

func TestStart_RunLevelFaultBecomesFailureRecord(t *testing.T) {
	collector := metrics.NewCollector()
	engine := &scriptedEngine{fn: func(_ context.Context, _ types.RunRequest, rep analysis.Reporter) (*types.AnalysisResult, error) {
		rep.Stage("loading input")
		rep.Progress(5)
		return nil, errors.New("corrupt header block")
	}}
	r := New(engine, nil, collector)

	events, err := r.Start(context.Background(), types.RunRequest{InputPath: "bad.dat", Preset: "A"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	all := drain(t, events)

	last := all[len(all)-1]
	if last.Type != types.EventTypeDone {
		t.Fatalf("last event type = %s, want done", last.Type)
	}
	if last.Outcome != types.OutcomeFailure {
		t.Fatalf("outcome = %s, want failure", last.Outcome)
	}
	if last.Result.ErrorMessage != "corrupt header block" {
		t.Fatalf("error message = %q", last.Result.ErrorMessage)
	}

	// No partial success state leaks into the failure record.
	if len(last.Result.Metadata) != 0 || len(last.Result.WindowScores) != 0 || len(last.Result.Candidates) != 0 {
		t.Fatal("failure record carries partial success fields")
	}
	if last.Result.Waterfall != "" || last.Result.ActivityMap != "" {
		t.Fatal("failure record carries artifact references")
	}

	if got := collector.Snapshot().RunsFailed; got != 1 {
		t.Fatalf("RunsFailed = %d, want 1", got)
	}
}

func TestStart_PanicBecomesFailureRecord(t *testing.T) {
	engine := &scriptedEngine{fn: func(context.Context, types.RunRequest, analysis.Reporter) (*types.AnalysisResult, error) {
		panic("index out of range in stage table")
	}}
	r := New(engine, nil, nil)

	events, err := r.Start(context.Background(), types.RunRequest{InputPath: "a.dat", Preset: "A"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	all := drain(t, events)

	last := all[len(all)-1]
	if last.Type != types.EventTypeDone || last.Outcome != types.OutcomeFailure {
		t.Fatalf("terminal = (%s, %s), want (done, failure)", last.Type, last.Outcome)
	}
	if last.Result.ErrorMessage == "" {
		t.Fatal("panic produced empty error message")
	}

	// The runner survives the panic and accepts a new run as soon as the
	// stream has been drained.
	events, err = r.Start(context.Background(), types.RunRequest{InputPath: "b.dat", Preset: "A"})
	if err != nil {
		t.Fatalf("Start after panic: %v", err)
	}
	drain(t, events)
}

func TestStart_CancellationYieldsCanceledOutcome(t *testing.T) {
	collector := metrics.NewCollector()
	engine := analysis.NewStubEngine(analysis.Config{
		Writer:    store.NewStubWriter(),
		StepDelay: 20 * time.Millisecond,
		Seed:      1,
	})
	r := New(engine, nil, collector)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := r.Start(ctx, types.RunRequest{InputPath: "sample.dat", Preset: "A"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Cancel once the run is demonstrably in flight.
	<-events
	cancel()
	all := drain(t, events)

	last := all[len(all)-1]
	if last.Type != types.EventTypeDone {
		t.Fatalf("last event type = %s, want done", last.Type)
	}
	if last.Outcome != types.OutcomeCanceled {
		t.Fatalf("outcome = %s, want canceled", last.Outcome)
	}
	if got := collector.Snapshot().RunsCanceled; got != 1 {
		t.Fatalf("RunsCanceled = %d, want 1", got)
	}
}

func TestRelay_DispatchesInOrder(t *testing.T) {
	r := newStubRunner(t, nil)
	events, err := r.Start(context.Background(), types.RunRequest{InputPath: "sample.dat", Preset: "A"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	var stages []string
	lastPercent := -1
	doneCalls := 0
	Relay(events, Observer{
		OnStage: func(name string) {
			if doneCalls != 0 {
				t.Error("stage callback after done")
			}
			stages = append(stages, name)
		},
		OnProgress: func(percent int) {
			if percent < lastPercent {
				t.Errorf("progress decreased: %d after %d", percent, lastPercent)
			}
			lastPercent = percent
		},
		OnDone: func(result *types.AnalysisResult, outcome types.OutcomeStatus) {
			doneCalls++
			if outcome != types.OutcomeSuccess {
				t.Errorf("outcome = %s, want success", outcome)
			}
			if result == nil {
				t.Error("done delivered nil result")
			}
		},
	})

	if doneCalls != 1 {
		t.Fatalf("done callbacks = %d, want 1", doneCalls)
	}
	if len(stages) != analysis.StageCount()+1 {
		t.Fatalf("stage callbacks = %d, want %d", len(stages), analysis.StageCount()+1)
	}
	if lastPercent != 100 {
		t.Fatalf("final percent = %d, want 100", lastPercent)
	}
}

func TestRelay_NilHandlersAreSafe(t *testing.T) {
	r := newStubRunner(t, nil)
	events, err := r.Start(context.Background(), types.RunRequest{InputPath: "sample.dat", Preset: "A"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	Relay(events, Observer{})
}
