// Package metrics provides per-runner metrics collection.
//
// The Collector accumulates counters across the runs a single Runner
// executes. It is a leaf package with no internal dependencies; all
// increment methods are nil-receiver safe so wiring a collector stays
// optional.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of the counters.
// Safe to read concurrently after creation.
type Snapshot struct {
	// Run lifecycle
	RunsStarted   int64
	RunsSucceeded int64
	RunsFailed    int64
	RunsCanceled  int64

	// Event stream
	EventsEmitted int64

	// Artifacts
	ArtifactsWritten int64
	ArtifactsFailed  int64
}

// Collector accumulates metrics for a runner.
// Thread-safe via sync.Mutex.
type Collector struct {
	mu sync.Mutex

	runsStarted   int64
	runsSucceeded int64
	runsFailed    int64
	runsCanceled  int64

	eventsEmitted int64

	artifactsWritten int64
	artifactsFailed  int64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// IncRunStarted increments the runs-started counter.
func (c *Collector) IncRunStarted() {
	if c == nil {
		return
	}
	c.inc(&c.runsStarted)
}

// IncRunSucceeded increments the runs-succeeded counter.
func (c *Collector) IncRunSucceeded() {
	if c == nil {
		return
	}
	c.inc(&c.runsSucceeded)
}

// IncRunFailed increments the runs-failed counter.
func (c *Collector) IncRunFailed() {
	if c == nil {
		return
	}
	c.inc(&c.runsFailed)
}

// IncRunCanceled increments the runs-canceled counter.
func (c *Collector) IncRunCanceled() {
	if c == nil {
		return
	}
	c.inc(&c.runsCanceled)
}

// IncEventEmitted increments the events-emitted counter.
func (c *Collector) IncEventEmitted() {
	if c == nil {
		return
	}
	c.inc(&c.eventsEmitted)
}

// IncArtifactWritten increments the artifacts-written counter.
func (c *Collector) IncArtifactWritten() {
	if c == nil {
		return
	}
	c.inc(&c.artifactsWritten)
}

// IncArtifactFailed increments the artifacts-failed counter.
func (c *Collector) IncArtifactFailed() {
	if c == nil {
		return
	}
	c.inc(&c.artifactsFailed)
}

func (c *Collector) inc(counter *int64) {
	c.mu.Lock()
	*counter++
	c.mu.Unlock()
}

// Snapshot returns a copy of all counters.
// Returns the zero Snapshot on a nil receiver.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		RunsStarted:      c.runsStarted,
		RunsSucceeded:    c.runsSucceeded,
		RunsFailed:       c.runsFailed,
		RunsCanceled:     c.runsCanceled,
		EventsEmitted:    c.eventsEmitted,
		ArtifactsWritten: c.artifactsWritten,
		ArtifactsFailed:  c.artifactsFailed,
	}
}
