package analysis

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"

	"github.com/skysift-io/skysift/log"
	"github.com/skysift-io/skysift/metrics"
	"github.com/skysift-io/skysift/store"
	"github.com/skysift-io/skysift/types"
)

// Pacing defaults. The inter-step delay paces UI feedback, not real work; a
// real engine replaces the sleep with actual stage computation while keeping
// the monotonic-progress contract.
const (
	DefaultStepDelay = 200 * time.Millisecond
	DefaultSubSteps  = 5
)

const (
	stubWindowCount    = 5
	stubCandidateCount = 8
	thumbnailWidth     = 160
)

// Config configures a StubEngine.
type Config struct {
	// Writer receives generated artifacts. Required.
	Writer store.ArtifactWriter
	// Logger receives one line per stage transition and per artifact
	// failure. Defaults to a no-op logger.
	Logger *log.Logger
	// Collector records artifact counters. Optional.
	Collector *metrics.Collector
	// StepDelay is the inter-sub-step delay. Defaults to DefaultStepDelay.
	StepDelay time.Duration
	// SubSteps is the number of progress sub-steps per stage.
	// Defaults to DefaultSubSteps.
	SubSteps int
	// Seed seeds the synthetic plot noise. Zero means time-based.
	Seed int64
	// Generators overrides the artifact generator set (for fault
	// injection in tests). Defaults to DefaultGenerators.
	Generators map[string]Generator
}

// StubEngine simulates a long-running analysis and produces structured
// placeholder data.
type StubEngine struct {
	cfg    Config
	logger *log.Logger
}

// Verify StubEngine implements Engine.
var _ Engine = (*StubEngine)(nil)

// NewStubEngine creates a stub engine, applying config defaults.
func NewStubEngine(cfg Config) *StubEngine {
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}
	if cfg.StepDelay <= 0 {
		cfg.StepDelay = DefaultStepDelay
	}
	if cfg.SubSteps <= 0 {
		cfg.SubSteps = DefaultSubSteps
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Generators == nil {
		cfg.Generators = DefaultGenerators()
	}
	return &StubEngine{
		cfg:    cfg,
		logger: cfg.Logger.Named("analyzer"),
	}
}

// Analyze walks the fixed stage sequence, pacing progress within each stage,
// generating artifacts at their natural stages, and returns the assembled
// result. Cancellation between sub-steps returns ctx.Err().
func (e *StubEngine) Analyze(ctx context.Context, req types.RunRequest, rep Reporter) (*types.AnalysisResult, error) {
	result := e.fixture(req)
	rnd := rand.New(rand.NewSource(e.cfg.Seed))

	// Artifact generation hooks, keyed by stage index.
	hooks := map[int]func(){
		2: func() {
			result.Waterfall = e.writeArtifact(ArtifactWaterfall, rnd)
			result.ActivityMap = e.writeArtifact(ArtifactActivityMap, rnd)
		},
		3: func() {
			result.WindowPreview = e.writeArtifact(ArtifactWindowPreview, rnd)
		},
		4: func() {
			result.CandidatePreview = e.writeArtifact(ArtifactCandidatePreview, rnd)
		},
		5: func() {
			if err := store.WriteSnapshot(e.cfg.Writer, result); err != nil {
				e.logger.Warn("result snapshot failed", map[string]any{"error": err.Error()})
			}
		},
	}

	total := len(stages)
	for i, stage := range stages {
		e.logger.Info(fmt.Sprintf("%s: %s", stage, req.InputPath), nil)
		rep.Stage(stage)
		if hook, ok := hooks[i]; ok {
			hook()
		}
		if err := e.pace(ctx, rep, i+1, total); err != nil {
			return nil, err
		}
	}

	e.logger.Info(fmt.Sprintf("analysis complete for %s", req.InputPath), nil)
	return result, nil
}

// fixture fabricates the placeholder result data the real pipeline will one
// day compute.
func (e *StubEngine) fixture(req types.RunRequest) *types.AnalysisResult {
	result := &types.AnalysisResult{
		Metadata: []types.MetadataEntry{
			{Label: "File", Value: filepath.Base(req.InputPath)},
			{Label: "Size", Value: "42 MB (demo)"},
			{Label: "Preset", Value: req.Preset},
		},
	}

	for i := 0; i < stubWindowCount; i++ {
		result.WindowScores = append(result.WindowScores, types.WindowScore{
			WindowID: fmt.Sprintf("%03d", i),
			Score:    fmt.Sprintf("%d%%", 90-i),
			Cluster:  "A",
		})
	}

	for i := 0; i < stubCandidateCount; i++ {
		status := types.CandidateStatusRFI
		if i%2 != 0 {
			status = types.CandidateStatusInteresting
		}
		result.Candidates = append(result.Candidates, types.Candidate{
			ID:        fmt.Sprintf("C-%02d", i),
			Frequency: formatFrequency(1420 + float64(i)*0.5),
			Status:    status,
		})
	}

	return result
}

// pace emits sub-step progress for one stage: linear interpolation between
// the stage's start and end percent, integer-truncated, so the final
// sub-step of the last stage lands exactly on 100.
func (e *StubEngine) pace(ctx context.Context, rep Reporter, current, total int) error {
	start := (current - 1) * 100 / total
	end := current * 100 / total
	for i := 1; i <= e.cfg.SubSteps; i++ {
		if err := sleepCtx(ctx, e.cfg.StepDelay); err != nil {
			return err
		}
		rep.Progress(start + i*(end-start)/e.cfg.SubSteps)
	}
	return nil
}

// writeArtifact generates and persists one preview image plus a downscaled
// thumbnail, returning the artifact path. Failures (including panics inside
// a generator) are isolated: they are logged, the counter is bumped, and an
// empty reference is returned so the run continues.
func (e *StubEngine) writeArtifact(name string, rnd *rand.Rand) (path string) {
	defer func() {
		if p := recover(); p != nil {
			e.cfg.Collector.IncArtifactFailed()
			e.logger.Warn("artifact generator panicked", map[string]any{
				"artifact": name,
				"panic":    fmt.Sprint(p),
			})
			path = ""
		}
	}()

	gen, ok := e.cfg.Generators[name]
	if !ok {
		return ""
	}

	img, err := gen(rnd)
	if err == nil {
		err = e.encodeAndPut(name, img)
	}
	if err != nil {
		e.cfg.Collector.IncArtifactFailed()
		e.logger.Warn("artifact generation failed", map[string]any{
			"artifact": name,
			"error":    err.Error(),
		})
		return ""
	}

	e.cfg.Collector.IncArtifactWritten()
	return e.cfg.Writer.Path(name)
}

func (e *StubEngine) encodeAndPut(name string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := e.cfg.Writer.PutFile(name, buf.Bytes()); err != nil {
		return err
	}

	// Thumbnails are best-effort: the full-size artifact is already
	// committed, so a failed thumbnail only costs the small preview.
	thumb := resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)
	buf.Reset()
	if err := png.Encode(&buf, thumb); err != nil {
		return nil
	}
	_ = e.cfg.Writer.PutFile(thumbName(name), buf.Bytes())
	return nil
}

func thumbName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return base + "_thumb.png"
}

func formatFrequency(mhz float64) string {
	return fmt.Sprintf("%.1f MHz", mhz)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
