package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/skysift-io/skysift/analysis"
	"github.com/skysift-io/skysift/cli/config"
	"github.com/skysift-io/skysift/cli/render"
	"github.com/skysift-io/skysift/cli/tui"
	"github.com/skysift-io/skysift/history"
	"github.com/skysift-io/skysift/iox"
	"github.com/skysift-io/skysift/log"
	"github.com/skysift-io/skysift/metrics"
	"github.com/skysift-io/skysift/runner"
	"github.com/skysift-io/skysift/store"
	"github.com/skysift-io/skysift/types"
)

// Exit codes for analyze.
const (
	exitSuccess      = 0
	exitRunFailed    = 1
	exitCanceled     = 2
	exitInvalidInput = 3
)

// AnalyzeCommand returns the analyze command, the only command that
// executes work.
func AnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Run the analysis pipeline on an input file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "preset",
				Aliases: []string{"p"},
				Usage:   "Analysis preset label",
			},
			&cli.StringFlag{
				Name:  "results-dir",
				Usage: "Directory to create the run output tree under",
			},
			TUIFlag,
			FormatFlag,
			ConfigFlag,
		},
		Action: analyzeAction,
	}
}

func analyzeAction(c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		return cli.Exit("analyze: input file argument required", exitInvalidInput)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitInvalidInput)
	}
	if v := c.String("results-dir"); v != "" {
		cfg.ResultsDir = v
	}

	preset := cfg.Preset
	if v := c.String("preset"); v != "" {
		preset = v
	}
	if err := config.ValidatePreset(preset); err != nil {
		return cli.Exit(err.Error(), exitInvalidInput)
	}

	req := types.RunRequest{InputPath: input, Preset: preset}
	if err := req.Validate(); err != nil {
		return cli.Exit(err.Error(), exitInvalidInput)
	}

	// History is a side effect of selecting a file, not part of the run
	// contract; a write failure must not block the run.
	if _, err := history.NewStore(cfg.HistoryFile).Add(input); err != nil {
		fmt.Fprintf(os.Stderr, "warning: history not updated: %v\n", err)
	}

	logger, err := log.New(filepath.Join(cfg.LogsDir, "app.log"))
	if err != nil {
		return cli.Exit(err.Error(), exitInvalidInput)
	}
	defer iox.DiscardClose(logger)

	runDir := filepath.Join(cfg.ResultsDir, "run-"+time.Now().Format("20060102-150405"))
	st, err := store.NewDirStore(runDir)
	if err != nil {
		return cli.Exit(err.Error(), exitInvalidInput)
	}

	collector := metrics.NewCollector()
	engine := analysis.NewStubEngine(analysis.Config{
		Writer:    st,
		Logger:    logger,
		Collector: collector,
		StepDelay: cfg.Pacing.StepDelay.Duration,
		SubSteps:  cfg.Pacing.SubSteps,
	})
	run := runner.New(engine, logger, collector)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := run.Start(ctx, req)
	if err != nil {
		return cli.Exit(err.Error(), exitInvalidInput)
	}

	var (
		result  *types.AnalysisResult
		outcome types.OutcomeStatus
	)
	if c.Bool("tui") {
		result, outcome, err = tui.Run(input, preset, events)
		if err != nil {
			return cli.Exit(err.Error(), exitRunFailed)
		}
	} else {
		result, outcome, err = runHeadless(ctx, c, events)
		if err != nil {
			return err
		}
	}

	return exitFor(result, outcome)
}

// runHeadless consumes the event stream with a terminal progress bar and
// renders the final record.
func runHeadless(_ context.Context, c *cli.Context, events <-chan types.Event) (*types.AnalysisResult, types.OutcomeStatus, error) {
	r, err := render.NewRenderer(c)
	if err != nil {
		return nil, types.OutcomeFailure, cli.Exit(err.Error(), exitInvalidInput)
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("starting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var (
		result  *types.AnalysisResult
		outcome types.OutcomeStatus
	)
	runner.Relay(events, runner.Observer{
		OnStage: func(name string) {
			bar.Describe(name)
		},
		OnProgress: func(percent int) {
			_ = bar.Set(percent)
		},
		OnDone: func(res *types.AnalysisResult, out types.OutcomeStatus) {
			result = res
			outcome = out
		},
	})
	iox.DiscardErr(bar.Finish)

	if result != nil {
		if err := r.RenderResult(result); err != nil {
			return nil, types.OutcomeFailure, cli.Exit(err.Error(), exitRunFailed)
		}
	}
	return result, outcome, nil
}

// exitFor maps the terminal outcome to the analyze exit code.
func exitFor(result *types.AnalysisResult, outcome types.OutcomeStatus) error {
	switch outcome {
	case types.OutcomeSuccess:
		return nil
	case types.OutcomeCanceled:
		return cli.Exit("", exitCanceled)
	default:
		msg := "analysis failed"
		if result != nil && result.ErrorMessage != "" {
			msg = result.ErrorMessage
		}
		return cli.Exit(msg, exitRunFailed)
	}
}

// loadConfig loads the config named by --config, or the default lookup.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}
