package cmd

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/skysift-io/skysift/cli/render"
	"github.com/skysift-io/skysift/store"
)

// ShowCommand returns the show command, which re-renders a stored run
// result without re-running the analysis.
func ShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Render the result snapshot of a finished run",
		ArgsUsage: "<run-dir>",
		Flags:     ReadOnlyFlags(),
		Action:    showAction,
	}
}

func showAction(c *cli.Context) error {
	runDir := c.Args().First()
	if runDir == "" {
		return cli.Exit("show: run directory argument required", 1)
	}

	path := runDir
	if info, err := os.Stat(runDir); err == nil && info.IsDir() {
		path = filepath.Join(runDir, store.SnapshotName)
	}

	result, err := store.ReadSnapshot(path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	return r.RenderResult(result)
}
