package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/skysift-io/skysift/cli/render"
	"github.com/skysift-io/skysift/history"
)

// HistoryCommand returns the history command.
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recently analyzed files (most recent first)",
		Flags: ReadOnlyFlags(),
		Subcommands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "Forget all recent files",
				Flags: ReadOnlyFlags(),
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					return history.NewStore(cfg.HistoryFile).Clear()
				},
			},
		},
		Action: historyAction,
	}
}

func historyAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	entries := history.NewStore(cfg.HistoryFile).Load()

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("(no recent files)")
		return nil
	}
	return r.Render(entries)
}
