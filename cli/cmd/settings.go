package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/skysift-io/skysift/cli/render"
	"github.com/skysift-io/skysift/settings"
)

// SettingsCommand returns the settings command.
func SettingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Inspect or update analysis settings",
		Flags: ReadOnlyFlags(),
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Update one setting",
				ArgsUsage: "<key> <value>",
				Flags:     ReadOnlyFlags(),
				Action:    settingsSetAction,
			},
		},
		Action: settingsShowAction,
	}
}

func settingsShowAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	s, err := settings.Load(cfg.SettingsFile)
	if err != nil {
		return err
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	return r.Render(s)
}

func settingsSetAction(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return cli.Exit("settings set: expected <key> <value>", 1)
	}
	key, value := c.Args().Get(0), c.Args().Get(1)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	s, err := settings.Load(cfg.SettingsFile)
	if err != nil {
		return err
	}
	if err := s.Set(key, value); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := settings.Save(cfg.SettingsFile, s); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}
