// Package cmd provides CLI commands for the skysift binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// ConfigFlag points at an alternate skysift.yaml.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to skysift.yaml config file",
	}

	// TUIFlag enables the Bubble Tea shell for analyze.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Run the interactive shell instead of plain output",
	}
)

// ReadOnlyFlags returns the shared flags for read-only commands.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		ConfigFlag,
	}
}
