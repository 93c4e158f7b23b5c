// Package cli provides the command-line interface for uitest-runner.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/uitest-runner/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "platform",
		Aliases: []string{"p"},
		Usage:   "Active platform for platform gating (ios, android, ...)",
		EnvVars: []string{"UITEST_PLATFORM"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose (debug) logging",
		EnvVars: []string{"UITEST_VERBOSE"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "uitest-runner",
		Usage:   "Declarative UI test runner for JSON test documents",
		Version: Version,
		Description: `uitest-runner executes *.test.json documents describing UI
interaction sequences: screen tests (named cases against one layout)
and flow tests (atomic cross-screen sequences).

Examples:
  uitest-runner run login.test.json
  uitest-runner run tests/ --platform ios
  uitest-runner validate tests/`,
		Flags: GlobalFlags,
		Before: func(ctx *cli.Context) error {
			logger.Init(ctx.Bool("verbose"))
			if ctx.Bool("no-ansi") {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			runCommand,
			validateCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
