package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/uitest-runner/pkg/backend/mock"
	"github.com/devicelab-dev/uitest-runner/pkg/config"
	"github.com/devicelab-dev/uitest-runner/pkg/core"
	"github.com/devicelab-dev/uitest-runner/pkg/executor"
	"github.com/devicelab-dev/uitest-runner/pkg/logger"
	"github.com/devicelab-dev/uitest-runner/pkg/report"
	"github.com/devicelab-dev/uitest-runner/pkg/resolver"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Run test documents against a backend",
	ArgsUsage: "<test-file-or-folder>...",
	Description: `Run one or more *.test.json documents. Directories are scanned
recursively for test files.

The only bundled backend is the in-memory mock, useful for dry runs and
exercising document structure; real device backends plug in through the
core.Backend interface.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to workspace config.yaml",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Backend to run against",
			Value: "mock",
		},
		&cli.IntFlag{
			Name:  "timeout",
			Usage: "Default step timeout in ms",
		},
		&cli.BoolFlag{
			Name:  "screenshot-on-failure",
			Usage: "Capture a screenshot when a case fails",
		},
		&cli.StringFlag{
			Name:  "screenshot-dir",
			Usage: "Directory for screenshots",
			Value: "screenshots",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write result.json to this directory",
		},
	},
	Action: runAction,
}

func runAction(ctx *cli.Context) error {
	cfg, ws, err := loadRunConfig(ctx)
	if err != nil {
		return err
	}

	args := ctx.Args().Slice()
	if len(args) == 0 {
		// No arguments: fall back to the workspace config's test list.
		args = ws.Tests
	}
	if len(args) == 0 {
		return fmt.Errorf("no test files given, see 'uitest-runner run --help'")
	}

	backend, err := buildBackend(ctx.String("backend"))
	if err != nil {
		return err
	}

	paths, err := collectTestFiles(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files found", resolver.TestFileSuffix)
	}

	runner := executor.New(backend, cfg)

	var results []*core.TestSuiteResult
	for _, path := range paths {
		suite, err := runner.RunPath(path)
		if err != nil {
			// Document-load and setup failures are hard failures.
			return fmt.Errorf("%s: %w", path, err)
		}
		results = append(results, suite)
	}

	if dir := ctx.String("output"); dir != "" {
		path, err := report.Write(dir, results)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "results written to %s\n", path)
	}

	report.PrintSummary(ctx.App.Writer, results)

	if !report.AllPassed(results) {
		return cli.Exit("", 1)
	}
	return nil
}

// loadRunConfig merges the optional workspace config file under the CLI
// flags. Flags win.
func loadRunConfig(ctx *cli.Context) (executor.Config, *config.Config, error) {
	var ws *config.Config
	var err error
	if path := ctx.String("config"); path != "" {
		ws, err = config.Load(path)
	} else {
		ws, err = config.LoadFromDir(".")
	}
	if err != nil {
		return executor.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.L()
	cfg := executor.Config{
		Platform:            ws.Platform,
		DefaultTimeout:      time.Duration(ws.DefaultTimeoutMs) * time.Millisecond,
		SettleDelay:         executor.DefaultSettleDelay,
		ScreenshotOnFailure: ws.ScreenshotOnFailure,
		ScreenshotDir:       ws.ScreenshotDir,
		Verbose:             ws.Verbose,
		Logger:              &log,
	}
	if ws.SettleDelayMs > 0 {
		cfg.SettleDelay = time.Duration(ws.SettleDelayMs) * time.Millisecond
	}

	if p := ctx.String("platform"); p != "" {
		cfg.Platform = p
	}
	if ms := ctx.Int("timeout"); ms > 0 {
		cfg.DefaultTimeout = time.Duration(ms) * time.Millisecond
	}
	if ctx.Bool("screenshot-on-failure") {
		cfg.ScreenshotOnFailure = true
	}
	if dir := ctx.String("screenshot-dir"); dir != "" {
		cfg.ScreenshotDir = dir
	}
	if ctx.Bool("verbose") {
		cfg.Verbose = true
	}

	return cfg, ws, nil
}

func buildBackend(name string) (core.Backend, error) {
	switch name {
	case "mock":
		return mock.New(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}

// collectTestFiles expands directory arguments into their *.test.json
// contents, keeping file arguments as-is.
func collectTestFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := resolver.Discover(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}
