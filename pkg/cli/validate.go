package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/uitest-runner/pkg/validator"
)

var validateCommand = &cli.Command{
	Name:      "validate",
	Usage:     "Validate test documents without running them",
	ArgsUsage: "<test-file-or-folder>...",
	Description: `Parse every document, check action and assertion kinds, and
verify that file-reference steps resolve. Exits non-zero if any document
is invalid.`,
	Action: validateAction,
}

func validateAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return fmt.Errorf("no test files given, see 'uitest-runner validate --help'")
	}

	v := validator.New()
	var files, failures int

	for _, arg := range ctx.Args().Slice() {
		result := v.Validate(arg)
		files += len(result.Files)
		failures += len(result.Errors)
		for _, err := range result.Errors {
			fmt.Fprintf(ctx.App.Writer, "%s %v\n", color.RedString("✗"), err)
		}
	}

	if failures > 0 {
		return cli.Exit(fmt.Sprintf("%d problem(s) in %d file(s)", failures, files), 1)
	}

	fmt.Fprintf(ctx.App.Writer, "%s %d file(s) valid\n", color.GreenString("✓"), files)
	return nil
}
