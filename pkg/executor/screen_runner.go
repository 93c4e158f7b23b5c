package executor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/devicelab-dev/uitest-runner/pkg/core"
	"github.com/devicelab-dev/uitest-runner/pkg/doc"
)

// runScreen executes a screen test: setup, each case in isolation, then
// best-effort teardown. A case failure never aborts its siblings; only a
// setup failure is fatal to the suite.
func (r *Runner) runScreen(st *doc.ScreenTest) (*core.TestSuiteResult, error) {
	suite := core.NewSuiteResult(st.Name)

	// Let the backend stabilize before the first interaction.
	if r.cfg.SettleDelay > 0 {
		time.Sleep(r.cfg.SettleDelay)
	}

	if r.excluded(st.Platform) {
		r.log.Info().Str("suite", st.Name).Str("platform", r.cfg.Platform).Msg("suite excluded by platform target")
		suite.ComputeSummary()
		return suite, nil
	}

	start := time.Now()
	d := r.dispatcher()

	if err := r.runSteps(d, st.Setup); err != nil {
		return nil, core.ErrSetupFailure.WithMessagef("setup failed for suite %q", st.Name).WithCause(err)
	}

	for _, tc := range st.Cases {
		suite.Append(r.runCase(d, st.Name, tc))
	}

	if err := r.runSteps(d, st.Teardown); err != nil {
		// Teardown is best effort; a failure never flips a result.
		r.log.Warn().Err(core.ErrTeardownFailure.WithCause(err)).Str("suite", st.Name).Msg("teardown failed")
	}

	suite.Duration = time.Since(start)
	suite.ComputeSummary()
	return suite, nil
}

// runCase executes one case. A skipped or platform-excluded case records
// an immediate passing no-op result with zero duration.
func (r *Runner) runCase(d *dispatcher, suiteName string, tc doc.TestCase) core.TestResult {
	result := core.TestResult{
		Suite: suiteName,
		Case:  tc.Name,
	}

	if tc.Skip || r.excluded(tc.Platform) {
		r.log.Info().Str("case", tc.Name).Msg("case skipped")
		result.Passed = true
		return result
	}

	start := time.Now()
	if err := r.runSteps(d, tc.Steps); err != nil {
		r.log.Error().Err(err).Str("case", tc.Name).Msg("case failed")
		r.failureScreenshot(suiteName, tc.Name)
		result.Message = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	result.Passed = true
	result.Duration = time.Since(start)
	return result
}

// runSteps dispatches a step sequence, stopping at the first failure.
func (r *Runner) runSteps(d *dispatcher, steps []doc.TestStep) error {
	for i, step := range steps {
		if err := d.Dispatch(step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Describe(), err)
		}
	}
	return nil
}

// failureScreenshot captures the failing screen when configured to. Best
// effort: capture errors are only logged.
func (r *Runner) failureScreenshot(suiteName, caseName string) {
	if !r.cfg.ScreenshotOnFailure {
		return
	}
	name := sanitizeFileName(suiteName) + "_" + sanitizeFileName(caseName) + ".png"
	path := filepath.Join(r.cfg.ScreenshotDir, name)
	if err := r.backend.CaptureScreenshot(path); err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("failure screenshot capture failed")
	}
}

func sanitizeFileName(name string) string {
	return strings.Map(func(c rune) rune {
		switch c {
		case '/', '\\', ':', ' ':
			return '-'
		}
		return c
	}, name)
}
