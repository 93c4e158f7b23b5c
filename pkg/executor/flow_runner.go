package executor

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/devicelab-dev/uitest-runner/pkg/core"
	"github.com/devicelab-dev/uitest-runner/pkg/doc"
	"github.com/devicelab-dev/uitest-runner/pkg/resolver"
)

// runFlow executes a flow test as one atomic unit: setup, steps and
// teardown together. The first failing step aborts everything that
// follows, teardown included, and the whole flow occupies exactly one
// result slot.
func (r *Runner) runFlow(ft *doc.FlowTest, rctx resolver.Context) (*core.TestSuiteResult, error) {
	suite := core.NewSuiteResult(ft.Name)

	if r.excluded(ft.Platform) {
		r.log.Info().Str("flow", ft.Name).Str("platform", r.cfg.Platform).Msg("flow excluded by platform target")
		suite.ComputeSummary()
		return suite, nil
	}

	start := time.Now()
	err := r.runFlowUnit(r.dispatcher(), ft, rctx)

	result := core.TestResult{
		Suite:    ft.Name,
		Case:     ft.Name,
		Passed:   err == nil,
		Duration: time.Since(start),
	}
	if err != nil {
		r.log.Error().Err(err).Str("flow", ft.Name).Msg("flow failed")
		r.failureScreenshot(ft.Name, "flow")
		result.Message = err.Error()
	}

	suite.Append(result)
	suite.Duration = time.Since(start)
	suite.ComputeSummary()
	return suite, nil
}

func (r *Runner) runFlowUnit(d *dispatcher, ft *doc.FlowTest, rctx resolver.Context) error {
	for i, step := range ft.Setup {
		if err := r.runFlowStep(d, step, rctx); err != nil {
			return fmt.Errorf("setup step %d (%s): %w", i, step.Describe(), err)
		}
	}

	for i := range ft.Steps {
		step := ft.Steps[i]
		if err := r.runFlowStep(d, step, rctx); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Describe(), err)
		}
		r.checkpoints(ft, i)
	}

	for i, step := range ft.Teardown {
		if err := r.runFlowStep(d, step, rctx); err != nil {
			return fmt.Errorf("teardown step %d (%s): %w", i, step.Describe(), err)
		}
	}

	return nil
}

// runFlowStep dispatches one flow step by shape. Resolution errors from
// a file-reference step fail the flow exactly like a step failure.
func (r *Runner) runFlowStep(d *dispatcher, step doc.FlowTestStep, rctx resolver.Context) error {
	switch step.Shape() {
	case doc.ShapeInline:
		return d.Dispatch(step.TestStep)

	case doc.ShapeBlock:
		if r.cfg.Verbose {
			r.log.Debug().Str("block", step.Block).Int("steps", len(step.Steps)).Msg("entering block")
		}
		for i, inner := range step.Steps {
			if err := d.Dispatch(inner); err != nil {
				return fmt.Errorf("block %q step %d: %w", step.Block, i, err)
			}
		}
		return nil

	case doc.ShapeFileReference:
		cases, err := rctx.ResolveCases(step.File, step.Case, step.Cases)
		if err != nil {
			return err
		}
		for _, tc := range cases {
			// Skipped or platform-excluded cases are silently omitted:
			// the flow has only one result slot.
			if tc.Skip || r.excluded(tc.Platform) {
				continue
			}
			for i, inner := range tc.Steps {
				if err := d.Dispatch(inner); err != nil {
					return fmt.Errorf("case %q step %d: %w", tc.Name, i, err)
				}
			}
		}
		return nil
	}

	return core.ErrStepArgument.WithMessage("flow step has no recognizable shape")
}

// checkpoints fires the markers tied to the just-completed step index.
func (r *Runner) checkpoints(ft *doc.FlowTest, idx int) {
	for _, cp := range ft.CheckpointsAt(idx) {
		r.log.Info().Str("checkpoint", cp.Name).Int("step", idx).Msg("checkpoint reached")
		if !cp.Screenshot {
			continue
		}
		path := filepath.Join(r.cfg.ScreenshotDir, sanitizeFileName(cp.Name)+".png")
		if err := r.backend.CaptureScreenshot(path); err != nil {
			r.log.Warn().Err(err).Str("path", path).Msg("checkpoint screenshot capture failed")
		}
	}
}
