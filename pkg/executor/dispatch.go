package executor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devicelab-dev/uitest-runner/pkg/core"
	"github.com/devicelab-dev/uitest-runner/pkg/doc"
)

// dispatcher executes exactly one action or assertion per step against
// the backend capability interface.
type dispatcher struct {
	backend core.Backend
	cfg     Config
	log     zerolog.Logger
}

var validDirections = map[string]bool{
	"up":    true,
	"down":  true,
	"left":  true,
	"right": true,
}

// Dispatch routes a step to its handler. Step-kind and parameter errors
// come back as step_argument; wait exhaustion as element_not_found;
// state mismatches as assertion_failure.
func (d *dispatcher) Dispatch(step doc.TestStep) error {
	if d.cfg.Verbose {
		d.log.Debug().Str("step", step.Describe()).Msg("dispatch")
	}
	switch {
	case step.IsAction() && step.IsAssertion():
		return core.ErrStepArgument.WithMessage("step declares both action and assert")
	case step.IsAction():
		return d.runAction(step)
	case step.IsAssertion():
		return d.runAssertion(step)
	}
	return core.ErrStepArgument.WithMessage("step declares neither action nor assert")
}

// timeout returns the step's declared timeout, or the runner default.
func (d *dispatcher) timeout(step doc.TestStep) time.Duration {
	if step.Timeout > 0 {
		return time.Duration(step.Timeout) * time.Millisecond
	}
	return d.cfg.DefaultTimeout
}

// awaitElement polls the backend's locate capability at a fixed interval
// until an element with the given id exists or the timeout elapses.
func (d *dispatcher) awaitElement(id string, timeout time.Duration) (*core.Element, error) {
	deadline := time.Now().Add(timeout)
	for {
		if el := d.backend.LocateByID(id); el != nil {
			return el, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, core.ErrElementNotFound.WithMessagef("element %q not found within %s", id, timeout)
		}
		interval := d.cfg.PollInterval
		if remaining < interval {
			interval = remaining
		}
		time.Sleep(interval)
	}
}

// awaitAnyElement polls until any of the ids resolves to an element.
func (d *dispatcher) awaitAnyElement(ids []string, timeout time.Duration) (*core.Element, error) {
	deadline := time.Now().Add(timeout)
	for {
		for _, id := range ids {
			if el := d.backend.LocateByID(id); el != nil {
				return el, nil
			}
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, core.ErrElementNotFound.WithMessagef("none of %v found within %s", ids, timeout)
		}
		interval := d.cfg.PollInterval
		if remaining < interval {
			interval = remaining
		}
		time.Sleep(interval)
	}
}

func missingParam(step doc.TestStep, field string) error {
	return core.ErrStepArgument.WithMessagef("%s: missing required parameter %q", step.Kind(), field)
}

func (d *dispatcher) requireID(step doc.TestStep) (string, error) {
	if step.ID == "" {
		return "", missingParam(step, "id")
	}
	return step.ID, nil
}

// gesture wraps a backend gesture so backend-reported failures are
// distinguishable from parameter errors.
func (d *dispatcher) gesture(g core.Gesture) error {
	if err := d.backend.PerformGesture(g); err != nil {
		return fmt.Errorf("gesture %s: %w", g.Kind, err)
	}
	return nil
}

func (d *dispatcher) runAction(step doc.TestStep) error {
	switch step.Action {
	case doc.ActionTap:
		return d.tap(step)
	case doc.ActionDoubleTap:
		return d.elementGesture(step, core.GestureDoubleTap)
	case doc.ActionLongPress:
		return d.elementGesture(step, core.GestureLongPress)
	case doc.ActionInput:
		return d.input(step)
	case doc.ActionClear:
		return d.elementGesture(step, core.GestureClear)
	case doc.ActionScroll:
		return d.directional(step, core.GestureScroll)
	case doc.ActionSwipe:
		return d.directional(step, core.GestureSwipe)
	case doc.ActionWaitFor:
		return d.waitFor(step)
	case doc.ActionWaitForAny:
		return d.waitForAny(step)
	case doc.ActionWait:
		return d.wait(step)
	case doc.ActionBack:
		return d.gesture(core.Gesture{Kind: core.GestureBack})
	case doc.ActionScreenshot:
		return d.screenshot(step)
	case doc.ActionAlertTap:
		return d.alertTap(step)
	}
	return core.ErrStepArgument.WithMessagef("unknown action %q", step.Action)
}

func (d *dispatcher) runAssertion(step doc.TestStep) error {
	switch step.Assert {
	case doc.AssertVisible:
		return d.assertVisible(step)
	case doc.AssertNotVisible:
		return d.assertNotVisible(step)
	case doc.AssertEnabled:
		return d.assertEnabled(step, true)
	case doc.AssertDisabled:
		return d.assertEnabled(step, false)
	case doc.AssertText:
		return d.assertText(step)
	case doc.AssertCount:
		return d.assertCount(step)
	}
	return core.ErrStepArgument.WithMessagef("unknown assertion %q", step.Assert)
}

// tap locates the element and taps it, or a sub-text region inside it
// when the text parameter is given.
func (d *dispatcher) tap(step doc.TestStep) error {
	id, err := d.requireID(step)
	if err != nil {
		return err
	}
	el, err := d.awaitElement(id, d.timeout(step))
	if err != nil {
		return err
	}
	if step.Text != "" {
		if !strings.Contains(d.backend.ElementText(el), step.Text) {
			return core.ErrElementNotFound.WithMessagef("text %q not found inside element %q", step.Text, id)
		}
	}
	return d.gesture(core.Gesture{Kind: core.GestureTap, Target: el, Text: step.Text})
}

// elementGesture handles the locate-then-gesture actions that take no
// extra parameters beyond the element itself.
func (d *dispatcher) elementGesture(step doc.TestStep, kind core.GestureKind) error {
	id, err := d.requireID(step)
	if err != nil {
		return err
	}
	el, err := d.awaitElement(id, d.timeout(step))
	if err != nil {
		return err
	}
	return d.gesture(core.Gesture{Kind: kind, Target: el, DurationMs: step.Duration})
}

func (d *dispatcher) input(step doc.TestStep) error {
	id, err := d.requireID(step)
	if err != nil {
		return err
	}
	if step.Value == "" {
		return missingParam(step, "value")
	}
	el, err := d.awaitElement(id, d.timeout(step))
	if err != nil {
		return err
	}
	return d.gesture(core.Gesture{Kind: core.GestureInput, Target: el, Text: step.Value})
}

func (d *dispatcher) directional(step doc.TestStep, kind core.GestureKind) error {
	id, err := d.requireID(step)
	if err != nil {
		return err
	}
	if step.Direction == "" {
		return missingParam(step, "direction")
	}
	if !validDirections[step.Direction] {
		return core.ErrStepArgument.WithMessagef("%s: invalid direction %q, want up|down|left|right", step.Kind(), step.Direction)
	}
	el, err := d.awaitElement(id, d.timeout(step))
	if err != nil {
		return err
	}
	return d.gesture(core.Gesture{
		Kind:       kind,
		Target:     el,
		Direction:  step.Direction,
		Amount:     step.Amount,
		DurationMs: step.Duration,
	})
}

func (d *dispatcher) waitFor(step doc.TestStep) error {
	id, err := d.requireID(step)
	if err != nil {
		return err
	}
	_, err = d.awaitElement(id, d.timeout(step))
	return err
}

func (d *dispatcher) waitForAny(step doc.TestStep) error {
	if len(step.IDs) == 0 {
		return missingParam(step, "ids")
	}
	_, err := d.awaitAnyElement(step.IDs, d.timeout(step))
	return err
}

func (d *dispatcher) wait(step doc.TestStep) error {
	if step.Ms <= 0 {
		return missingParam(step, "ms")
	}
	time.Sleep(time.Duration(step.Ms) * time.Millisecond)
	return nil
}

// screenshot is best effort: a capture failure is logged, never failed.
func (d *dispatcher) screenshot(step doc.TestStep) error {
	if step.Name == "" {
		return missingParam(step, "name")
	}
	path := step.Path
	if path == "" {
		path = filepath.Join(d.cfg.ScreenshotDir, step.Name+".png")
	}
	if err := d.backend.CaptureScreenshot(path); err != nil {
		d.log.Warn().Err(err).Str("path", path).Msg("screenshot capture failed")
	}
	return nil
}

func (d *dispatcher) alertTap(step doc.TestStep) error {
	if step.Button == "" {
		return missingParam(step, "button")
	}
	timeout := d.timeout(step)
	el, err := d.awaitElement(step.Button, timeout)
	if err != nil {
		return core.ErrElementNotFound.WithMessagef("alert button %q not found within %s", step.Button, timeout)
	}
	return d.gesture(core.Gesture{Kind: core.GestureAlertTap, Target: el, Text: step.Button})
}

func (d *dispatcher) assertVisible(step doc.TestStep) error {
	id, err := d.requireID(step)
	if err != nil {
		return err
	}
	_, err = d.awaitElement(id, d.timeout(step))
	return err
}

// assertNotVisible is the asymmetric exception to the polling wait: it
// sleeps a single short grace window (capped at the requested timeout)
// and then performs one negative existence check. Proving absence cannot
// be sped up by polling longer.
func (d *dispatcher) assertNotVisible(step doc.TestStep) error {
	id, err := d.requireID(step)
	if err != nil {
		return err
	}
	grace := d.cfg.AbsenceGrace
	if timeout := d.timeout(step); timeout < grace {
		grace = timeout
	}
	time.Sleep(grace)
	if d.backend.LocateByID(id) != nil {
		return core.ErrAssertionFailure.WithMessagef("element %q is visible", id)
	}
	return nil
}

func (d *dispatcher) assertEnabled(step doc.TestStep, want bool) error {
	id, err := d.requireID(step)
	if err != nil {
		return err
	}
	el, err := d.awaitElement(id, d.timeout(step))
	if err != nil {
		return err
	}
	if got := d.backend.ElementEnabled(el); got != want {
		return core.ErrAssertionFailure.WithMessagef("element %q enabled=%t, want enabled=%t", id, got, want)
	}
	return nil
}

func (d *dispatcher) assertText(step doc.TestStep) error {
	id, err := d.requireID(step)
	if err != nil {
		return err
	}

	hasEquals := step.Equals != nil
	hasContains := step.Contains != ""
	if hasEquals == hasContains {
		return core.ErrStepArgument.WithMessagef("text: exactly one of %q or %q must be given", "equals", "contains")
	}

	el, err := d.awaitElement(id, d.timeout(step))
	if err != nil {
		return err
	}
	actual := d.backend.ElementText(el)

	if hasEquals {
		want, ok := step.Equals.String()
		if !ok {
			return core.ErrStepArgument.WithMessagef("text: %q must be a string", "equals")
		}
		if actual != want {
			return core.ErrAssertionFailure.WithMessagef("element %q text is %q, want %q", id, actual, want)
		}
		return nil
	}

	if !strings.Contains(actual, step.Contains) {
		return core.ErrAssertionFailure.WithMessagef("element %q text %q does not contain %q", id, actual, step.Contains)
	}
	return nil
}

// assertCount polls until the number of elements sharing the id matches
// the expected integer, failing with the last observed count on timeout.
func (d *dispatcher) assertCount(step doc.TestStep) error {
	id, err := d.requireID(step)
	if err != nil {
		return err
	}
	if step.Equals == nil {
		return missingParam(step, "equals")
	}
	want, ok := step.Equals.Int()
	if !ok {
		return core.ErrStepArgument.WithMessagef("count: %q must be an integer", "equals")
	}

	deadline := time.Now().Add(d.timeout(step))
	got := len(d.backend.LocateAllByID(id))
	for got != want {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return core.ErrAssertionFailure.WithMessagef("found %d elements with id %q, want %d", got, id, want)
		}
		interval := d.cfg.PollInterval
		if remaining < interval {
			interval = remaining
		}
		time.Sleep(interval)
		got = len(d.backend.LocateAllByID(id))
	}
	return nil
}
