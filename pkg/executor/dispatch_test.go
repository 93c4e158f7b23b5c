package executor

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/uitest-runner/pkg/backend/mock"
	"github.com/devicelab-dev/uitest-runner/pkg/core"
	"github.com/devicelab-dev/uitest-runner/pkg/doc"
)

func testConfig() Config {
	return Config{
		DefaultTimeout: 50 * time.Millisecond,
		PollInterval:   time.Millisecond,
		AbsenceGrace:   2 * time.Millisecond,
	}.withDefaults()
}

func newTestDispatcher(b *mock.Backend) *dispatcher {
	return &dispatcher{
		backend: b,
		cfg:     testConfig(),
		log:     zerolog.Nop(),
	}
}

func TestDispatch_Tap(t *testing.T) {
	b := mock.New()
	b.AddElement(mock.Element("submit", "Submit"))
	d := newTestDispatcher(b)

	err := d.Dispatch(doc.TestStep{Action: doc.ActionTap, ID: "submit"})
	require.NoError(t, err)

	require.Len(t, b.Gestures, 1)
	assert.Equal(t, core.GestureTap, b.Gestures[0].Kind)
	assert.Equal(t, "submit", b.Gestures[0].Target.ID)
}

func TestDispatch_TapSubText(t *testing.T) {
	b := mock.New()
	b.AddElement(mock.Element("terms", "I accept the Terms of Service"))
	d := newTestDispatcher(b)

	require.NoError(t, d.Dispatch(doc.TestStep{Action: doc.ActionTap, ID: "terms", Text: "Terms"}))

	err := d.Dispatch(doc.TestStep{Action: doc.ActionTap, ID: "terms", Text: "Privacy"})
	require.ErrorIs(t, err, core.ErrElementNotFound)
	assert.Contains(t, err.Error(), `"Privacy"`)
}

func TestDispatch_MissingRequiredParams(t *testing.T) {
	d := newTestDispatcher(mock.New())

	cases := []struct {
		name string
		step doc.TestStep
	}{
		{"tap without id", doc.TestStep{Action: doc.ActionTap}},
		{"input without value", doc.TestStep{Action: doc.ActionInput, ID: "field"}},
		{"scroll without direction", doc.TestStep{Action: doc.ActionScroll, ID: "list"}},
		{"waitForAny without ids", doc.TestStep{Action: doc.ActionWaitForAny}},
		{"wait without ms", doc.TestStep{Action: doc.ActionWait}},
		{"screenshot without name", doc.TestStep{Action: doc.ActionScreenshot}},
		{"alertTap without button", doc.TestStep{Action: doc.ActionAlertTap}},
		{"count without equals", doc.TestStep{Assert: doc.AssertCount, ID: "item"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := d.Dispatch(tc.step)
			assert.ErrorIs(t, err, core.ErrStepArgument)
		})
	}
}

func TestDispatch_UnknownKinds(t *testing.T) {
	d := newTestDispatcher(mock.New())

	err := d.Dispatch(doc.TestStep{Action: "hover", ID: "x"})
	assert.ErrorIs(t, err, core.ErrStepArgument)

	err = d.Dispatch(doc.TestStep{Assert: "focused", ID: "x"})
	assert.ErrorIs(t, err, core.ErrStepArgument)
}

func TestDispatch_InvalidDirection(t *testing.T) {
	b := mock.New()
	b.AddElement(mock.Element("list", ""))
	d := newTestDispatcher(b)

	for _, dir := range []string{"up", "down", "left", "right"} {
		require.NoError(t, d.Dispatch(doc.TestStep{Action: doc.ActionSwipe, ID: "list", Direction: dir}))
	}

	err := d.Dispatch(doc.TestStep{Action: doc.ActionScroll, ID: "list", Direction: "upwards"})
	require.ErrorIs(t, err, core.ErrStepArgument)
	assert.Contains(t, err.Error(), "invalid direction")
}

func TestAwaitElement_PollsUntilElementAppears(t *testing.T) {
	b := mock.New()
	b.AddElementAfter(mock.Element("late", "Loaded"), 15*time.Millisecond)
	d := newTestDispatcher(b)

	err := d.Dispatch(doc.TestStep{Action: doc.ActionWaitFor, ID: "late", Timeout: 500})
	assert.NoError(t, err)
}

func TestAwaitElement_TimesOut(t *testing.T) {
	d := newTestDispatcher(mock.New())

	start := time.Now()
	err := d.Dispatch(doc.TestStep{Action: doc.ActionWaitFor, ID: "ghost", Timeout: 20})
	require.ErrorIs(t, err, core.ErrElementNotFound)
	assert.Contains(t, err.Error(), `"ghost"`)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDispatch_WaitForAny(t *testing.T) {
	b := mock.New()
	b.AddElementAfter(mock.Element("second", ""), 10*time.Millisecond)
	d := newTestDispatcher(b)

	err := d.Dispatch(doc.TestStep{Action: doc.ActionWaitForAny, IDs: []string{"first", "second"}, Timeout: 500})
	require.NoError(t, err)

	err = d.Dispatch(doc.TestStep{Action: doc.ActionWaitForAny, IDs: []string{"x", "y"}, Timeout: 10})
	assert.ErrorIs(t, err, core.ErrElementNotFound)
}

func TestDispatch_WaitSleeps(t *testing.T) {
	d := newTestDispatcher(mock.New())

	start := time.Now()
	require.NoError(t, d.Dispatch(doc.TestStep{Action: doc.ActionWait, Ms: 15}))
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestDispatch_BackAndAlertTap(t *testing.T) {
	b := mock.New()
	b.AddElement(mock.Element("OK", "OK"))
	d := newTestDispatcher(b)

	require.NoError(t, d.Dispatch(doc.TestStep{Action: doc.ActionBack}))
	require.NoError(t, d.Dispatch(doc.TestStep{Action: doc.ActionAlertTap, Button: "OK"}))

	require.Len(t, b.Gestures, 2)
	assert.Equal(t, core.GestureBack, b.Gestures[0].Kind)
	assert.Equal(t, core.GestureAlertTap, b.Gestures[1].Kind)

	err := d.Dispatch(doc.TestStep{Action: doc.ActionAlertTap, Button: "Cancel", Timeout: 10})
	require.ErrorIs(t, err, core.ErrElementNotFound)
	assert.Contains(t, err.Error(), "alert button")
}

func TestDispatch_ScreenshotBestEffort(t *testing.T) {
	b := mock.New()
	d := newTestDispatcher(b)

	require.NoError(t, d.Dispatch(doc.TestStep{Action: doc.ActionScreenshot, Name: "before-login"}))
	require.Len(t, b.Screenshots, 1)
	assert.Contains(t, b.Screenshots[0], "before-login.png")

	b.ScreenshotErr = errors.New("capture unavailable")
	assert.NoError(t, d.Dispatch(doc.TestStep{Action: doc.ActionScreenshot, Name: "after-login"}))
}

func TestDispatch_GestureFailurePropagates(t *testing.T) {
	b := mock.New()
	b.AddElement(mock.Element("btn", ""))
	b.FailGesture(core.GestureTap, errors.New("device disconnected"))
	d := newTestDispatcher(b)

	err := d.Dispatch(doc.TestStep{Action: doc.ActionTap, ID: "btn"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device disconnected")
}

func TestAssert_Visible(t *testing.T) {
	b := mock.New()
	b.AddElement(mock.Element("banner", ""))
	d := newTestDispatcher(b)

	assert.NoError(t, d.Dispatch(doc.TestStep{Assert: doc.AssertVisible, ID: "banner"}))
	assert.ErrorIs(t, d.Dispatch(doc.TestStep{Assert: doc.AssertVisible, ID: "ghost", Timeout: 10}), core.ErrElementNotFound)
}

func TestAssert_NotVisible_SingleCheckAfterGrace(t *testing.T) {
	b := mock.New()
	b.AddElement(mock.Element("spinner", ""))
	d := newTestDispatcher(b)

	// The requested timeout is huge; the assertion must still return
	// after the short grace window with a failure.
	start := time.Now()
	err := d.Dispatch(doc.TestStep{Assert: doc.AssertNotVisible, ID: "spinner", Timeout: 10000})
	require.ErrorIs(t, err, core.ErrAssertionFailure)
	assert.Less(t, time.Since(start), time.Second)

	b.RemoveElement("spinner")
	assert.NoError(t, d.Dispatch(doc.TestStep{Assert: doc.AssertNotVisible, ID: "spinner", Timeout: 10000}))
}

func TestAssert_NotVisible_GraceCappedByTimeout(t *testing.T) {
	d := newTestDispatcher(mock.New())
	d.cfg.AbsenceGrace = time.Minute

	start := time.Now()
	err := d.Dispatch(doc.TestStep{Assert: doc.AssertNotVisible, ID: "x", Timeout: 20})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAssert_EnabledDisabled(t *testing.T) {
	b := mock.New()
	on := mock.Element("save", "")
	off := mock.Element("delete", "")
	off.Enabled = false
	b.AddElement(on)
	b.AddElement(off)
	d := newTestDispatcher(b)

	assert.NoError(t, d.Dispatch(doc.TestStep{Assert: doc.AssertEnabled, ID: "save"}))
	assert.NoError(t, d.Dispatch(doc.TestStep{Assert: doc.AssertDisabled, ID: "delete"}))

	err := d.Dispatch(doc.TestStep{Assert: doc.AssertDisabled, ID: "save"})
	require.ErrorIs(t, err, core.ErrAssertionFailure)

	err = d.Dispatch(doc.TestStep{Assert: doc.AssertEnabled, ID: "delete"})
	assert.ErrorIs(t, err, core.ErrAssertionFailure)
}

func TestAssert_Text(t *testing.T) {
	b := mock.New()
	b.AddElement(mock.Element("greeting", "Hello, Alice!"))
	d := newTestDispatcher(b)

	assert.NoError(t, d.Dispatch(doc.TestStep{Assert: doc.AssertText, ID: "greeting", Equals: doc.StringScalar("Hello, Alice!")}))
	assert.NoError(t, d.Dispatch(doc.TestStep{Assert: doc.AssertText, ID: "greeting", Contains: "Alice"}))

	err := d.Dispatch(doc.TestStep{Assert: doc.AssertText, ID: "greeting", Equals: doc.StringScalar("Hello, Bob!")})
	require.ErrorIs(t, err, core.ErrAssertionFailure)
	assert.Contains(t, err.Error(), "Hello, Alice!")

	err = d.Dispatch(doc.TestStep{Assert: doc.AssertText, ID: "greeting", Contains: "Bob"})
	assert.ErrorIs(t, err, core.ErrAssertionFailure)
}

func TestAssert_Text_ExactlyOneMatcher(t *testing.T) {
	b := mock.New()
	b.AddElement(mock.Element("greeting", "hi"))
	d := newTestDispatcher(b)

	err := d.Dispatch(doc.TestStep{Assert: doc.AssertText, ID: "greeting"})
	assert.ErrorIs(t, err, core.ErrStepArgument)

	err = d.Dispatch(doc.TestStep{
		Assert:   doc.AssertText,
		ID:       "greeting",
		Equals:   doc.StringScalar("hi"),
		Contains: "hi",
	})
	assert.ErrorIs(t, err, core.ErrStepArgument)

	// equals must be a string for text assertions
	err = d.Dispatch(doc.TestStep{Assert: doc.AssertText, ID: "greeting", Equals: doc.IntScalar(2)})
	assert.ErrorIs(t, err, core.ErrStepArgument)
}

func TestAssert_Count(t *testing.T) {
	b := mock.New()
	b.SetCount("item", 3)
	d := newTestDispatcher(b)

	assert.NoError(t, d.Dispatch(doc.TestStep{Assert: doc.AssertCount, ID: "item", Equals: doc.IntScalar(3)}))

	err := d.Dispatch(doc.TestStep{Assert: doc.AssertCount, ID: "item", Equals: doc.IntScalar(2), Timeout: 20})
	require.ErrorIs(t, err, core.ErrAssertionFailure)
	assert.Contains(t, err.Error(), "found 3")

	// equals must be an integer for count assertions
	err = d.Dispatch(doc.TestStep{Assert: doc.AssertCount, ID: "item", Equals: doc.StringScalar("3")})
	assert.ErrorIs(t, err, core.ErrStepArgument)
}
