package doc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Action kinds.
const (
	ActionTap        = "tap"
	ActionDoubleTap  = "doubleTap"
	ActionLongPress  = "longPress"
	ActionInput      = "input"
	ActionClear      = "clear"
	ActionScroll     = "scroll"
	ActionSwipe      = "swipe"
	ActionWaitFor    = "waitFor"
	ActionWaitForAny = "waitForAny"
	ActionWait       = "wait"
	ActionBack       = "back"
	ActionScreenshot = "screenshot"
	ActionAlertTap   = "alertTap"
)

// Assertion kinds.
const (
	AssertVisible    = "visible"
	AssertNotVisible = "notVisible"
	AssertEnabled    = "enabled"
	AssertDisabled   = "disabled"
	AssertText       = "text"
	AssertCount      = "count"
)

var knownActions = map[string]bool{
	ActionTap:        true,
	ActionDoubleTap:  true,
	ActionLongPress:  true,
	ActionInput:      true,
	ActionClear:      true,
	ActionScroll:     true,
	ActionSwipe:      true,
	ActionWaitFor:    true,
	ActionWaitForAny: true,
	ActionWait:       true,
	ActionBack:       true,
	ActionScreenshot: true,
	ActionAlertTap:   true,
}

var knownAssertions = map[string]bool{
	AssertVisible:    true,
	AssertNotVisible: true,
	AssertEnabled:    true,
	AssertDisabled:   true,
	AssertText:       true,
	AssertCount:      true,
}

// KnownAction reports whether name is a recognized action kind.
func KnownAction(name string) bool { return knownActions[name] }

// KnownAssertion reports whether name is a recognized assertion kind.
func KnownAssertion(name string) bool { return knownAssertions[name] }

// ScalarValue is a string-or-integer JSON scalar, used by the "equals"
// parameter which is a string for text assertions and an integer for
// count assertions. Re-serialization reproduces the decoded shape.
type ScalarValue struct {
	str   string
	num   int
	isNum bool
}

// StringScalar returns a string-shaped scalar.
func StringScalar(s string) *ScalarValue { return &ScalarValue{str: s} }

// IntScalar returns an integer-shaped scalar.
func IntScalar(n int) *ScalarValue { return &ScalarValue{num: n, isNum: true} }

// String returns the string form, if the scalar was a JSON string.
func (v *ScalarValue) String() (string, bool) { return v.str, !v.isNum }

// Int returns the integer form, if the scalar was a JSON number.
func (v *ScalarValue) Int() (int, bool) { return v.num, v.isNum }

// UnmarshalJSON accepts a JSON string or an integer.
func (v *ScalarValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = ScalarValue{str: s}
		return nil
	}

	var raw json.Number
	if err := json.Unmarshal(data, &raw); err == nil {
		n, err := strconv.Atoi(raw.String())
		if err != nil {
			return fmt.Errorf("expected an integer, got %s", raw)
		}
		*v = ScalarValue{num: n, isNum: true}
		return nil
	}

	return fmt.Errorf("expected a string or an integer, got %s", data)
}

// MarshalJSON reproduces the decoded shape.
func (v ScalarValue) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

// TestStep is one executable step: exactly one of Action or Assert is
// set, never both and never neither. The remaining fields are an open
// parameter set whose applicability depends on the step kind.
type TestStep struct {
	Action string `json:"action,omitempty"`
	Assert string `json:"assert,omitempty"`

	ID        string       `json:"id,omitempty"`
	IDs       []string     `json:"ids,omitempty"`
	Value     string       `json:"value,omitempty"`
	Text      string       `json:"text,omitempty"`
	Button    string       `json:"button,omitempty"`
	Direction string       `json:"direction,omitempty"`
	Duration  int          `json:"duration,omitempty"` // Milliseconds
	Timeout   int          `json:"timeout,omitempty"`  // Milliseconds, 0 = runner default
	Ms        int          `json:"ms,omitempty"`
	Name      string       `json:"name,omitempty"`
	Equals    *ScalarValue `json:"equals,omitempty"`
	Contains  string       `json:"contains,omitempty"`
	Path      string       `json:"path,omitempty"`
	Amount    int          `json:"amount,omitempty"`
}

// IsAction reports whether the step performs a UI interaction.
func (s *TestStep) IsAction() bool { return s.Action != "" }

// IsAssertion reports whether the step checks UI state.
func (s *TestStep) IsAssertion() bool { return s.Assert != "" }

// Kind returns the action or assertion name.
func (s *TestStep) Kind() string {
	if s.Action != "" {
		return s.Action
	}
	return s.Assert
}

// Validate checks the action/assert discriminator invariant.
func (s *TestStep) Validate() error {
	if s.Action != "" && s.Assert != "" {
		return fmt.Errorf("step declares both action %q and assert %q", s.Action, s.Assert)
	}
	if s.Action == "" && s.Assert == "" {
		return errors.New("step declares neither action nor assert")
	}
	return nil
}

// Describe returns a human-readable description of the step.
func (s *TestStep) Describe() string {
	kind := s.Kind()
	switch {
	case s.ID != "":
		return kind + ": " + s.ID
	case len(s.IDs) > 0:
		return fmt.Sprintf("%s: %v", kind, s.IDs)
	case s.Button != "":
		return kind + ": " + s.Button
	case s.Ms > 0:
		return fmt.Sprintf("%s: %dms", kind, s.Ms)
	case s.Name != "":
		return kind + ": " + s.Name
	}
	return kind
}
