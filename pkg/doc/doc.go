// Package doc handles parsing and representation of JSON test documents.
// A document is either a screen test (named cases against one layout) or
// a flow test (a cross-screen step sequence executed as one unit),
// discriminated by a top-level "type" field.
package doc

import "encoding/json"

// DocumentKind discriminates the two document types.
type DocumentKind string

// Document kinds.
const (
	KindScreen DocumentKind = "screen"
	KindFlow   DocumentKind = "flow"
)

// TestMetadata carries document identity. Name is unique per document and
// used as the suite identifier.
type TestMetadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Author      string   `json:"author,omitempty"`
}

// TestCase is a named, ordered sequence of steps within a screen test.
// Names must be unique within the owning document so file-reference
// lookups are unambiguous.
type TestCase struct {
	Name     string          `json:"name"`
	Skip     bool            `json:"skip,omitempty"`
	Platform *PlatformTarget `json:"platform,omitempty"`
	State    json.RawMessage `json:"state,omitempty"` // Opaque per-case initial state
	Steps    []TestStep      `json:"steps"`
}

// ScreenTest is a document exercising a single UI layout through named
// cases, each executed in isolation.
type ScreenTest struct {
	Type string `json:"type"`
	TestMetadata
	Source   string          `json:"source"` // The UI layout under test
	Platform *PlatformTarget `json:"platform,omitempty"`
	Setup    []TestStep      `json:"setup,omitempty"`
	Teardown []TestStep      `json:"teardown,omitempty"`
	Cases    []TestCase      `json:"cases"`
}

// Case returns the named case, if present.
func (s *ScreenTest) Case(name string) (*TestCase, bool) {
	for i := range s.Cases {
		if s.Cases[i].Name == name {
			return &s.Cases[i], true
		}
	}
	return nil, false
}

// FlowTestSource references a UI layout used by a flow, optionally under
// an alias. It decodes from either a bare string or an object.
type FlowTestSource struct {
	Source string `json:"source"`
	As     string `json:"as,omitempty"`
}

// UnmarshalJSON accepts `"layout"` or `{"source": "layout", "as": "alias"}`.
func (s *FlowTestSource) UnmarshalJSON(data []byte) error {
	var ref string
	if err := json.Unmarshal(data, &ref); err == nil {
		s.Source = ref
		s.As = ""
		return nil
	}
	type plain FlowTestSource
	return json.Unmarshal(data, (*plain)(s))
}

// MarshalJSON writes the bare-string form when no alias is set.
func (s FlowTestSource) MarshalJSON() ([]byte, error) {
	if s.As == "" {
		return json.Marshal(s.Source)
	}
	type plain FlowTestSource
	return json.Marshal(plain(s))
}

// Checkpoint is a named marker tied to a step index in a flow,
// optionally requesting a screenshot when reached.
type Checkpoint struct {
	Name       string `json:"name"`
	At         int    `json:"at"` // 0-based index into the flow's steps
	Screenshot bool   `json:"screenshot,omitempty"`
}

// FlowTest is a document describing one atomic step sequence that may
// span several screens and delegate into screen-test cases.
type FlowTest struct {
	Type string `json:"type"`
	TestMetadata
	Sources     []FlowTestSource `json:"sources,omitempty"`
	Platform    *PlatformTarget  `json:"platform,omitempty"`
	Setup       []FlowTestStep   `json:"setup,omitempty"`
	Teardown    []FlowTestStep   `json:"teardown,omitempty"`
	Steps       []FlowTestStep   `json:"steps"`
	Checkpoints []Checkpoint     `json:"checkpoints,omitempty"`
}

// CheckpointsAt returns the checkpoints tied to the given step index.
func (f *FlowTest) CheckpointsAt(idx int) []Checkpoint {
	var out []Checkpoint
	for _, cp := range f.Checkpoints {
		if cp.At == idx {
			out = append(out, cp)
		}
	}
	return out
}

// LoadedTest is the tagged result of parsing a document: exactly one of
// Screen or Flow is set, matching Kind.
type LoadedTest struct {
	Kind   DocumentKind
	Screen *ScreenTest
	Flow   *FlowTest
	Path   string // Source path, empty for non-file documents
}

// Name returns the document's suite name.
func (t *LoadedTest) Name() string {
	switch t.Kind {
	case KindScreen:
		return t.Screen.Name
	case KindFlow:
		return t.Flow.Name
	}
	return ""
}
