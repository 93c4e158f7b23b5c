package doc

import (
	"encoding/json"
	"fmt"
	"os"
)

// MalformedDocumentError reports a document that could not be parsed:
// the type discriminator is missing or unrecognized, the JSON is
// structurally invalid, or a required field for the resolved type is
// absent.
type MalformedDocumentError struct {
	Path    string
	Message string
}

func (e *MalformedDocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func malformed(path, format string, args ...interface{}) error {
	return &MalformedDocumentError{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

// ParseFile parses a test document from disk.
func ParseFile(path string) (*LoadedTest, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is a user-provided test file
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses raw JSON into a screen or flow test. sourcePath is used
// for error reporting and may be empty for non-file documents. Unknown
// JSON fields are ignored for forward compatibility.
func Parse(data []byte, sourcePath string) (*LoadedTest, error) {
	kind, err := scanKind(data, sourcePath)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindScreen:
		screen, err := parseScreen(data, sourcePath)
		if err != nil {
			return nil, err
		}
		return &LoadedTest{Kind: KindScreen, Screen: screen, Path: sourcePath}, nil
	case KindFlow:
		flow, err := parseFlow(data, sourcePath)
		if err != nil {
			return nil, err
		}
		return &LoadedTest{Kind: KindFlow, Flow: flow, Path: sourcePath}, nil
	}
	// scanKind only returns the two known kinds.
	return nil, malformed(sourcePath, "unknown document type %q", kind)
}

// scanKind extracts the type discriminator before full structural
// parsing, so a malformed document of unknown type fails fast with a
// clear kind.
func scanKind(data []byte, sourcePath string) (DocumentKind, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", malformed(sourcePath, "invalid JSON: %v", err)
	}
	switch head.Type {
	case "":
		return "", malformed(sourcePath, "missing type discriminator")
	case string(KindScreen):
		return KindScreen, nil
	case string(KindFlow):
		return KindFlow, nil
	}
	return "", malformed(sourcePath, "unknown document type %q", head.Type)
}

func parseScreen(data []byte, sourcePath string) (*ScreenTest, error) {
	var screen ScreenTest
	if err := json.Unmarshal(data, &screen); err != nil {
		return nil, malformed(sourcePath, "invalid screen test: %v", err)
	}
	if screen.Name == "" {
		return nil, malformed(sourcePath, "screen test is missing required field %q", "name")
	}
	if screen.Source == "" {
		return nil, malformed(sourcePath, "screen test is missing required field %q", "source")
	}

	if err := validateSteps(screen.Setup, "setup", sourcePath); err != nil {
		return nil, err
	}
	if err := validateSteps(screen.Teardown, "teardown", sourcePath); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(screen.Cases))
	for i := range screen.Cases {
		c := &screen.Cases[i]
		if c.Name == "" {
			return nil, malformed(sourcePath, "case %d is missing required field %q", i, "name")
		}
		if seen[c.Name] {
			return nil, malformed(sourcePath, "duplicate case name %q", c.Name)
		}
		seen[c.Name] = true
		if err := validateSteps(c.Steps, fmt.Sprintf("case %q", c.Name), sourcePath); err != nil {
			return nil, err
		}
	}

	return &screen, nil
}

func parseFlow(data []byte, sourcePath string) (*FlowTest, error) {
	var flow FlowTest
	if err := json.Unmarshal(data, &flow); err != nil {
		return nil, malformed(sourcePath, "invalid flow test: %v", err)
	}
	if flow.Name == "" {
		return nil, malformed(sourcePath, "flow test is missing required field %q", "name")
	}
	if len(flow.Steps) == 0 {
		return nil, malformed(sourcePath, "flow test is missing required field %q", "steps")
	}

	if err := validateFlowSteps(flow.Setup, "setup", sourcePath); err != nil {
		return nil, err
	}
	if err := validateFlowSteps(flow.Steps, "steps", sourcePath); err != nil {
		return nil, err
	}
	if err := validateFlowSteps(flow.Teardown, "teardown", sourcePath); err != nil {
		return nil, err
	}

	for _, cp := range flow.Checkpoints {
		if cp.Name == "" {
			return nil, malformed(sourcePath, "checkpoint at step %d is missing a name", cp.At)
		}
		if cp.At < 0 || cp.At >= len(flow.Steps) {
			return nil, malformed(sourcePath, "checkpoint %q references step %d, flow has %d steps", cp.Name, cp.At, len(flow.Steps))
		}
	}

	return &flow, nil
}

func validateSteps(steps []TestStep, section, sourcePath string) error {
	for i := range steps {
		if err := steps[i].Validate(); err != nil {
			return malformed(sourcePath, "%s step %d: %v", section, i, err)
		}
	}
	return nil
}

func validateFlowSteps(steps []FlowTestStep, section, sourcePath string) error {
	for i := range steps {
		if err := steps[i].Validate(); err != nil {
			return malformed(sourcePath, "%s step %d: %v", section, i, err)
		}
	}
	return nil
}
