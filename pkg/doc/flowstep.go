package doc

import (
	"errors"
	"fmt"
)

// FlowStepShape identifies which of the three flow-step forms an
// instance takes.
type FlowStepShape int

const (
	// ShapeInline is an action or assertion present directly on the step.
	ShapeInline FlowStepShape = iota
	// ShapeBlock is a named sub-list of inline steps executed as a unit.
	ShapeBlock
	// ShapeFileReference delegates to case(s) in an external screen test.
	ShapeFileReference
)

// FlowTestStep is a flow step scoped to a named screen. Exactly one
// shape applies per instance: inline (embedded TestStep fields), block
// (Block name + Steps), or file-reference (File + optional Case/Cases).
type FlowTestStep struct {
	Screen string `json:"screen,omitempty"`

	TestStep

	Block string     `json:"block,omitempty"`
	Steps []TestStep `json:"steps,omitempty"`

	File  string   `json:"file,omitempty"`
	Case  string   `json:"case,omitempty"`
	Cases []string `json:"cases,omitempty"`
}

// Shape returns the form this step takes. File wins over Block wins over
// inline; Validate rejects ambiguous combinations before execution sees
// them.
func (s *FlowTestStep) Shape() FlowStepShape {
	switch {
	case s.File != "":
		return ShapeFileReference
	case s.Block != "":
		return ShapeBlock
	default:
		return ShapeInline
	}
}

// Validate checks that exactly one shape applies and that the shape's
// own requirements hold.
func (s *FlowTestStep) Validate() error {
	inline := s.Action != "" || s.Assert != ""

	switch s.Shape() {
	case ShapeFileReference:
		if inline || s.Block != "" || len(s.Steps) > 0 {
			return fmt.Errorf("file-reference step %q mixes in another shape", s.File)
		}
		if s.Case != "" && len(s.Cases) > 0 {
			return fmt.Errorf("file-reference step %q declares both case and cases", s.File)
		}
		return nil

	case ShapeBlock:
		if inline {
			return fmt.Errorf("block step %q mixes in an inline action or assertion", s.Block)
		}
		if len(s.Steps) == 0 {
			return fmt.Errorf("block step %q has no steps", s.Block)
		}
		for i := range s.Steps {
			if err := s.Steps[i].Validate(); err != nil {
				return fmt.Errorf("block %q step %d: %w", s.Block, i, err)
			}
		}
		return nil

	default:
		if len(s.Steps) > 0 {
			return errors.New("inline step carries a steps list without a block name")
		}
		return s.TestStep.Validate()
	}
}

// Describe returns a human-readable description of the flow step.
func (s *FlowTestStep) Describe() string {
	prefix := ""
	if s.Screen != "" {
		prefix = s.Screen + "/"
	}
	switch s.Shape() {
	case ShapeFileReference:
		switch {
		case s.Case != "":
			return fmt.Sprintf("%srun %s (case %q)", prefix, s.File, s.Case)
		case len(s.Cases) > 0:
			return fmt.Sprintf("%srun %s (cases %v)", prefix, s.File, s.Cases)
		}
		return fmt.Sprintf("%srun %s (all cases)", prefix, s.File)
	case ShapeBlock:
		return fmt.Sprintf("%sblock %q (%d steps)", prefix, s.Block, len(s.Steps))
	default:
		return prefix + s.TestStep.Describe()
	}
}
