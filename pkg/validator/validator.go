// Package validator validates test documents before execution.
// It parses all files upfront, checks step kinds, and verifies that
// file-reference steps resolve.
package validator

import (
	"fmt"
	"os"

	"github.com/devicelab-dev/uitest-runner/pkg/doc"
	"github.com/devicelab-dev/uitest-runner/pkg/resolver"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	File    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Result contains the validation result.
type Result struct {
	// Files is the list of document paths examined.
	Files []string
	// Errors contains all validation errors found.
	Errors []error
}

// IsValid returns true if there are no validation errors.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Validator validates test documents.
type Validator struct{}

// New creates a new Validator.
func New() *Validator {
	return &Validator{}
}

// Validate validates a file or directory of *.test.json documents.
func (v *Validator) Validate(path string) *Result {
	result := &Result{}

	info, err := os.Stat(path)
	if err != nil {
		result.Errors = append(result.Errors, &ValidationError{
			File:    path,
			Message: fmt.Sprintf("cannot access: %v", err),
		})
		return result
	}

	var files []string
	if info.IsDir() {
		files, err = resolver.Discover(path)
		if err != nil {
			result.Errors = append(result.Errors, &ValidationError{
				File:    path,
				Message: fmt.Sprintf("failed to scan directory: %v", err),
			})
			return result
		}
	} else {
		files = []string{path}
	}

	for _, file := range files {
		v.validateFile(file, result)
	}

	return result
}

func (v *Validator) validateFile(file string, result *Result) {
	result.Files = append(result.Files, file)

	loaded, err := doc.ParseFile(file)
	if err != nil {
		result.Errors = append(result.Errors, &ValidationError{
			File:    file,
			Message: err.Error(),
		})
		return
	}

	switch loaded.Kind {
	case doc.KindScreen:
		v.validateScreen(file, loaded.Screen, result)
	case doc.KindFlow:
		v.validateFlow(file, loaded.Flow, result)
	}
}

func (v *Validator) validateScreen(file string, screen *doc.ScreenTest, result *Result) {
	v.checkSteps(file, "setup", screen.Setup, result)
	v.checkSteps(file, "teardown", screen.Teardown, result)
	for _, tc := range screen.Cases {
		v.checkSteps(file, fmt.Sprintf("case %q", tc.Name), tc.Steps, result)
	}
}

func (v *Validator) validateFlow(file string, flow *doc.FlowTest, result *Result) {
	rctx := resolver.ForFile(file)

	sections := []struct {
		name  string
		steps []doc.FlowTestStep
	}{
		{"setup", flow.Setup},
		{"steps", flow.Steps},
		{"teardown", flow.Teardown},
	}

	for _, section := range sections {
		for i, step := range section.steps {
			switch step.Shape() {
			case doc.ShapeInline:
				v.checkKind(file, fmt.Sprintf("%s step %d", section.name, i), step.TestStep, result)
			case doc.ShapeBlock:
				v.checkSteps(file, fmt.Sprintf("%s block %q", section.name, step.Block), step.Steps, result)
			case doc.ShapeFileReference:
				if _, err := rctx.ResolveCases(step.File, step.Case, step.Cases); err != nil {
					result.Errors = append(result.Errors, &ValidationError{
						File:    file,
						Message: fmt.Sprintf("%s step %d: %v", section.name, i, err),
					})
				}
			}
		}
	}
}

func (v *Validator) checkSteps(file, section string, steps []doc.TestStep, result *Result) {
	for i, step := range steps {
		v.checkKind(file, fmt.Sprintf("%s step %d", section, i), step, result)
	}
}

func (v *Validator) checkKind(file, where string, step doc.TestStep, result *Result) {
	switch {
	case step.IsAction() && !doc.KnownAction(step.Action):
		result.Errors = append(result.Errors, &ValidationError{
			File:    file,
			Message: fmt.Sprintf("%s: unknown action %q", where, step.Action),
		})
	case step.IsAssertion() && !doc.KnownAssertion(step.Assert):
		result.Errors = append(result.Errors, &ValidationError{
			File:    file,
			Message: fmt.Sprintf("%s: unknown assertion %q", where, step.Assert),
		})
	}
}
