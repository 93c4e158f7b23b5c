// Package core defines the backend capability interface, the error
// taxonomy and the result types shared across the engine.
package core

import (
	"time"

	"github.com/google/uuid"
)

// TestResult captures the outcome of executing a single case (or a whole
// flow, which occupies exactly one result slot).
type TestResult struct {
	Suite    string        `json:"suite"`
	Case     string        `json:"case"`
	Passed   bool          `json:"passed"`
	Message  string        `json:"message,omitempty"` // Failure explanation, empty on pass
	Duration time.Duration `json:"duration"`
}

// TestSuiteResult captures the complete outcome of running one document.
type TestSuiteResult struct {
	// Identity
	Suite string `json:"suite"`
	RunID string `json:"runId"` // Unique execution ID

	// Results
	Results []TestResult `json:"results"`

	// Timing
	Duration time.Duration `json:"duration"`

	// Summary (computed)
	TotalCases  int `json:"totalCases"`
	PassedCases int `json:"passedCases"`
	FailedCases int `json:"failedCases"`
}

// NewSuiteResult creates an empty suite result with a fresh run ID.
func NewSuiteResult(suite string) *TestSuiteResult {
	return &TestSuiteResult{
		Suite: suite,
		RunID: uuid.NewString(),
	}
}

// Append adds a case result to the suite.
func (s *TestSuiteResult) Append(r TestResult) {
	s.Results = append(s.Results, r)
}

// ComputeSummary calculates case counts from the Results slice.
func (s *TestSuiteResult) ComputeSummary() {
	s.TotalCases = len(s.Results)
	s.PassedCases = 0
	s.FailedCases = 0

	for _, r := range s.Results {
		if r.Passed {
			s.PassedCases++
		} else {
			s.FailedCases++
		}
	}
}

// AllPassed returns true if no case failed. An empty suite (for example a
// platform-gated document) counts as passed so it never flips a run red.
func (s *TestSuiteResult) AllPassed() bool {
	for _, r := range s.Results {
		if !r.Passed {
			return false
		}
	}
	return true
}
