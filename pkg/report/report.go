// Package report persists and summarizes suite results.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"github.com/devicelab-dev/uitest-runner/pkg/core"
)

// Write serializes the suite results as result.json under outputDir and
// returns the written path.
func Write(outputDir string, results []*core.TestSuiteResult) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize results: %w", err)
	}

	path := filepath.Join(outputDir, "result.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

var (
	passLabel = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	skipLabel = color.New(color.FgYellow).SprintFunc()
)

// PrintSummary writes a human-readable pass/fail summary for the run.
func PrintSummary(w io.Writer, results []*core.TestSuiteResult) {
	var passed, failed int
	var total time.Duration

	for _, suite := range results {
		if len(suite.Results) == 0 {
			fmt.Fprintf(w, "%s  %s (no cases ran)\n", skipLabel("SKIP"), suite.Suite)
			continue
		}
		for _, r := range suite.Results {
			if r.Passed {
				passed++
				fmt.Fprintf(w, "%s  %s / %s (%s)\n", passLabel("PASS"), r.Suite, r.Case, r.Duration.Round(time.Millisecond))
			} else {
				failed++
				fmt.Fprintf(w, "%s  %s / %s (%s)\n      %s\n", failLabel("FAIL"), r.Suite, r.Case, r.Duration.Round(time.Millisecond), r.Message)
			}
		}
		total += suite.Duration
	}

	fmt.Fprintf(w, "\n%d passed, %d failed in %s\n", passed, failed, total.Round(time.Millisecond))
}

// AllPassed reports whether every suite in the run passed.
func AllPassed(results []*core.TestSuiteResult) bool {
	for _, suite := range results {
		if !suite.AllPassed() {
			return false
		}
	}
	return true
}
