// Package executor orchestrates test document execution, connecting
// parsed documents to a backend and producing suite results.
//
// Execution is single-threaded and cooperative-by-polling: the engine
// issues one backend call at a time, and the only form of suspension is
// a blocking sleep-poll loop with a bounded, step-declared timeout.
package executor

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/devicelab-dev/uitest-runner/pkg/core"
	"github.com/devicelab-dev/uitest-runner/pkg/doc"
	"github.com/devicelab-dev/uitest-runner/pkg/resolver"
)

// Runner executes test documents against a backend. The backend session
// is assumed established and exclusively owned by this runner; it is not
// safe to share with a concurrently running second suite.
type Runner struct {
	backend core.Backend
	cfg     Config
	log     zerolog.Logger
}

// New creates a Runner.
func New(backend core.Backend, cfg Config) *Runner {
	cfg = cfg.withDefaults()
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Runner{
		backend: backend,
		cfg:     cfg,
		log:     log,
	}
}

// Run executes a loaded document and returns its suite result. Only
// document-load and setup failures surface as errors; every case or
// flow-level failure is captured inside the result.
func (r *Runner) Run(loaded *doc.LoadedTest, rctx resolver.Context) (*core.TestSuiteResult, error) {
	switch loaded.Kind {
	case doc.KindScreen:
		return r.runScreen(loaded.Screen)
	case doc.KindFlow:
		return r.runFlow(loaded.Flow, rctx)
	}
	return nil, fmt.Errorf("unknown document kind %q", loaded.Kind)
}

// RunPath loads a document from disk and runs it, resolving references
// relative to the file's containing directory.
func (r *Runner) RunPath(path string) (*core.TestSuiteResult, error) {
	loaded, err := doc.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return r.Run(loaded, resolver.ForFile(path))
}

func (r *Runner) dispatcher() *dispatcher {
	return &dispatcher{
		backend: r.backend,
		cfg:     r.cfg,
		log:     r.log,
	}
}

// excluded reports whether a platform target gates out the configured
// runner platform. An absent target or an unconfigured platform never
// gates.
func (r *Runner) excluded(target *doc.PlatformTarget) bool {
	return target != nil && r.cfg.Platform != "" && !target.Includes(r.cfg.Platform)
}
