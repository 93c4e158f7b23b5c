package executor

import (
	"time"

	"github.com/rs/zerolog"
)

// Default timing configuration. The polling interval and timeouts are
// plain configuration values, not async primitives: every wait is a
// blocking sleep-poll loop on the calling goroutine.
const (
	DefaultStepTimeout  = 5 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
	DefaultSettleDelay  = 500 * time.Millisecond
	DefaultAbsenceGrace = 500 * time.Millisecond
)

// Config controls a Runner.
type Config struct {
	// Platform is the active platform identifier used for platform
	// gating. Empty disables the gate and runs everything.
	Platform string

	// DefaultTimeout applies to steps that declare no timeout of their
	// own.
	DefaultTimeout time.Duration

	// PollInterval is the fixed interval between locate attempts inside
	// the wait primitive.
	PollInterval time.Duration

	// SettleDelay is the fixed pre-interaction pause before a screen
	// test's first step, giving the backend time to stabilize. Zero
	// disables the pause; callers wanting the stock delay pass
	// DefaultSettleDelay.
	SettleDelay time.Duration

	// AbsenceGrace is the short fixed window a notVisible assertion
	// waits before its single negative check. It is capped at the
	// step's requested timeout when that is shorter.
	AbsenceGrace time.Duration

	// ScreenshotOnFailure captures a screenshot into ScreenshotDir when
	// a case or flow fails.
	ScreenshotOnFailure bool
	ScreenshotDir       string

	// Verbose enables per-step narration at debug level.
	Verbose bool

	// Logger receives engine narration. Nil means silent.
	Logger *zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = DefaultStepTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = 0
	}
	if c.AbsenceGrace <= 0 {
		c.AbsenceGrace = DefaultAbsenceGrace
	}
	return c
}
