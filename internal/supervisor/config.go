package supervisor

import (
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding Options fields are unset.
const (
	DefaultReadinessTimeout = 30 * time.Second
	defaultShutdownGrace    = 5 * time.Second
)

// Config encapsulates the tunables for Supervisor construction.
type Config struct {
	// Spawner creates processes. Defaults to ExecSpawner{}.
	Spawner Spawner
	Logger  zerolog.Logger
}

// Options control a single Start call. The zero value is valid: unset fields
// take the Selenium defaults listed on each field.
type Options struct {
	// ReadinessTimeout bounds how long Start waits for a verdict. Zero means DefaultReadinessTimeout.
	ReadinessTimeout time.Duration
	// CaptureStderrAsFailure fails the start on any stderr line that the rule
	// does not classify. Nil means true.
	CaptureStderrAsFailure *bool
	// KillOnFailure signals the process when the failure pattern matched. Nil means true.
	KillOnFailure *bool
	// Rule classifies output lines. Defaults to SeleniumRule().
	Rule ReadinessRule
}

// DefaultOptions returns the options Start uses for a Selenium server.
func DefaultOptions() Options {
	return Options{
		ReadinessTimeout:       DefaultReadinessTimeout,
		CaptureStderrAsFailure: Bool(true),
		KillOnFailure:          Bool(true),
		Rule:                   SeleniumRule(),
	}
}

func (o Options) withDefaults() Options {
	if o.ReadinessTimeout <= 0 {
		o.ReadinessTimeout = DefaultReadinessTimeout
	}
	if o.Rule == nil {
		o.Rule = SeleniumRule()
	}
	if o.CaptureStderrAsFailure == nil {
		o.CaptureStderrAsFailure = Bool(true)
	}
	if o.KillOnFailure == nil {
		o.KillOnFailure = Bool(true)
	}
	return o
}

// Bool returns a pointer to v, for the optional Options fields.
func Bool(v bool) *bool { return &v }
