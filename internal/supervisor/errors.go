package supervisor

import (
	"errors"
	"fmt"
	"time"
)

// SpawnError reports that the operating system refused to start the process.
type SpawnError struct {
	Target string
	Err    error
}

func (e *SpawnError) Error() string { return fmt.Sprintf("spawn %s: %v", e.Target, e.Err) }
func (e *SpawnError) Unwrap() error { return e.Err }

// IsSpawnError reports whether err carries a SpawnError.
func IsSpawnError(err error) bool {
	var e *SpawnError
	return errors.As(err, &e)
}

// StartupFailedError reports that the process declared failure during startup,
// either through the failure banner or through stderr output in strict mode.
type StartupFailedError struct {
	Target string
	Reason string
	// Line is the output line that decided the outcome, if any.
	Line string
}

func (e *StartupFailedError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("start %s failed: %s", e.Target, e.Reason)
	}
	return fmt.Sprintf("start %s failed: %s: %q", e.Target, e.Reason, e.Line)
}

// IsStartupFailed reports whether err carries a StartupFailedError.
func IsStartupFailed(err error) bool {
	var e *StartupFailedError
	return errors.As(err, &e)
}

// StartupTimeoutError reports that no verdict arrived within the readiness timeout.
type StartupTimeoutError struct {
	Target  string
	Timeout time.Duration
}

func (e *StartupTimeoutError) Error() string {
	return fmt.Sprintf("start %s: not ready after %s", e.Target, e.Timeout)
}

// IsStartupTimeout reports whether err carries a StartupTimeoutError.
func IsStartupTimeout(err error) bool {
	var e *StartupTimeoutError
	return errors.As(err, &e)
}

// NotRunningError reports a stop request for a target with no table entry.
type NotRunningError struct{ Target string }

func (e *NotRunningError) Error() string { return "not running: " + e.Target }

// IsNotRunning reports whether err carries a NotRunningError.
func IsNotRunning(err error) bool {
	var e *NotRunningError
	return errors.As(err, &e)
}

// TerminationFailedError reports that delivering the termination signal failed.
type TerminationFailedError struct {
	Target string
	PID    int
	Err    error
}

func (e *TerminationFailedError) Error() string {
	return fmt.Sprintf("terminate %s (pid %d): %v", e.Target, e.PID, e.Err)
}
func (e *TerminationFailedError) Unwrap() error { return e.Err }

// IsTerminationFailed reports whether err carries a TerminationFailedError.
func IsTerminationFailed(err error) bool {
	var e *TerminationFailedError
	return errors.As(err, &e)
}
