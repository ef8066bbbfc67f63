package supervisor

import (
	"time"

	"seleniumd/internal/invocation"
)

// State represents the lifecycle state of a tracked process.
type State string

const (
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateFailed   State = "failed"
	StateTimedOut State = "timed_out"
	StateCanceled State = "canceled"
	StateStopping State = "stopping"
)

// Status is a read-only projection of one table entry.
type Status struct {
	Target     string
	PID        int
	LaunchID   string
	State      State
	StartedAt  time.Time
	Invocation invocation.Invocation
	// RSSBytes is the resident set size when it could be read, else 0.
	RSSBytes uint64
}

// entry is a table slot. Fields other than state are set once at insert.
type entry struct {
	target   string
	launchID string
	handle   Handle
	inv      invocation.Invocation
	started  time.Time
	state    State // guarded by Supervisor.mu
}
