package supervisor

// Event represents a supervisor lifecycle event.
// Name + target, the process handle when one exists, and optional fields.
type Event struct {
	Name   string
	Target string
	Handle Handle
	Fields map[string]any
}

// Event names.
const (
	EventStarted      = "started"
	EventReady        = "ready"
	EventStartFailed  = "start_failed"
	EventStartTimeout = "start_timeout"
	EventStop         = "stop"
	EventExited       = "exited"
	EventCleanup      = "cleanup"
)

// EventPublisher receives events from the supervisor. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// fanout delivers each event to every subscriber in registration order.
// An empty fanout drops events.
type fanout []EventPublisher

func (f fanout) Publish(e Event) {
	for _, p := range f {
		p.Publish(e)
	}
}
