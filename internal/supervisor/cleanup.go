package supervisor

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
)

// CleanupHook is the last line of defense when the surrounding workflow fails:
// it signals every process still tracked by its Supervisor.
type CleanupHook struct {
	sup *Supervisor
	log zerolog.Logger
}

// NewCleanupHook binds a hook to s and subscribes it to s's events.
func NewCleanupHook(s *Supervisor, log zerolog.Logger) *CleanupHook {
	h := &CleanupHook{sup: s, log: log}
	s.Subscribe(h)
	return h
}

// Sweep sends the termination signal to every entry present at call time.
// A failed signal is logged and collected; it never stops the sweep.
// An empty table is a no-op.
func (h *CleanupHook) Sweep(reason error) []error {
	entries := h.sup.snapshot()
	if len(entries) == 0 {
		h.log.Debug().AnErr("reason", reason).Msg("cleanup: nothing tracked")
		return nil
	}
	h.log.Warn().AnErr("reason", reason).Int("targets", len(entries)).Msg("cleanup: terminating tracked processes")

	var errs []error
	for _, e := range entries {
		pid := e.handle.PID()
		err := h.sup.terminate(e, sourceSweep)
		if err == nil {
			h.log.Info().Str("target", e.target).Int("pid", pid).Msg("cleanup: termination signal sent")
			continue
		}
		ev := h.log.Warn()
		if errors.Is(err, os.ErrProcessDone) || !pidAlive(pid) {
			ev = h.log.Debug()
		}
		ev.Str("target", e.target).Int("pid", pid).Err(err).Msg("cleanup: termination failed")
		errs = append(errs, err)
	}

	h.sup.publish(Event{Name: EventCleanup, Fields: map[string]any{
		"reason":   errString(reason),
		"targets":  len(entries),
		"failures": len(errs),
	}})
	return errs
}

// OnFailure adapts Sweep to a failure-signal subscriber.
func (h *CleanupHook) OnFailure(err error) {
	_ = h.Sweep(err)
}

// Publish records every launch the hook will later be responsible for.
func (h *CleanupHook) Publish(e Event) {
	if e.Name != EventStarted || e.Handle == nil {
		return
	}
	h.log.Debug().Str("target", e.Target).Int("pid", e.Handle.PID()).Msg("cleanup: saw process for target")
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
