package supervisor

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"seleniumd/internal/invocation"
)

// Supervisor owns the target table: at most one tracked process per target.
type Supervisor struct {
	mu      sync.Mutex
	entries map[string]*entry

	spawner Spawner
	log     zerolog.Logger

	subsMu sync.RWMutex
	subs   fanout
}

// New constructs a Supervisor with an empty table.
func New(cfg Config) *Supervisor {
	sp := cfg.Spawner
	if sp == nil {
		sp = ExecSpawner{}
	}
	return &Supervisor{
		entries: make(map[string]*entry),
		spawner: sp,
		log:     cfg.Logger,
	}
}

// Subscribe registers p for every event published from now on.
func (s *Supervisor) Subscribe(p EventPublisher) {
	if p == nil {
		return
	}
	s.subsMu.Lock()
	s.subs = append(s.subs, p)
	s.subsMu.Unlock()
}

func (s *Supervisor) publish(e Event) {
	s.subsMu.RLock()
	subs := s.subs
	s.subsMu.RUnlock()
	subs.Publish(e)
}

// Start spawns inv for target and blocks until the process reports it is ready,
// reports failure, the readiness timeout elapses, or ctx is done.
//
// The process is tracked from the moment it is spawned, whatever the outcome;
// it leaves the table only when it exits. A previous process tracked under the
// same target is replaced without being stopped.
func (s *Supervisor) Start(ctx context.Context, target string, inv invocation.Invocation, opts Options) error {
	if strings.TrimSpace(target) == "" {
		return errors.New("target is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	opts = opts.withDefaults()
	log := s.log.With().Str("target", target).Logger()

	h, err := s.spawner.Spawn(inv)
	if err != nil {
		startsTotal.WithLabelValues(outcomeLabelSpawn).Inc()
		log.Error().Err(err).Str("command", inv.String()).Msg("spawn failed")
		return &SpawnError{Target: target, Err: err}
	}
	e := &entry{
		target:   target,
		launchID: uuid.NewString(),
		handle:   h,
		inv:      inv,
		started:  time.Now(),
		state:    StateStarting,
	}
	s.mu.Lock()
	if prev := s.entries[target]; prev != nil {
		log.Warn().Int("previous_pid", prev.handle.PID()).Msg("replacing tracked process without stopping it")
	}
	s.entries[target] = e
	trackedProcesses.Set(float64(len(s.entries)))
	s.mu.Unlock()

	log.Info().Int("pid", h.PID()).Str("launch_id", e.launchID).Str("command", inv.String()).Msg("process started")
	s.publish(Event{Name: EventStarted, Target: target, Handle: h, Fields: map[string]any{
		"pid":       h.PID(),
		"launch_id": e.launchID,
		"command":   inv.String(),
	}})
	go s.watchExit(e)

	res := newResolution()
	d := &detector{target: target, rule: opts.Rule, strictStderr: *opts.CaptureStderrAsFailure, res: res, log: s.log}
	d.attach(h)

	timer := time.NewTimer(opts.ReadinessTimeout)
	defer timer.Stop()
	select {
	case <-res.Done():
	case <-timer.C:
		res.resolve(outcome{kind: outcomeTimeout})
	case <-ctx.Done():
		res.resolve(outcome{kind: outcomeCanceled})
	}
	out := res.outcome()
	elapsed := time.Since(e.started)

	switch out.kind {
	case outcomeReady:
		s.setState(e, StateRunning)
		s.observeStart(outcomeLabelReady, elapsed)
		log.Info().Dur("elapsed", elapsed).Msg("server ready")
		s.publish(Event{Name: EventReady, Target: target, Handle: h, Fields: map[string]any{"line": out.line, "elapsed": elapsed}})
		return nil

	case outcomeFailed:
		s.setState(e, StateFailed)
		s.observeStart(outcomeLabelFailed, elapsed)
		log.Error().Str("reason", out.reason).Str("line", out.line).Msg("startup failed")
		if *opts.KillOnFailure {
			s.terminateQuiet(e, sourceFailure)
		}
		s.publish(Event{Name: EventStartFailed, Target: target, Handle: h, Fields: map[string]any{"reason": out.reason, "line": out.line}})
		return &StartupFailedError{Target: target, Reason: out.reason, Line: out.line}

	case outcomeTimeout:
		s.setState(e, StateTimedOut)
		s.observeStart(outcomeLabelTimeout, elapsed)
		log.Error().Dur("timeout", opts.ReadinessTimeout).Msg("startup timed out")
		s.terminateQuiet(e, sourceTimeout)
		s.publish(Event{Name: EventStartTimeout, Target: target, Handle: h, Fields: map[string]any{"timeout": opts.ReadinessTimeout}})
		return &StartupTimeoutError{Target: target, Timeout: opts.ReadinessTimeout}

	default:
		s.setState(e, StateCanceled)
		s.observeStart(outcomeLabelCancel, elapsed)
		log.Warn().Err(ctx.Err()).Msg("start canceled")
		s.terminateQuiet(e, sourceCancel)
		return ctx.Err()
	}
}

// Stop sends the termination signal to the process tracked for target and
// returns without waiting for it to exit. The entry stays in the table until
// the exit is observed.
func (s *Supervisor) Stop(target string) error {
	s.mu.Lock()
	e := s.entries[target]
	if e != nil {
		e.state = StateStopping
	}
	s.mu.Unlock()
	if e == nil {
		return &NotRunningError{Target: target}
	}
	pid := e.handle.PID()
	err := s.terminate(e, sourceStop)
	if err != nil {
		s.log.Warn().Str("target", target).Int("pid", pid).Err(err).Msg("stop signal failed")
	} else {
		s.log.Info().Str("target", target).Int("pid", pid).Msg("stop signal sent")
	}
	s.publish(Event{Name: EventStop, Target: target, Handle: e.handle, Fields: map[string]any{"pid": pid}})
	return err
}

// StopAll signals every tracked process. Best effort.
func (s *Supervisor) StopAll() {
	for _, e := range s.snapshot() {
		_ = s.Stop(e.target)
	}
}

// Shutdown signals every tracked process and waits for them to exit. Processes
// still alive when ctx is done are killed. Without a ctx deadline a short grace
// period applies.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultShutdownGrace)
		defer cancel()
	}
	entries := s.snapshot()
	for _, e := range entries {
		s.terminateQuiet(e, sourceShutdown)
	}
	var lastErr error
	for _, e := range entries {
		select {
		case <-e.handle.Done():
		case <-ctx.Done():
			if err := e.handle.Signal(os.Kill); err != nil && !errors.Is(err, os.ErrProcessDone) {
				s.log.Warn().Str("target", e.target).Int("pid", e.handle.PID()).Err(err).Msg("kill failed")
			} else {
				s.log.Warn().Str("target", e.target).Int("pid", e.handle.PID()).Msg("killed after shutdown grace")
			}
			lastErr = ctx.Err()
		}
	}
	return lastErr
}

// Targets returns a snapshot of the table sorted by target name.
func (s *Supervisor) Targets() []Status {
	entries := s.snapshot()
	out := make([]Status, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.status(e))
	}
	return out
}

// Lookup returns the status of target when it is tracked.
func (s *Supervisor) Lookup(target string) (Status, bool) {
	s.mu.Lock()
	e := s.entries[target]
	s.mu.Unlock()
	if e == nil {
		return Status{}, false
	}
	return s.status(e), true
}

func (s *Supervisor) status(e *entry) Status {
	s.mu.Lock()
	st := e.state
	s.mu.Unlock()
	pid := e.handle.PID()
	return Status{
		Target:     e.target,
		PID:        pid,
		LaunchID:   e.launchID,
		State:      st,
		StartedAt:  e.started,
		Invocation: e.inv,
		RSSBytes:   residentBytes(pid),
	}
}

// snapshot returns the current entries sorted by target.
func (s *Supervisor) snapshot() []*entry {
	s.mu.Lock()
	out := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].target < out[j].target })
	return out
}

func (s *Supervisor) setState(e *entry, st State) {
	s.mu.Lock()
	e.state = st
	s.mu.Unlock()
}

// watchExit prunes e once its process exits, unless the target has since been
// taken over by another process.
func (s *Supervisor) watchExit(e *entry) {
	<-e.handle.Done()
	s.mu.Lock()
	pruned := false
	if s.entries[e.target] == e {
		delete(s.entries, e.target)
		pruned = true
	}
	trackedProcesses.Set(float64(len(s.entries)))
	s.mu.Unlock()
	ev := s.log.Info().Str("target", e.target).Int("pid", e.handle.PID()).Bool("pruned", pruned)
	if x, ok := e.handle.(interface{ ExitErr() error }); ok {
		if err := x.ExitErr(); err != nil {
			ev = ev.AnErr("exit", err)
		}
	}
	ev.Msg("process exited")
	s.publish(Event{Name: EventExited, Target: e.target, Handle: e.handle, Fields: map[string]any{"pruned": pruned}})
}

func (s *Supervisor) terminate(e *entry, source string) error {
	if err := e.handle.Signal(terminationSignal); err != nil {
		terminationFailuresTotal.WithLabelValues(source).Inc()
		return &TerminationFailedError{Target: e.target, PID: e.handle.PID(), Err: err}
	}
	terminationSignalsTotal.WithLabelValues(source).Inc()
	return nil
}

// terminateQuiet signals e and logs a failure instead of returning it.
func (s *Supervisor) terminateQuiet(e *entry, source string) {
	if err := s.terminate(e, source); err != nil {
		ev := s.log.Warn()
		if errors.Is(err, os.ErrProcessDone) {
			ev = s.log.Debug()
		}
		ev.Str("target", e.target).Str("source", source).Err(err).Msg("termination signal not delivered")
	}
}

func (s *Supervisor) observeStart(label string, elapsed time.Duration) {
	startsTotal.WithLabelValues(label).Inc()
	startupDuration.WithLabelValues(label).Observe(elapsed.Seconds())
}
