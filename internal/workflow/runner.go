// Package workflow drives the supervisor from configuration: it fetches the
// server jar, builds each target's command line, and starts or stops targets.
// A failure of the start-everything workflow raises the FailureSignal.
package workflow

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"seleniumd/internal/config"
	"seleniumd/internal/fetch"
	"seleniumd/internal/invocation"
	"seleniumd/internal/supervisor"
)

// Processes is the part of the supervisor the runner drives.
type Processes interface {
	Start(ctx context.Context, target string, inv invocation.Invocation, opts supervisor.Options) error
	Stop(target string) error
	Targets() []supervisor.Status
	Lookup(target string) (supervisor.Status, bool)
}

// Downloader makes sure an artifact exists locally.
type Downloader interface {
	Ensure(ctx context.Context, sourceURL, dir string, force bool) (string, error)
}

// Runner wires configuration to a supervisor.
type Runner struct {
	cfg    config.Config
	procs  Processes
	dl     Downloader
	signal *FailureSignal
	log    zerolog.Logger

	mu  sync.Mutex
	jar string
}

// NewRunner builds a Runner. cfg gets its defaults applied.
func NewRunner(cfg config.Config, procs Processes, dl Downloader, signal *FailureSignal, log zerolog.Logger) *Runner {
	if signal == nil {
		signal = NewFailureSignal()
	}
	return &Runner{cfg: cfg.WithDefaults(), procs: procs, dl: dl, signal: signal, log: log}
}

// Signal returns the failure signal StartAll raises.
func (r *Runner) Signal() *FailureSignal { return r.signal }

// Configured returns the configured target names, sorted.
func (r *Runner) Configured() []string { return r.cfg.TargetNames() }

// Download ensures the server jar is present and remembers its path.
func (r *Runner) Download(ctx context.Context) (string, error) {
	jar, err := r.dl.Ensure(ctx, r.cfg.DownloadURL, r.cfg.DownloadLocation, r.cfg.Force())
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	r.jar = jar
	r.mu.Unlock()
	return jar, nil
}

// JarPath returns the downloaded jar, or where it would be stored when no
// download has happened yet.
func (r *Runner) JarPath() (string, error) {
	r.mu.Lock()
	jar := r.jar
	r.mu.Unlock()
	if jar != "" {
		return jar, nil
	}
	return fetch.Destination(r.cfg.DownloadURL, r.cfg.DownloadLocation)
}

// Invocation builds the command line for target name around jar.
func (r *Runner) Invocation(name, jar string) (invocation.Invocation, error) {
	t, ok := r.cfg.Targets[name]
	if !ok {
		return invocation.Invocation{}, ErrUnknownTarget(name)
	}
	if strings.TrimSpace(jar) == "" {
		return invocation.Invocation{}, ErrJarNotDefined
	}
	inv := invocation.Build(invocation.Java(r.cfg.JavaBin, jar), t.ServerOptions, t.SystemProperties)
	return inv.WithEnv(t.Env), nil
}

// Options resolves the start options for target name.
func (r *Runner) Options(name string) (supervisor.Options, error) {
	t, ok := r.cfg.Targets[name]
	if !ok {
		return supervisor.Options{}, ErrUnknownTarget(name)
	}
	o := supervisor.Options{
		ReadinessTimeout:       r.cfg.ReadinessTimeout(t),
		CaptureStderrAsFailure: supervisor.Bool(r.cfg.CaptureStderr(t)),
		KillOnFailure:          supervisor.Bool(r.cfg.KillOnStartupFailure(t)),
		Rule:                   supervisor.SeleniumRule(),
	}
	if t.ReadyPattern == "" && t.FailurePattern == "" {
		return o, nil
	}
	ready, failed := supervisor.SeleniumReadyPattern, supervisor.SeleniumFailurePattern
	if t.ReadyPattern != "" {
		ready = t.ReadyPattern
	}
	if t.FailurePattern != "" {
		failed = t.FailurePattern
	}
	rr, err := regexp.Compile(ready)
	if err != nil {
		return o, fmt.Errorf("target %q: ready_pattern: %w", name, err)
	}
	fr, err := regexp.Compile(failed)
	if err != nil {
		return o, fmt.Errorf("target %q: failure_pattern: %w", name, err)
	}
	o.Rule = supervisor.PatternRule{Ready: rr, Failed: fr}
	return o, nil
}

// StartTarget starts one configured target, fetching the jar first if needed.
func (r *Runner) StartTarget(ctx context.Context, name string) error {
	if _, ok := r.cfg.Targets[name]; !ok {
		return ErrUnknownTarget(name)
	}
	r.mu.Lock()
	jar := r.jar
	r.mu.Unlock()
	if jar == "" {
		var err error
		if jar, err = r.Download(ctx); err != nil {
			return err
		}
	}
	inv, err := r.Invocation(name, jar)
	if err != nil {
		return err
	}
	opts, err := r.Options(name)
	if err != nil {
		return err
	}
	r.log.Info().Str("target", name).Str("command", inv.String()).Msg("starting target")
	return r.procs.Start(ctx, name, inv, opts)
}

// StopTarget signals the process of one target.
func (r *Runner) StopTarget(name string) error {
	return r.procs.Stop(name)
}

// StartAll downloads the jar and starts every configured target concurrently.
// The first failure cancels the remaining starts, raises the failure signal and
// is returned.
func (r *Runner) StartAll(ctx context.Context) error {
	if err := r.startAll(ctx); err != nil {
		r.log.Error().Err(err).Msg("workflow failed")
		r.signal.Raise(err)
		return err
	}
	return nil
}

func (r *Runner) startAll(ctx context.Context) error {
	if _, err := r.Download(ctx); err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range r.cfg.TargetNames() {
		name := name
		g.Go(func() error { return r.StartTarget(gctx, name) })
	}
	return g.Wait()
}

// Targets returns the status of every tracked process.
func (r *Runner) Targets() []supervisor.Status { return r.procs.Targets() }

// Lookup returns the status of one target.
func (r *Runner) Lookup(name string) (supervisor.Status, bool) { return r.procs.Lookup(name) }

// IsConfigured reports whether name appears in the configuration.
func (r *Runner) IsConfigured(name string) bool {
	_, ok := r.cfg.Targets[name]
	return ok
}

// Ready reports whether every configured target has a running process.
func (r *Runner) Ready() bool {
	for _, name := range r.cfg.TargetNames() {
		st, ok := r.procs.Lookup(name)
		if !ok || st.State != supervisor.StateRunning {
			return false
		}
	}
	return true
}
