package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"seleniumd/internal/fetch"
	"seleniumd/internal/httpapi"
	"seleniumd/internal/supervisor"
	"seleniumd/internal/workflow"
)

const shutdownTimeout = 5 * time.Second

func runDownload(ctx context.Context, o *Options, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	log := newLogger(stderr, cfg.LogLevel, o.LogFormat)
	jar, err := fetch.New(log).Ensure(ctx, cfg.DownloadURL, cfg.DownloadLocation, cfg.Force())
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, jar)
	return nil
}

func runArgs(o *Options, target string, stdout io.Writer) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	r := workflow.NewRunner(cfg, nil, nil, nil, newLogger(io.Discard, "error", "json"))
	jar, err := r.JarPath()
	if err != nil {
		return err
	}
	inv, err := r.Invocation(target, jar)
	if err != nil {
		return err
	}
	for _, kv := range inv.Env {
		fmt.Fprintf(stdout, "%s ", kv)
	}
	fmt.Fprintln(stdout, strings.Join(inv.Tokens(), " "))
	return nil
}

// runServe starts every configured target, serves the control API and blocks
// until ctx is done or an interrupt arrives. A failed start sweeps whatever
// was launched and is returned.
func runServe(parent context.Context, o *Options, stderr io.Writer) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	log := newLogger(stderr, cfg.LogLevel, o.LogFormat)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := supervisor.New(supervisor.Config{Logger: log})
	hook := supervisor.NewCleanupHook(sup, log)
	sig := workflow.NewFailureSignal()
	sig.Subscribe(hook.OnFailure)
	runner := workflow.NewRunner(cfg, sup, fetch.New(log), sig, log)

	httpapi.SetLogger(log)
	httpapi.SetBaseContext(ctx)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, nil, nil)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	srv := &http.Server{Handler: httpapi.NewMux(runner), ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	log.Info().Str("addr", ln.Addr().String()).Strs("targets", cfg.TargetNames()).Msg("seleniumd listening")

	runErr := runner.StartAll(ctx)
	if runErr == nil {
		log.Info().Msg("all targets ready")
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
		case err := <-serveErr:
			runErr = fmt.Errorf("http server: %w", err)
			sig.Raise(runErr)
		}
	} else if ctx.Err() != nil {
		// Interrupted while starting; the sweep already ran.
		runErr = nil
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	if err := sup.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("processes killed after shutdown timeout")
	}
	return runErr
}
