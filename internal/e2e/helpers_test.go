//go:build !windows

package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"seleniumd/internal/config"
	"seleniumd/internal/fetch"
	"seleniumd/internal/httpapi"
	"seleniumd/internal/supervisor"
	"seleniumd/internal/workflow"
)

// fakeJava behaves like the standalone server as far as the supervisor can
// tell: -role broken reports an occupied port, -role slow never gets ready.
const fakeJava = `#!/bin/sh
case "$*" in
  *"-role broken"*) echo "Selenium is already running on port 4444. Or some other service is." ;;
  *"-role slow"*) echo "INFO - Launching a standalone server" ;;
  *) echo "INFO - Started SocketListener on 0.0.0.0:4444" ;;
esac
exec sleep 30
`

type stack struct {
	srv    *httptest.Server
	sup    *supervisor.Supervisor
	runner *workflow.Runner
	signal *workflow.FailureSignal
}

// newStack wires supervisor, cleanup hook, failure signal, runner and HTTP API
// the way the run command does, with a stub jar server.
func newStack(t *testing.T, targets map[string]config.TargetConfig) *stack {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	java := filepath.Join(dir, "java")
	if err := os.WriteFile(java, []byte(fakeJava), 0o755); err != nil {
		t.Fatalf("write fake java: %v", err)
	}
	jars := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("PK fake jar"))
	}))
	t.Cleanup(jars.Close)

	no := false
	cfg := config.Config{
		JavaBin:                java,
		DownloadURL:            jars.URL + "/selenium-server-standalone-2.42.2.jar",
		DownloadLocation:       dir,
		ReadinessTimeoutMs:     3000,
		CaptureStderrAsFailure: &no,
		Targets:                targets,
	}
	log := zerolog.Nop()
	sup := supervisor.New(supervisor.Config{Logger: log})
	hook := supervisor.NewCleanupHook(sup, log)
	sig := workflow.NewFailureSignal()
	sig.Subscribe(hook.OnFailure)
	runner := workflow.NewRunner(cfg, sup, fetch.New(log), sig, log)

	srv := httptest.NewServer(httpapi.NewMux(runner))
	t.Cleanup(srv.Close)
	t.Cleanup(sup.StopAll)
	return &stack{srv: srv, sup: sup, runner: runner, signal: sig}
}

func (s *stack) do(t *testing.T, method, path string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, s.srv.URL+path, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var buf json.RawMessage
	_ = json.NewDecoder(resp.Body).Decode(&buf)
	return resp, buf
}
