package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, body string, mode os.FileMode) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), mode); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func execute(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := buildRootCmdWith(&Options{LogFormat: "json"})
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestArgsCommand_PrintsInvocation(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "seleniumd.yaml", `
java_bin: /usr/bin/java
download_url: https://example.test/selenium-server-standalone-2.42.2.jar
download_location: /opt/selenium
targets:
  hub:
    server_options:
      role: hub
      port: "4444"
    system_properties:
      webdriver.chrome.driver: /opt/chromedriver
    env:
      DISPLAY: ":99"
`, 0o644)

	out, _, err := execute(t, context.Background(), "args", "hub", "--config", cfg)
	if err != nil {
		t.Fatalf("args: %v", err)
	}
	want := "DISPLAY=:99 /usr/bin/java -jar /opt/selenium/selenium-server-standalone-2.42.2.jar -port 4444 -role hub -Dwebdriver.chrome.driver=/opt/chromedriver\n"
	if out != want {
		t.Fatalf("got  %q\nwant %q", out, want)
	}

	if _, _, err := execute(t, context.Background(), "args", "ghost", "--config", cfg); err == nil || !strings.Contains(err.Error(), "unknown target") {
		t.Fatalf("expected unknown target error, got %v", err)
	}
}

func TestDownloadCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("j"), 2048))
	}))
	defer srv.Close()
	dir := t.TempDir()

	out, _, err := execute(t, context.Background(), "download",
		"--download-url", srv.URL+"/selenium-server-standalone-2.42.2.jar",
		"--download-location", dir)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	want := filepath.Join(dir, "selenium-server-standalone-2.42.2.jar")
	if strings.TrimSpace(out) != want {
		t.Fatalf("printed %q want %q", out, want)
	}
	if fi, err := os.Stat(want); err != nil || fi.Size() != 2048 {
		t.Fatalf("jar not written: %v", err)
	}
}

func TestRunCommand_NoTargetsServesUntilCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jar"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)
	_, stderr, err := execute(t, ctx, "run", "--addr", "127.0.0.1:0",
		"--download-url", srv.URL+"/s.jar", "--download-location", t.TempDir())
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "seleniumd listening") {
		t.Fatalf("missing listen log: %s", stderr)
	}
}

func TestRunCommand_StartFailureExitsNonZero(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jar"))
	}))
	defer srv.Close()
	dir := t.TempDir()
	java := writeFile(t, dir, "java", "#!/bin/sh\necho 'Selenium is already running on port 4444. Or some other service is.'\nexec sleep 30\n", 0o755)
	cfg := writeFile(t, dir, "seleniumd.json", `{
  "java_bin": "`+java+`",
  "download_url": "`+srv.URL+`/s.jar",
  "download_location": "`+dir+`",
  "readiness_timeout_ms": 5000,
  "targets": {"hub": {"server_options": {"role": "hub"}}}
}`, 0o644)

	_, _, err := execute(t, context.Background(), "run", "--config", cfg, "--addr", "127.0.0.1:0")
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("expected startup failure, got %v", err)
	}
}

func TestRunCommand_UnknownTargetFilter(t *testing.T) {
	_, _, err := execute(t, context.Background(), "run", "--targets", "ghost", "--addr", "127.0.0.1:0")
	if err == nil || !strings.Contains(err.Error(), "unknown target: ghost") {
		t.Fatalf("got %v", err)
	}
}

func TestCompletionBash(t *testing.T) {
	out, _, err := execute(t, context.Background(), "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "seleniumd") {
		t.Fatalf("unexpected completion output")
	}
}

func TestMainWithArgs_ExitCodes(t *testing.T) {
	if code := MainWithArgs(context.Background(), []string{"wat"}); code != 1 {
		t.Fatalf("unknown command exit=%d", code)
	}
	if code := MainWithArgs(context.Background(), []string{"--help"}); code != 0 {
		t.Fatalf("help exit=%d", code)
	}
}
