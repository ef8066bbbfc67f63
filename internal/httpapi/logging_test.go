package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"off": LevelOff, "error": LevelError, "info": LevelInfo, "": LevelInfo, "debug": LevelDebug, "weird": LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestRequestLogLevelOverrides(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/targets?log=debug", nil)
	if requestLogLevel(req) != LevelDebug {
		t.Fatalf("query override ignored")
	}
	req = httptest.NewRequest(http.MethodGet, "/targets", nil)
	req.Header.Set("X-Log-Level", "off")
	if requestLogLevel(req) != LevelOff {
		t.Fatalf("header override ignored")
	}
}

func TestRequestLogger_WritesLine(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer SetLogger(zerolog.Nop())

	mux := NewMux(newMock())
	req := httptest.NewRequest(http.MethodGet, "/targets/ghost?log=info", nil)
	mux.ServeHTTP(httptest.NewRecorder(), req)
	out := buf.String()
	if !strings.Contains(out, `"path":"/targets/ghost"`) || !strings.Contains(out, `"status":404`) {
		t.Fatalf("log line=%s", out)
	}

	buf.Reset()
	req = httptest.NewRequest(http.MethodGet, "/targets/ghost?log=error", nil)
	mux.ServeHTTP(httptest.NewRecorder(), req)
	if buf.Len() != 0 {
		t.Fatalf("error level should skip 404: %s", buf.String())
	}
}
