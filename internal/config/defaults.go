package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultAddr               = ":4440"
	DefaultLogLevel           = "info"
	DefaultDownloadURL        = "https://selenium-release.storage.googleapis.com/2.42/selenium-server-standalone-2.42.2.jar"
	DefaultJavaBin            = "java"
	DefaultReadinessTimeoutMs = 30000
)

// Default returns a configuration with every default applied and no targets.
func Default() Config {
	return Config{}.WithDefaults()
}

// WithDefaults returns a copy of c with unset fields filled in.
func (c Config) WithDefaults() Config {
	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DownloadURL == "" {
		c.DownloadURL = DefaultDownloadURL
	}
	if c.DownloadLocation == "" {
		c.DownloadLocation = os.TempDir()
	}
	if c.JavaBin == "" {
		c.JavaBin = DefaultJavaBin
	}
	if c.ReadinessTimeoutMs <= 0 {
		c.ReadinessTimeoutMs = DefaultReadinessTimeoutMs
	}
	if c.Targets == nil {
		c.Targets = map[string]TargetConfig{}
	}
	return c
}

// Validate reports configuration errors that would only surface later at start time.
func (c Config) Validate() error {
	for name, t := range c.Targets {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("target name is empty")
		}
		if t.ReadinessTimeoutMs < 0 {
			return fmt.Errorf("target %q: readiness_timeout_ms must not be negative", name)
		}
		for field, p := range map[string]string{"ready_pattern": t.ReadyPattern, "failure_pattern": t.FailurePattern} {
			if p == "" {
				continue
			}
			if _, err := regexp.Compile(p); err != nil {
				return fmt.Errorf("target %q: %s: %w", name, field, err)
			}
		}
	}
	return nil
}

// Force reports whether an existing artifact must be re-fetched.
func (c Config) Force() bool { return c.ForceDownload || c.Override }

// ReadinessTimeout resolves the startup deadline for t.
func (c Config) ReadinessTimeout(t TargetConfig) time.Duration {
	ms := t.ReadinessTimeoutMs
	if ms <= 0 {
		ms = c.ReadinessTimeoutMs
	}
	if ms <= 0 {
		ms = DefaultReadinessTimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}

// CaptureStderr resolves captureStderrAsFailure for t (default true).
func (c Config) CaptureStderr(t TargetConfig) bool {
	return firstBool(true, t.CaptureStderrAsFailure, c.CaptureStderrAsFailure)
}

// KillOnStartupFailure resolves kill_on_failure for t (default true).
func (c Config) KillOnStartupFailure(t TargetConfig) bool {
	return firstBool(true, t.KillOnFailure, c.KillOnFailure)
}

// TargetNames returns configured target names in sorted order.
func (c Config) TargetNames() []string {
	names := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func firstBool(def bool, vals ...*bool) bool {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return def
}
