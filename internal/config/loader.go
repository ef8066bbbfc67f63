package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// TargetConfig describes one supervised server. Zero values fall back to the
// global settings in Config.
type TargetConfig struct {
	ServerOptions          map[string]string `json:"server_options" yaml:"server_options" toml:"server_options"`
	SystemProperties       map[string]string `json:"system_properties" yaml:"system_properties" toml:"system_properties"`
	Env                    map[string]string `json:"env" yaml:"env" toml:"env"`
	ReadinessTimeoutMs     int               `json:"readiness_timeout_ms" yaml:"readiness_timeout_ms" toml:"readiness_timeout_ms"`
	CaptureStderrAsFailure *bool             `json:"capture_stderr_as_failure" yaml:"capture_stderr_as_failure" toml:"capture_stderr_as_failure"`
	KillOnFailure          *bool             `json:"kill_on_failure" yaml:"kill_on_failure" toml:"kill_on_failure"`
	ReadyPattern           string            `json:"ready_pattern" yaml:"ready_pattern" toml:"ready_pattern"`
	FailurePattern         string            `json:"failure_pattern" yaml:"failure_pattern" toml:"failure_pattern"`
}

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr     string `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`

	DownloadURL      string `json:"download_url" yaml:"download_url" toml:"download_url"`
	DownloadLocation string `json:"download_location" yaml:"download_location" toml:"download_location"`
	ForceDownload    bool   `json:"force_download" yaml:"force_download" toml:"force_download"`
	// Override is the older spelling of ForceDownload.
	Override bool `json:"override" yaml:"override" toml:"override"`

	JavaBin                string `json:"java_bin" yaml:"java_bin" toml:"java_bin"`
	ReadinessTimeoutMs     int    `json:"readiness_timeout_ms" yaml:"readiness_timeout_ms" toml:"readiness_timeout_ms"`
	CaptureStderrAsFailure *bool  `json:"capture_stderr_as_failure" yaml:"capture_stderr_as_failure" toml:"capture_stderr_as_failure"`
	KillOnFailure          *bool  `json:"kill_on_failure" yaml:"kill_on_failure" toml:"kill_on_failure"`

	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`

	Targets map[string]TargetConfig `json:"targets" yaml:"targets" toml:"targets"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
