package cli

import (
	"fmt"
	"strings"

	"seleniumd/internal/config"
)

// Options carries the flag values shared by every command.
type Options struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string

	Addr             string
	Targets          string
	DownloadURL      string
	DownloadLocation string
	Force            bool
}

func defaultOptions() *Options {
	return &Options{
		ConfigPath: envStr("SELENIUMD_CONFIG", ""),
		LogLevel:   envStr("SELENIUMD_LOG_LEVEL", ""),
		LogFormat:  envStr("SELENIUMD_LOG_FORMAT", "console"),
		Addr:       envStr("SELENIUMD_ADDR", ""),
	}
}

// loadConfig reads the config file (if any), then applies env and flag
// overrides and the package defaults.
func loadConfig(o *Options) (config.Config, error) {
	var cfg config.Config
	if strings.TrimSpace(o.ConfigPath) != "" {
		c, err := config.Load(o.ConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	if o.Addr != "" {
		cfg.Addr = o.Addr
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.DownloadURL != "" {
		cfg.DownloadURL = o.DownloadURL
	}
	if o.DownloadLocation != "" {
		cfg.DownloadLocation = o.DownloadLocation
	}
	if o.Force {
		cfg.ForceDownload = true
	}
	if ms := envInt("SELENIUMD_READINESS_TIMEOUT_MS", 0); ms > 0 {
		cfg.ReadinessTimeoutMs = ms
	}
	cfg = cfg.WithDefaults()
	if names := splitCSV(o.Targets); len(names) > 0 {
		only := make(map[string]config.TargetConfig, len(names))
		for _, n := range names {
			t, ok := cfg.Targets[n]
			if !ok {
				return cfg, fmt.Errorf("unknown target: %s", n)
			}
			only[n] = t
		}
		cfg.Targets = only
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
