package httpapi

import "time"

// startTimeout bounds a POST /targets/{target}/start request on top of the
// target's own readiness timeout. Zero means no extra bound.
var startTimeout time.Duration

// SetStartTimeout sets the start request bound (0 disables).
func SetStartTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	startTimeout = d
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
