package types

// TargetStatus describes one supervised server process.
type TargetStatus struct {
	// Target name from the configuration.
	// example: hub
	Target string `json:"target" example:"hub"`
	// Whether the target appears in the configuration.
	// example: true
	Configured bool `json:"configured" example:"true"`
	// Lifecycle state: absent, starting, running, failed, timed_out, canceled or stopping.
	// example: running
	State string `json:"state" example:"running"`
	// Process ID of the server (0 when absent).
	// example: 12345
	PID int `json:"pid,omitempty" example:"12345"`
	// Identifier of the launch that produced this process.
	// example: 0b6c3c0e-8f0e-4c1a-9a51-3f0f3e1d2a7b
	LaunchID string `json:"launch_id,omitempty" example:"0b6c3c0e-8f0e-4c1a-9a51-3f0f3e1d2a7b"`
	// Launch time in unix seconds.
	// example: 1700000000
	StartedAt int64 `json:"started_at_unix,omitempty" example:"1700000000"`
	// Seconds since launch.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds,omitempty" example:"3600"`
	// Command line the process was launched with.
	// example: ["java","-jar","/tmp/selenium-server-standalone-2.42.2.jar","-port","4444"]
	Command []string `json:"command,omitempty"`
	// Resident memory in bytes, when it could be read.
	// example: 268435456
	RSSBytes uint64 `json:"rss_bytes,omitempty" example:"268435456"`
}

// TargetsResponse is returned by GET /targets.
type TargetsResponse struct {
	Targets []TargetStatus `json:"targets"`
	// True when every configured target is running.
	// example: true
	Ready bool `json:"ready" example:"true"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// ActionResponse is returned by the start and stop endpoints.
type ActionResponse struct {
	// example: hub
	Target string `json:"target" example:"hub"`
	// Action performed: start or stop.
	// example: start
	Action string `json:"action" example:"start"`
	// Status of the target after the action.
	Status TargetStatus `json:"status"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: not running: hub
	Error string `json:"error" example:"not running: hub"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
