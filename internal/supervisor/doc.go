// Package supervisor launches and tracks long-running server processes by
// target name. It is structured into small files by concern:
//
//   - supervisor.go: Supervisor type, Start/Stop/StopAll/Shutdown and the target table.
//   - config.go: Config and per-start Options with package defaults.
//   - handle.go: Handle and Spawner abstractions; the os/exec backed ExecSpawner.
//   - readiness.go: ReadinessRule, the Selenium banner rule and the output detector.
//   - cleanup.go: CleanupHook, the failure-triggered sweep over every tracked process.
//   - events.go / eventpub_memory.go: lifecycle events and an in-memory publisher for tests.
//   - errors.go: typed errors and IsXxx helpers.
//   - metrics.go: Prometheus instrumentation.
//
// Start blocks until the detector sees the ready banner, sees a failure, or the
// readiness timeout fires, whichever comes first; only one of them can win.
// Stop is fire-and-forget: it signals and returns without waiting for exit.
// Entries leave the table only when the supervisor observes the process exit.
package supervisor
