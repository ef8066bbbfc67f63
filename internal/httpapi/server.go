// Package httpapi exposes the supervisor over HTTP: target status, start and
// stop, health and readiness probes, and Prometheus metrics.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seleniumd/internal/supervisor"
	"seleniumd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Configured() []string
	IsConfigured(name string) bool
	Targets() []supervisor.Status
	Lookup(name string) (supervisor.Status, bool)
	StartTarget(ctx context.Context, name string) error
	StopTarget(name string) error
	Ready() bool
}

// stateAbsent marks a configured target with no tracked process.
const stateAbsent = "absent"

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		methods := corsAllowedMethods
		if len(methods) == 0 {
			methods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: methods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc}
	r.Get("/targets", h.listTargets)
	r.Route("/targets/{target}", func(r chi.Router) {
		r.Get("/", h.getTarget)
		r.Post("/start", h.startTarget)
		r.Post("/stop", h.stopTarget)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("starting"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

type handlers struct {
	svc Service
}

// listTargets godoc
// @Summary      List targets
// @Description  Configured targets and any tracked process, sorted by name.
// @Tags         targets
// @Produce      json
// @Success      200  {object}  types.TargetsResponse
// @Router       /targets [get]
func (h *handlers) listTargets(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	byName := map[string]types.TargetStatus{}
	for _, name := range h.svc.Configured() {
		byName[name] = types.TargetStatus{Target: name, Configured: true, State: stateAbsent}
	}
	for _, st := range h.svc.Targets() {
		ts := toTargetStatus(st, now)
		ts.Configured = h.svc.IsConfigured(st.Target)
		byName[st.Target] = ts
	}
	out := make([]types.TargetStatus, 0, len(byName))
	for _, ts := range byName {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Target < out[j].Target })
	writeJSON(w, http.StatusOK, types.TargetsResponse{Targets: out, Ready: h.svc.Ready(), ServerTimeUnix: now.Unix()})
}

// getTarget godoc
// @Summary      Target status
// @Tags         targets
// @Produce      json
// @Param        target  path      string  true  "Target name"
// @Success      200     {object}  types.TargetStatus
// @Failure      404     {object}  types.ErrorResponse
// @Router       /targets/{target} [get]
func (h *handlers) getTarget(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "target")
	ts, ok := h.status(name)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "unknown target: "+name)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

// startTarget godoc
// @Summary      Start a target
// @Description  Launches the server and blocks until it is ready, fails, or times out.
// @Tags         targets
// @Produce      json
// @Param        target  path      string  true  "Target name"
// @Success      200     {object}  types.ActionResponse
// @Failure      404     {object}  types.ErrorResponse
// @Failure      409     {object}  types.ErrorResponse
// @Failure      502     {object}  types.ErrorResponse
// @Failure      504     {object}  types.ErrorResponse
// @Router       /targets/{target}/start [post]
func (h *handlers) startTarget(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "target")
	ctx, cancel := startContext(r)
	defer cancel()
	if err := h.svc.StartTarget(ctx, name); err != nil {
		if r.Context().Err() != nil {
			return
		}
		status := statusFor(err)
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		writeJSONError(w, status, err.Error())
		return
	}
	ts, _ := h.status(name)
	writeJSON(w, http.StatusOK, types.ActionResponse{Target: name, Action: "start", Status: ts})
}

// stopTarget godoc
// @Summary      Stop a target
// @Description  Sends the termination signal and returns without waiting for exit.
// @Tags         targets
// @Produce      json
// @Param        target  path      string  true  "Target name"
// @Success      202     {object}  types.ActionResponse
// @Failure      404     {object}  types.ErrorResponse
// @Router       /targets/{target}/stop [post]
func (h *handlers) stopTarget(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "target")
	if err := h.svc.StopTarget(name); err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	ts, _ := h.status(name)
	writeJSON(w, http.StatusAccepted, types.ActionResponse{Target: name, Action: "stop", Status: ts})
}

// status reports name's status; ok is false when the target is neither
// configured nor tracked.
func (h *handlers) status(name string) (types.TargetStatus, bool) {
	configured := h.svc.IsConfigured(name)
	if st, ok := h.svc.Lookup(name); ok {
		ts := toTargetStatus(st, time.Now())
		ts.Configured = configured
		return ts, true
	}
	if configured {
		return types.TargetStatus{Target: name, Configured: true, State: stateAbsent}, true
	}
	return types.TargetStatus{}, false
}

func toTargetStatus(st supervisor.Status, now time.Time) types.TargetStatus {
	ts := types.TargetStatus{
		Target:   st.Target,
		State:    string(st.State),
		PID:      st.PID,
		LaunchID: st.LaunchID,
		Command:  st.Invocation.Tokens(),
		RSSBytes: st.RSSBytes,
	}
	if !st.StartedAt.IsZero() {
		ts.StartedAt = st.StartedAt.Unix()
		ts.UptimeSeconds = int64(now.Sub(st.StartedAt).Seconds())
	}
	return ts
}
