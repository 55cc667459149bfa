package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Probe status values reported by the health endpoints.
const (
	probeStatusOK           = "ok"
	probeStatusNotReady     = "not ready"
	probeStatusShuttingDown = "shutting down"
)

// HealthChecker answers Kubernetes liveness and readiness probes for the
// HTTP transports. The checker starts ready; the serve command flips it
// off when shutdown begins so load balancers drain before the listener
// closes.
type HealthChecker struct {
	ready     atomic.Bool
	serverCtx *ServerContext
	startTime time.Time

	mu           sync.RWMutex
	sessionStats func() map[string]int
}

// NewHealthChecker creates a HealthChecker bound to the given server
// context. The checker starts in the ready state.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	hc := &HealthChecker{
		serverCtx: sc,
		startTime: time.Now(),
	}
	hc.ready.Store(true)
	return hc
}

// SetReady flips the readiness gate.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the server accepts traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// SetSessionStats installs a callback reporting token store counters.
// The counters appear in the detailed health endpoint.
func (h *HealthChecker) SetSessionStats(fn func() map[string]int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessionStats = fn
}

func (h *HealthChecker) storeStats() map[string]int {
	h.mu.RLock()
	fn := h.sessionStats
	h.mu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn()
}

// shuttingDown is nil-safe so the checker can be used without a server
// context in tests.
func (h *HealthChecker) shuttingDown() bool {
	return h.serverCtx != nil && h.serverCtx.IsShutdown()
}

// HealthResponse is the JSON body of the liveness and readiness endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse extends the probe response with uptime and token
// store counters for operators.
type DetailedHealthResponse struct {
	Status string         `json:"status"`
	Uptime string         `json:"uptime"`
	Store  map[string]int `json:"store,omitempty"`
}

func writeHealth(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// LivenessHandler serves /healthz. Liveness only asserts the process is
// able to answer requests, so it always reports ok.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: probeStatusOK})
	})
}

// ReadinessHandler serves /readyz. The server is ready when the readiness
// gate is open and shutdown has not started.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks := make(map[string]string, 2)

		ok := true
		if h.ready.Load() {
			checks["ready"] = probeStatusOK
		} else {
			checks["ready"] = probeStatusNotReady
			ok = false
		}
		if h.shuttingDown() {
			checks["shutdown"] = probeStatusShuttingDown
			ok = false
		} else {
			checks["shutdown"] = probeStatusOK
		}

		response := HealthResponse{Status: probeStatusOK, Checks: checks}
		status := http.StatusOK
		if !ok {
			response.Status = probeStatusNotReady
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, status, response)
	})
}

// DetailedHealthHandler serves /healthz/detailed with uptime and token
// store counters in addition to the probe status.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response := DetailedHealthResponse{
			Status: probeStatusOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
			Store:  h.storeStats(),
		}

		status := http.StatusOK
		switch {
		case !h.ready.Load():
			response.Status = probeStatusNotReady
			status = http.StatusServiceUnavailable
		case h.shuttingDown():
			response.Status = probeStatusShuttingDown
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, status, response)
	})
}

// RegisterHealthEndpoints mounts the probe endpoints on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
