package rest

import (
	"context"
	"net/http"
	"time"
)

const pingTimeout = 3 * time.Second

type dbPinger interface {
	Ping(ctx context.Context) error
}

type breakerReporter interface {
	BreakerState() string
}

type switchReporter interface {
	Enabled() bool
}

// HealthHandler serves the liveness, readiness and health probes.
type HealthHandler struct {
	db         dbPinger
	catalog    breakerReporter
	translator switchReporter
	version    string
}

// NewHealthHandler creates a HealthHandler. catalog and translator may be nil.
func NewHealthHandler(db dbPinger, catalog breakerReporter, translator switchReporter, version string) *HealthHandler {
	return &HealthHandler{db: db, catalog: catalog, translator: translator, version: version}
}

// HealthResponse is the JSON body for /live, /ready and /health.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of a single dependency.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready returns 503 while the database is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "down", Timestamp: time.Now()})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Health reports every dependency. Only the database decides the status
// code; an open catalog breaker degrades the overall status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	components := make(map[string]CompStatus, 3)
	overall := "ok"

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		components["database"] = CompStatus{Status: "down"}
		overall = "down"
	} else {
		components["database"] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
	}

	if h.catalog != nil {
		state := h.catalog.BreakerState()
		if state == "closed" {
			components["catalog"] = CompStatus{Status: "ok"}
		} else {
			components["catalog"] = CompStatus{Status: state}
			if overall == "ok" {
				overall = "degraded"
			}
		}
	}

	if h.translator != nil {
		status := "ok"
		if !h.translator.Enabled() {
			status = "disabled"
		}
		components["translator"] = CompStatus{Status: status}
	}

	code := http.StatusOK
	if overall == "down" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}
