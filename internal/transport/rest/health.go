package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// dbPinger defines the minimal interface for DB health checks.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// schemaVersions reports the applied and the shipped migration versions.
type schemaVersions interface {
	AppliedVersion(ctx context.Context) (int64, error)
	LatestVersion() (int64, error)
}

// HealthHandler serves health check endpoints. The service is ready only
// when the database answers and its schema carries every migration this
// binary ships.
type HealthHandler struct {
	db      dbPinger
	schema  schemaVersions
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db dbPinger, schema schemaVersions, version string) *HealthHandler {
	return &HealthHandler{db: db, schema: schema, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Live reports that the process is serving. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready returns 200 when the database is reachable and migrated, 503
// otherwise. Failing components are listed in the body.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	components, ok := h.check(r.Context())
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:     "down",
			Components: components,
			Timestamp:  time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check: component states, ping latency and
// build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components, ok := h.check(r.Context())

	status, overall := http.StatusOK, "ok"
	if !ok {
		status, overall = http.StatusServiceUnavailable, "down"
	}

	writeJSON(w, status, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) check(ctx context.Context) (map[string]CompStatus, bool) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus, 2)

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		components["database"] = CompStatus{Status: "down"}
		// Schema state is unknowable without a connection.
		components["schema"] = CompStatus{Status: "unknown"}
		return components, false
	}
	components["database"] = CompStatus{Status: "ok", Latency: time.Since(start).String()}

	schema := h.checkSchema(ctx)
	components["schema"] = schema
	return components, schema.Status == "ok"
}

func (h *HealthHandler) checkSchema(ctx context.Context) CompStatus {
	want, err := h.schema.LatestVersion()
	if err != nil {
		return CompStatus{Status: "down", Detail: "migrations unreadable"}
	}
	got, err := h.schema.AppliedVersion(ctx)
	if err != nil {
		return CompStatus{Status: "down", Detail: "version table unreadable"}
	}
	if got < want {
		return CompStatus{Status: "down", Detail: fmt.Sprintf("applied %d, want %d", got, want)}
	}
	return CompStatus{Status: "ok", Detail: fmt.Sprintf("version %d", got)}
}
