package http_handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

func writeHealth(w http.ResponseWriter, status int, body healthBody) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Healthz reports process liveness only; it never touches dependencies.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, healthBody{Status: "ok"})
}

// Readyz additionally pings Postgres. Terminals poll this before
// bringing a kiosk online, so a dead pool must flip it to 503.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			writeHealth(w, http.StatusServiceUnavailable, healthBody{
				Status:   "unavailable",
				Database: "down",
			})
			return
		}
	}
	writeHealth(w, http.StatusOK, healthBody{Status: "ready"})
}
