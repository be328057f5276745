package response

import (
	"encoding/json"
	"net/http"
)

// Success payloads are wrapped in {"data": ...} so clients decode both
// outcomes from one top-level shape (errors use {"error": ...}).
type envelope struct {
	Data any `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 with the data envelope.
func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data})
}

// Created writes a 201 with the data envelope.
func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{Data: data})
}

// NoContent writes an empty 204; used by logout, unassign and the
// delete endpoints.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
