package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// encodeFailureJSON is written when a success payload cannot be marshaled.
const encodeFailureJSON = `{"error":{"code":"INTERNAL_ERROR","message":"failed to encode response"}}`

// OK sends a 200 OK response with JSON data.
func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

// Created sends a 201 Created response with JSON data.
func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, data)
}

// NoContent sends a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// writeJSON marshals before writing the status so a marshal failure can still become a 500.
func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(encodeFailureJSON))
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
