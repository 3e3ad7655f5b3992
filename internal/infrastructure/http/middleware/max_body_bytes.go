package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
)

// payloadTooLargeJSON is pre-marshaled so the 413 response can always be written.
const payloadTooLargeJSON = `{"error":{"code":"PAYLOAD_TOO_LARGE","message":"request body exceeds size limit"}}`

// MaxBodyBytes creates a middleware that limits request body size.
// A declared Content-Length over the limit is rejected before reading; otherwise the body is
// read through http.MaxBytesReader, which also covers chunked and mis-declared bodies.
//
// Returns 413 Request Entity Too Large in the standard error format.
func MaxBodyBytes(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writePayloadTooLarge(w, r)
				return
			}

			buf, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
			if err != nil {
				slog.WarnContext(r.Context(), "Request body size limit exceeded",
					"method", r.Method,
					"path", r.URL.Path,
					"content_length", r.ContentLength,
					"limit", maxBytes,
					"error", err)
				writePayloadTooLarge(w, r)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(buf))
			next.ServeHTTP(w, r)
		})
	}
}

func writePayloadTooLarge(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusRequestEntityTooLarge)
	if _, err := w.Write([]byte(payloadTooLargeJSON)); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write payload too large response", "error", err)
	}
}
