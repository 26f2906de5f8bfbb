package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"go-places/utils/errors"
)

// statusRecorder tracks whether a response has been written so the
// error responder never double-writes.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.written = true
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if !rec.written {
		rec.status = http.StatusOK
		rec.written = true
	}
	return rec.ResponseWriter.Write(b)
}

// ErrorMiddleware wraps every handler with panic recovery and installs
// the response recorder WriteError relies on.
func ErrorMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				if p := recover(); p != nil {
					slog.Error("panic recovered", "panic", p, "path", r.URL.Path)
					WriteError(rec, r, errors.ErrUnknown)
				}
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

// WriteError resolves err to an APIError and writes exactly one JSON
// error body. A file uploaded earlier in the failing request is
// removed so no orphaned upload outlives its request.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		apiErr = errors.Wrap(err, errors.ErrUnknown.Message, errors.ErrUnknown.Status)
	}
	if apiErr.Status >= 500 {
		slog.Error("server error", "message", apiErr.Message, "details", apiErr.Details)
	}

	if r != nil {
		if path := UploadedFilePath(r); path != "" {
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				slog.Warn("failed to remove uploaded file", "path", path, "error", rmErr)
			}
		}
	}

	if rec, ok := w.(*statusRecorder); ok && rec.written {
		slog.Warn("response already written, skipping error body", "status", rec.status, "message", apiErr.Message)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(apiErr)
}
