package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/heartmarshall/masquerade-backend/pkg/ctxutil"
)

// recoveredBody matches the REST error shape.
type recoveredBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"requestId,omitempty"`
}

// Recovery returns middleware that turns a panic into a JSON 500 and logs
// it with a stack trace and the request's identifiers. Place it inside
// RequestID so the request id reaches both the log and the body;
// participant_id is logged only when Auth ran before it.
//
// http.ErrAbortHandler is re-panicked so net/http can drop the connection.
// When the handler had already started its response the status cannot be
// changed, so the panic is only logged.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint
					panic(rec)
				}

				ctx := r.Context()
				requestID := ctxutil.RequestIDFromCtx(ctx)
				attrs := []slog.Attr{
					slog.Any("error", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", requestID),
					slog.Bool("response_started", sw.wroteHeader),
				}
				if participantID, ok := ctxutil.ParticipantIDFromCtx(ctx); ok {
					attrs = append(attrs, slog.String("participant_id", participantID.String()))
				}
				logger.LogAttrs(ctx, slog.LevelError, "panic recovered", attrs...)

				if sw.wroteHeader {
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(recoveredBody{ //nolint:errcheck
					Error:     "internal server error",
					Kind:      "INTERNAL",
					RequestID: requestID,
				})
			}()
			next.ServeHTTP(sw, r)
		})
	}
}
