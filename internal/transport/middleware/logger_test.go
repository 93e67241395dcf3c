package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/heartmarshall/masquerade-backend/pkg/ctxutil"
	"go.opentelemetry.io/otel/trace"
)

func TestLogger_Success(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test-path", nil)
	rec := httptest.NewRecorder()

	Logger(logger)(handler).ServeHTTP(rec, req)

	logOutput := buf.String()
	for _, want := range []string{"http.request", "GET", "/test-path", `"status":200`, "duration", "INFO"} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("expected log to contain %q, got %q", want, logOutput)
		}
	}
	if strings.Contains(logOutput, "participant_id") || strings.Contains(logOutput, "trace_id") {
		t.Errorf("anonymous untraced request should not log participant_id or trace_id, got %q", logOutput)
	}
}

func TestLogger_ServerError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodPost, "/error", nil)
	rec := httptest.NewRecorder()

	Logger(logger)(handler).ServeHTTP(rec, req)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "ERROR") {
		t.Errorf("expected ERROR level for status 500, got %q", logOutput)
	}
	if !strings.Contains(logOutput, `"status":500`) {
		t.Errorf("expected log to contain status 500, got %q", logOutput)
	}
}

func TestLogger_IncludesContextIdentifiers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	participantID := uuid.New()
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x0a, 0xf7, 0x65, 0x19, 0x16, 0xcd, 0x43, 0xdd, 0x84, 0x48, 0xeb, 0x21, 0x1c, 0x80, 0x31, 0x9c},
		SpanID:     trace.SpanID{0x01},
		TraceFlags: trace.FlagsSampled,
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := ctxutil.WithRequestID(req.Context(), "test-request-id-123")
	ctx = ctxutil.WithParticipantID(ctx, participantID)
	ctx = trace.ContextWithSpanContext(ctx, sc)
	rec := httptest.NewRecorder()

	Logger(logger)(handler).ServeHTTP(rec, req.WithContext(ctx))

	logOutput := buf.String()
	for _, want := range []string{
		`"request_id":"test-request-id-123"`,
		`"participant_id":"` + participantID.String() + `"`,
		`"trace_id":"0af7651916cd43dd8448eb211c80319c"`,
		`"status":200`,
	} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("expected log to contain %s, got %q", want, logOutput)
		}
	}
}

func TestRequestLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		status int
		want   slog.Level
	}{
		{"/recognitions", http.StatusCreated, slog.LevelInfo},
		{"/recognitions", http.StatusUnprocessableEntity, slog.LevelInfo},
		{"/recognitions", http.StatusTooManyRequests, slog.LevelWarn},
		{"/recognitions", http.StatusServiceUnavailable, slog.LevelError},
		{"/live", http.StatusOK, slog.LevelDebug},
		{"/ready", http.StatusOK, slog.LevelDebug},
		{"/ready", http.StatusServiceUnavailable, slog.LevelError},
		{"/health", http.StatusOK, slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := requestLevel(tt.path, tt.status); got != tt.want {
			t.Errorf("requestLevel(%s, %d) = %v, want %v", tt.path, tt.status, got, tt.want)
		}
	}
}

func TestLogger_HealthyReadinessBelowInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	Logger(logger)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ready", nil))

	if buf.Len() != 0 {
		t.Errorf("expected healthy readiness check to be filtered at info, got %q", buf.String())
	}
}
