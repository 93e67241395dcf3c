package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func decodeRecovered(t *testing.T, rec *httptest.ResponseRecorder) recoveredBody {
	t.Helper()
	var body recoveredBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRecovery_PassesThroughWithoutPanic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rec := httptest.NewRecorder()
	Recovery(logger)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recognitions", nil))

	if rec.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, rec.Code)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no log output, got %q", buf.String())
	}
}

func TestRecovery_PanickingStatsHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var stats map[string]int
		stats["recognizedCount"]++ // nil map write
	})

	req := httptest.NewRequest(http.MethodGet, "/participants/x/stats", nil)
	req.Header.Set("X-Request-Id", "req-stats-1")
	rec := httptest.NewRecorder()

	Chain(RequestID, Recovery(logger))(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}
	body := decodeRecovered(t, rec)
	if body.Error != "internal server error" || body.Kind != "INTERNAL" {
		t.Errorf("unexpected body: %+v", body)
	}
	if body.RequestID != "req-stats-1" {
		t.Errorf("expected request id in body, got %q", body.RequestID)
	}

	logOutput := buf.String()
	for _, want := range []string{"panic recovered", "assignment to entry in nil map", "request_id=req-stats-1", "path=/participants/x/stats", "stack="} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("expected log to contain %q, got %q", want, logOutput)
		}
	}
	if strings.Contains(logOutput, "participant_id") {
		t.Errorf("anonymous request must not log participant_id, got %q", logOutput)
	}
}

func TestRecovery_LogsParticipantWhenAuthenticated(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	recognizer := uuid.New()
	validator := &tokenValidatorMock{
		ValidateTokenFunc: func(context.Context, string) (uuid.UUID, error) { return recognizer, nil },
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("edge projection out of sync"))
	})

	req := httptest.NewRequest(http.MethodPost, "/recognitions", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	Chain(RequestID, Auth(validator), Recovery(logger))(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if !strings.Contains(buf.String(), "participant_id="+recognizer.String()) {
		t.Errorf("expected participant_id in log, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "edge projection out of sync") {
		t.Errorf("expected panic value in log, got %q", buf.String())
	}
}

func TestRecovery_ResponseAlreadyStarted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"outcome":"RECOGNIZED"`))
		panic("encoder failed mid-body")
	})

	rec := httptest.NewRecorder()
	Recovery(logger)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recognitions", nil))

	if rec.Code != http.StatusCreated {
		t.Errorf("status must stay as written, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "INTERNAL") {
		t.Errorf("no error body may follow a started response, got %q", rec.Body.String())
	}
	if !strings.Contains(buf.String(), "response_started=true") {
		t.Errorf("expected response_started in log, got %q", buf.String())
	}
}

func TestRecovery_RepanicsAbortHandler(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		if got := recover(); got != http.ErrAbortHandler { //nolint:errorlint
			t.Errorf("expected http.ErrAbortHandler to propagate, got %v", got)
		}
	}()
	Recovery(logger)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Error("expected panic to propagate")
}
