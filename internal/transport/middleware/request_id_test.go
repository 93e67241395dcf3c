package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/heartmarshall/masquerade-backend/pkg/ctxutil"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "reuses gateway uuid", incoming: uuid.NewString(), keep: true},
		{name: "reuses trace-style id", incoming: "edge-7:recognize.42_a", keep: true},
		{name: "generates when absent", incoming: ""},
		{name: "replaces log injection", incoming: "abc\nlevel=ERROR msg=forged"},
		{name: "replaces oversized id", incoming: strings.Repeat("a", maxRequestIDLen+1)},
		{name: "replaces spaces", incoming: "two words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var inCtx string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				inCtx = ctxutil.RequestIDFromCtx(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/recognitions", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()

			RequestID(handler).ServeHTTP(rec, req)

			header := rec.Header().Get(RequestIDHeader)
			if header == "" || header != inCtx {
				t.Fatalf("header %q must match context id %q", header, inCtx)
			}
			if tt.keep {
				if header != tt.incoming {
					t.Errorf("expected incoming id %q to be kept, got %q", tt.incoming, header)
				}
				return
			}
			if _, err := uuid.Parse(header); err != nil {
				t.Errorf("expected generated UUID, got %q: %v", header, err)
			}
		})
	}
}

func TestValidRequestID_MaxLength(t *testing.T) {
	t.Parallel()

	if !validRequestID(strings.Repeat("z", maxRequestIDLen)) {
		t.Error("id at the length limit should be accepted")
	}
}
