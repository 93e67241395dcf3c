//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/masquerade-backend/internal/adapter/postgres/evidence"
	"github.com/heartmarshall/masquerade-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/masquerade-backend/internal/app"
	authpkg "github.com/heartmarshall/masquerade-backend/internal/auth"
	"github.com/heartmarshall/masquerade-backend/internal/config"
)

func init() {
	evidence.HashCost = bcrypt.MinCost
}

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	jwt    *authpkg.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret-at-least-32-chars-long!!",
			JWTIssuer:      "test-issuer",
			AccessTokenTTL: 15 * time.Minute,
		},
		CORS: config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST,DELETE,OPTIONS"},
		Recognition: config.RecognitionConfig{
			RevokeGuard:         168 * time.Hour,
			RecognizeCooldown:   720 * time.Hour,
			MaxConflictRetries:  3,
			MaxComplimentLength: 280,
			RecentCompliments:   5,
			AttemptsPerMinute:   600,
			AttemptBurst:        100,
		},
	}

	handler, cleanup := app.NewHandler(logger, pool, cfg)
	t.Cleanup(cleanup)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		jwt:    authpkg.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL),
	}
}

// ---------------------------------------------------------------------------
// maskedParticipant is a seeded participant with a known real identity.
// ---------------------------------------------------------------------------

type maskedParticipant struct {
	ID       uuid.UUID
	Identity string
	Token    string
}

func createParticipant(t *testing.T, ts *testServer) maskedParticipant {
	t.Helper()

	identity := "handle-" + uuid.NewString()[:8]
	digest, err := evidence.HashIdentity(identity)
	require.NoError(t, err)

	p := testhelper.SeedParticipant(t, ts.Pool, digest)

	tok, err := ts.jwt.GenerateAccessToken(p.ID)
	require.NoError(t, err)

	return maskedParticipant{ID: p.ID, Identity: identity, Token: tok}
}

// ---------------------------------------------------------------------------
// restRequest sends a JSON request and returns the response.
// ---------------------------------------------------------------------------

func restRequest(t *testing.T, ts *testServer, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequestWithContext(context.Background(), method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func recognize(t *testing.T, ts *testServer, from maskedParticipant, target uuid.UUID, guess string) *http.Response {
	t.Helper()
	return restRequest(t, ts, http.MethodPost, "/recognitions", from.Token, map[string]any{
		"targetId": target.String(),
		"evidence": map[string]string{"kind": "IDENTITY", "guess": guess},
	})
}
