package rest

import (
	"net/http"

	"github.com/heartmarshall/masquerade-backend/internal/transport/middleware"
)

// RouterConfig tunes the per-participant limit on recognition attempts.
type RouterConfig struct {
	AttemptsPerMinute int
	AttemptBurst      int
}

// NewRouter registers the health and recognition routes. Cross-cutting
// middleware (auth, logging, tracing) is applied by the caller around the
// returned mux.
func NewRouter(health *HealthHandler, rec *RecognitionHandler, limiter *middleware.RateLimiter, cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireParticipant(h)
	}
	attempts := middleware.Chain(
		middleware.RequireParticipant,
		limiter.LimitBy(cfg.AttemptsPerMinute, cfg.AttemptBurst, middleware.ByParticipant),
	)

	mux.Handle("POST /recognitions", attempts(http.HandlerFunc(rec.Recognize)))
	mux.Handle("GET /recognitions/{targetId}", authed(rec.GetEdge))
	mux.Handle("DELETE /recognitions/{targetId}", authed(rec.Revoke))
	mux.Handle("POST /recognitions/{targetId}/compliments", authed(rec.Compliment))
	mux.Handle("POST /challenges/{recognizerId}", authed(rec.Challenge))
	mux.HandleFunc("GET /participants/{id}/stats", rec.Stats)

	return mux
}
