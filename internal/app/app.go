package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/masquerade-backend/internal/adapter/postgres"
	"github.com/heartmarshall/masquerade-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/masquerade-backend/internal/adapter/postgres/evidence"
	"github.com/heartmarshall/masquerade-backend/internal/adapter/postgres/participant"
	"github.com/heartmarshall/masquerade-backend/internal/auth"
	"github.com/heartmarshall/masquerade-backend/internal/config"
	"github.com/heartmarshall/masquerade-backend/internal/service/recognition"
	"github.com/heartmarshall/masquerade-backend/internal/transport/middleware"
	"github.com/heartmarshall/masquerade-backend/internal/transport/rest"
	"github.com/heartmarshall/masquerade-backend/migrations"
)

// Database is what the server needs from the connection pool.
type Database interface {
	postgres.DB
	Ping(ctx context.Context) error
}

// Run is the application entry point. It loads configuration, connects to
// the database, and serves HTTP until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("tracing", cfg.Telemetry.Enabled()),
	)

	shutdownTelemetry, err := SetupTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Warn("telemetry shutdown", slog.String("error", err.Error()))
		}
	}()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	handler, cleanup := NewHandler(logger, pool, cfg)
	defer cleanup()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}

// NewRecognitionService wires the recognition service onto db.
func NewRecognitionService(logger *slog.Logger, db postgres.DB, cfg config.RecognitionConfig) *recognition.Service {
	return recognition.NewService(
		logger,
		participant.New(db),
		evidence.NewRouter(db),
		audit.New(db),
		postgres.NewTxManager(db),
		recognition.SystemClock{},
		RecognitionServiceConfig(cfg),
	)
}

// RecognitionServiceConfig maps the config section onto the service config.
func RecognitionServiceConfig(cfg config.RecognitionConfig) recognition.Config {
	return recognition.Config{
		RevokeGuard:         cfg.RevokeGuard,
		RecognizeCooldown:   cfg.RecognizeCooldown,
		ChallengeCooldown:   cfg.ChallengeCooldown,
		MaxConflictRetries:  cfg.MaxConflictRetries,
		MaxComplimentLength: cfg.MaxComplimentLength,
		RecentCompliments:   cfg.RecentCompliments,
	}
}

// NewHandler builds the full HTTP handler. The returned cleanup stops
// background workers and must be called on shutdown.
func NewHandler(logger *slog.Logger, db Database, cfg *config.Config) (http.Handler, func()) {
	jwtMgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	svc := NewRecognitionService(logger, db, cfg.Recognition)
	limiter := middleware.NewRateLimiter(time.Minute)

	mux := rest.NewRouter(
		rest.NewHealthHandler(db, postgres.NewSchemaInspector(db, migrations.FS), Version),
		rest.NewRecognitionHandler(svc, logger),
		limiter,
		rest.RouterConfig{
			AttemptsPerMinute: cfg.Recognition.AttemptsPerMinute,
			AttemptBurst:      cfg.Recognition.AttemptBurst,
		},
	)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Tracing(),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtMgr),
		middleware.Logger(logger),
	)(mux)

	return handler, limiter.Stop
}
