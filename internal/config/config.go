package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Audit       AuditConfig       `yaml:"audit"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Request-Id"`
	ExposedHeaders   string `yaml:"exposed_headers"   env:"CORS_EXPOSED_HEADERS"   env-default:"Retry-After,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"masquerade"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RecognitionConfig holds the calendar gates and limits of the recognition engine.
type RecognitionConfig struct {
	RevokeGuard         time.Duration `yaml:"revoke_guard"          env:"RECOGNITION_REVOKE_GUARD"          env-default:"168h"`
	RecognizeCooldown   time.Duration `yaml:"recognize_cooldown"    env:"RECOGNITION_RECOGNIZE_COOLDOWN"    env-default:"720h"`
	ChallengeCooldown   time.Duration `yaml:"challenge_cooldown"    env:"RECOGNITION_CHALLENGE_COOLDOWN"    env-default:"0s"`
	MaxConflictRetries  int           `yaml:"max_conflict_retries"  env:"RECOGNITION_MAX_CONFLICT_RETRIES"  env-default:"3"`
	MaxComplimentLength int           `yaml:"max_compliment_length" env:"RECOGNITION_MAX_COMPLIMENT_LENGTH" env-default:"280"`
	RecentCompliments   int           `yaml:"recent_compliments"    env:"RECOGNITION_RECENT_COMPLIMENTS"    env-default:"5"`

	// AttemptsPerMinute and AttemptBurst throttle recognition attempts per participant.
	AttemptsPerMinute int `yaml:"attempts_per_minute" env:"RECOGNITION_ATTEMPTS_PER_MINUTE" env-default:"10"`
	AttemptBurst      int `yaml:"attempt_burst"       env:"RECOGNITION_ATTEMPT_BURST"       env-default:"5"`
}

// AuditConfig holds audit trail settings.
type AuditConfig struct {
	// RetentionDays is how long audit records are kept before cmd/cleanup
	// removes them.
	RetentionDays int `yaml:"retention_days" env:"AUDIT_RETENTION_DAYS" env-default:"365"`
}

// TelemetryConfig holds OpenTelemetry tracing settings. OTLPEndpoint is a
// full OTLP/HTTP URL (e.g. "http://collector:4318"); tracing is off when it
// is empty.
type TelemetryConfig struct {
	ServiceName  string  `yaml:"service_name"  env:"OTEL_SERVICE_NAME"            env-default:"masquerade"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SampleRatio  float64 `yaml:"sample_ratio"  env:"OTEL_TRACES_SAMPLE_RATIO"     env-default:"1.0"`
}

// Enabled reports whether an exporter endpoint is configured.
func (c TelemetryConfig) Enabled() bool {
	return c.OTLPEndpoint != ""
}
