package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %v)", c.Auth.AccessTokenTTL)
	}

	if err := c.Recognition.validate(); err != nil {
		return fmt.Errorf("recognition: %w", err)
	}

	if c.Audit.RetentionDays <= 0 {
		return fmt.Errorf("audit.retention_days must be > 0 (got %d)", c.Audit.RetentionDays)
	}

	if err := c.Telemetry.validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	return nil
}

func (r *RecognitionConfig) validate() error {
	if r.RevokeGuard < 0 {
		return fmt.Errorf("revoke_guard must be >= 0 (got %v)", r.RevokeGuard)
	}
	if r.RecognizeCooldown < 0 {
		return fmt.Errorf("recognize_cooldown must be >= 0 (got %v)", r.RecognizeCooldown)
	}
	if r.ChallengeCooldown < 0 {
		return fmt.Errorf("challenge_cooldown must be >= 0 (got %v)", r.ChallengeCooldown)
	}
	if r.MaxConflictRetries < 0 {
		return fmt.Errorf("max_conflict_retries must be >= 0 (got %d)", r.MaxConflictRetries)
	}
	if r.MaxComplimentLength <= 0 {
		return fmt.Errorf("max_compliment_length must be > 0 (got %d)", r.MaxComplimentLength)
	}
	if r.RecentCompliments < 0 {
		return fmt.Errorf("recent_compliments must be >= 0 (got %d)", r.RecentCompliments)
	}
	if r.AttemptsPerMinute <= 0 {
		return fmt.Errorf("attempts_per_minute must be > 0 (got %d)", r.AttemptsPerMinute)
	}
	if r.AttemptBurst <= 0 {
		return fmt.Errorf("attempt_burst must be > 0 (got %d)", r.AttemptBurst)
	}
	return nil
}

func (t *TelemetryConfig) validate() error {
	if t.SampleRatio < 0 || t.SampleRatio > 1 {
		return fmt.Errorf("sample_ratio must be within [0, 1] (got %v)", t.SampleRatio)
	}
	if t.Enabled() && strings.TrimSpace(t.ServiceName) == "" {
		return fmt.Errorf("service_name is required when otlp_endpoint is set")
	}
	return nil
}
