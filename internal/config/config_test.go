package config

import (
	"strings"
	"testing"
	"time"

	"github.com/matchday/prediction-league/internal/platform/logging"
)

// clearEnv blanks every variable Load reads so tests see only what they set.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "APP_SERVICE_NAME", "APP_SERVICE_VERSION", "APP_HTTP_ADDR",
		"APP_READ_TIMEOUT", "APP_WRITE_TIMEOUT", "APP_LOG_LEVEL",
		"DB_URL", "DB_DISABLE_PREPARED_BINARY_RESULT",
		"CACHE_ENABLED", "CACHE_TTL",
		"FOOTBALL_DATA_ENABLED", "FOOTBALL_DATA_BASE_URL", "FOOTBALL_DATA_TOKEN",
		"FOOTBALL_DATA_TIMEOUT", "FOOTBALL_DATA_MAX_RETRIES",
		"FOOTBALL_DATA_CIRCUIT_ENABLED", "FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT",
		"FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT", "FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ",
		"SCORING_TAKEOVER_INTERVAL", "SCORING_WORKERS", "INTERNAL_JOB_TOKEN",
		"UPTRACE_ENABLED", "UPTRACE_DSN", "OTEL_EXPORTER_OTLP_HEADERS",
		"UPTRACE_CAPTURE_REQUEST_BODY", "UPTRACE_REQUEST_BODY_MAX_BYTES",
		"PYROSCOPE_ENABLED", "PYROSCOPE_SERVER_ADDRESS", "PYROSCOPE_APP_NAME",
		"PYROSCOPE_AUTH_TOKEN", "PYROSCOPE_BASIC_AUTH_USER", "PYROSCOPE_BASIC_AUTH_PASSWORD",
		"PYROSCOPE_UPLOAD_RATE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppEnv != EnvDev {
		t.Fatalf("app env: got=%q want=%q", cfg.AppEnv, EnvDev)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("http addr: got=%q want=:8080", cfg.HTTPAddr)
	}
	if cfg.ReadTimeout != 10*time.Second || cfg.WriteTimeout != 30*time.Second {
		t.Fatalf("timeouts: got=(%v,%v)", cfg.ReadTimeout, cfg.WriteTimeout)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("log level: got=%v want=info", cfg.LogLevel)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != 15*time.Minute {
		t.Fatalf("cache: got=(%t,%v)", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if cfg.FootballDataEnabled {
		t.Fatalf("provider must default to disabled")
	}
	if cfg.ScoringTakeoverInterval != 10*time.Minute || cfg.ScoringWorkers != 8 {
		t.Fatalf("scoring defaults: got=(%v,%d)", cfg.ScoringTakeoverInterval, cfg.ScoringWorkers)
	}
	if cfg.FootballDataCircuitFailureCount != 5 || cfg.FootballDataCircuitHalfOpenMaxReq != 2 {
		t.Fatalf("circuit defaults: got=(%d,%d)", cfg.FootballDataCircuitFailureCount, cfg.FootballDataCircuitHalfOpenMaxReq)
	}
}

func TestLoad_InvalidAppEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "APP_ENV") {
		t.Fatalf("expected APP_ENV error, got=%v", err)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_TTL", "fifteen minutes")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "CACHE_TTL") {
		t.Fatalf("expected CACHE_TTL error, got=%v", err)
	}
}

func TestLoad_NonPositiveCacheTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_TTL", "-1m")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "CACHE_TTL") {
		t.Fatalf("expected CACHE_TTL error, got=%v", err)
	}
}

func TestLoad_InvalidBool(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_ENABLED", "yes please")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "CACHE_ENABLED") {
		t.Fatalf("expected CACHE_ENABLED error, got=%v", err)
	}
}

func TestLoad_ProdRequiresInternalJobToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", EnvProd)

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "INTERNAL_JOB_TOKEN") {
		t.Fatalf("expected INTERNAL_JOB_TOKEN error, got=%v", err)
	}

	t.Setenv("INTERNAL_JOB_TOKEN", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.InternalJobToken != "secret" {
		t.Fatalf("token: got=%q want=secret", cfg.InternalJobToken)
	}
}

func TestLoad_ProviderRequiresToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("FOOTBALL_DATA_ENABLED", "true")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "FOOTBALL_DATA_TOKEN") {
		t.Fatalf("expected FOOTBALL_DATA_TOKEN error, got=%v", err)
	}

	t.Setenv("FOOTBALL_DATA_TOKEN", "abc123")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.FootballDataEnabled || cfg.FootballDataToken != "abc123" {
		t.Fatalf("provider config: got=(%t,%q)", cfg.FootballDataEnabled, cfg.FootballDataToken)
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "uptrace-dsn=\"https://token@api.uptrace.dev/1\",other=x")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("dsn: got=%q", cfg.UptraceDSN)
	}
}

func TestParseLogLevel(t *testing.T) {
	clearEnv(t)

	cases := map[string]logging.Level{
		"debug":   logging.LevelDebug,
		"INFO":    logging.LevelInfo,
		"warning": logging.LevelWarn,
		"error":   logging.LevelError,
		"bogus":   logging.LevelInfo,
	}
	for raw, want := range cases {
		if got := parseLogLevel(raw); got != want {
			t.Fatalf("parseLogLevel(%q): got=%v want=%v", raw, got, want)
		}
	}
}
