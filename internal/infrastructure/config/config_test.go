package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iho/pocketledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("LEDGER_BACKEND", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.LedgerBackend != config.LedgerBackendFile {
		t.Fatalf("expected file ledger backend by default, got %q", cfg.LedgerBackend)
	}

	if cfg.DataFile != "/app/financial_data.json" {
		t.Fatalf("unexpected default data file %q", cfg.DataFile)
	}

	if cfg.StrictPersistence {
		t.Fatalf("expected save failures to be silent by default")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if err := cfg.ValidateBot(); !errors.Is(err, config.ErrMissingBotToken) {
		t.Fatalf("expected ErrMissingBotToken, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("LEDGER_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "off")
	t.Setenv("UPDATE_DEDUP_TTL", "2h")
	t.Setenv("STRICT_PERSISTENCE", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" || cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom URLs, got %s %s", cfg.DatabaseURL, cfg.RedisURL)
	}

	if cfg.UpdateDedupTTL != 2*time.Hour {
		t.Fatalf("expected dedup ttl override, got %s", cfg.UpdateDedupTTL)
	}

	if !cfg.StrictPersistence || !cfg.UsesRedis() || cfg.HTTPEnabled() {
		t.Fatalf("unexpected derived settings: %+v", cfg)
	}

	if err := cfg.ValidateBot(); err != nil {
		t.Fatalf("unexpected bot validation error: %v", err)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	for _, key := range []string{"LEDGER_BACKEND", "SESSION_BACKEND", "EVENTS_BACKEND"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "sqlite")

			_, err := config.Load()
			if !errors.Is(err, config.ErrUnknownBackend) {
				t.Fatalf("expected ErrUnknownBackend, got %v", err)
			}
		})
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("BOT_TOKEN=from-file\nEVENTS_BACKEND=amqp\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	// Registered with t.Setenv so the values loaded from the file are restored.
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("EVENTS_BACKEND", "")
	os.Unsetenv("BOT_TOKEN")
	os.Unsetenv("EVENTS_BACKEND")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.BotToken != "from-file" || cfg.EventsBackend != config.EventsBackendAMQP {
		t.Fatalf("expected values from env file, got token=%q events=%q", cfg.BotToken, cfg.EventsBackend)
	}
}
