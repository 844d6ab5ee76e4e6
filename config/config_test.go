package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MARKET_BASE_URL", "")
	t.Setenv("PAGES_TO_SCRAPE", "")
	t.Setenv("PAUSE_SECONDS", "")
	t.Setenv("MAX_IMAGE_PIXELS", "")

	cfg := Load()
	if cfg.MarketBaseURL != "https://www.vinted.fr" {
		t.Errorf("MarketBaseURL: got %q", cfg.MarketBaseURL)
	}
	if cfg.PagesToScrape != 2 {
		t.Errorf("PagesToScrape: got %d, want 2", cfg.PagesToScrape)
	}
	if cfg.Pause() != time.Second {
		t.Errorf("Pause: got %v, want 1s", cfg.Pause())
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout: got %v, want 10s", cfg.FetchTimeout)
	}
	if cfg.MaxImagePixels != 40_000_000 {
		t.Errorf("MaxImagePixels: got %d, want 40000000", cfg.MaxImagePixels)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PAGES_TO_SCRAPE", "4")
	t.Setenv("PAUSE_SECONDS", "0.5")
	t.Setenv("DEDUPE_LINKS", "true")
	t.Setenv("CACHE_SIZE", "not-a-number")

	cfg := Load()
	if cfg.PagesToScrape != 4 {
		t.Errorf("PagesToScrape: got %d, want 4", cfg.PagesToScrape)
	}
	if cfg.Pause() != 500*time.Millisecond {
		t.Errorf("Pause: got %v, want 500ms", cfg.Pause())
	}
	if !cfg.DedupeLinks {
		t.Error("DedupeLinks: got false, want true")
	}
	if cfg.CacheSize != 128 {
		t.Errorf("CacheSize: got %d, want fallback 128", cfg.CacheSize)
	}
}

func TestPauseNegativeClamped(t *testing.T) {
	cfg := &Config{PauseSeconds: -2}
	if cfg.Pause() != 0 {
		t.Errorf("Pause: got %v, want 0", cfg.Pause())
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5432", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "d", PostgresSSLMode: "disable",
	}
	want := "host=db port=5432 user=u password=p dbname=d sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}
