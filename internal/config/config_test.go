package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Scheduler.ScrapeCron != "0 */2 * * *" {
		t.Fatalf("unexpected scrape cadence: %s", cfg.Scheduler.ScrapeCron)
	}
	if cfg.Scheduler.GenerateCron != "0 8,18 * * *" {
		t.Fatalf("unexpected generate cadence: %s", cfg.Scheduler.GenerateCron)
	}
	if cfg.Scheduler.WeeklyCron != "0 0 * * 0" {
		t.Fatalf("unexpected weekly cadence: %s", cfg.Scheduler.WeeklyCron)
	}
	if cfg.Providers.KeyCacheTTL != 5*time.Minute {
		t.Fatalf("unexpected key cache ttl: %s", cfg.Providers.KeyCacheTTL)
	}
	if len(cfg.Scraper.Categories) != 7 {
		t.Fatalf("expected 7 feed categories, got %d", len(cfg.Scraper.Categories))
	}
	if cfg.Scraper.EntriesPerFeed != 5 {
		t.Fatalf("unexpected entries per feed: %d", cfg.Scraper.EntriesPerFeed)
	}
	if len(cfg.Scraper.TrendingKeywords) == 0 {
		t.Fatal("trending keywords missing")
	}
	if cfg.Generation.MaxTokens != 3000 {
		t.Fatalf("unexpected max tokens: %d", cfg.Generation.MaxTokens)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://override:pass@db:5432/blog")
	t.Setenv("AUTOBLOG_KEY_CACHE_TTL", "90s")

	cfg := Load()

	if cfg.Database.DSN != "postgres://override:pass@db:5432/blog" {
		t.Fatalf("env override ignored: %s", cfg.Database.DSN)
	}
	if cfg.Providers.KeyCacheTTL != 90*time.Second {
		t.Fatalf("ttl override ignored: %s", cfg.Providers.KeyCacheTTL)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
scheduler:
  scrapeCron: "30 */4 * * *"
  timezone: America/New_York
scraper:
  categories:
    - name: technology
      urls:
        - https://example.com/feed
logging:
  level: debug
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AUTOBLOG_CONFIG", path)

	cfg := Load()

	if cfg.Scheduler.ScrapeCron != "30 */4 * * *" {
		t.Fatalf("file override ignored: %s", cfg.Scheduler.ScrapeCron)
	}
	if cfg.Scheduler.Location().String() != "America/New_York" {
		t.Fatalf("timezone not bound: %s", cfg.Scheduler.Location())
	}
	if len(cfg.Scraper.Categories) != 1 || cfg.Scraper.Categories[0].Name != "technology" {
		t.Fatalf("category override ignored: %v", cfg.Scraper.Categories)
	}
	// Untouched sections keep defaults.
	if cfg.Scheduler.GenerateCron != "0 8,18 * * *" {
		t.Fatalf("default lost on merge: %s", cfg.Scheduler.GenerateCron)
	}
}
