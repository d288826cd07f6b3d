package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("ARBISCOUT_SERVER_PORT")
		os.Unsetenv("ARBISCOUT_SERVER_ENVIRONMENT")
		os.Unsetenv("ARBISCOUT_CATALOG_API_KEY")
		os.Unsetenv("ARBISCOUT_CATALOG_BASE_URL")
		os.Unsetenv("ARBISCOUT_CATALOG_BATCH_SIZE")
		os.Unsetenv("ARBISCOUT_EMBEDDING_BASE_URL")
		os.Unsetenv("ARBISCOUT_MATCHING_EAN_ACCEPT_THRESHOLD")
		os.Unsetenv("ARBISCOUT_MATCHING_TITLE_THRESHOLD")
		os.Unsetenv("ARBISCOUT_MATCHING_CACHE_SIZE")
		os.Unsetenv("ARBISCOUT_MATCHING_PACING_DELAY")
		os.Unsetenv("ARBISCOUT_ANALYSIS_MIN_PROFIT")
		os.Unsetenv("ARBISCOUT_ANALYSIS_DEFAULT_REFERRAL_RATE")
		os.Unsetenv("ARBISCOUT_ALERTS_POSTGRES_DSN")
		os.Unsetenv("ARBISCOUT_ALERTS_REDIS_URL")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		// Set required API key
		os.Setenv("ARBISCOUT_CATALOG_API_KEY", "test-key")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Catalog.BatchSize != 10 {
			t.Errorf("Catalog.BatchSize = %d, want 10", cfg.Catalog.BatchSize)
		}
		if cfg.Catalog.BatchPause != 500*time.Millisecond {
			t.Errorf("Catalog.BatchPause = %v, want 500ms", cfg.Catalog.BatchPause)
		}
		if cfg.Matching.EANAcceptThreshold != 0.95 {
			t.Errorf("Matching.EANAcceptThreshold = %v, want 0.95", cfg.Matching.EANAcceptThreshold)
		}
		if cfg.Matching.TitleThreshold != 85.0 {
			t.Errorf("Matching.TitleThreshold = %v, want 85", cfg.Matching.TitleThreshold)
		}
		if cfg.Matching.BrandThreshold != 90.0 {
			t.Errorf("Matching.BrandThreshold = %v, want 90", cfg.Matching.BrandThreshold)
		}
		if cfg.Matching.SemanticThreshold != 0.70 {
			t.Errorf("Matching.SemanticThreshold = %v, want 0.70", cfg.Matching.SemanticThreshold)
		}
		if cfg.Matching.CacheSize != 1000 {
			t.Errorf("Matching.CacheSize = %d, want 1000", cfg.Matching.CacheSize)
		}
		if cfg.Matching.PacingDelay != 500*time.Millisecond {
			t.Errorf("Matching.PacingDelay = %v, want 500ms", cfg.Matching.PacingDelay)
		}
		if cfg.Analysis.MinProfit != 5.0 {
			t.Errorf("Analysis.MinProfit = %v, want 5.0", cfg.Analysis.MinProfit)
		}
		if cfg.Analysis.ClosingFee != 1.35 {
			t.Errorf("Analysis.ClosingFee = %v, want 1.35", cfg.Analysis.ClosingFee)
		}
		if cfg.Alerts.Stream != "alerts.detected" {
			t.Errorf("Alerts.Stream = %s, want alerts.detected", cfg.Alerts.Stream)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ARBISCOUT_SERVER_PORT", "9090")
		os.Setenv("ARBISCOUT_SERVER_ENVIRONMENT", "production")
		os.Setenv("ARBISCOUT_CATALOG_API_KEY", "custom-api-key")
		os.Setenv("ARBISCOUT_CATALOG_BASE_URL", "https://custom.catalog.com")
		os.Setenv("ARBISCOUT_MATCHING_TITLE_THRESHOLD", "80")
		os.Setenv("ARBISCOUT_MATCHING_PACING_DELAY", "250ms")
		os.Setenv("ARBISCOUT_ANALYSIS_MIN_PROFIT", "10.0")
		os.Setenv("ARBISCOUT_ALERTS_REDIS_URL", "redis://localhost:6379")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Catalog.APIKey != "custom-api-key" {
			t.Errorf("Catalog.APIKey = %s, want custom-api-key", cfg.Catalog.APIKey)
		}
		if cfg.Catalog.BaseURL != "https://custom.catalog.com" {
			t.Errorf("Catalog.BaseURL = %s, want https://custom.catalog.com", cfg.Catalog.BaseURL)
		}
		if cfg.Matching.TitleThreshold != 80.0 {
			t.Errorf("Matching.TitleThreshold = %v, want 80", cfg.Matching.TitleThreshold)
		}
		if cfg.Matching.PacingDelay != 250*time.Millisecond {
			t.Errorf("Matching.PacingDelay = %v, want 250ms", cfg.Matching.PacingDelay)
		}
		if cfg.Analysis.MinProfit != 10.0 {
			t.Errorf("Analysis.MinProfit = %v, want 10.0", cfg.Analysis.MinProfit)
		}
		if cfg.Alerts.RedisURL != "redis://localhost:6379" {
			t.Errorf("Alerts.RedisURL = %s, want redis://localhost:6379", cfg.Alerts.RedisURL)
		}
	})

	t.Run("fails validation when API key is missing", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing API key")
		}
	})

	t.Run("fails validation for out-of-range EAN threshold", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ARBISCOUT_CATALOG_API_KEY", "test-key")
		os.Setenv("ARBISCOUT_MATCHING_EAN_ACCEPT_THRESHOLD", "1.5")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for threshold above 1")
		}
	})

	t.Run("fails validation for out-of-range fuzzy threshold", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ARBISCOUT_CATALOG_API_KEY", "test-key")
		os.Setenv("ARBISCOUT_MATCHING_TITLE_THRESHOLD", "150")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for percentage above 100")
		}
	})

	t.Run("fails validation for referral rate above 1", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ARBISCOUT_CATALOG_API_KEY", "test-key")
		os.Setenv("ARBISCOUT_ANALYSIS_DEFAULT_REFERRAL_RATE", "8")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for rate above 1")
		}
	})

	t.Run("fails validation for non-positive cache size", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ARBISCOUT_CATALOG_API_KEY", "test-key")
		os.Setenv("ARBISCOUT_MATCHING_CACHE_SIZE", "0")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero cache size")
		}
	})
}
