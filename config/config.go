package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Embedding EmbeddingConfig
	Matching  MatchingConfig
	Analysis  AnalysisConfig
	Alerts    AlertsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds marketplace catalog provider configuration
type CatalogConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	BatchSize  int           `mapstructure:"batch_size"`
	BatchPause time.Duration `mapstructure:"batch_pause"`
}

// EmbeddingConfig holds the external embedding model server configuration
type EmbeddingConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// MatchingConfig holds matcher thresholds. Fuzzy thresholds are
// percentages in [0,100]; the EAN and semantic thresholds are in [0,1].
type MatchingConfig struct {
	EANAcceptThreshold float64       `mapstructure:"ean_accept_threshold"`
	CacheSize          int           `mapstructure:"cache_size"`
	PacingDelay        time.Duration `mapstructure:"pacing_delay"`
	TitleThreshold     float64       `mapstructure:"title_threshold"`
	BrandThreshold     float64       `mapstructure:"brand_threshold"`
	CombinedThreshold  float64       `mapstructure:"combined_threshold"`
	SemanticThreshold  float64       `mapstructure:"semantic_threshold"`
	MaxCandidates      int           `mapstructure:"max_candidates"`
	EnableDebugLogging bool          `mapstructure:"debug"`
}

// AnalysisConfig holds price analysis and fee schedule parameters.
// ReferralRates entries overlay the built-in per-category rates and can
// only be set from the config file, not from the environment.
type AnalysisConfig struct {
	MinProfit           float64            `mapstructure:"min_profit"`
	DefaultReferralRate float64            `mapstructure:"default_referral_rate"`
	ReferralRates       map[string]float64 `mapstructure:"referral_rates"`
	ClosingFee          float64            `mapstructure:"closing_fee"`
	FulfillmentBase     float64            `mapstructure:"fulfillment_base"`
	FulfillmentStep     float64            `mapstructure:"fulfillment_step"`
	FulfillmentFactor   float64            `mapstructure:"fulfillment_factor"`
	ShippingCost        float64            `mapstructure:"shipping_cost"`
}

// AlertsConfig holds alert persistence and publishing configuration.
// Both sinks are optional; leaving them empty keeps alerts in memory.
type AlertsConfig struct {
	PostgresDSN string `mapstructure:"postgres_dsn"`
	RedisURL    string `mapstructure:"redis_url"`
	Stream      string `mapstructure:"stream"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/arbiscout/")

	v.SetEnvPrefix("ARBISCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional - env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://catalog.arbiscout.io")
	v.SetDefault("catalog.batch_size", 10)
	v.SetDefault("catalog.batch_pause", "500ms")

	// Embedding defaults
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("embedding.model", "paraphrase-multilingual-MiniLM-L12-v2")

	// Matching defaults
	v.SetDefault("matching.ean_accept_threshold", 0.95)
	v.SetDefault("matching.cache_size", 1000)
	v.SetDefault("matching.pacing_delay", "500ms")
	v.SetDefault("matching.title_threshold", 85.0)
	v.SetDefault("matching.brand_threshold", 90.0)
	v.SetDefault("matching.combined_threshold", 85.0)
	v.SetDefault("matching.semantic_threshold", 0.70)
	v.SetDefault("matching.max_candidates", 50)
	v.SetDefault("matching.debug", false)

	// Analysis defaults
	v.SetDefault("analysis.min_profit", 5.0)
	v.SetDefault("analysis.default_referral_rate", 0.08)
	v.SetDefault("analysis.closing_fee", 1.35)
	v.SetDefault("analysis.fulfillment_base", 3.50)
	v.SetDefault("analysis.fulfillment_step", 100.0)
	v.SetDefault("analysis.fulfillment_factor", 1.5)
	v.SetDefault("analysis.shipping_cost", 4.99)

	// Alerts defaults
	v.SetDefault("alerts.stream", "alerts.detected")
}

// validate validates the configuration. Missing credentials and unusable
// thresholds are the only fatal startup errors.
func validate(config *Config) error {
	if config.Catalog.APIKey == "" {
		return fmt.Errorf("catalog API key is required (set ARBISCOUT_CATALOG_API_KEY)")
	}

	if t := config.Matching.EANAcceptThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("matching.ean_accept_threshold must be in (0,1], got: %v", t)
	}
	if t := config.Matching.SemanticThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("matching.semantic_threshold must be in (0,1], got: %v", t)
	}
	for name, t := range map[string]float64{
		"matching.title_threshold":    config.Matching.TitleThreshold,
		"matching.brand_threshold":    config.Matching.BrandThreshold,
		"matching.combined_threshold": config.Matching.CombinedThreshold,
	} {
		if t <= 0 || t > 100 {
			return fmt.Errorf("%s must be a percentage in (0,100], got: %v", name, t)
		}
	}

	if config.Matching.CacheSize <= 0 {
		return fmt.Errorf("matching.cache_size must be positive, got: %d", config.Matching.CacheSize)
	}
	if config.Analysis.MinProfit < 0 {
		return fmt.Errorf("analysis.min_profit must not be negative, got: %v", config.Analysis.MinProfit)
	}
	if r := config.Analysis.DefaultReferralRate; r < 0 || r > 1 {
		return fmt.Errorf("analysis.default_referral_rate must be a fraction in [0,1], got: %v", r)
	}

	return nil
}
