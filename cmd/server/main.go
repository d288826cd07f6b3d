package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/arbiscout/backend/config"
	httpDelivery "github.com/arbiscout/backend/internal/delivery/http"
	"github.com/arbiscout/backend/internal/domain"
	"github.com/arbiscout/backend/internal/infrastructure/alertstore"
	"github.com/arbiscout/backend/internal/infrastructure/cache"
	"github.com/arbiscout/backend/internal/infrastructure/catalog"
	"github.com/arbiscout/backend/internal/infrastructure/embedding"
	"github.com/arbiscout/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ArbiScout Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	lookupCache := cache.NewLookupCache(cfg.Matching.CacheSize)

	catalogClient := catalog.NewClient(cfg.Catalog.APIKey, cfg.Catalog.BaseURL)
	catalogClient.SetBatching(cfg.Catalog.BatchSize, cfg.Catalog.BatchPause)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		catalogClient.SetDebug(true)
		log.Printf("Catalog client debug mode enabled")
	}
	log.Printf("Catalog API configured: %s", cfg.Catalog.BaseURL)

	var embedder domain.EmbeddingClient
	if cfg.Embedding.BaseURL != "" {
		embedder = embedding.NewClient(cfg.Embedding.BaseURL, cfg.Embedding.Model)
		log.Printf("Embedding server configured: %s (model: %s)", cfg.Embedding.BaseURL, cfg.Embedding.Model)
	} else {
		log.Printf("WARNING: no embedding server configured - semantic matching disabled")
	}

	// Alert sinks are optional; default to in-memory storage
	var alerts domain.AlertRepository = alertstore.NewMemoryStore()
	if cfg.Alerts.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.Alerts.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to open Postgres connection: %v", err)
		}
		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to reach Postgres: %v", err)
		}
		alerts = alertstore.NewPostgresStore(db)
		log.Printf("Alert storage: postgres")
	} else {
		log.Printf("Alert storage: memory")
	}

	var publisher domain.AlertPublisher
	if cfg.Alerts.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.Alerts.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		publisher = alertstore.NewStreamPublisher(redis.NewClient(opts), cfg.Alerts.Stream)
		log.Printf("Alert publishing: redis stream %s", cfg.Alerts.Stream)
	}

	// Initialize usecase layer
	eanMatcher := usecase.NewEANMatcher(catalogClient, lookupCache, usecase.EANMatcherConfig{
		AcceptThreshold: cfg.Matching.EANAcceptThreshold,
		PacingDelay:     cfg.Matching.PacingDelay,
		Debug:           cfg.Matching.EnableDebugLogging,
	})
	fuzzyMatcher := usecase.NewFuzzyMatcher(catalogClient, usecase.FuzzyMatcherConfig{
		TitleThreshold:    cfg.Matching.TitleThreshold,
		BrandThreshold:    cfg.Matching.BrandThreshold,
		CombinedThreshold: cfg.Matching.CombinedThreshold,
		MaxCandidates:     cfg.Matching.MaxCandidates,
		Debug:             cfg.Matching.EnableDebugLogging,
	})
	semanticMatcher := usecase.NewSemanticMatcher(catalogClient, embedder, usecase.SemanticMatcherConfig{
		SimilarityThreshold: cfg.Matching.SemanticThreshold,
		MaxCandidates:       cfg.Matching.MaxCandidates,
		Debug:               cfg.Matching.EnableDebugLogging,
	})
	fees := feeScheduleFrom(cfg.Analysis)
	analyzer := usecase.NewPriceAnalyzer(usecase.PriceAnalyzerConfig{
		MinProfit: cfg.Analysis.MinProfit,
		Fees:      &fees,
		Debug:     cfg.Matching.EnableDebugLogging,
	})

	pipeline := usecase.NewMatchPipeline(
		eanMatcher,
		fuzzyMatcher,
		semanticMatcher,
		analyzer,
		catalogClient,
		alerts,
		publisher,
		cfg.Matching.EnableDebugLogging,
	)

	log.Printf("Matching: ean>=%.2f, fuzzy=%.0f/%.0f/%.0f, semantic>=%.2f, debug=%v",
		cfg.Matching.EANAcceptThreshold,
		cfg.Matching.TitleThreshold,
		cfg.Matching.BrandThreshold,
		cfg.Matching.CombinedThreshold,
		cfg.Matching.SemanticThreshold,
		cfg.Matching.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(pipeline)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// feeScheduleFrom builds the analyzer's fee schedule from configuration.
// Configured per-category rates overlay the built-in table.
func feeScheduleFrom(cfg config.AnalysisConfig) usecase.FeeSchedule {
	fees := usecase.DefaultFeeSchedule()
	fees.DefaultReferralRate = cfg.DefaultReferralRate
	fees.ClosingFee = cfg.ClosingFee
	fees.FulfillmentBase = cfg.FulfillmentBase
	fees.FulfillmentStep = cfg.FulfillmentStep
	fees.FulfillmentFactor = cfg.FulfillmentFactor
	fees.ShippingCost = cfg.ShippingCost
	for category, rate := range cfg.ReferralRates {
		fees.ReferralRates[strings.ToLower(category)] = rate
	}
	return fees
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
