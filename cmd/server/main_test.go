package main

import (
	"os"
	"testing"

	"github.com/arbiscout/backend/config"
	"github.com/arbiscout/backend/internal/usecase"
)

func TestFeeScheduleFrom(t *testing.T) {
	cleanupEnv := func() {
		os.Unsetenv("ARBISCOUT_CATALOG_API_KEY")
		os.Unsetenv("ARBISCOUT_ANALYSIS_CLOSING_FEE")
		os.Unsetenv("ARBISCOUT_ANALYSIS_SHIPPING_COST")
	}

	t.Run("configured fees reach the analyzer", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ARBISCOUT_CATALOG_API_KEY", "test-key")
		os.Setenv("ARBISCOUT_ANALYSIS_CLOSING_FEE", "99")
		os.Setenv("ARBISCOUT_ANALYSIS_SHIPPING_COST", "0")
		defer cleanupEnv()

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("config.Load() error = %v, want nil", err)
		}

		fees := feeScheduleFrom(cfg.Analysis)
		analyzer := usecase.NewPriceAnalyzer(usecase.PriceAnalyzerConfig{
			MinProfit: cfg.Analysis.MinProfit,
			Fees:      &fees,
		})

		// 50 * 0.08 referral + 3.50 fulfillment + 99 closing + 0 shipping
		total, breakdown := analyzer.EstimateFees(50, "electronics")
		if breakdown.Closing != 99 {
			t.Errorf("Closing = %v, want 99", breakdown.Closing)
		}
		if breakdown.Shipping != 0 {
			t.Errorf("Shipping = %v, want 0", breakdown.Shipping)
		}
		if total != 106.50 {
			t.Errorf("total fees = %v, want 106.50", total)
		}
	})

	t.Run("defaults survive the round trip", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ARBISCOUT_CATALOG_API_KEY", "test-key")
		defer cleanupEnv()

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("config.Load() error = %v, want nil", err)
		}

		if got, want := feeScheduleFrom(cfg.Analysis), usecase.DefaultFeeSchedule(); got.ClosingFee != want.ClosingFee ||
			got.FulfillmentBase != want.FulfillmentBase ||
			got.FulfillmentStep != want.FulfillmentStep ||
			got.FulfillmentFactor != want.FulfillmentFactor ||
			got.ShippingCost != want.ShippingCost ||
			got.DefaultReferralRate != want.DefaultReferralRate {
			t.Errorf("feeScheduleFrom(defaults) = %+v, want %+v", got, want)
		}
	})

	t.Run("per-category rates overlay the built-in table", func(t *testing.T) {
		fees := feeScheduleFrom(config.AnalysisConfig{
			DefaultReferralRate: 0.08,
			ReferralRates:       map[string]float64{"Toys": 0.12},
		})

		if fees.ReferralRates["toys"] != 0.12 {
			t.Errorf("ReferralRates[toys] = %v, want 0.12", fees.ReferralRates["toys"])
		}
		// Built-in categories stay intact
		if fees.ReferralRates["electronics"] != 0.08 {
			t.Errorf("ReferralRates[electronics] = %v, want 0.08", fees.ReferralRates["electronics"])
		}
	})
}
