package usecase

import (
	"log"
	"strings"
	"time"

	"github.com/arbiscout/backend/internal/domain"
)

// FeeSchedule parameterizes the marketplace fee estimate. Referral fees are
// a percentage of the selling price by category; fulfillment steps up for
// higher-priced (heavier, in practice) items; closing and shipping are flat.
type FeeSchedule struct {
	ReferralRates       map[string]float64
	DefaultReferralRate float64
	ClosingFee          float64
	FulfillmentBase     float64
	FulfillmentStep     float64
	FulfillmentFactor   float64
	ShippingCost        float64
}

// DefaultFeeSchedule mirrors typical EU marketplace rates. Callers may
// override individual fields before passing the schedule to the analyzer.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		ReferralRates: map[string]float64{
			"electronics": 0.08,
			"computers":   0.06,
			"video games": 0.15,
			"books":       0.15,
			"home":        0.15,
		},
		DefaultReferralRate: 0.08,
		ClosingFee:          1.35,
		FulfillmentBase:     3.50,
		FulfillmentStep:     100.0,
		FulfillmentFactor:   1.5,
		ShippingCost:        4.99,
	}
}

// trendWindowDelta is the relative difference between recent and older
// average prices required before the trend leaves "stable".
const trendWindowDelta = 0.05

// PriceAnalyzerConfig holds configuration for the price analyzer
type PriceAnalyzerConfig struct {
	MinProfit float64
	Fees      *FeeSchedule
	Debug     bool
}

// PriceAnalyzer turns a matched product/catalog pair plus price history
// into a scored arbitrage verdict. Sparse or missing history degrades the
// trend label but never fails the analysis.
type PriceAnalyzer struct {
	minProfit float64
	fees      FeeSchedule
	debug     bool
}

// NewPriceAnalyzer creates a price analyzer with the given configuration
func NewPriceAnalyzer(config PriceAnalyzerConfig) *PriceAnalyzer {
	minProfit := config.MinProfit
	if minProfit <= 0 {
		// A positive-but-tiny net profit should not trigger alerts
		minProfit = 5.0
	}
	fees := DefaultFeeSchedule()
	if config.Fees != nil {
		fees = *config.Fees
	}

	return &PriceAnalyzer{
		minProfit: minProfit,
		fees:      fees,
		debug:     config.Debug,
	}
}

// EstimateFees estimates total marketplace fees for selling at the given
// price in the given category. Monotonically non-decreasing in price.
func (a *PriceAnalyzer) EstimateFees(price float64, category string) (float64, domain.FeeBreakdown) {
	if price < 0 {
		price = 0
	}

	rate := a.fees.DefaultReferralRate
	if category != "" {
		if r, ok := a.fees.ReferralRates[strings.ToLower(category)]; ok {
			rate = r
		}
	}

	fulfillment := a.fees.FulfillmentBase
	if price > a.fees.FulfillmentStep {
		fulfillment *= a.fees.FulfillmentFactor
	}

	breakdown := domain.FeeBreakdown{
		Referral:    round2(price * rate),
		Fulfillment: round2(fulfillment),
		Closing:     round2(a.fees.ClosingFee),
		Shipping:    round2(a.fees.ShippingCost),
	}
	breakdown.Total = round2(breakdown.Referral + breakdown.Fulfillment + breakdown.Closing + breakdown.Shipping)
	return breakdown.Total, breakdown
}

// Analyze computes fees, margins and the profitability verdict for a
// matched pair. The only hard failure is both prices being unknown; a
// single missing price degrades to an unprofitable verdict.
func (a *PriceAnalyzer) Analyze(product domain.ScrapedProduct, entry domain.CatalogEntry, history domain.PriceHistory) (*domain.OpportunityAnalysis, error) {
	sourcePrice := product.Price
	targetPrice := entry.Price
	if sourcePrice <= 0 && targetPrice <= 0 {
		return nil, domain.ErrPricesUnavailable
	}

	estimatedFees, breakdown := a.EstimateFees(targetPrice, entry.Category)
	netProfit := round2(targetPrice - sourcePrice - estimatedFees)

	margin := 0.0
	if sourcePrice > 0 {
		margin = round2(netProfit / sourcePrice * 100)
	}

	analysis := &domain.OpportunityAnalysis{
		SourcePrice:   sourcePrice,
		TargetPrice:   targetPrice,
		EstimatedFees: estimatedFees,
		Fees:          breakdown,
		NetProfit:     netProfit,
		ProfitMargin:  margin,
		Profitable:    netProfit > a.minProfit,
		Trend:         classifyTrend(history),
		AnalyzedAt:    time.Now().UTC(),
	}

	if a.debug {
		log.Printf("[ANALYZE] %s -> %s: target=%.2f source=%.2f fees=%.2f net=%.2f profitable=%v trend=%s",
			product.ID, entry.ASIN, targetPrice, sourcePrice, estimatedFees, netProfit, analysis.Profitable, analysis.Trend)
	}
	return analysis, nil
}

// classifyTrend derives a coarse price trend from history by comparing the
// average of the older half against the recent half. Fewer than two points
// cannot show direction and yield "unknown".
func classifyTrend(history domain.PriceHistory) domain.PriceTrend {
	var valid domain.PriceHistory
	for _, p := range history {
		if p.Price > 0 {
			valid = append(valid, p)
		}
	}
	if len(valid) < 2 {
		return domain.TrendUnknown
	}

	mid := len(valid) / 2
	older := meanPrice(valid[:mid])
	recent := meanPrice(valid[mid:])
	if older <= 0 {
		return domain.TrendUnknown
	}

	delta := (recent - older) / older
	switch {
	case delta > trendWindowDelta:
		return domain.TrendRising
	case delta < -trendWindowDelta:
		return domain.TrendFalling
	default:
		return domain.TrendStable
	}
}

func meanPrice(points domain.PriceHistory) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += p.Price
	}
	return sum / float64(len(points))
}

func round2(v float64) float64 {
	if v < 0 {
		return float64(int64(v*100-0.5)) / 100
	}
	return float64(int64(v*100+0.5)) / 100
}
