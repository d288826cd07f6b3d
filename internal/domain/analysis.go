package domain

import "time"

// PriceTrend is a coarse label derived from recent-vs-older average prices.
type PriceTrend string

const (
	TrendRising  PriceTrend = "rising"
	TrendFalling PriceTrend = "falling"
	TrendStable  PriceTrend = "stable"
	TrendUnknown PriceTrend = "unknown"
)

// FeeBreakdown itemizes the estimated marketplace fees for a sale.
type FeeBreakdown struct {
	Referral    float64 `json:"referral"`
	Fulfillment float64 `json:"fulfillment"`
	Closing     float64 `json:"closing"`
	Shipping    float64 `json:"shipping"`
	Total       float64 `json:"total"`
}

// OpportunityAnalysis is the immutable result of analyzing a matched pair.
// NetProfit = TargetPrice - SourcePrice - EstimatedFees, and Profitable
// holds only when NetProfit clears the configured minimum threshold.
type OpportunityAnalysis struct {
	Match         MatchCandidate `json:"match"`
	SourcePrice   float64        `json:"sourcePrice"`
	TargetPrice   float64        `json:"targetPrice"`
	EstimatedFees float64        `json:"estimatedFees"`
	Fees          FeeBreakdown   `json:"fees"`
	NetProfit     float64        `json:"netProfit"`
	ProfitMargin  float64        `json:"profitMargin"`
	Profitable    bool           `json:"profitable"`
	Trend         PriceTrend     `json:"trend"`
	AnalyzedAt    time.Time      `json:"analyzedAt"`
}
