package domain

import "time"

// Alert is the persistable record of a profitable opportunity. Lifecycle
// (open/processed/dismissed) is owned by the external alerting layer.
type Alert struct {
	ID            string             `json:"id"`
	ProductID     string             `json:"productId"`
	ASIN          string             `json:"asin"`
	SourcePrice   float64            `json:"sourcePrice"`
	TargetPrice   float64            `json:"targetPrice"`
	EstimatedFees float64            `json:"estimatedFees"`
	NetProfit     float64            `json:"netProfit"`
	ProfitMargin  float64            `json:"profitMargin"`
	Confidence    float64            `json:"confidence"`
	Method        MatchMethod        `json:"method"`
	Evidence      map[string]float64 `json:"evidence,omitempty"`
	Trend         PriceTrend         `json:"trend"`
	CreatedAt     time.Time          `json:"createdAt"`
}
