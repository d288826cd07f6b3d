package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/arbiscout/backend/internal/domain"
)

// AssembleAlert packages an analysis and the match that produced it into a
// persistable alert record. Pure transformation, no I/O; the match method
// is copied from the candidate, never re-derived.
func AssembleAlert(analysis *domain.OpportunityAnalysis, match domain.MatchCandidate) domain.Alert {
	evidence := make(map[string]float64, len(match.Evidence))
	for k, v := range match.Evidence {
		evidence[k] = v
	}

	return domain.Alert{
		ID:            uuid.NewString(),
		ProductID:     match.ProductID,
		ASIN:          match.ASIN,
		SourcePrice:   analysis.SourcePrice,
		TargetPrice:   analysis.TargetPrice,
		EstimatedFees: analysis.EstimatedFees,
		NetProfit:     analysis.NetProfit,
		ProfitMargin:  analysis.ProfitMargin,
		Confidence:    match.Confidence,
		Method:        match.Method,
		Evidence:      evidence,
		Trend:         analysis.Trend,
		CreatedAt:     time.Now().UTC(),
	}
}
