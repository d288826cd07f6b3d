package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/arbiscout/backend/internal/domain"
)

// MatchPipeline orchestrates the full detection flow: EAN matching first,
// fuzzy as fallback, semantic as last resort, then price analysis and, for
// profitable outcomes, alert assembly, persistence and publishing.
// Repository and publisher are optional collaborators; their failures are
// logged but never abort the pipeline.
type MatchPipeline struct {
	ean       *EANMatcher
	fuzzy     *FuzzyMatcher
	semantic  *SemanticMatcher
	analyzer  *PriceAnalyzer
	catalog   domain.CatalogClient
	alerts    domain.AlertRepository
	publisher domain.AlertPublisher
	debug     bool
}

// NewMatchPipeline wires the matchers, analyzer and optional alert sinks
func NewMatchPipeline(
	ean *EANMatcher,
	fuzzy *FuzzyMatcher,
	semantic *SemanticMatcher,
	analyzer *PriceAnalyzer,
	catalog domain.CatalogClient,
	alerts domain.AlertRepository,
	publisher domain.AlertPublisher,
	debug bool,
) *MatchPipeline {
	return &MatchPipeline{
		ean:       ean,
		fuzzy:     fuzzy,
		semantic:  semantic,
		analyzer:  analyzer,
		catalog:   catalog,
		alerts:    alerts,
		publisher: publisher,
		debug:     debug,
	}
}

// Match runs the matcher cascade and returns the best accepted candidate,
// or ErrNoMatch. Authentication errors propagate immediately; any other
// matcher failure falls through to the next method.
func (p *MatchPipeline) Match(ctx context.Context, product domain.ScrapedProduct) (*domain.MatchCandidate, error) {
	candidates, err := p.ean.Match(ctx, product)
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		log.Printf("[PIPELINE] EAN matching failed for %s: %v", product.ID, err)
	}
	if best := bestCandidate(candidates); best != nil {
		return best, nil
	}

	fuzzyMatch, err := p.fuzzy.Match(ctx, product)
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		log.Printf("[PIPELINE] fuzzy matching failed for %s: %v", product.ID, err)
	}
	if fuzzyMatch != nil {
		return fuzzyMatch, nil
	}

	if p.semantic != nil {
		semanticMatch, err := p.semantic.Match(ctx, product)
		if err != nil {
			if errors.Is(err, domain.ErrAuthRequired) || errors.Is(err, context.Canceled) {
				return nil, err
			}
			log.Printf("[PIPELINE] semantic matching failed for %s: %v", product.ID, err)
		}
		if semanticMatch != nil {
			return semanticMatch, nil
		}
	}

	return nil, domain.ErrNoMatch
}

// Process matches a product, analyzes its price opportunity and, when
// profitable, assembles and emits an alert. Returns ErrNoMatch when the
// cascade produced nothing and ErrPricesUnavailable when no verdict could
// be computed at all.
func (p *MatchPipeline) Process(ctx context.Context, product domain.ScrapedProduct) (*domain.OpportunityAnalysis, error) {
	match, err := p.Match(ctx, product)
	if err != nil {
		return nil, err
	}

	history, err := p.catalog.GetPriceHistory(ctx, match.ASIN)
	if err != nil {
		// The analyzer degrades gracefully on missing history
		log.Printf("[PIPELINE] price history unavailable for %s: %v", match.ASIN, err)
		history = nil
	}

	analysis, err := p.analyzer.Analyze(product, match.Entry, history)
	if err != nil {
		return nil, err
	}
	analysis.Match = *match

	if analysis.Profitable {
		p.emitAlert(ctx, analysis, *match)
	}
	return analysis, nil
}

// ProcessBatch processes products sequentially; a failed product never
// aborts its siblings. Returns one entry per input product ID, nil where
// matching or analysis produced nothing.
func (p *MatchPipeline) ProcessBatch(ctx context.Context, products []domain.ScrapedProduct) (map[string]*domain.OpportunityAnalysis, error) {
	results := make(map[string]*domain.OpportunityAnalysis, len(products))
	for _, product := range products {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		analysis, err := p.Process(ctx, product)
		if err != nil {
			if errors.Is(err, domain.ErrAuthRequired) {
				return results, err
			}
			if !errors.Is(err, domain.ErrNoMatch) {
				log.Printf("[PIPELINE] processing %s failed: %v", product.ID, err)
			}
			results[product.ID] = nil
			continue
		}
		results[product.ID] = analysis
	}
	return results, nil
}

func (p *MatchPipeline) emitAlert(ctx context.Context, analysis *domain.OpportunityAnalysis, match domain.MatchCandidate) {
	alert := AssembleAlert(analysis, match)

	if p.alerts != nil {
		if err := p.alerts.Save(ctx, &alert); err != nil {
			log.Printf("[PIPELINE] saving alert for %s failed: %v", match.ProductID, err)
		}
	}
	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, alert); err != nil {
			log.Printf("[PIPELINE] publishing alert for %s failed: %v", match.ProductID, err)
		}
	}
	if p.debug {
		log.Printf("[PIPELINE] alert %s: product %s -> %s net=%.2f (%s)",
			alert.ID, alert.ProductID, alert.ASIN, alert.NetProfit, alert.Method)
	}
}

// bestCandidate picks the highest-confidence candidate from a slice
func bestCandidate(candidates []domain.MatchCandidate) *domain.MatchCandidate {
	var best *domain.MatchCandidate
	for i := range candidates {
		if best == nil || candidates[i].Confidence > best.Confidence {
			best = &candidates[i]
		}
	}
	return best
}
