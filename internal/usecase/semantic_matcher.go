package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/arbiscout/backend/internal/domain"
)

// Confidence blend weights for semantic matches. Cosine similarity carries
// most of the signal; brand, category and lexical overlap refine it.
const (
	semanticSimilarityWeight = 0.6
	semanticBrandExactBonus  = 0.15
	semanticBrandPartBonus   = 0.10
	semanticCategoryBonus    = 0.10
	semanticCategoryPartial  = 0.05
	semanticOverlapWeight    = 0.15
	semanticMaxConfidence    = 0.99
)

// SemanticMatcherConfig holds configuration for the semantic matcher
type SemanticMatcherConfig struct {
	SimilarityThreshold float64
	MaxCandidates       int
	Debug               bool
}

// SemanticMatcher is the last-resort matcher: it compares embedding-space
// similarity between the product and keyword-search candidates. Embedding
// computation is delegated to an external model server; this matcher only
// retrieves candidates, scores similarity and gates on the threshold.
type SemanticMatcher struct {
	catalog             domain.CatalogClient
	embedder            domain.EmbeddingClient
	similarityThreshold float64
	maxCandidates       int
	debug               bool
}

// NewSemanticMatcher creates a semantic matcher with the given collaborators
func NewSemanticMatcher(catalog domain.CatalogClient, embedder domain.EmbeddingClient, config SemanticMatcherConfig) *SemanticMatcher {
	threshold := config.SimilarityThreshold
	if threshold <= 0 {
		threshold = 0.70
	}
	maxCandidates := config.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 50
	}

	return &SemanticMatcher{
		catalog:             catalog,
		embedder:            embedder,
		similarityThreshold: threshold,
		maxCandidates:       maxCandidates,
		debug:               config.Debug,
	}
}

// Match returns the most similar candidate at or above the similarity
// threshold, or nil when none qualifies. A product without a title cannot
// be embedded meaningfully and yields nil.
func (m *SemanticMatcher) Match(ctx context.Context, product domain.ScrapedProduct) (*domain.MatchCandidate, error) {
	if m.embedder == nil {
		// No embedding server configured; semantic matching is disabled
		return nil, nil
	}
	if strings.TrimSpace(product.Title) == "" {
		return nil, nil
	}

	productText := compositeText(product.Title, product.Brand, product.Category)
	productVec, err := m.embedder.Embed(ctx, productText)
	if err != nil {
		return nil, fmt.Errorf("embedding product %s: %w", product.ID, err)
	}

	candidates, err := m.catalog.SearchByKeywords(ctx, semanticQuery(product), m.maxCandidates)
	if err != nil {
		return nil, err
	}

	var best *domain.MatchCandidate
	bestSimilarity := 0.0

	for _, entry := range candidates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		entryVec, err := m.embedder.Embed(ctx, compositeText(entry.Title, entry.Brand, entry.Category))
		if err != nil {
			// One bad candidate must not sink the rest
			log.Printf("[SEMANTIC] embedding %s failed: %v", entry.ASIN, err)
			continue
		}

		similarity := cosineSimilarity(productVec, entryVec)
		if m.debug {
			log.Printf("[SEMANTIC] %s similarity=%.3f", entry.ASIN, similarity)
		}
		if similarity < m.similarityThreshold || similarity <= bestSimilarity {
			continue
		}

		bestSimilarity = similarity
		best = &domain.MatchCandidate{
			ProductID:  product.ID,
			ASIN:       entry.ASIN,
			Method:     domain.MatchMethodSemantic,
			Confidence: m.confidence(product, entry, similarity),
			Evidence: map[string]float64{
				"semantic_similarity": similarity,
				"title_overlap":       jaccardSimilarity(product.Title, entry.Title),
			},
			Entry: entry,
		}
	}

	if best != nil && m.debug {
		log.Printf("[SEMANTIC] matched product %s to %s (similarity %.3f)", product.ID, best.ASIN, bestSimilarity)
	}
	return best, nil
}

// confidence blends cosine similarity with brand, category and lexical
// overlap signals, capped below certainty since semantic evidence alone can
// never prove two listings are the same physical product.
func (m *SemanticMatcher) confidence(product domain.ScrapedProduct, entry domain.CatalogEntry, similarity float64) float64 {
	confidence := similarity * semanticSimilarityWeight

	if product.Brand != "" && entry.Brand != "" {
		pb := strings.ToLower(product.Brand)
		eb := strings.ToLower(entry.Brand)
		switch {
		case pb == eb:
			confidence += semanticBrandExactBonus
		case strings.Contains(pb, eb) || strings.Contains(eb, pb):
			confidence += semanticBrandPartBonus
		}
	}

	if product.Category != "" && entry.Category != "" {
		pc := strings.ToLower(product.Category)
		ec := strings.ToLower(entry.Category)
		switch {
		case pc == ec:
			confidence += semanticCategoryBonus
		case strings.Contains(pc, ec) || strings.Contains(ec, pc):
			confidence += semanticCategoryPartial
		}
	}

	confidence += jaccardSimilarity(product.Title, entry.Title) * semanticOverlapWeight

	if confidence > semanticMaxConfidence {
		confidence = semanticMaxConfidence
	}
	return clamp01(confidence)
}

// compositeText builds the text fed to the embedding model
func compositeText(title, brand, category string) string {
	parts := []string{strings.TrimSpace(title)}
	if brand != "" {
		parts = append(parts, "Brand: "+brand)
	}
	if category != "" {
		parts = append(parts, "Category: "+category)
	}
	return strings.Join(parts, " ")
}

// semanticQuery seeds candidate retrieval with the brand plus the first few
// meaningful title words.
func semanticQuery(product domain.ScrapedProduct) string {
	var terms []string
	if product.Brand != "" {
		terms = append(terms, product.Brand)
	}
	for _, word := range strings.Fields(strings.ToLower(product.Title)) {
		if len(word) > 3 && !stopWords[word] {
			terms = append(terms, word)
		}
		if len(terms) >= 4 {
			break
		}
	}
	return strings.Join(terms, " ")
}

// cosineSimilarity computes cosine similarity between two vectors; zero for
// mismatched or zero-length input.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
