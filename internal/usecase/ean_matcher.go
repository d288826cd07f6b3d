package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/arbiscout/backend/internal/domain"
)

// Confidence scoring for exact-EAN matches. An exact code match starts at
// a high base and is nudged by secondary signals, then clamped to [0,1].
const (
	eanBaseConfidence    = 0.95
	brandMatchBonus      = 0.05
	brandMismatchPenalty = -0.10
	titleSimilarBonus    = 0.02
	titleDissimilarCut   = -0.05
	categoryMatchBonus   = 0.02

	titleSimilarFloor   = 0.8
	titleDissimilarCeil = 0.4
)

// EANMatcherConfig holds configuration for the EAN matcher
type EANMatcherConfig struct {
	AcceptThreshold float64
	PacingDelay     time.Duration
	Debug           bool
}

// EANMatcher links scraped products to catalog entries by exact barcode
// match. Lookups go through a bounded FIFO cache so repeated EANs within a
// scrape run cost one catalog call.
type EANMatcher struct {
	catalog         domain.CatalogClient
	cache           domain.LookupCache
	acceptThreshold float64
	pacingDelay     time.Duration
	debug           bool
}

// NewEANMatcher creates an EAN matcher with the given collaborators
func NewEANMatcher(catalog domain.CatalogClient, cache domain.LookupCache, config EANMatcherConfig) *EANMatcher {
	threshold := config.AcceptThreshold
	if threshold <= 0 {
		threshold = eanBaseConfidence
	}
	pacing := config.PacingDelay
	if pacing <= 0 {
		pacing = 500 * time.Millisecond
	}

	return &EANMatcher{
		catalog:         catalog,
		cache:           cache,
		acceptThreshold: threshold,
		pacingDelay:     pacing,
		debug:           config.Debug,
	}
}

// Match returns the accepted candidates for a single product. A missing or
// malformed EAN is common input, not an error: it yields an empty slice.
// Catalog failures are returned to the caller so batch drivers can decide
// whether to retry or fall through to another matcher.
func (m *EANMatcher) Match(ctx context.Context, product domain.ScrapedProduct) ([]domain.MatchCandidate, error) {
	if product.EAN == "" {
		return nil, nil
	}

	canonical, ok := NormalizeEAN(product.EAN)
	if !ok {
		log.Printf("[EAN] invalid EAN %q on product %s, skipping", product.EAN, product.ID)
		return nil, nil
	}

	entries, err := m.lookup(ctx, canonical)
	if err != nil {
		return nil, err
	}

	return m.scoreEntries(product, canonical, entries), nil
}

// MatchBatch matches many products, issuing one catalog lookup per unique
// canonical EAN with a pacing delay between lookups. Every input product
// gets exactly one (possibly empty) result keyed by product ID. A failed
// lookup only loses the products sharing that EAN; authentication errors
// abort the batch since retrying them is pointless.
func (m *EANMatcher) MatchBatch(ctx context.Context, products []domain.ScrapedProduct) (map[string][]domain.MatchCandidate, error) {
	results := make(map[string][]domain.MatchCandidate, len(products))
	for _, p := range products {
		results[p.ID] = nil
	}

	// Group by canonical EAN, preserving first-seen order for determinism
	grouped := make(map[string][]domain.ScrapedProduct)
	var order []string
	for _, p := range products {
		if p.EAN == "" {
			continue
		}
		canonical, ok := NormalizeEAN(p.EAN)
		if !ok {
			log.Printf("[EAN] invalid EAN %q on product %s, skipping", p.EAN, p.ID)
			continue
		}
		if _, seen := grouped[canonical]; !seen {
			order = append(order, canonical)
		}
		grouped[canonical] = append(grouped[canonical], p)
	}

	if m.debug {
		log.Printf("[EAN] batch of %d products collapsed to %d unique EANs", len(products), len(order))
	}

	for i, canonical := range order {
		if i > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(m.pacingDelay):
			}
		}

		entries, err := m.lookup(ctx, canonical)
		if err != nil {
			if isFatalLookupErr(err) {
				return results, err
			}
			log.Printf("[EAN] lookup failed for %s: %v", canonical, err)
			continue
		}

		for _, p := range grouped[canonical] {
			results[p.ID] = m.scoreEntries(p, canonical, entries)
		}
	}

	return results, nil
}

// lookup resolves a canonical EAN to exact-match catalog entries, consulting
// the cache first. The cache stores the raw (pre-threshold) exact matches
// and is only written after a completed lookup.
func (m *EANMatcher) lookup(ctx context.Context, canonical string) ([]domain.CatalogEntry, error) {
	if entries, ok := m.cache.Get(canonical); ok {
		if m.debug {
			log.Printf("[EAN] cache hit for %s", canonical)
		}
		return entries, nil
	}

	found, err := m.catalog.SearchByCode(ctx, canonical)
	if err != nil {
		return nil, err
	}

	// The provider may return keyword-style near matches; keep only entries
	// whose own code set, once normalized, contains this exact EAN.
	var exact []domain.CatalogEntry
	for _, entry := range found {
		for _, code := range entry.EANs {
			if norm, ok := NormalizeEAN(code); ok && norm == canonical {
				exact = append(exact, entry)
				break
			}
		}
	}

	m.cache.Put(canonical, exact)

	if m.debug {
		log.Printf("[EAN] %d of %d results are exact matches for %s", len(exact), len(found), canonical)
	}
	return exact, nil
}

// scoreEntries builds accepted candidates from exact-EAN entries.
func (m *EANMatcher) scoreEntries(product domain.ScrapedProduct, canonical string, entries []domain.CatalogEntry) []domain.MatchCandidate {
	var candidates []domain.MatchCandidate
	for _, entry := range entries {
		if entry.ASIN == "" {
			continue
		}
		confidence, evidence := m.scoreEntry(product, entry)
		if confidence < m.acceptThreshold {
			continue
		}
		candidates = append(candidates, domain.MatchCandidate{
			ProductID:  product.ID,
			ASIN:       entry.ASIN,
			Method:     domain.MatchMethodEAN,
			Confidence: confidence,
			Evidence:   evidence,
			Entry:      entry,
		})
	}
	return candidates
}

// scoreEntry computes the confidence for one exact-EAN catalog entry and
// records each signal's contribution as evidence.
func (m *EANMatcher) scoreEntry(product domain.ScrapedProduct, entry domain.CatalogEntry) (float64, map[string]float64) {
	confidence := eanBaseConfidence
	evidence := map[string]float64{"base": eanBaseConfidence}

	if product.Brand != "" && entry.Brand != "" {
		adjustment := brandMismatchPenalty
		if strings.EqualFold(normalizeText(product.Brand), normalizeText(entry.Brand)) {
			adjustment = brandMatchBonus
		}
		confidence += adjustment
		evidence["brand"] = adjustment
	}

	titleSim := jaccardSimilarity(product.Title, entry.Title)
	evidence["title_similarity"] = titleSim
	if titleSim >= titleSimilarFloor {
		confidence += titleSimilarBonus
		evidence["title"] = titleSimilarBonus
	} else if titleSim < titleDissimilarCeil {
		confidence += titleDissimilarCut
		evidence["title"] = titleDissimilarCut
	}

	if product.Category != "" && entry.Category != "" {
		productCat := strings.ToLower(product.Category)
		entryCat := strings.ToLower(entry.Category)
		for _, word := range strings.Fields(entryCat) {
			if strings.Contains(productCat, word) {
				confidence += categoryMatchBonus
				evidence["category"] = categoryMatchBonus
				break
			}
		}
	}

	return clamp01(confidence), evidence
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// isFatalLookupErr reports whether a lookup error should abort a batch
func isFatalLookupErr(err error) bool {
	return err != nil && errors.Is(err, domain.ErrAuthRequired)
}
