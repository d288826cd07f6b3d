package usecase

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/arbiscout/backend/internal/domain"
)

// Model number and capacity patterns found in electronics titles. Matching
// model numbers is a far stronger signal than general title similarity.
var (
	modelNumberRegexes = []*regexp.Regexp{
		regexp.MustCompile(`\b([A-Z]{1,3}\d{3,6}[A-Z]*)\b`), // RTX3080, MX570
		regexp.MustCompile(`\b(\d{3,4}[A-Z]{1,3})\b`),       // 3080TI
		regexp.MustCompile(`\b([A-Z]+\s?\d+[A-Z]*)\b`),      // RX 6700XT
	}
	capacityRegex = regexp.MustCompile(`(?i)\b(\d+)\s?(GB|TB|MB|W|"|inch)\b`)
)

// brandAliases maps canonical brand names to spellings catalogs use for them
var brandAliases = map[string][]string{
	"hp":      {"hewlett packard", "hewlett-packard"},
	"asus":    {"asustek"},
	"msi":     {"micro-star"},
	"lg":      {"lg electronics"},
	"samsung": {"samsung electronics"},
}

// Scoring bonuses applied on top of the base title ratio
const (
	modelExactBonus    = 20.0
	modelCloseBonus    = 10.0
	capacityBonus      = 10.0
	brandAliasScore    = 95.0
	fuzzyMaxConfidence = 0.99
)

// FuzzyMatcherConfig holds configuration for the fuzzy matcher. Thresholds
// and scores are percentages in [0,100].
type FuzzyMatcherConfig struct {
	TitleThreshold    float64
	BrandThreshold    float64
	CombinedThreshold float64
	TitleWeight       float64
	BrandWeight       float64
	MaxCandidates     int
	Debug             bool
}

// FuzzyMatcher matches products against keyword-search candidates using
// edit-distance title and brand similarity. Used when no exact EAN match
// was accepted.
type FuzzyMatcher struct {
	catalog           domain.CatalogClient
	titleThreshold    float64
	brandThreshold    float64
	combinedThreshold float64
	titleWeight       float64
	brandWeight       float64
	maxCandidates     int
	debug             bool
}

// NewFuzzyMatcher creates a fuzzy matcher with the given configuration
func NewFuzzyMatcher(catalog domain.CatalogClient, config FuzzyMatcherConfig) *FuzzyMatcher {
	m := &FuzzyMatcher{
		catalog:           catalog,
		titleThreshold:    config.TitleThreshold,
		brandThreshold:    config.BrandThreshold,
		combinedThreshold: config.CombinedThreshold,
		titleWeight:       config.TitleWeight,
		brandWeight:       config.BrandWeight,
		maxCandidates:     config.MaxCandidates,
		debug:             config.Debug,
	}
	if m.titleThreshold <= 0 {
		m.titleThreshold = 85.0
	}
	if m.brandThreshold <= 0 {
		m.brandThreshold = 90.0
	}
	if m.combinedThreshold <= 0 {
		m.combinedThreshold = 85.0
	}
	if m.titleWeight <= 0 {
		m.titleWeight = 0.7
	}
	if m.brandWeight <= 0 {
		m.brandWeight = 0.3
	}
	if m.maxCandidates <= 0 {
		m.maxCandidates = 50
	}
	return m
}

// Match returns the best candidate clearing all thresholds, or nil when
// nothing does. A product with neither title nor brand cannot be matched
// and yields nil without a catalog call.
func (m *FuzzyMatcher) Match(ctx context.Context, product domain.ScrapedProduct) (*domain.MatchCandidate, error) {
	if product.Title == "" && product.Brand == "" {
		return nil, nil
	}

	query := buildKeywordQuery(product)
	candidates, err := m.catalog.SearchByKeywords(ctx, query, m.maxCandidates)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		if m.debug {
			log.Printf("[FUZZY] no candidates for query %q", query)
		}
		return nil, nil
	}

	var best *domain.MatchCandidate
	bestScore := 0.0

	for _, entry := range candidates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		titleScore := m.titleScore(product.Title, entry.Title)
		brandScore := m.brandScore(product.Brand, entry.Brand)
		combined := titleScore*m.titleWeight + brandScore*m.brandWeight
		if product.Brand == "" || entry.Brand == "" {
			// With no brand to compare, the title carries the whole score
			combined = titleScore
		}

		if m.debug {
			log.Printf("[FUZZY] %s title=%.1f brand=%.1f combined=%.1f", entry.ASIN, titleScore, brandScore, combined)
		}

		if titleScore < m.titleThreshold || combined < m.combinedThreshold {
			continue
		}
		// Brand is a secondary signal with veto power: when both sides name
		// a brand and they clearly disagree, the candidate is rejected even
		// if the titles line up.
		if product.Brand != "" && entry.Brand != "" && brandScore < m.brandThreshold {
			continue
		}

		if combined > bestScore {
			bestScore = combined
			confidence := combined / 100.0
			if confidence > fuzzyMaxConfidence {
				confidence = fuzzyMaxConfidence
			}
			best = &domain.MatchCandidate{
				ProductID:  product.ID,
				ASIN:       entry.ASIN,
				Method:     domain.MatchMethodFuzzy,
				Confidence: clamp01(confidence),
				Evidence: map[string]float64{
					"title_score":    titleScore,
					"brand_score":    brandScore,
					"combined_score": combined,
				},
				Entry: entry,
			}
		}
	}

	if best != nil && m.debug {
		log.Printf("[FUZZY] matched product %s to %s (confidence %.2f)", product.ID, best.ASIN, best.Confidence)
	}
	return best, nil
}

// titleScore computes percentage title similarity: the best of token-sort,
// token-set and partial ratios over normalized text, plus model number and
// capacity bonuses, capped at 100. Empty input scores 0.
func (m *FuzzyMatcher) titleScore(productTitle, entryTitle string) float64 {
	normProduct := normalizeText(productTitle)
	normEntry := normalizeText(entryTitle)
	if normProduct == "" || normEntry == "" {
		return 0
	}

	score := tokenSortRatio(normProduct, normEntry)
	if r := tokenSetRatio(normProduct, normEntry); r > score {
		score = r
	}
	if r := partialRatio(normProduct, normEntry); r > score {
		score = r
	}

	productModel := extractModelNumber(productTitle)
	entryModel := extractModelNumber(entryTitle)
	if productModel != "" && entryModel != "" {
		if productModel == entryModel {
			score += modelExactBonus
		} else if ratio(productModel, entryModel) > 80 {
			score += modelCloseBonus
		}
	}

	productCap := extractCapacity(productTitle)
	entryCap := extractCapacity(entryTitle)
	if productCap != "" && productCap == entryCap {
		score += capacityBonus
	}

	if score > 100 {
		score = 100
	}
	return score
}

// brandScore computes percentage brand similarity. Exact normalized match
// scores 100, a known alias pair scores 95, otherwise the edit-distance
// ratio. Missing input on either side scores 0.
func (m *FuzzyMatcher) brandScore(productBrand, entryBrand string) float64 {
	if productBrand == "" || entryBrand == "" {
		return 0
	}
	normProduct := normalizeText(productBrand)
	normEntry := normalizeText(entryBrand)
	if normProduct == normEntry {
		return 100
	}
	for brand, aliases := range brandAliases {
		for _, alias := range aliases {
			if (normProduct == brand && normEntry == alias) || (normEntry == brand && normProduct == alias) {
				return brandAliasScore
			}
		}
	}
	return ratio(normProduct, normEntry)
}

// extractModelNumber pulls the first model-number-looking token from a title
func extractModelNumber(title string) string {
	upper := strings.ToUpper(title)
	for _, re := range modelNumberRegexes {
		if match := re.FindString(upper); match != "" {
			return strings.ReplaceAll(match, " ", "")
		}
	}
	return ""
}

// extractCapacity pulls the first capacity/size token ("256GB", "27inch")
func extractCapacity(title string) string {
	groups := capacityRegex.FindStringSubmatch(title)
	if len(groups) == 3 {
		return groups[1] + strings.ToUpper(groups[2])
	}
	return ""
}

// buildKeywordQuery seeds the catalog keyword search from brand and title,
// avoiding a duplicated brand prefix.
func buildKeywordQuery(product domain.ScrapedProduct) string {
	title := strings.TrimSpace(product.Title)
	if product.Brand == "" {
		return title
	}
	if strings.Contains(strings.ToLower(title), strings.ToLower(product.Brand)) {
		return title
	}
	return strings.TrimSpace(product.Brand + " " + title)
}
