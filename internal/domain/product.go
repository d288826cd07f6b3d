package domain

import "time"

// ScrapedProduct represents a raw product listing captured by the scraping
// pipeline. Records are immutable once captured; the matchers only read them.
type ScrapedProduct struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Brand       string    `json:"brand,omitempty"`
	EAN         string    `json:"ean,omitempty"` // raw, unvalidated
	Price       float64   `json:"price"`
	Currency    string    `json:"currency,omitempty"`
	InStock     bool      `json:"inStock"`
	Category    string    `json:"category,omitempty"`
	Marketplace string    `json:"marketplace"` // e.g. "mediamarkt"
	ScrapedAt   time.Time `json:"scrapedAt,omitempty"`
}

// MatchMethod identifies which matcher produced a candidate.
type MatchMethod string

const (
	MatchMethodEAN      MatchMethod = "ean"
	MatchMethodFuzzy    MatchMethod = "fuzzy"
	MatchMethodSemantic MatchMethod = "semantic"
)

// MatchCandidate links a scraped product to a catalog entry with a
// confidence score in [0,1] and the per-signal evidence that produced it.
// Entry is a snapshot of the catalog entry at match time so downstream
// analysis does not need a second lookup.
type MatchCandidate struct {
	ProductID  string             `json:"productId"`
	ASIN       string             `json:"asin"`
	Method     MatchMethod        `json:"method"`
	Confidence float64            `json:"confidence"`
	Evidence   map[string]float64 `json:"evidence,omitempty"`
	Entry      CatalogEntry       `json:"entry"`
}
