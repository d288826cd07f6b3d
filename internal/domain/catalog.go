package domain

import "time"

// CatalogEntry is a marketplace catalog item as returned by the catalog
// lookup client. Read-only from the matchers' perspective.
type CatalogEntry struct {
	ASIN      string    `json:"asin"`
	Title     string    `json:"title"`
	Brand     string    `json:"brand,omitempty"`
	EANs      []string  `json:"eans,omitempty"`
	Category  string    `json:"category,omitempty"`
	Price     float64   `json:"price"`
	Available bool      `json:"available"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// PricePoint is a single observation in a catalog entry's price history.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// PriceHistory is an ordered (oldest first) sequence of price observations.
type PriceHistory []PricePoint
