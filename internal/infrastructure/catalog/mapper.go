package catalog

import (
	"errors"
	"time"

	"github.com/arbiscout/backend/internal/domain"
)

// errNotFound is internal to the client; callers see an empty result
var errNotFound = errors.New("not found")

func isNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

func isFatal(err error) bool {
	return errors.Is(err, domain.ErrAuthRequired)
}

// Wire DTOs. The provider responds with loosely-shaped JSON; everything is
// parsed into these tagged structs with defaults before any matcher logic
// sees it, so downstream code never touches an untyped map.
type searchResponse struct {
	Items     []catalogItem `json:"items"`
	TotalHits int           `json:"totalHits"`
}

type catalogItem struct {
	ASIN      string   `json:"asin"`
	Title     string   `json:"title"`
	Brand     string   `json:"brand"`
	EANs      []string `json:"eans"`
	Category  string   `json:"category"`
	Price     float64  `json:"price"`
	Available bool     `json:"available"`
	UpdatedAt string   `json:"updatedAt"`
}

type priceHistoryResponse struct {
	ASIN   string      `json:"asin"`
	Points []wirePoint `json:"points"`
}

type wirePoint struct {
	Timestamp int64   `json:"timestamp"` // unix seconds
	Price     float64 `json:"price"`
}

// mapEntries converts wire items to domain entries, dropping items without
// a usable identifier.
func mapEntries(items []catalogItem) []domain.CatalogEntry {
	var entries []domain.CatalogEntry
	for _, item := range items {
		if item.ASIN == "" {
			continue
		}
		entries = append(entries, mapEntry(item))
	}
	return entries
}

func mapEntry(item catalogItem) domain.CatalogEntry {
	entry := domain.CatalogEntry{
		ASIN:      item.ASIN,
		Title:     item.Title,
		Brand:     item.Brand,
		EANs:      item.EANs,
		Category:  item.Category,
		Price:     item.Price,
		Available: item.Available,
	}
	if item.UpdatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, item.UpdatedAt); err == nil {
			entry.UpdatedAt = ts
		}
	}
	return entry
}

// mapPriceHistory converts wire points to an ordered history, dropping
// non-positive prices (the provider encodes "no offer" as 0 or -1).
func mapPriceHistory(resp priceHistoryResponse) domain.PriceHistory {
	var history domain.PriceHistory
	for _, p := range resp.Points {
		if p.Price <= 0 {
			continue
		}
		history = append(history, domain.PricePoint{
			Timestamp: time.Unix(p.Timestamp, 0).UTC(),
			Price:     p.Price,
		})
	}
	return history
}
