package domain

import "context"

// CatalogClient is the external marketplace catalog lookup capability the
// matchers depend on. Implementations must keep every call bounded in time
// and map provider failures onto the error taxonomy in errors.go.
type CatalogClient interface {
	SearchByCode(ctx context.Context, code string) ([]CatalogEntry, error)
	SearchByKeywords(ctx context.Context, query string, maxResults int) ([]CatalogEntry, error)
	GetPriceHistory(ctx context.Context, asin string) (PriceHistory, error)
}

// EmbeddingClient produces vector embeddings from an external model server.
// The model itself is an opaque collaborator.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// LookupCache is a bounded cache of catalog lookups keyed by canonical EAN.
// Implementations must be safe for concurrent use.
type LookupCache interface {
	Get(code string) ([]CatalogEntry, bool)
	Put(code string, entries []CatalogEntry)
	Len() int
}

// AlertRepository persists alerts. Storage schema is owned by the
// implementation; the core only defines the record shape.
type AlertRepository interface {
	Save(ctx context.Context, alert *Alert) error
	RecentByProduct(ctx context.Context, productID string, limit int) ([]Alert, error)
}

// AlertPublisher pushes alerts to downstream notification consumers.
type AlertPublisher interface {
	Publish(ctx context.Context, alert Alert) error
}
