package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/arbiscout/backend/internal/domain"
)

const (
	maxAttempts      = 3
	defaultBatchSize = 10
)

// Client talks to the marketplace catalog provider's HTTP API. It paces
// requests through a token bucket, retries transient failures with
// exponential backoff and maps provider responses onto the domain error
// taxonomy: 429 is retried, auth failures are fatal, 404 is an empty
// result rather than an error.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	batchSize   int
	batchPause  time.Duration
	debug       bool
}

// NewClient creates a catalog client with sane pacing defaults
func NewClient(apiKey, baseURL string) *Client {
	// Most catalog providers allow a low single-digit request rate
	limiter := rate.NewLimiter(rate.Limit(2), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
		batchSize:   defaultBatchSize,
		batchPause:  500 * time.Millisecond,
	}
}

// SetDebug toggles request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SetBatching overrides the per-call item limit and the inter-batch pause
func (c *Client) SetBatching(size int, pause time.Duration) {
	if size > 0 {
		c.batchSize = size
	}
	if pause > 0 {
		c.batchPause = pause
	}
}

// SearchByCode searches the catalog for entries carrying the given barcode
func (c *Client) SearchByCode(ctx context.Context, code string) ([]domain.CatalogEntry, error) {
	params := url.Values{}
	params.Add("code", code)
	return c.search(ctx, params)
}

// SearchByKeywords runs a free-text catalog search
func (c *Client) SearchByKeywords(ctx context.Context, query string, maxResults int) ([]domain.CatalogEntry, error) {
	if maxResults <= 0 {
		maxResults = defaultBatchSize
	}
	params := url.Values{}
	params.Add("query", query)
	params.Add("pageSize", strconv.Itoa(maxResults))
	return c.search(ctx, params)
}

// SearchByCodes resolves many barcodes, splitting the list into batches no
// larger than the provider's per-call limit with a pause between batches.
// Returns results keyed by the requested code.
func (c *Client) SearchByCodes(ctx context.Context, codes []string) (map[string][]domain.CatalogEntry, error) {
	results := make(map[string][]domain.CatalogEntry, len(codes))

	for start := 0; start < len(codes); start += c.batchSize {
		if start > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(c.batchPause):
			}
		}

		end := start + c.batchSize
		if end > len(codes) {
			end = len(codes)
		}
		for _, code := range codes[start:end] {
			entries, err := c.SearchByCode(ctx, code)
			if err != nil {
				return results, err
			}
			results[code] = entries
		}
	}

	return results, nil
}

// GetPriceHistory fetches the recorded price history for a catalog entry.
// Entries without recorded history yield an empty result, not an error.
func (c *Client) GetPriceHistory(ctx context.Context, asin string) (domain.PriceHistory, error) {
	endpoint := fmt.Sprintf("%s/v1/products/%s/prices", c.baseURL, url.PathEscape(asin))
	params := url.Values{}
	params.Add("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	var resp priceHistoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode price history: %w", err)
	}
	return mapPriceHistory(resp), nil
}

func (c *Client) search(ctx context.Context, params url.Values) ([]domain.CatalogEntry, error) {
	endpoint := fmt.Sprintf("%s/v1/catalog/search", c.baseURL)
	params.Add("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	if c.debug {
		log.Printf("[CATALOG] %d results (of %d total)", len(resp.Items), resp.TotalHits)
	}
	return mapEntries(resp.Items), nil
}

// getWithRetry executes a GET with bounded retries. A nil, nil return means
// the provider had no results (404). Auth failures abort immediately.
func (c *Client) getWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		body, err := c.doRequest(ctx, reqURL)
		if err == nil {
			return body, nil
		}

		switch {
		case isNotFound(err):
			return nil, nil
		case isFatal(err):
			return nil, err
		}

		lastErr = err
		if c.debug {
			log.Printf("[CATALOG] attempt %d failed: %v", attempt, err)
		}
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt)):
			}
		}
	}

	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Arbiscout/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, errNotFound
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", domain.ErrRateLimited, resp.StatusCode)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", domain.ErrAuthRequired, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}
}

// exponentialBackoff doubles the delay per attempt: 500ms, 1s, 2s
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}
