package domain

import "errors"

var (
	// ErrNoMatch is returned when no matcher produced an accepted candidate
	ErrNoMatch = errors.New("no match found")

	// ErrLowConfidence is returned when the best candidate is below threshold
	ErrLowConfidence = errors.New("match confidence below threshold")

	// ErrRateLimited is returned when the catalog provider throttles us
	ErrRateLimited = errors.New("catalog rate limit exceeded")

	// ErrAuthRequired is returned on credential failures; never retried
	ErrAuthRequired = errors.New("catalog authentication failed")

	// ErrCatalogUnavailable is returned for transient catalog failures
	ErrCatalogUnavailable = errors.New("catalog request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrPricesUnavailable is returned when neither source nor target price
	// is known, so no profitability verdict can be computed at all
	ErrPricesUnavailable = errors.New("no usable prices for analysis")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
