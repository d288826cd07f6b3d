package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arbiscout/backend/internal/domain"
	"github.com/arbiscout/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	pipeline *usecase.MatchPipeline
}

// NewHandler creates a new HTTP handler
func NewHandler(pipeline *usecase.MatchPipeline) *Handler {
	return &Handler{pipeline: pipeline}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "arbiscout-backend",
		"version": "1.0.0",
	})
}

// MatchProduct resolves a scraped product against the marketplace catalog
// and returns the best candidate, or 404 when no matcher produced one.
func (h *Handler) MatchProduct(c *gin.Context) {
	var product domain.ScrapedProduct
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	candidate, err := h.pipeline.Match(c.Request.Context(), product)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoMatch):
			c.JSON(http.StatusNotFound, gin.H{"error": "no match found"})
		case errors.Is(err, domain.ErrAuthRequired):
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog authentication failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "matching failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidate": candidate})
}

// AnalyzeProduct runs the full pipeline for one scraped product: match,
// price analysis and, when profitable, alert emission.
func (h *Handler) AnalyzeProduct(c *gin.Context) {
	var product domain.ScrapedProduct
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	analysis, err := h.pipeline.Process(c.Request.Context(), product)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoMatch):
			c.JSON(http.StatusNotFound, gin.H{"error": "no match found"})
		case errors.Is(err, domain.ErrPricesUnavailable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "prices unavailable for matched product"})
		case errors.Is(err, domain.ErrAuthRequired):
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog authentication failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		}
		return
	}

	c.JSON(http.StatusOK, analysis)
}
