package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// originPolicy decides which Origin values receive CORS response headers.
// Entries are exact origins or trailing-wildcard prefixes such as
// "https://*.arbiscout.io"; a lone "*" allows every origin.
type originPolicy struct {
	allowAll bool
	exact    map[string]bool
	prefixes []string
}

func newOriginPolicy(allowedOrigins []string) *originPolicy {
	p := &originPolicy{exact: make(map[string]bool)}
	for _, entry := range allowedOrigins {
		switch {
		case entry == "*":
			p.allowAll = true
		case strings.HasSuffix(entry, "*"):
			p.prefixes = append(p.prefixes, strings.TrimSuffix(entry, "*"))
		default:
			p.exact[entry] = true
		}
	}
	return p
}

func (p *originPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.allowAll || p.exact[origin] {
		return true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

// CORSMiddleware echoes CORS headers for origins the server config allows
// and short-circuits preflight requests.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	policy := newOriginPolicy(allowedOrigins)

	return func(c *gin.Context) {
		if origin := c.Request.Header.Get("Origin"); policy.allows(origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			h.Set("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
