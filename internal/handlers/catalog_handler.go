package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kickbacklabs/kickback/internal/catalog"
)

// catalogProxy is a pure read-through to the upstream catalog service for
// merchant search/listing and category browsing.
func catalogProxy(cfg HandlerConfig, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, body, err := cfg.Catalog.Passthrough(c.Request.Context(), path, c.Request.URL.RawQuery)
		if err != nil {
			log.Printf("[handlers] catalog proxy %s failed: %v", path, err)
			respondError(c, http.StatusBadGateway, "catalog unavailable")
			return
		}
		c.Data(status, "application/json", body)
	}
}

// merchantLookup serves GET /api/merchants/:idOrSlug through the typed
// client so the response shape matches what link generation consumes.
func merchantLookup(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := cfg.Catalog.Merchant(c.Request.Context(), c.Param("idOrSlug"))
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				respondError(c, http.StatusNotFound, "merchant not found")
				return
			}
			log.Printf("[handlers] merchant lookup failed: %v", err)
			respondError(c, http.StatusBadGateway, "catalog unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "merchant": m})
	}
}
