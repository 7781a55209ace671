package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kickbacklabs/kickback/internal/shortcode"
)

// redirect handles GET /r/:code: resolve the short code and 302 to the
// tracking URL. Click telemetry happens inside Resolve and never blocks
// the redirect.
func redirect(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")

		row, err := cfg.ShortCodes.Resolve(c.Request.Context(), code)
		if err != nil {
			if errors.Is(err, shortcode.ErrNotFound) {
				respondError(c, http.StatusNotFound, "unknown short code")
				return
			}
			log.Printf("[handlers] resolve %s failed: %v", code, err)
			respondInternal(c, "resolve failed")
			return
		}

		c.Redirect(http.StatusFound, row.TrackingURL)
	}
}
