package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kickbacklabs/kickback/internal/agents"
	"github.com/kickbacklabs/kickback/internal/awsx"
	"github.com/kickbacklabs/kickback/internal/catalog"
	"github.com/kickbacklabs/kickback/internal/links"
	"github.com/kickbacklabs/kickback/internal/networks"
	"github.com/kickbacklabs/kickback/internal/rewards"
	"github.com/kickbacklabs/kickback/internal/shortcode"
	"github.com/kickbacklabs/kickback/internal/validation"
)

// HandlerConfig groups dependencies for the HTTP surface.
type HandlerConfig struct {
	Agents     *agents.Store
	Links      *links.Store
	Rewards    *rewards.Store
	Engine     *rewards.Engine
	ShortCodes *shortcode.Service
	Catalog    *catalog.Client
	Dispatcher *networks.Dispatcher
	Metrics    *awsx.Metrics

	// PublicBaseURL prefixes minted short codes, e.g. https://go.kickback.app
	PublicBaseURL string
}

// RegisterRoutes registers the full API surface.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.POST("/api/links", generateLink(cfg, v))
	r.GET("/r/:code", redirect(cfg))
	r.GET("/api/earnings", earnings(cfg))
	r.POST("/api/postback", postback(cfg, v))

	r.GET("/api/merchants", catalogProxy(cfg, "/merchants"))
	r.GET("/api/merchants/:idOrSlug", merchantLookup(cfg))
	r.GET("/api/categories", catalogProxy(cfg, "/categories"))
}

func (cfg HandlerConfig) shortURL(code string) string {
	return strings.TrimRight(cfg.PublicBaseURL, "/") + "/r/" + code
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func respondInternal(c *gin.Context, msg string) {
	respondError(c, http.StatusInternalServerError, msg)
}
