package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kickbacklabs/kickback/internal/catalog"
	"github.com/kickbacklabs/kickback/internal/links"
	"github.com/kickbacklabs/kickback/internal/networks"
	"github.com/kickbacklabs/kickback/internal/shortcode"
	"github.com/kickbacklabs/kickback/internal/token"
	"github.com/kickbacklabs/kickback/internal/validation"
)

// generateLink handles POST /api/links: find-or-create the agent, produce a
// tracking URL through the dispatcher, mint a short code and persist the
// link with its merchant snapshot.
func generateLink(cfg HandlerConfig, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.GenerateLinkRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		merchant, err := cfg.Catalog.Merchant(ctx, req.MerchantID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				respondError(c, http.StatusNotFound, "merchant not found")
				return
			}
			log.Printf("[handlers] merchant lookup failed: %v", err)
			respondError(c, http.StatusBadGateway, "catalog unavailable")
			return
		}

		rate, ok := merchant.USDTRate()
		if !ok {
			respondError(c, http.StatusUnprocessableEntity, "merchant has no settlement-currency cashback rate")
			return
		}

		agent, _, err := cfg.Agents.FindOrCreate(ctx, req.WalletAddress)
		if err != nil {
			log.Printf("[handlers] agent find-or-create failed: %v", err)
			respondInternal(c, "agent lookup failed")
			return
		}

		subID := token.Encode(agent.WalletAddress)

		trackingURL, err := cfg.Dispatcher.GenerateLink(ctx, networks.Network(merchant.Network), networks.LinkRequest{
			DestinationURL: merchant.URL,
			CampaignID:     merchant.CampaignID,
			Token:          subID,
		})
		if err != nil {
			log.Printf("[handlers] link generation failed for merchant %s: %v", merchant.ID, err)
			respondInternal(c, "link generation failed")
			return
		}

		code, err := cfg.ShortCodes.Assign(ctx, subID, trackingURL)
		if err != nil {
			if errors.Is(err, shortcode.ErrExhausted) {
				log.Printf("[handlers] short code space exhausted")
			}
			respondInternal(c, "short code assignment failed")
			return
		}

		link := links.Link{
			Token:         subID,
			LinkID:        uuid.NewString(),
			WalletAddress: agent.WalletAddress,
			MerchantID:    merchant.ID,
			MerchantName:  merchant.Name,
			MerchantSlug:  merchant.Slug,
			CashbackRate:  rate,
			TrackingURL:   trackingURL,
			ShortCode:     code,
			CreatedAt:     time.Now().UTC(),
		}
		if err := cfg.Links.Create(ctx, link); err != nil {
			log.Printf("[handlers] link persist failed: %v", err)
			respondInternal(c, "link persist failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"linkId":           link.LinkID,
			"trackingShortUrl": cfg.shortURL(code),
			"cashbackRate":     rate,
			"subId":            subID,
		})
	}
}
