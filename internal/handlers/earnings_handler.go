package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kickbacklabs/kickback/internal/rewards"
)

// earnings handles GET /api/earnings?walletAddress=...: a read-only
// projection of the wallet's links and rewards with paid/pending totals.
func earnings(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		wallet := strings.ToLower(c.Query("walletAddress"))
		if wallet == "" {
			respondError(c, http.StatusBadRequest, "walletAddress query parameter required")
			return
		}

		linkRows, err := cfg.Links.ByWallet(ctx, wallet)
		if err != nil {
			log.Printf("[handlers] links by wallet failed: %v", err)
			respondInternal(c, "earnings lookup failed")
			return
		}
		rewardRows, err := cfg.Rewards.ByWallet(ctx, wallet)
		if err != nil {
			log.Printf("[handlers] rewards by wallet failed: %v", err)
			respondInternal(c, "earnings lookup failed")
			return
		}

		var totalPaid, totalPending float64
		rewardsOut := make([]gin.H, 0, len(rewardRows))
		for _, r := range rewardRows {
			switch r.Status {
			case rewards.StatusPaid:
				totalPaid += r.Commission
			case rewards.StatusPending, rewards.StatusCommissioned:
				totalPending += r.Commission
			}
			rewardsOut = append(rewardsOut, gin.H{
				"rewardId":       r.RewardID,
				"linkId":         r.LinkID,
				"orderId":        r.OrderID,
				"orderAmount":    r.OrderAmount,
				"orderCurrency":  r.OrderCurrency,
				"commissionUsdt": r.Commission,
				"status":         r.Status,
				"paidAt":         r.PaidAt,
				"createdAt":      r.CreatedAt,
			})
		}

		linksOut := make([]gin.H, 0, len(linkRows))
		for _, l := range linkRows {
			linksOut = append(linksOut, gin.H{
				"linkId":           l.LinkID,
				"merchantId":       l.MerchantID,
				"merchantName":     l.MerchantName,
				"merchantSlug":     l.MerchantSlug,
				"cashbackRate":     l.CashbackRate,
				"trackingShortUrl": cfg.shortURL(l.ShortCode),
				"clicks":           l.Clicks,
				"lastClickAt":      l.LastClickAt,
				"createdAt":        l.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"walletAddress": wallet,
			"totalPaid":     totalPaid,
			"totalPending":  totalPending,
			"links":         linksOut,
			"rewards":       rewardsOut,
		})
	}
}
