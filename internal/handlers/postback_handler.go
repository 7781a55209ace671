package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/kickbacklabs/kickback/internal/rewards"
	"github.com/kickbacklabs/kickback/internal/validation"
)

// postback handles POST /api/postback: the vendor webhook feeding the
// reconciliation engine. The raw body is kept alongside the parsed fields
// so the reward keeps the vendor's last-seen payload verbatim.
func postback(cfg HandlerConfig, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		raw, err := c.GetRawData()
		if err != nil {
			respondError(c, http.StatusBadRequest, "unreadable request body")
			return
		}

		var req validation.PostbackRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if err := validation.ValidateStruct(c, &req, v); err != nil {
			return
		}

		res, err := cfg.Engine.Ingest(ctx, rewards.Postback{
			Token:         req.SubID,
			OrderID:       req.OrderID,
			OrderAmount:   req.OrderAmount,
			OrderCurrency: req.OrderCurrency,
			Commission:    req.CommissionUSDT,
			VendorStatus:  req.Status,
			Source:        req.Source,
			Raw:           string(raw),
		})
		if err != nil {
			if errors.Is(err, rewards.ErrLinkNotFound) {
				respondError(c, http.StatusNotFound, "no link for subId")
				return
			}
			log.Printf("[handlers] postback ingestion failed: %v", err)
			respondInternal(c, "postback ingestion failed")
			return
		}

		if err := cfg.Metrics.Count(ctx, "PostbacksIngested", 1); err != nil {
			log.Printf("[handlers] postback metric failed: %v", err)
		}

		resp := gin.H{
			"success":       true,
			"rewardId":      res.RewardID,
			"status":        res.Status,
			"walletAddress": res.WalletAddress,
		}
		if res.PayoutErr != nil {
			// Soft error: the reward is persisted, only payout dispatch failed.
			resp["payoutError"] = res.PayoutErr.Error()
		}
		c.JSON(http.StatusOK, resp)
	}
}
