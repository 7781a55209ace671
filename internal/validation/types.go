package validation

// GenerateLinkRequest is the payload for POST /api/links.
type GenerateLinkRequest struct {
	WalletAddress string `json:"walletAddress" validate:"required,eth_addr"` // ^0x[a-fA-F0-9]{40}$
	MerchantID    string `json:"merchantId" validate:"required"`             // catalog id or slug
}

// PostbackRequest is the vendor webhook payload. Field presence is
// free-form: everything but SubID may be absent, and missing numeric
// fields stay zero rather than failing the event.
type PostbackRequest struct {
	SubID          string  `json:"subId" validate:"required"` // attribution token
	OrderID        string  `json:"orderId,omitempty"`
	OrderAmount    float64 `json:"orderAmount,omitempty"`
	OrderCurrency  string  `json:"orderCurrency,omitempty"`
	CommissionUSDT float64 `json:"commissionUsdt,omitempty"`
	Status         string  `json:"status,omitempty"`
	Source         string  `json:"source,omitempty"`
}
