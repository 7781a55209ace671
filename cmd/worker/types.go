package main

// PostbackMessage is the body of one SQS-delivered vendor postback. Same
// shape as the HTTP webhook payload; networks that deliver conversion
// batches land here instead.
type PostbackMessage struct {
	SubID          string  `json:"subId"`
	OrderID        string  `json:"orderId,omitempty"`
	OrderAmount    float64 `json:"orderAmount,omitempty"`
	OrderCurrency  string  `json:"orderCurrency,omitempty"`
	CommissionUSDT float64 `json:"commissionUsdt,omitempty"`
	Status         string  `json:"status,omitempty"`
	Source         string  `json:"source,omitempty"`
}
