package catalog

import "strings"

// SettlementCurrency is the currency all commissions are paid out in.
const SettlementCurrency = "USDT"

// Rate is one cashback rate entry declared by the upstream catalog.
type Rate struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

// Merchant is the slice of the upstream catalog's merchant record this
// service consumes. Display fields are snapshotted onto the Link at
// creation time.
type Merchant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	URL        string `json:"url"`
	Network    string `json:"network"`
	CampaignID string `json:"campaignId"`
	Rates      []Rate `json:"rates"`
}

// USDTRate returns the settlement-currency cashback rate. A merchant with
// no usable rate entry is not linkable.
func (m *Merchant) USDTRate() (float64, bool) {
	for _, r := range m.Rates {
		if strings.EqualFold(r.Currency, SettlementCurrency) {
			return r.Rate, true
		}
	}
	return 0, false
}
