package rewards

import "strings"

// Status is the canonical commission lifecycle every vendor vocabulary is
// normalized into: NOT_TRACKED -> PENDING -> COMMISSIONED -> PAID, with
// CANCELLED reachable from PENDING or COMMISSIONED.
type Status string

const (
	StatusNotTracked   Status = "NOT_TRACKED"
	StatusPending      Status = "PENDING"
	StatusCommissioned Status = "COMMISSIONED"
	StatusPaid         Status = "PAID"
	StatusCancelled    Status = "CANCELLED"
)

// vendorStatuses maps lower-cased vendor status strings across the networks
// we ingest from onto the canonical lifecycle.
var vendorStatuses = map[string]Status{
	"pending":   StatusPending,
	"open":      StatusPending,
	"new":       StatusPending,
	"tracked":   StatusPending,
	"initiated": StatusPending,

	"approved":  StatusCommissioned,
	"confirmed": StatusCommissioned,
	"locked":    StatusCommissioned,
	"validated": StatusCommissioned,

	"paid":      StatusPaid,
	"success":   StatusPaid,
	"settled":   StatusPaid,
	"completed": StatusPaid,
	"payout":    StatusPaid,

	"cancelled": StatusCancelled,
	"canceled":  StatusCancelled,
	"rejected":  StatusCancelled,
	"declined":  StatusCancelled,
	"refunded":  StatusCancelled,
	"returned":  StatusCancelled,
	"reversed":  StatusCancelled,
}

// MapVendorStatus normalizes a vendor status string, case-insensitively.
// Unknown or empty values degrade to NOT_TRACKED so an unrecognized vendor
// payload never crashes ingestion.
func MapVendorStatus(raw string) Status {
	if s, ok := vendorStatuses[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return StatusNotTracked
}
