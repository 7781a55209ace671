package rewards

import "testing"

func TestMapVendorStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"pending", StatusPending},
		{"TRACKED", StatusPending},
		{"approved", StatusCommissioned},
		{"Confirmed", StatusCommissioned},
		{"paid", StatusPaid},
		{"success", StatusPaid},
		{"SETTLED", StatusPaid},
		{"cancelled", StatusCancelled},
		{"canceled", StatusCancelled},
		{"Rejected", StatusCancelled},
		{"refunded", StatusCancelled},
		{"  paid  ", StatusPaid},
	}
	for _, c := range cases {
		if got := MapVendorStatus(c.raw); got != c.want {
			t.Fatalf("MapVendorStatus(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}

func TestMapVendorStatus_UnknownDegradesToNotTracked(t *testing.T) {
	for _, raw := range []string{"", "banana", "PAID-OUT", "????"} {
		if got := MapVendorStatus(raw); got != StatusNotTracked {
			t.Fatalf("MapVendorStatus(%q) = %s, want NOT_TRACKED", raw, got)
		}
	}
}
