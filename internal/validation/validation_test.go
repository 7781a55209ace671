package validation

import "testing"

func TestGenerateLinkRequest_Valid(t *testing.T) {
	v := New()

	req := GenerateLinkRequest{
		WalletAddress: "0xAaBbCcDdEeFf00112233445566778899aAbBcCdD",
		MerchantID:    "trip-com",
	}
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestGenerateLinkRequest_MalformedWallet(t *testing.T) {
	v := New()

	cases := []string{
		"abc",
		"0x123",                                      // too short
		"0xZZBbCcDdEeFf00112233445566778899aAbBcCdD", // non-hex
		"AaBbCcDdEeFf00112233445566778899aAbBcCdD",   // missing 0x
		"",
	}
	for _, wallet := range cases {
		req := GenerateLinkRequest{WalletAddress: wallet, MerchantID: "trip-com"}
		if err := v.Struct(req); err == nil {
			t.Fatalf("expected validation error for wallet %q", wallet)
		}
	}
}

func TestGenerateLinkRequest_MissingMerchant(t *testing.T) {
	v := New()

	req := GenerateLinkRequest{WalletAddress: "0xAaBbCcDdEeFf00112233445566778899aAbBcCdD"}
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for missing merchantId")
	}
}

func TestPostbackRequest_OnlySubIDRequired(t *testing.T) {
	v := New()

	if err := v.Struct(PostbackRequest{SubID: "agent_abcd1234_aaaaaaaaaaaa_1"}); err != nil {
		t.Fatalf("postback with only subId must validate, got: %v", err)
	}
	if err := v.Struct(PostbackRequest{}); err == nil {
		t.Fatal("expected validation error for missing subId")
	}
}
