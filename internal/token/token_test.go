package token

import (
	"regexp"
	"testing"
)

const wallet = "0xAbCd1234EF567890abcdef1234567890ABCDEF12"

func TestEncode_Shape(t *testing.T) {
	tok := Encode(wallet)

	shape := regexp.MustCompile(`^agent_[0-9a-f]{8}_[0-9a-f]{12}_[0-9a-z]+$`)
	if !shape.MatchString(tok) {
		t.Fatalf("token %q does not match expected shape", tok)
	}
}

func TestEncode_FingerprintIsLowercasedAddressPrefix(t *testing.T) {
	tok := Encode(wallet)

	fp, ok := Fingerprint(tok)
	if !ok {
		t.Fatalf("Fingerprint failed for %q", tok)
	}
	if fp != "abcd1234" {
		t.Fatalf("expected fingerprint abcd1234, got %s", fp)
	}
}

func TestEncode_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		tok := Encode(wallet)
		if seen[tok] {
			t.Fatalf("duplicate token generated: %s", tok)
		}
		seen[tok] = true
	}
}

func TestFingerprint_RejectsMalformedTokens(t *testing.T) {
	cases := []string{
		"",
		"agent_",
		"agent_abcd1234",                      // missing segments
		"agent_ABCD1234_aaaaaaaaaaaa_1",       // uppercase fingerprint
		"agent_abcd12_aaaaaaaaaaaa_1",         // short fingerprint
		"bot_abcd1234_aaaaaaaaaaaa_1",         // wrong prefix
		"agent_abcd1234_aaaaaaaaaaaa_1_extra", // trailing segment
	}
	for _, c := range cases {
		if _, ok := Fingerprint(c); ok {
			t.Fatalf("expected Fingerprint to reject %q", c)
		}
	}
}
