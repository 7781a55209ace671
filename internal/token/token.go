package token

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attribution tokens look like agent_<8-hex-fingerprint>_<random>_<time>.
// The token rides inside tracking URLs and is echoed back verbatim by vendor
// postbacks; the Link row it matches is the resolution key. The fingerprint
// segment is diagnostic only and is never used to resolve a reward.

var fingerprintRe = regexp.MustCompile(`^agent_([0-9a-f]{8})_[0-9a-f]{12}_[0-9a-z]+$`)

// Encode builds a fresh attribution token for a wallet address.
// Generation is stateless: the random and time segments make collisions
// across concurrent calls overwhelmingly unlikely without any persisted
// counter. Output contains only [a-z0-9_], so it is URL-safe and no segment
// can collide with the underscore delimiter.
func Encode(walletAddress string) string {
	addr := strings.ToLower(walletAddress)
	fp := strings.TrimPrefix(addr, "0x")
	if len(fp) > 8 {
		fp = fp[:8]
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return fmt.Sprintf("agent_%s_%s_%s", fp, random, ts)
}

// Fingerprint extracts the 8-hex wallet fingerprint from a token.
// Returns ok=false when the token does not match the expected shape.
func Fingerprint(tok string) (string, bool) {
	m := fingerprintRe.FindStringSubmatch(tok)
	if m == nil {
		return "", false
	}
	return m[1], true
}
