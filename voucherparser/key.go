package voucherparser

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// voucherKey derives the stable voucher_key per spec.md §3.3. The ordering
// of these four cases MUST be preserved: checking a later case first can
// collapse distinct vouchers (e.g. two same-day, same-party vouchers that
// differ only in RemoteID — see P9 and the REMOTEID-promotion regression).
func voucherKey(vchtype, guid, remoteID, vchnumber, date, party string, amount decimal.Decimal) string {
	if guid != "" {
		return guid
	}
	if remoteID != "" {
		return remoteID
	}
	if vchnumber != "" {
		return fmt.Sprintf("%s/%s/%s/%s", vchtype, vchnumber, date, party)
	}
	return hashKey(vchtype, date, party, amount)
}

// hashKey is the fallback identity for vouchers with neither a GUID/RemoteID
// nor a voucher number: a 16-hex-char digest of vchtype|date|party|amount,
// prefixed so it remains visually distinguishable from the natural-key form.
func hashKey(vchtype, date, party string, amount decimal.Decimal) string {
	payload := strings.Join([]string{vchtype, date, party, amount.StringFixed(2)}, "|")
	sum := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("%s/%s/%s#%s", vchtype, date, party, hex.EncodeToString(sum[:])[:16])
}
