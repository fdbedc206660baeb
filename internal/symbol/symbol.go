// Package symbol provides canonical ticker normalization shared by all
// sources and by the dedup store.
package symbol

import (
	"regexp"
	"strings"
)

// Dated futures contracts encode their expiry in the symbol itself,
// e.g. "BTCUSD250613" or "BTCUSDT-13JUN25". They are not listings of
// interest and are filtered out before storage or notification.
var (
	datedSuffixRx = regexp.MustCompile(`\d{6}$`)
	datedExpiryRx = regexp.MustCompile(`-\d{2}[A-Z]{3}\d{2}$`)
	nonAlphanumRx = regexp.MustCompile(`[^A-Z0-9]+`)
)

// Normalize maps a raw ticker/pair string to its canonical form:
// uppercase with everything outside [A-Z0-9] removed.
//
// Normalize is total and idempotent. An input that contains no
// alphanumeric characters normalizes to the empty string, which callers
// must treat as "no valid symbol" and drop the record.
func Normalize(raw string) string {
	return nonAlphanumRx.ReplaceAllString(strings.ToUpper(raw), "")
}

// IsDated reports whether a raw symbol matches an expiring-contract
// naming convention. Checked against the raw form, before Normalize
// strips the delimiters the patterns rely on.
func IsDated(raw string) bool {
	s := strings.ToUpper(strings.TrimSpace(raw))
	return datedSuffixRx.MatchString(s) || datedExpiryRx.MatchString(s)
}
