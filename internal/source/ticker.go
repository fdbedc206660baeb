package source

import (
	"regexp"
	"strings"
)

// tickerRx captures a ticker inside parentheses, "(ALT)", or before a
// USDT/USDC pair suffix, "ALTUSDT". Announcement titles carry tickers in
// one of these two shapes on every supported exchange.
var tickerRx = regexp.MustCompile(`(?i)\(([A-Z0-9_-]{2,15})\)|([A-Z0-9_-]{2,15})(?:USDT|USDC)`)

// quoteSuffixes are stripped from an extracted ticker so the base asset
// remains. PERP shows up in Bitget perpetual announcements.
var quoteSuffixes = []string{"USDT", "USDC", "PERP"}

// extractTicker pulls the base-asset ticker out of an announcement
// title. Returns "" when the title carries no recognizable ticker,
// which the caller must treat as non-listing noise and skip.
func extractTicker(title string) string {
	m := tickerRx.FindStringSubmatch(title)
	if m == nil {
		return ""
	}

	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	raw = strings.ToUpper(raw)

	for _, suffix := range quoteSuffixes {
		if trimmed := strings.TrimSuffix(raw, suffix); trimmed != raw {
			raw = trimmed
			break
		}
	}
	return raw
}
