package domain

// MarketClass qualifies which market a pair trades on.
type MarketClass string

const (
	MarketSpot MarketClass = "spot"
	MarketPerp MarketClass = "perp"

	// MarketUnknown is used when the source cannot distinguish the market,
	// which is always the case for CMS announcements.
	MarketUnknown MarketClass = "unknown"
)

// String returns the string representation of MarketClass.
func (m MarketClass) String() string {
	return string(m)
}

// IsValid checks if the market class is a valid value.
func (m MarketClass) IsValid() bool {
	return m == MarketSpot || m == MarketPerp || m == MarketUnknown
}
