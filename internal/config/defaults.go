package config

import (
	"time"

	"github.com/JinerixX/CriptaBot/internal/source"
)

// Default values for optional configuration fields.
const (
	DefaultAPIInterval = 60 * time.Second
	DefaultCMSInterval = 90 * time.Second
)

func (c *Config) applyDefaults() {
	if c.APIInterval == 0 {
		c.APIInterval = DefaultAPIInterval
	}
	if c.CMSInterval == 0 {
		c.CMSInterval = DefaultCMSInterval
	}
	if len(c.Exchanges) == 0 {
		c.Exchanges = source.Exchanges()
	}
}
