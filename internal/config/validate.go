package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JinerixX/CriptaBot/internal/source"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("TG_TOKEN is required")
	}
	if c.TelegramChatID == "" {
		return errors.New("TG_CHAT_ID (or CHAT_ID) is required")
	}

	if c.APIInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL_API must be positive, got %v", c.APIInterval)
	}
	if c.CMSInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL_CMS must be positive, got %v", c.CMSInterval)
	}

	if len(c.Exchanges) == 0 {
		return errors.New("EXCHANGES resolved to an empty set")
	}
	known := make(map[string]string)
	for _, name := range source.Exchanges() {
		known[strings.ToLower(name)] = name
	}
	for i, name := range c.Exchanges {
		canonical, ok := known[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("EXCHANGES: unknown exchange %q (registered: %s)",
				name, strings.Join(source.Exchanges(), ", "))
		}
		c.Exchanges[i] = canonical
	}

	return nil
}
