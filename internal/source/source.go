// Package source defines the adapter contract shared by all exchange
// sources and the per-exchange implementations behind it. The engine is
// agnostic to transport and payload shape: an adapter turns one poll
// into a batch of candidate records, and nothing more. Deduplication is
// the store's job, delta computation included.
package source

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/JinerixX/CriptaBot/internal/domain"
)

// Source is the capability contract shared by all exchange sources.
type Source interface {
	// Exchange returns the stable exchange identifier.
	Exchange() string

	// Kind reports which ingestion path the source feeds.
	Kind() domain.SourceKind

	// Fetch returns one full snapshot of the source at call time: the
	// complete current pair set for API-kind sources, the current
	// announcement page contents for CMS-kind ones. An empty batch is
	// normal, not an error. Transport and parse failures are returned
	// as errors and are non-fatal to the caller.
	Fetch(ctx context.Context) ([]domain.CandidateRecord, error)
}

// Factory builds the adapters of one exchange against a shared HTTP client.
type Factory func(client *http.Client) []Source

// registry maps exchange names to their adapter factories. Adapter
// selection is static: an exchange is either wired here or unknown.
var registry = map[string]Factory{
	"Binance": func(c *http.Client) []Source {
		return []Source{NewBinanceAPI(c), NewBinanceCMS(c)}
	},
	"Bybit": func(c *http.Client) []Source {
		return []Source{NewBybitAPI(c), NewBybitCMS(c)}
	},
	"OKX": func(c *http.Client) []Source {
		return []Source{NewOKXAPI(c), NewOKXCMS(c)}
	},
	"Bitget": func(c *http.Client) []Source {
		return []Source{NewBitgetAPI(c), NewBitgetCMS(c)}
	},
}

// Exchanges returns the names of all registered exchanges, sorted.
func Exchanges() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates the API and CMS adapters for the named exchanges.
func Build(names []string, client *http.Client) ([]Source, error) {
	if client == nil {
		client = NewHTTPClient()
	}

	var sources []Source
	for _, name := range names {
		factory, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("unknown exchange %q (registered: %v)", name, Exchanges())
		}
		sources = append(sources, factory(client)...)
	}
	return sources, nil
}
