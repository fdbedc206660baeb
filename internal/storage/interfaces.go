package storage

import (
	"context"

	"github.com/JinerixX/CriptaBot/internal/domain"
)

// SeenStore is the durable dedup ledger: one row per distinct listing
// key ever observed. It is the only mutable state shared between the
// bootstrap phase and the per-source poll tasks, so every method must be
// safe for concurrent use.
type SeenStore interface {
	// IsSeen reports whether the exact key has been recorded. Pure lookup.
	IsSeen(ctx context.Context, key domain.ListingKey) (bool, error)

	// MarkSeen records the key if it is not present yet and reports
	// whether this call created the row. Concurrent calls for the same
	// key resolve to exactly one inserted=true; a duplicate is not an
	// error. Returns ErrInvalidInput if the key has no valid symbol.
	MarkSeen(ctx context.Context, key domain.ListingKey, source domain.SourceKind) (inserted bool, err error)

	// HasAnyMarket reports whether the symbol exists under any market
	// class for the exchange. Used by CMS ingestion to avoid
	// re-announcing a symbol that already trades.
	HasAnyMarket(ctx context.Context, exchange, symbol string) (bool, error)

	// IsEmpty reports whether zero rows exist. Gates bootstrap only.
	IsEmpty(ctx context.Context) (bool, error)
}
