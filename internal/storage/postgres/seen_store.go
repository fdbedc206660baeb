package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/JinerixX/CriptaBot/internal/domain"
	"github.com/JinerixX/CriptaBot/internal/storage"
	"github.com/JinerixX/CriptaBot/internal/symbol"
)

// SeenStore implements storage.SeenStore using PostgreSQL.
//
// The UNIQUE(exchange, symbol, market) constraint on seen_listings is
// what closes the race between concurrent writers: MarkSeen relies on
// ON CONFLICT DO NOTHING, so the database, not application logic,
// decides which writer created the row.
type SeenStore struct {
	pool *Pool
}

// NewSeenStore creates a new SeenStore.
func NewSeenStore(pool *Pool) *SeenStore {
	return &SeenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SeenStore = (*SeenStore)(nil)

// normalizeKey applies canonical symbol normalization to the key.
func normalizeKey(key domain.ListingKey) domain.ListingKey {
	key.Symbol = symbol.Normalize(key.Symbol)
	return key
}

// IsSeen reports whether the exact key has been recorded.
func (s *SeenStore) IsSeen(ctx context.Context, key domain.ListingKey) (bool, error) {
	key = normalizeKey(key)
	if key.Symbol == "" {
		return false, storage.ErrInvalidInput
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM seen_listings
			WHERE exchange = $1 AND symbol = $2 AND market = $3
		)
	`

	var seen bool
	err := s.pool.QueryRow(ctx, query, key.Exchange, key.Symbol, string(key.Market)).Scan(&seen)
	if err != nil {
		return false, fmt.Errorf("query seen listing: %w", err)
	}
	return seen, nil
}

// MarkSeen records the key if absent and reports whether this call
// created the row. Duplicate-key races resolve inside the database.
func (s *SeenStore) MarkSeen(ctx context.Context, key domain.ListingKey, source domain.SourceKind) (bool, error) {
	key = normalizeKey(key)
	if key.Exchange == "" || key.Symbol == "" {
		return false, storage.ErrInvalidInput
	}

	query := `
		INSERT INTO seen_listings (exchange, symbol, market, source, first_seen_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (exchange, symbol, market) DO NOTHING
	`

	tag, err := s.pool.Exec(ctx, query,
		key.Exchange,
		key.Symbol,
		string(key.Market),
		string(source),
		time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("insert seen listing: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// HasAnyMarket reports whether the symbol exists under any market class
// for the exchange.
func (s *SeenStore) HasAnyMarket(ctx context.Context, exchange, sym string) (bool, error) {
	sym = symbol.Normalize(sym)
	if sym == "" {
		return false, storage.ErrInvalidInput
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM seen_listings
			WHERE exchange = $1 AND symbol = $2
		)
	`

	var exists bool
	err := s.pool.QueryRow(ctx, query, exchange, sym).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query symbol markets: %w", err)
	}
	return exists, nil
}

// IsEmpty reports whether zero rows exist.
func (s *SeenStore) IsEmpty(ctx context.Context) (bool, error) {
	var any bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM seen_listings)`).Scan(&any)
	if err != nil {
		return false, fmt.Errorf("query seen_listings emptiness: %w", err)
	}
	return !any, nil
}
