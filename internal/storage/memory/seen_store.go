package memory

import (
	"context"
	"sync"
	"time"

	"github.com/JinerixX/CriptaBot/internal/domain"
	"github.com/JinerixX/CriptaBot/internal/storage"
	"github.com/JinerixX/CriptaBot/internal/symbol"
)

// SeenStore is an in-memory implementation of storage.SeenStore.
// Not durable across restarts; intended for tests and dry runs.
type SeenStore struct {
	mu   sync.RWMutex
	data map[domain.ListingKey]*domain.SeenListing
}

// NewSeenStore creates a new in-memory seen store.
func NewSeenStore() *SeenStore {
	return &SeenStore{
		data: make(map[domain.ListingKey]*domain.SeenListing),
	}
}

// normalizeKey applies canonical symbol normalization to the key.
func normalizeKey(key domain.ListingKey) domain.ListingKey {
	key.Symbol = symbol.Normalize(key.Symbol)
	return key
}

// IsSeen reports whether the exact key has been recorded.
func (s *SeenStore) IsSeen(_ context.Context, key domain.ListingKey) (bool, error) {
	key = normalizeKey(key)
	if key.Symbol == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.data[key]
	return exists, nil
}

// MarkSeen records the key if absent and reports whether this call
// created the row.
func (s *SeenStore) MarkSeen(_ context.Context, key domain.ListingKey, source domain.SourceKind) (bool, error) {
	key = normalizeKey(key)
	if key.Exchange == "" || key.Symbol == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return false, nil
	}

	s.data[key] = &domain.SeenListing{
		Exchange:    key.Exchange,
		Symbol:      key.Symbol,
		Market:      key.Market,
		Source:      source,
		FirstSeenAt: time.Now().UTC(),
	}
	return true, nil
}

// HasAnyMarket reports whether the symbol exists under any market class
// for the exchange.
func (s *SeenStore) HasAnyMarket(_ context.Context, exchange, sym string) (bool, error) {
	sym = symbol.Normalize(sym)
	if sym == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for key := range s.data {
		if key.Exchange == exchange && key.Symbol == sym {
			return true, nil
		}
	}
	return false, nil
}

// IsEmpty reports whether zero rows exist.
func (s *SeenStore) IsEmpty(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data) == 0, nil
}

// Verify interface compliance at compile time.
var _ storage.SeenStore = (*SeenStore)(nil)
