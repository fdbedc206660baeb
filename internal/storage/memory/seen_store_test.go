package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/JinerixX/CriptaBot/internal/domain"
	"github.com/JinerixX/CriptaBot/internal/storage"
)

func key(exchange, sym string, market domain.MarketClass) domain.ListingKey {
	return domain.ListingKey{Exchange: exchange, Symbol: sym, Market: market}
}

func TestSeenStore_MarkSeenTwice(t *testing.T) {
	store := NewSeenStore()
	ctx := context.Background()

	k := key("Binance", "BTCUSDT", domain.MarketSpot)

	inserted, err := store.MarkSeen(ctx, k, domain.SourceAPI)
	if err != nil {
		t.Fatalf("first MarkSeen failed: %v", err)
	}
	if !inserted {
		t.Error("first MarkSeen should report inserted=true")
	}

	inserted, err = store.MarkSeen(ctx, k, domain.SourceAPI)
	if err != nil {
		t.Fatalf("second MarkSeen failed: %v", err)
	}
	if inserted {
		t.Error("second MarkSeen should report inserted=false")
	}

	seen, err := store.IsSeen(ctx, k)
	if err != nil {
		t.Fatalf("IsSeen failed: %v", err)
	}
	if !seen {
		t.Error("key should be seen after MarkSeen")
	}
}

func TestSeenStore_NormalizesKeys(t *testing.T) {
	store := NewSeenStore()
	ctx := context.Background()

	inserted, err := store.MarkSeen(ctx, key("Binance", "btc/usdt", domain.MarketSpot), domain.SourceAPI)
	if err != nil || !inserted {
		t.Fatalf("MarkSeen = (%v, %v), want (true, nil)", inserted, err)
	}

	// Same listing under a differently-shaped raw symbol must collapse.
	inserted, err = store.MarkSeen(ctx, key("Binance", "BTC-USDT", domain.MarketSpot), domain.SourceAPI)
	if err != nil {
		t.Fatalf("MarkSeen failed: %v", err)
	}
	if inserted {
		t.Error("equivalent raw symbols must map to one row")
	}

	seen, err := store.IsSeen(ctx, key("Binance", "BTCUSDT", domain.MarketSpot))
	if err != nil || !seen {
		t.Errorf("IsSeen(canonical) = (%v, %v), want (true, nil)", seen, err)
	}
}

func TestSeenStore_InvalidSymbol(t *testing.T) {
	store := NewSeenStore()
	ctx := context.Background()

	_, err := store.MarkSeen(ctx, key("Binance", "-/-", domain.MarketSpot), domain.SourceAPI)
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	_, err = store.IsSeen(ctx, key("Binance", "", domain.MarketSpot))
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSeenStore_ConcurrentMarkSeen(t *testing.T) {
	store := NewSeenStore()
	ctx := context.Background()

	const callers = 32
	k := key("OKX", "ALTUSDT", domain.MarketUnknown)

	var wg sync.WaitGroup
	results := make(chan bool, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := store.MarkSeen(ctx, k, domain.SourceCMS)
			if err != nil {
				t.Errorf("MarkSeen failed: %v", err)
				return
			}
			results <- inserted
		}()
	}
	wg.Wait()
	close(results)

	var wins int
	for inserted := range results {
		if inserted {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("exactly one concurrent caller should win, got %d", wins)
	}
}

func TestSeenStore_HasAnyMarket(t *testing.T) {
	store := NewSeenStore()
	ctx := context.Background()

	if _, err := store.MarkSeen(ctx, key("Bybit", "ALT", domain.MarketSpot), domain.SourceAPI); err != nil {
		t.Fatalf("MarkSeen failed: %v", err)
	}

	got, err := store.HasAnyMarket(ctx, "Bybit", "ALT")
	if err != nil || !got {
		t.Errorf("HasAnyMarket(Bybit, ALT) = (%v, %v), want (true, nil)", got, err)
	}

	// Different market class, same symbol: still true.
	got, err = store.HasAnyMarket(ctx, "Bybit", "alt")
	if err != nil || !got {
		t.Errorf("HasAnyMarket with raw casing = (%v, %v), want (true, nil)", got, err)
	}

	// Same symbol on another exchange: distinct event space.
	got, err = store.HasAnyMarket(ctx, "OKX", "ALT")
	if err != nil || got {
		t.Errorf("HasAnyMarket(OKX, ALT) = (%v, %v), want (false, nil)", got, err)
	}
}

func TestSeenStore_IsEmpty(t *testing.T) {
	store := NewSeenStore()
	ctx := context.Background()

	empty, err := store.IsEmpty(ctx)
	if err != nil || !empty {
		t.Fatalf("IsEmpty on fresh store = (%v, %v), want (true, nil)", empty, err)
	}

	if _, err := store.MarkSeen(ctx, key("Binance", "BTCUSDT", domain.MarketSpot), domain.SourceAPI); err != nil {
		t.Fatalf("MarkSeen failed: %v", err)
	}

	empty, err = store.IsEmpty(ctx)
	if err != nil || empty {
		t.Errorf("IsEmpty after insert = (%v, %v), want (false, nil)", empty, err)
	}
}
