package discovery

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JinerixX/CriptaBot/internal/domain"
	"github.com/JinerixX/CriptaBot/internal/storage/memory"
)

// recordingSink captures notifications; optionally fails every send.
type recordingSink struct {
	mu       sync.Mutex
	messages []string
	fail     bool
}

func (s *recordingSink) Notify(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink unavailable")
	}
	s.messages = append(s.messages, text)
	return nil
}

func (s *recordingSink) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func newEvaluator(t *testing.T, sink *recordingSink, now time.Time) (*Evaluator, *memory.SeenStore) {
	t.Helper()
	store := memory.NewSeenStore()
	ev := NewEvaluator(EvaluatorOptions{
		Store:  store,
		Sink:   sink,
		Logger: log.New(os.Stderr, "[test] ", log.LstdFlags),
		Now:    func() time.Time { return now },
	})
	return ev, store
}

func TestEvaluator_APINewPair(t *testing.T) {
	sink := &recordingSink{}
	ev, store := newEvaluator(t, sink, time.Now())
	ctx := context.Background()

	rec := domain.CandidateRecord{
		Exchange:    "Binance",
		RawSymbol:   "eth-usdt",
		MarketClass: domain.MarketSpot,
		SourceKind:  domain.SourceAPI,
	}

	detected, err := ev.Evaluate(ctx, rec)
	require.NoError(t, err)
	assert.True(t, detected)

	msgs := sink.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "ETHUSDT")
	assert.Contains(t, msgs[0], "Binance")

	seen, err := store.IsSeen(ctx, domain.ListingKey{Exchange: "Binance", Symbol: "ETHUSDT", Market: domain.MarketSpot})
	require.NoError(t, err)
	assert.True(t, seen)

	// Same record again: no new detection, no second message.
	detected, err = ev.Evaluate(ctx, rec)
	require.NoError(t, err)
	assert.False(t, detected)
	assert.Len(t, sink.Messages(), 1)
}

func TestEvaluator_APIDatedContractIgnored(t *testing.T) {
	sink := &recordingSink{}
	ev, store := newEvaluator(t, sink, time.Now())
	ctx := context.Background()

	detected, err := ev.Evaluate(ctx, domain.CandidateRecord{
		Exchange:    "Binance",
		RawSymbol:   "BTCUSD250613",
		MarketClass: domain.MarketPerp,
		SourceKind:  domain.SourceAPI,
	})
	require.NoError(t, err)
	assert.False(t, detected)
	assert.Empty(t, sink.Messages())

	empty, err := store.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty, "dated contracts are never stored")
}

func TestEvaluator_APINormalizationRejection(t *testing.T) {
	sink := &recordingSink{}
	ev, _ := newEvaluator(t, sink, time.Now())

	detected, err := ev.Evaluate(context.Background(), domain.CandidateRecord{
		Exchange:    "Binance",
		RawSymbol:   "-/-",
		MarketClass: domain.MarketSpot,
		SourceKind:  domain.SourceAPI,
	})
	require.NoError(t, err, "unparseable symbols are dropped, not errors")
	assert.False(t, detected)
	assert.Empty(t, sink.Messages())
}

func TestEvaluator_CMSFutureListing(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	effective := now.Add(time.Hour)

	sink := &recordingSink{}
	ev, store := newEvaluator(t, sink, now)
	ctx := context.Background()

	detected, err := ev.Evaluate(ctx, domain.CandidateRecord{
		Exchange:    "OKX",
		RawSymbol:   "ALT",
		MarketClass: domain.MarketUnknown,
		SourceKind:  domain.SourceCMS,
		EffectiveAt: &effective,
		DetailsURL:  "https://www.okx.com/help/listing-alt",
	})
	require.NoError(t, err)
	assert.True(t, detected)

	msgs := sink.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "ALT")
	assert.Contains(t, msgs[0], "https://www.okx.com/help/listing-alt")
	assert.Contains(t, msgs[0], "01 Jun 2025 13:00 UTC")

	seen, err := store.IsSeen(ctx, domain.ListingKey{Exchange: "OKX", Symbol: "ALT", Market: domain.MarketUnknown})
	require.NoError(t, err)
	assert.True(t, seen, "planned listings are stored under the unknown market class")
}

func TestEvaluator_CMSStaleAnnouncementDiscarded(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	sink := &recordingSink{}
	ev, store := newEvaluator(t, sink, now)
	ctx := context.Background()

	detected, err := ev.Evaluate(ctx, domain.CandidateRecord{
		Exchange:    "Bybit",
		RawSymbol:   "OLD",
		SourceKind:  domain.SourceCMS,
		EffectiveAt: &past,
	})
	require.NoError(t, err)
	assert.False(t, detected)
	assert.Empty(t, sink.Messages())

	empty, err := store.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty, "stale announcements are never stored")
}

func TestEvaluator_CMSSuppressedWhenSymbolTrades(t *testing.T) {
	sink := &recordingSink{}
	ev, store := newEvaluator(t, sink, time.Now())
	ctx := context.Background()

	// API detection already covered the symbol under spot.
	_, err := store.MarkSeen(ctx,
		domain.ListingKey{Exchange: "Binance", Symbol: "ALTUSDT", Market: domain.MarketSpot},
		domain.SourceAPI)
	require.NoError(t, err)

	detected, err := ev.Evaluate(ctx, domain.CandidateRecord{
		Exchange:   "Binance",
		RawSymbol:  "ALTUSDT",
		SourceKind: domain.SourceCMS,
	})
	require.NoError(t, err)
	assert.False(t, detected, "a symbol that already trades is not re-announced")
	assert.Empty(t, sink.Messages())
}

func TestEvaluator_NotifyFailureKeepsMark(t *testing.T) {
	sink := &recordingSink{fail: true}
	ev, store := newEvaluator(t, sink, time.Now())
	ctx := context.Background()

	rec := domain.CandidateRecord{
		Exchange:    "Binance",
		RawSymbol:   "NEWUSDT",
		MarketClass: domain.MarketSpot,
		SourceKind:  domain.SourceAPI,
	}

	detected, err := ev.Evaluate(ctx, rec)
	require.NoError(t, err, "delivery failure is not an evaluation error")
	assert.True(t, detected)

	seen, err := store.IsSeen(ctx, domain.ListingKey{Exchange: "Binance", Symbol: "NEWUSDT", Market: domain.MarketSpot})
	require.NoError(t, err)
	assert.True(t, seen, "the listing stays marked even when the send fails")

	// Recovery of the sink must not resend: the key is already seen.
	sink.fail = false
	detected, err = ev.Evaluate(ctx, rec)
	require.NoError(t, err)
	assert.False(t, detected)
	assert.Empty(t, sink.Messages())
}
