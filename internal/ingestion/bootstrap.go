package ingestion

import (
	"context"
	"log"
	"time"

	"github.com/JinerixX/CriptaBot/internal/domain"
	"github.com/JinerixX/CriptaBot/internal/source"
	"github.com/JinerixX/CriptaBot/internal/storage"
	"github.com/JinerixX/CriptaBot/internal/symbol"
)

// Bootstrap is the cold-start seeding procedure. On an empty store it
// records everything the sources currently report without emitting a
// single notification, so the first real poll cycles only see genuinely
// new listings. It runs at most once per database lifetime; the caller
// gates it on SeenStore.IsEmpty.
type Bootstrap struct {
	sources []source.Source
	store   storage.SeenStore
	logger  *log.Logger
	now     func() time.Time
}

// BootstrapOptions contains configuration for creating a Bootstrap.
type BootstrapOptions struct {
	Sources []source.Source
	Store   storage.SeenStore
	Logger  *log.Logger
	Now     func() time.Time // defaults to time.Now; injectable for tests
}

// NewBootstrap creates a bootstrap coordinator over the given sources.
func NewBootstrap(opts BootstrapOptions) *Bootstrap {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Bootstrap{
		sources: opts.Sources,
		store:   opts.Store,
		logger:  logger,
		now:     now,
	}
}

// Run seeds the store from current source state. A failing adapter is
// logged and skipped: partial baseline coverage beats crash-looping on
// startup. Only context cancellation aborts the procedure.
func (b *Bootstrap) Run(ctx context.Context) error {
	b.logger.Println("Bootstrap: storing current REST pairs...")
	for _, src := range b.sources {
		if src.Kind() != domain.SourceAPI {
			continue
		}
		if err := b.seedAPI(ctx, src); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Printf("Bootstrap: %s api source failed: %v", src.Exchange(), err)
		}
	}

	b.logger.Println("Bootstrap: registering current announcements...")
	for _, src := range b.sources {
		if src.Kind() != domain.SourceCMS {
			continue
		}
		if err := b.seedCMS(ctx, src); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Printf("Bootstrap: %s cms source failed: %v", src.Exchange(), err)
		}
	}

	b.logger.Println("Bootstrap finished")
	return nil
}

// seedAPI records every currently tradable pair as the known baseline.
func (b *Bootstrap) seedAPI(ctx context.Context, src source.Source) error {
	records, err := src.Fetch(ctx)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if symbol.IsDated(rec.RawSymbol) {
			continue
		}
		sym := symbol.Normalize(rec.RawSymbol)
		if sym == "" {
			continue
		}
		key := domain.ListingKey{Exchange: rec.Exchange, Symbol: sym, Market: rec.MarketClass}
		if _, err := b.store.MarkSeen(ctx, key, domain.SourceAPI); err != nil {
			return err
		}
	}
	return nil
}

// seedCMS registers pending announcements silently. Announcements whose
// effective time already passed are discarded, and symbols that already
// trade under any market class are left to the API baseline.
func (b *Bootstrap) seedCMS(ctx context.Context, src source.Source) error {
	records, err := src.Fetch(ctx)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if rec.EffectiveAt != nil && !rec.EffectiveAt.After(b.now()) {
			continue
		}
		sym := symbol.Normalize(rec.RawSymbol)
		if sym == "" {
			continue
		}

		trades, err := b.store.HasAnyMarket(ctx, rec.Exchange, sym)
		if err != nil {
			return err
		}
		if trades {
			continue
		}

		key := domain.ListingKey{Exchange: rec.Exchange, Symbol: sym, Market: domain.MarketUnknown}
		if _, err := b.store.MarkSeen(ctx, key, domain.SourceCMS); err != nil {
			return err
		}
	}
	return nil
}
