// Package discovery decides whether a candidate record is a new listing
// and reports it. The decision is backed entirely by the seen-listings
// store; the evaluator holds no state of its own, so any number of poll
// tasks can share one evaluator concurrently.
package discovery

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/JinerixX/CriptaBot/internal/domain"
	"github.com/JinerixX/CriptaBot/internal/notify"
	"github.com/JinerixX/CriptaBot/internal/observability"
	"github.com/JinerixX/CriptaBot/internal/storage"
	"github.com/JinerixX/CriptaBot/internal/symbol"
)

// Evaluator applies the per-record detection policy: normalize, check
// the store, mark, notify. Marking always precedes notification so a
// crash between the two costs at worst a missed message, never a
// duplicate one after restart.
type Evaluator struct {
	store   storage.SeenStore
	sink    notify.Sink
	logger  *log.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// EvaluatorOptions contains configuration for creating an Evaluator.
type EvaluatorOptions struct {
	Store   storage.SeenStore
	Sink    notify.Sink
	Logger  *log.Logger
	Metrics *observability.Metrics // optional
	Now     func() time.Time       // defaults to time.Now; injectable for tests
}

// NewEvaluator creates an evaluator over the given store and sink.
func NewEvaluator(opts EvaluatorOptions) *Evaluator {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Evaluator{
		store:   opts.Store,
		sink:    opts.Sink,
		logger:  logger,
		metrics: opts.Metrics,
		now:     now,
	}
}

// Evaluate processes one candidate record and reports whether it was
// recorded as a new listing. Records that fail normalization or match a
// dated-contract pattern are dropped silently; they are expected source
// noise, not errors.
func (e *Evaluator) Evaluate(ctx context.Context, rec domain.CandidateRecord) (bool, error) {
	switch rec.SourceKind {
	case domain.SourceAPI:
		return e.evaluateAPI(ctx, rec)
	case domain.SourceCMS:
		return e.evaluateCMS(ctx, rec)
	default:
		return false, fmt.Errorf("record for %s has unknown source kind %q", rec.Exchange, rec.SourceKind)
	}
}

func (e *Evaluator) evaluateAPI(ctx context.Context, rec domain.CandidateRecord) (bool, error) {
	// Expiring contracts are not listings of interest.
	if symbol.IsDated(rec.RawSymbol) {
		return false, nil
	}
	sym := symbol.Normalize(rec.RawSymbol)
	if sym == "" {
		return false, nil
	}

	key := domain.ListingKey{Exchange: rec.Exchange, Symbol: sym, Market: rec.MarketClass}

	seen, err := e.store.IsSeen(ctx, key)
	if err != nil {
		return false, fmt.Errorf("lookup %s %s: %w", rec.Exchange, sym, err)
	}
	if seen {
		return false, nil
	}

	inserted, err := e.store.MarkSeen(ctx, key, domain.SourceAPI)
	if err != nil {
		return false, fmt.Errorf("mark %s %s: %w", rec.Exchange, sym, err)
	}
	if !inserted {
		// A concurrent task recorded it between lookup and insert.
		return false, nil
	}

	e.send(ctx, fmt.Sprintf("⚡️ <b>%s</b> added pair <code>%s</code> (%s)",
		rec.Exchange, sym, rec.MarketClass))
	return true, nil
}

func (e *Evaluator) evaluateCMS(ctx context.Context, rec domain.CandidateRecord) (bool, error) {
	// An effective time that is not in the future is a stale
	// announcement: the listing already happened.
	if rec.EffectiveAt != nil && !rec.EffectiveAt.After(e.now()) {
		return false, nil
	}
	sym := symbol.Normalize(rec.RawSymbol)
	if sym == "" {
		return false, nil
	}

	key := domain.ListingKey{Exchange: rec.Exchange, Symbol: sym, Market: domain.MarketUnknown}

	seen, err := e.store.IsSeen(ctx, key)
	if err != nil {
		return false, fmt.Errorf("lookup %s %s: %w", rec.Exchange, sym, err)
	}
	if seen {
		return false, nil
	}

	// A symbol that already trades under any market class was covered
	// by API detection; announcing it again would be a duplicate.
	trades, err := e.store.HasAnyMarket(ctx, rec.Exchange, sym)
	if err != nil {
		return false, fmt.Errorf("market lookup %s %s: %w", rec.Exchange, sym, err)
	}
	if trades {
		return false, nil
	}

	inserted, err := e.store.MarkSeen(ctx, key, domain.SourceCMS)
	if err != nil {
		return false, fmt.Errorf("mark %s %s: %w", rec.Exchange, sym, err)
	}
	if !inserted {
		return false, nil
	}

	msg := fmt.Sprintf("📰 <b>%s</b> announced listing <code>%s</code>", rec.Exchange, sym)
	if rec.EffectiveAt != nil {
		msg += fmt.Sprintf("\nEffective: %s", rec.EffectiveAt.UTC().Format("02 Jan 2006 15:04 UTC"))
	}
	if rec.DetailsURL != "" {
		msg += "\n" + rec.DetailsURL
	}
	e.send(ctx, msg)
	return true, nil
}

// send delivers the message. Delivery failure is logged and swallowed:
// the listing stays marked, so it is never re-announced.
func (e *Evaluator) send(ctx context.Context, text string) {
	if err := e.sink.Notify(ctx, text); err != nil {
		e.logger.Printf("notification delivery failed: %v", err)
		if e.metrics != nil {
			e.metrics.NotifyFailures.Inc()
		}
	}
}
