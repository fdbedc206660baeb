// Package ingestion orchestrates the watcher: the one-time bootstrap
// seeding and the per-source poll loops that feed candidate records
// into the discovery evaluator.
package ingestion

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/JinerixX/CriptaBot/internal/discovery"
	"github.com/JinerixX/CriptaBot/internal/domain"
	"github.com/JinerixX/CriptaBot/internal/observability"
	"github.com/JinerixX/CriptaBot/internal/source"
)

// Default poll cadences, overridable per source kind via RunnerOptions.
const (
	DefaultAPIInterval = 60 * time.Second
	DefaultCMSInterval = 90 * time.Second
)

// Runner drives one independent, indefinitely-repeating poll task per
// source. Tasks share nothing but the seen-listings store behind the
// evaluator; a failing source is logged and retried on its next tick
// and never affects the other tasks.
type Runner struct {
	sources     []source.Source
	evaluator   *discovery.Evaluator
	apiInterval time.Duration
	cmsInterval time.Duration
	logger      *log.Logger
	metrics     *observability.Metrics
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Sources     []source.Source
	Evaluator   *discovery.Evaluator
	APIInterval time.Duration
	CMSInterval time.Duration
	Logger      *log.Logger
	Metrics     *observability.Metrics // optional
}

// NewRunner creates a poll scheduler over the given sources.
func NewRunner(opts RunnerOptions) *Runner {
	apiInterval := opts.APIInterval
	if apiInterval == 0 {
		apiInterval = DefaultAPIInterval
	}
	cmsInterval := opts.CMSInterval
	if cmsInterval == 0 {
		cmsInterval = DefaultCMSInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Runner{
		sources:     opts.Sources,
		evaluator:   opts.Evaluator,
		apiInterval: apiInterval,
		cmsInterval: cmsInterval,
		logger:      logger,
		metrics:     opts.Metrics,
	}
}

// Run starts one goroutine per source and blocks until the context is
// cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Printf("Runner started: %d sources, api interval %v, cms interval %v",
		len(r.sources), r.apiInterval, r.cmsInterval)

	var wg sync.WaitGroup
	for _, src := range r.sources {
		wg.Add(1)
		go func(src source.Source) {
			defer wg.Done()
			r.runSource(ctx, src)
		}(src)
	}
	wg.Wait()

	r.logger.Println("Runner stopped")
	return ctx.Err()
}

// interval returns the cadence for a source's kind.
func (r *Runner) interval(src source.Source) time.Duration {
	if src.Kind() == domain.SourceCMS {
		return r.cmsInterval
	}
	return r.apiInterval
}

// runSource is one source's poll loop: cycle immediately, then sleep
// the configured interval between cycles until shutdown. A cycle's
// evaluation completes, notification sends included, before the next
// sleep begins.
func (r *Runner) runSource(ctx context.Context, src source.Source) {
	ticker := time.NewTicker(r.interval(src))
	defer ticker.Stop()

	for {
		r.cycle(ctx, src)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// cycle performs one poll of the source and evaluates every record in
// the order the adapter yielded it. All failures are contained here:
// they are logged, counted, and the task simply waits for its next tick.
func (r *Runner) cycle(ctx context.Context, src source.Source) {
	exchange, kind := src.Exchange(), src.Kind().String()

	records, err := src.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Printf("%s %s poll failed: %v", exchange, kind, err)
		if r.metrics != nil {
			r.metrics.PollErrors.WithLabelValues(exchange, kind).Inc()
		}
		return
	}

	for _, rec := range records {
		if ctx.Err() != nil {
			return
		}

		detected, err := r.evaluator.Evaluate(ctx, rec)
		if err != nil {
			r.logger.Printf("%s %s evaluation failed for %q: %v", exchange, kind, rec.RawSymbol, err)
			continue
		}
		if r.metrics != nil {
			r.metrics.RecordsEvaluated.WithLabelValues(exchange, kind).Inc()
			if detected {
				r.metrics.ListingsDetected.WithLabelValues(exchange, kind).Inc()
			}
		}
		if detected {
			r.logger.Printf("%s %s new listing: %s", exchange, kind, rec.RawSymbol)
		}
	}

	if r.metrics != nil {
		r.metrics.PollCycles.WithLabelValues(exchange, kind).Inc()
		r.metrics.LastSuccessfulPoll.WithLabelValues(exchange, kind).SetToCurrentTime()
	}
}
