package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JinerixX/CriptaBot/internal/config"
	"github.com/JinerixX/CriptaBot/internal/discovery"
	"github.com/JinerixX/CriptaBot/internal/ingestion"
	"github.com/JinerixX/CriptaBot/internal/notify"
	"github.com/JinerixX/CriptaBot/internal/observability"
	"github.com/JinerixX/CriptaBot/internal/source"
	"github.com/JinerixX/CriptaBot/internal/storage"
	"github.com/JinerixX/CriptaBot/internal/storage/memory"
	"github.com/JinerixX/CriptaBot/internal/storage/migrations"
	pgstore "github.com/JinerixX/CriptaBot/internal/storage/postgres"
)

func main() {
	// Parse flags
	envFile := flag.String("env-file", "", "Path to a .env file to load before reading the environment")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides POSTGRES_DSN)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (overrides METRICS_ADDR, empty to disable)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[watcher] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.FromEnv(*envFile)
	if err != nil {
		logger.Fatalf("Configuration error: %v", err)
	}
	if *postgresDSN != "" {
		cfg.PostgresDSN = *postgresDSN
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	metrics := observability.NewMetrics("")

	// Start metrics server if enabled
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	logger.Printf("Watching exchanges: %v", cfg.Exchanges)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel to signal main goroutine completion
	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err = run(ctx, logger, cfg, metrics, *useMemory)

	// Signal completion to shutdown handler
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// run wires the store, sources, evaluator, and poll scheduler, seeds the
// baseline when the store is empty, and blocks polling until shutdown.
func run(ctx context.Context, logger *log.Logger, cfg *config.Config, metrics *observability.Metrics, useMemory bool) error {
	// Require a DSN unless --use-memory is explicitly set
	if !useMemory && cfg.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required (use --use-memory for in-memory storage)")
	}

	var store storage.SeenStore = memory.NewSeenStore()
	if !useMemory {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		store = pgstore.NewSeenStore(pool)
	}

	sources, err := source.Build(cfg.Exchanges, source.NewHTTPClient())
	if err != nil {
		return err
	}

	// First run against an empty store seeds the baseline silently.
	empty, err := store.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("check store state: %w", err)
	}
	if empty {
		bootstrap := ingestion.NewBootstrap(ingestion.BootstrapOptions{
			Sources: sources,
			Store:   store,
			Logger:  logger,
		})
		if err := bootstrap.Run(ctx); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	} else {
		logger.Println("Store already seeded, skipping bootstrap")
	}

	sink := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	evaluator := discovery.NewEvaluator(discovery.EvaluatorOptions{
		Store:   store,
		Sink:    sink,
		Logger:  logger,
		Metrics: metrics,
	})

	runner := ingestion.NewRunner(ingestion.RunnerOptions{
		Sources:     sources,
		Evaluator:   evaluator,
		APIInterval: cfg.APIInterval,
		CMSInterval: cfg.CMSInterval,
		Logger:      logger,
		Metrics:     metrics,
	})
	return runner.Run(ctx)
}
