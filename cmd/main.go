package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/google/uuid"

	"github.com/tinoosan/minledger/internal/config"
	"github.com/tinoosan/minledger/internal/httpapi"
	"github.com/tinoosan/minledger/internal/ledger"
	"github.com/tinoosan/minledger/internal/storage/breaker"
	"github.com/tinoosan/minledger/internal/storage/memory"
	pgstore "github.com/tinoosan/minledger/internal/storage/postgres"
	redisstore "github.com/tinoosan/minledger/internal/storage/redis"
)

func main() {
	configPath := flag.String("config", os.Getenv("LEDGER_CONFIG"), "path to a YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Logger (slog to stdout). Level and format come from config/env.
	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	store, closeFn, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "backend", cfg.Storage.Backend, "err", err)
		os.Exit(1)
	}
	logger.Info("storage backend: "+cfg.Storage.Backend, "currency", cfg.Currency)

	seeded, err := seedAccounts(ctx, store, cfg)
	if err != nil {
		logger.Error("seed failed", "err", err)
	} else if len(seeded) > 0 {
		logSeed(logger, cfg.Storage.Backend, seeded)
		if cfg.DevSeed {
			printDevSeedBanner(seeded)
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.New(store, cfg.Currency, logger).Handler(),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("ledger service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// openStore builds the configured backend. Remote backends are wrapped in a
// circuit breaker when enabled.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (httpapi.Store, func(), error) {
	var (
		inner   breaker.Inner
		closeFn func()
	)
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pg, err := pgstore.Open(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		inner, closeFn = pg, pg.Close
	case config.BackendRedis:
		rs, err := redisstore.Open(ctx, cfg.Storage.RedisURL, cfg.Storage.RedisKeyPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		inner = rs
		closeFn = func() {
			if err := rs.Close(); err != nil {
				logger.Error("redis close", "err", err)
			}
		}
	default:
		return memory.New(), nil, nil
	}

	if !cfg.Breaker.Enabled {
		return inner, closeFn, nil
	}
	b := cfg.Breaker
	return breaker.Wrap(inner, breaker.Settings{
		Name:                cfg.Storage.Backend,
		MaxRequests:         b.MaxRequests,
		Interval:            b.Interval,
		Timeout:             b.Timeout,
		ConsecutiveFailures: b.ConsecutiveFailures,
	}, logger), closeFn, nil
}

// seedAccounts creates the configured opening balances, plus a small demo set when DEV_SEED is on.
func seedAccounts(ctx context.Context, store httpapi.Store, cfg config.Config) ([]ledger.Account, error) {
	accs := make([]ledger.Account, 0, len(cfg.SeedAccounts)+2)
	ids := make([]string, 0, len(cfg.SeedAccounts))
	for id := range cfg.SeedAccounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		acc, err := ledger.Restore(id, cfg.SeedAccounts[id])
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", id, err)
		}
		accs = append(accs, acc)
	}
	if cfg.DevSeed {
		accs = append(accs,
			ledger.NewAccount(uuid.NewString(), 10000),
			ledger.NewAccount(uuid.NewString(), 0),
		)
	}
	for _, a := range accs {
		if err := store.Save(ctx, a); err != nil {
			return nil, fmt.Errorf("seed %s: %w", a.ID(), err)
		}
	}
	return accs, nil
}

// logSeed emits structured logs with the seeded ids and balances
func logSeed(l *slog.Logger, backend string, accs []ledger.Account) {
	balances := make(map[string]int64, len(accs))
	for _, a := range accs {
		balances[a.ID()] = a.Balance()
	}
	l.Info("seeded accounts ("+backend+")", "accounts", balances)
}

// printDevSeedBanner prints a simple banner to stdout for easy copy/paste of IDs
func printDevSeedBanner(accs []ledger.Account) {
	fmt.Println("==================== DEV SEED ====================")
	for _, a := range accs {
		fmt.Printf("account_id: %s balance: %d\n", a.ID(), a.Balance())
	}
	fmt.Println("==================================================")
}
