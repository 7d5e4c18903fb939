package postgres

// Package postgres provides a pgx-backed account store that satisfies account.Store.
//
// The expected schema lives under db/migrations. This package only maps between
// ledger.Account and the accounts table.

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tinoosan/minledger/internal/ledger"
)

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// Get fetches an account by id. A missing row is reported with found == false.
func (s *Store) Get(ctx context.Context, id string) (ledger.Account, bool, error) {
	var balance int64
	err := s.pool.QueryRow(ctx, `select balance from accounts where id = $1`, id).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Account{}, false, nil
	}
	if err != nil {
		return ledger.Account{}, false, fmt.Errorf("select account: %w", err)
	}
	acc, err := ledger.Restore(id, balance)
	if err != nil {
		return ledger.Account{}, false, fmt.Errorf("postgres account %q: %v", id, err)
	}
	return acc, true, nil
}

// Save upserts the account row.
func (s *Store) Save(ctx context.Context, a ledger.Account) error {
	_, err := s.pool.Exec(ctx, `
        insert into accounts (id, balance, updated_at)
        values ($1, $2, now())
        on conflict (id) do update set balance = excluded.balance, updated_at = now()
    `, a.ID(), a.Balance())
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

// Reset empties the accounts table.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `truncate table accounts`); err != nil {
		return fmt.Errorf("truncate accounts: %w", err)
	}
	return nil
}
