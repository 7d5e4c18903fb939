package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tinoosan/minledger/internal/ledger"
)

// DefaultKeyPrefix namespaces account keys: <prefix><account id> -> balance.
const DefaultKeyPrefix = "ledger:account:"

const scanBatch = 256

// Store is a Redis-backed account.Store. Each account is a single string key
// holding the balance, so Save is a plain SET (last write wins).
type Store struct {
	client *redis.Client
	prefix string
}

// Open parses url, connects and pings the server.
func Open(ctx context.Context, url, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return New(client, prefix), nil
}

// New wraps an existing client. An empty prefix selects DefaultKeyPrefix.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(id string) string { return s.prefix + id }

// Get returns the account stored under id; redis.Nil maps to found == false.
func (s *Store) Get(ctx context.Context, id string) (ledger.Account, bool, error) {
	balance, err := s.client.Get(ctx, s.key(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return ledger.Account{}, false, nil
	}
	if err != nil {
		return ledger.Account{}, false, fmt.Errorf("redis get: %w", err)
	}
	acc, err := ledger.Restore(id, balance)
	if err != nil {
		return ledger.Account{}, false, fmt.Errorf("redis account %q: %v", id, err)
	}
	return acc, true, nil
}

// Save writes the balance without expiry.
func (s *Store) Save(ctx context.Context, a ledger.Account) error {
	if err := s.client.Set(ctx, s.key(a.ID()), a.Balance(), 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Reset deletes every key under the prefix using SCAN so the server is never blocked.
func (s *Store) Reset(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Ready checks if the Redis connection is healthy.
func (s *Store) Ready(ctx context.Context) error { return s.client.Ping(ctx).Err() }

// Close closes the Redis connection.
func (s *Store) Close() error { return s.client.Close() }
