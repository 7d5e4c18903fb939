package memory

// Package memory provides a simple in-memory account store used by default and in tests.
import (
	"context"
	"sort"
	"sync"

	"github.com/tinoosan/minledger/internal/ledger"
)

// Store is an in-memory implementation of account.Store.
// It is guarded by an RWMutex for concurrent reads/writes.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]ledger.Account
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{accounts: make(map[string]ledger.Account)}
}

// SeedAccount stores a for local dev/tests.
func (s *Store) SeedAccount(a ledger.Account) { s.mu.Lock(); s.accounts[a.ID()] = a; s.mu.Unlock() }

// Reset drops every account.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	s.accounts = map[string]ledger.Account{}
	s.mu.Unlock()
	return nil
}

// Get implements account.Store. A missing id is reported with found == false.
func (s *Store) Get(_ context.Context, id string) (ledger.Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	return a, ok, nil
}

// Save implements account.Store; it upserts by id.
func (s *Store) Save(_ context.Context, a ledger.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Account is a value type, so the stored copy is detached from the caller's.
	s.accounts[a.ID()] = a
	return nil
}

// Accounts returns a snapshot of all accounts ordered by id.
func (s *Store) Accounts() []ledger.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
