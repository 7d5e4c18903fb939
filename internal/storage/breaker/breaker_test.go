package breaker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/minledger/internal/ledger"
	"github.com/tinoosan/minledger/internal/storage/memory"
)

var errBackend = errors.New("backend down")

// flakyStore delegates to memory until fail is set.
type flakyStore struct {
	*memory.Store
	fail  atomic.Bool
	calls atomic.Int32
}

func (f *flakyStore) Get(ctx context.Context, id string) (ledger.Account, bool, error) {
	f.calls.Add(1)
	if f.fail.Load() {
		return ledger.Account{}, false, errBackend
	}
	return f.Store.Get(ctx, id)
}

func (f *flakyStore) Save(ctx context.Context, a ledger.Account) error {
	f.calls.Add(1)
	if f.fail.Load() {
		return errBackend
	}
	return f.Store.Save(ctx, a)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStore_PassThroughWhenHealthy(t *testing.T) {
	inner := &flakyStore{Store: memory.New()}
	s := Wrap(inner, Settings{Name: "pass", Timeout: time.Minute, ConsecutiveFailures: 2}, testLogger())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, ledger.NewAccount("100", 10)))
	acc, found, err := s.Get(ctx, "100")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(10), acc.Balance())

	// absence is not a failure
	for i := 0; i < 5; i++ {
		_, found, err = s.Get(ctx, "missing")
		require.NoError(t, err)
		require.False(t, found)
	}
	assert.Equal(t, gobreaker.StateClosed, s.State())
	require.NoError(t, s.Ready(ctx))
}

func TestStore_TripsAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyStore{Store: memory.New()}
	inner.fail.Store(true)
	s := Wrap(inner, Settings{Name: "trip", Timeout: time.Minute, ConsecutiveFailures: 3}, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := s.Get(ctx, "100")
		require.ErrorIs(t, err, errBackend)
	}
	assert.Equal(t, gobreaker.StateOpen, s.State())

	before := inner.calls.Load()
	err := s.Save(ctx, ledger.NewAccount("100", 1))
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, before, inner.calls.Load(), "open breaker must not reach the backend")

	require.ErrorIs(t, s.Ready(ctx), ErrUnavailable)

	// reset still reaches the backend
	require.NoError(t, s.Reset(ctx))
}

// ctxStore fails with the caller's context error, like a driver aborting a query.
type ctxStore struct {
	*memory.Store
}

func (c ctxStore) Get(ctx context.Context, id string) (ledger.Account, bool, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Account{}, false, err
	}
	return c.Store.Get(ctx, id)
}

func TestStore_CallerCancellationDoesNotTrip(t *testing.T) {
	inner := ctxStore{Store: memory.New()}
	require.NoError(t, inner.Save(context.Background(), ledger.NewAccount("100", 10)))
	s := Wrap(inner, Settings{Name: "cancel", Timeout: time.Minute, ConsecutiveFailures: 3}, testLogger())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()

	for i := 0; i < 5; i++ {
		_, _, err := s.Get(cancelled, "100")
		require.ErrorIs(t, err, context.Canceled)
		_, _, err = s.Get(expired, "100")
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}
	assert.Equal(t, gobreaker.StateClosed, s.State())

	acc, found, err := s.Get(context.Background(), "100")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(10), acc.Balance())
}

// A sibling read cancelled after a real fault must not count as a second fault.
func TestStore_SiblingCancellationIsNotAFailure(t *testing.T) {
	inner := &flakyStore{Store: memory.New()}
	inner.fail.Store(true)
	s := Wrap(ctxGuard{inner}, Settings{Name: "mixed", Timeout: time.Minute, ConsecutiveFailures: 2}, testLogger())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.Get(context.Background(), "100")
	require.ErrorIs(t, err, errBackend)
	_, _, err = s.Get(cancelled, "100")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, gobreaker.StateClosed, s.State(), "one backend fault plus a cancellation must not trip a threshold of 2")
}

// ctxGuard checks the context before delegating to the flaky store.
type ctxGuard struct {
	*flakyStore
}

func (c ctxGuard) Get(ctx context.Context, id string) (ledger.Account, bool, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Account{}, false, err
	}
	return c.flakyStore.Get(ctx, id)
}
