// Package breaker wraps a remote account store with a circuit breaker so a failing
// backend is reported fast instead of stalling every request.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"

	"github.com/tinoosan/minledger/internal/ledger"
	"github.com/tinoosan/minledger/internal/service/account"
)

// ErrUnavailable is returned while the breaker rejects calls.
var ErrUnavailable = errors.New("store unavailable")

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "ledger",
		Name:      "store_breaker_state",
		Help:      "Circuit breaker state per store (0=closed, 1=half-open, 2=open)",
	},
	[]string{"store"},
)

// Inner is the store being protected.
type Inner interface {
	account.Store
	Reset(ctx context.Context) error
}

// Settings configures the breaker.
type Settings struct {
	Name string
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval is the cyclic period of the closed state for clearing counts; 0 never clears.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
}

// Store is an account.Store guarded by a gobreaker.CircuitBreaker.
type Store struct {
	inner Inner
	cb    *gobreaker.CircuitBreaker
}

// Wrap returns inner guarded by a breaker built from s.
func Wrap(inner Inner, s Settings, logger *slog.Logger) *Store {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	threshold := s.ConsecutiveFailures
	breakerState.WithLabelValues(s.Name).Set(float64(gobreaker.StateClosed))
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			breakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn("store breaker state change", "store", name, "from", from.String(), "to", to.String())
		},
	})
	return &Store{inner: inner, cb: cb}
}

type getResult struct {
	acc   ledger.Account
	found bool
}

func (s *Store) Get(ctx context.Context, id string) (ledger.Account, bool, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		acc, found, err := s.inner.Get(ctx, id)
		return getResult{acc: acc, found: found}, err
	})
	if err != nil {
		return ledger.Account{}, false, translate(err)
	}
	r := res.(getResult)
	return r.acc, r.found, nil
}

func (s *Store) Save(ctx context.Context, a ledger.Account) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.inner.Save(ctx, a)
	})
	return translate(err)
}

// Reset bypasses the breaker.
func (s *Store) Reset(ctx context.Context) error { return s.inner.Reset(ctx) }

// Ready fails while the breaker is open, otherwise defers to the inner store.
func (s *Store) Ready(ctx context.Context) error {
	if s.cb.State() == gobreaker.StateOpen {
		return ErrUnavailable
	}
	if rc, ok := s.inner.(interface{ Ready(context.Context) error }); ok {
		return rc.Ready(ctx)
	}
	return nil
}

// State reports the current breaker state.
func (s *Store) State() gobreaker.State { return s.cb.State() }

// isSuccessful treats caller cancellation and deadlines as neutral: they say
// nothing about the backend's health.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
