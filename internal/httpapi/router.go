// Package httpapi wires the HTTP surface of the ledger service.
// It keeps handlers thin, delegating business rules to the account use cases.
package httpapi

import (
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tinoosan/minledger/internal/service/account"
)

// Server wires handlers and middleware using Chi.
type Server struct {
	svc      account.Service
	store    Store
	currency string
	log      *slog.Logger
	rt       *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
// currency is only used to format balances for GET /v1/accounts/{id}.
func New(store Store, currency string, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		svc:      account.New(store),
		store:    store,
		currency: currency,
		rt:       r,
		log:      logger,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route middleware.
func (s *Server) routes() {
	s.rt.With(s.validateEvent()).Post("/event", s.postEvent)
	s.rt.Get("/balance", s.getBalance)
	s.rt.Post("/reset", s.reset)
	s.rt.Get("/v1/accounts/{id}", s.getAccount)
	// Health and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}
