package httpapi

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// reset handles POST /reset.
func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reset(r.Context()); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.log.Info("store reset", "req_id", chimw.GetReqID(r.Context()))
	writeText(w, http.StatusOK, "OK")
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	// If the store implements ReadyChecker, call it with a short timeout
	ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
	defer cancel()
	if rc, ok := s.store.(ReadyChecker); ok {
		if err := rc.Ready(ctx); err != nil {
			s.log.Warn("readiness check failed", "err", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}
