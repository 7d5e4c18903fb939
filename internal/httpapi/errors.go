package httpapi

import (
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tinoosan/minledger/internal/errs"
	"github.com/tinoosan/minledger/internal/storage/breaker"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeErr(w, http.StatusBadRequest, msg, errs.KindInvalidParameter.String())
}

func notFound(w http.ResponseWriter) { writeErr(w, http.StatusNotFound, "not_found", "not_found") }

// notFoundZero is the legacy NotFound reply for /balance and /event: 404 with body "0".
func notFoundZero(w http.ResponseWriter) { writeText(w, http.StatusNotFound, "0") }

// writeDomainError maps an error kind to its HTTP status.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch errs.KindOf(err) {
	case errs.KindInvalidParameter:
		badRequest(w, err.Error())
	case errs.KindNotFound:
		notFoundZero(w)
	case errs.KindInsufficientFunds:
		writeErr(w, http.StatusUnprocessableEntity, err.Error(), errs.KindInsufficientFunds.String())
	default:
		reqID := chimw.GetReqID(r.Context())
		if errors.Is(err, breaker.ErrUnavailable) {
			s.log.Warn("store unavailable", "req_id", reqID, "err", err)
			writeErr(w, http.StatusServiceUnavailable, "store unavailable", "unavailable")
			return
		}
		s.log.Error("request failed", "req_id", reqID, "err", err)
		writeErr(w, http.StatusInternalServerError, "internal error", "internal")
	}
}

// outcomeLabel names the result of an event for metrics.
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if k := errs.KindOf(err); k != errs.KindUnknown {
		return k.String()
	}
	return "error"
}
