package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tinoosan/minledger/internal/errs"
)

type ctxKey string

const ctxKeyEvent ctxKey = "validatedEvent"

const (
	msgInvalidEventType    = "Invalid event type"
	msgOriginRequired      = "Origin is required"
	msgDestinationRequired = "Destination is required"
	msgAccountIDRequired   = "Account Id is required"
)

// validateEvent decodes the POST /event body, checks the fields the event type
// requires and stores the request in the context for the handler.
func (s *Server) validateEvent() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requireJSON(w, r) {
				return
			}
			var req eventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				eventsTotal.WithLabelValues("unknown", errs.KindInvalidParameter.String()).Inc()
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			if err := validateEventRequest(req); err != nil {
				eventsTotal.WithLabelValues(typeLabel(req.Type), outcomeLabel(err)).Inc()
				s.writeDomainError(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyEvent, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateEventRequest checks the per-type required strings. Amount rules are
// enforced by the use cases.
func validateEventRequest(req eventRequest) error {
	switch req.Type {
	case eventDeposit:
		return requireString(req.Destination, msgDestinationRequired)
	case eventWithdraw:
		return requireString(req.Origin, msgOriginRequired)
	case eventTransfer:
		if err := requireString(req.Origin, msgOriginRequired); err != nil {
			return err
		}
		return requireString(req.Destination, msgDestinationRequired)
	default:
		return errs.Invalid(msgInvalidEventType)
	}
}

func requireString(v, msg string) error {
	if v == "" {
		return errs.Invalid(msg)
	}
	return nil
}
