package httpapi

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/tinoosan/minledger/internal/service/account"
)

// postEvent handles POST /event. The body has already been validated.
func (s *Server) postEvent(w http.ResponseWriter, r *http.Request) {
	req, ok := r.Context().Value(ctxKeyEvent).(eventRequest)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated request missing"})
		return
	}

	eventID := uuid.New().String()
	w.Header().Set("X-Event-ID", eventID)

	resp, err := s.dispatch(r.Context(), req)
	eventsTotal.WithLabelValues(typeLabel(req.Type), outcomeLabel(err)).Inc()
	if err != nil {
		s.log.Debug("event rejected",
			"req_id", chimw.GetReqID(r.Context()),
			"event_id", eventID,
			"type", req.Type,
			"outcome", outcomeLabel(err),
			"err", err,
		)
		s.writeDomainError(w, r, err)
		return
	}
	s.log.Info("event applied",
		"req_id", chimw.GetReqID(r.Context()),
		"event_id", eventID,
		"type", req.Type,
		"amount", req.Amount,
	)
	toJSON(w, http.StatusCreated, resp)
}

func (s *Server) dispatch(ctx context.Context, req eventRequest) (eventResponse, error) {
	switch req.Type {
	case eventDeposit:
		out, err := s.svc.Deposit(ctx, account.DepositInput{Destination: req.Destination, Amount: req.Amount})
		if err != nil {
			return eventResponse{}, err
		}
		return eventResponse{Destination: toAccountData(out)}, nil
	case eventWithdraw:
		out, err := s.svc.Withdraw(ctx, account.WithdrawInput{Origin: req.Origin, Amount: req.Amount})
		if err != nil {
			return eventResponse{}, err
		}
		return eventResponse{Origin: toAccountData(out)}, nil
	case eventTransfer:
		out, err := s.svc.Transfer(ctx, account.TransferInput{Origin: req.Origin, Destination: req.Destination, Amount: req.Amount})
		if err != nil {
			return eventResponse{}, err
		}
		return eventResponse{Origin: toAccountData(out.Origin), Destination: toAccountData(out.Destination)}, nil
	default:
		return eventResponse{}, validateEventRequest(req)
	}
}

func toAccountData(o account.AccountOutput) *accountData {
	return &accountData{ID: o.ID, Balance: o.Balance}
}
