package httpapi

import (
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"
	"github.com/govalues/money"

	"github.com/tinoosan/minledger/internal/errs"
	"github.com/tinoosan/minledger/internal/service/account"
)

// getBalance handles GET /balance?account_id= and replies with the bare balance as text.
func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("account_id")
	if err := requireString(id, msgAccountIDRequired); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	out, err := s.svc.Balance(r.Context(), account.BalanceInput{AccountID: id})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, strconv.FormatInt(out.Balance, 10))
}

// getAccount handles GET /v1/accounts/{id}.
func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	out, err := s.svc.Balance(r.Context(), account.BalanceInput{AccountID: id})
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			notFound(w)
			return
		}
		s.writeDomainError(w, r, err)
		return
	}
	amt, err := money.NewAmountFromMinorUnits(s.currency, out.Balance)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, accountResponse{
		ID:       id,
		Balance:  out.Balance,
		Currency: amt.Curr().Code(),
		Amount:   amt.String(),
	})
}
