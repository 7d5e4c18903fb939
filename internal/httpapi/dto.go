package httpapi

type eventType string

const (
	eventDeposit  eventType = "deposit"
	eventWithdraw eventType = "withdraw"
	eventTransfer eventType = "transfer"
)

// eventRequest is the POST /event body.
type eventRequest struct {
	Type        eventType `json:"type"`
	Origin      string    `json:"origin,omitempty"`
	Destination string    `json:"destination,omitempty"`
	Amount      int64     `json:"amount"`
}

type accountData struct {
	ID      string `json:"id"`
	Balance int64  `json:"balance"`
}

// eventResponse carries the side(s) touched by the event:
// deposit -> destination, withdraw -> origin, transfer -> both.
type eventResponse struct {
	Origin      *accountData `json:"origin,omitempty"`
	Destination *accountData `json:"destination,omitempty"`
}

type accountResponse struct {
	ID       string `json:"id"`
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}
