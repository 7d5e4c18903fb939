package account

import (
	"context"
	"fmt"

	"github.com/tinoosan/minledger/internal/errs"
)

// GetBalance reads the balance of an existing account.
type GetBalance struct {
	store Store
}

func NewGetBalance(store Store) *GetBalance { return &GetBalance{store: store} }

func (u *GetBalance) Execute(ctx context.Context, in BalanceInput) (BalanceOutput, error) {
	if in.AccountID == "" {
		return BalanceOutput{}, errs.Invalid(msgAccountIDRequired)
	}
	acc, found, err := u.store.Get(ctx, in.AccountID)
	if err != nil {
		return BalanceOutput{}, fmt.Errorf("load account: %w", err)
	}
	if !found {
		return BalanceOutput{}, errs.NotFound(msgAccountNotFound)
	}
	return BalanceOutput{Balance: acc.Balance()}, nil
}
