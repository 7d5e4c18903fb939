package account

import (
	"context"
	"fmt"

	"github.com/tinoosan/minledger/internal/errs"
)

// Withdraw debits an existing account.
type Withdraw struct {
	store Store
}

func NewWithdraw(store Store) *Withdraw { return &Withdraw{store: store} }

func (u *Withdraw) Execute(ctx context.Context, in WithdrawInput) (AccountOutput, error) {
	if err := validateAmount(in.Amount); err != nil {
		return AccountOutput{}, err
	}
	if in.Origin == "" {
		return AccountOutput{}, errs.Invalid(msgOriginRequired)
	}
	acc, found, err := u.store.Get(ctx, in.Origin)
	if err != nil {
		return AccountOutput{}, fmt.Errorf("load origin: %w", err)
	}
	if !found {
		return AccountOutput{}, errs.NotFound(msgAccountNotFound)
	}
	if err := acc.Withdraw(in.Amount); err != nil {
		return AccountOutput{}, err
	}
	if err := u.store.Save(ctx, acc); err != nil {
		return AccountOutput{}, fmt.Errorf("save origin: %w", err)
	}
	return AccountOutput{ID: acc.ID(), Balance: acc.Balance()}, nil
}
