package account

import (
	"context"
	"fmt"

	"github.com/tinoosan/minledger/internal/errs"
	"github.com/tinoosan/minledger/internal/ledger"
)

// Deposit credits an account, creating it with a zero balance when absent.
type Deposit struct {
	store Store
}

func NewDeposit(store Store) *Deposit { return &Deposit{store: store} }

func (u *Deposit) Execute(ctx context.Context, in DepositInput) (AccountOutput, error) {
	if err := validateAmount(in.Amount); err != nil {
		return AccountOutput{}, err
	}
	if in.Destination == "" {
		return AccountOutput{}, errs.Invalid(msgDestinationRequired)
	}
	acc, found, err := u.store.Get(ctx, in.Destination)
	if err != nil {
		return AccountOutput{}, fmt.Errorf("load destination: %w", err)
	}
	if !found {
		acc = ledger.NewAccount(in.Destination, 0)
	}
	if err := acc.Deposit(in.Amount); err != nil {
		return AccountOutput{}, err
	}
	if err := u.store.Save(ctx, acc); err != nil {
		return AccountOutput{}, fmt.Errorf("save destination: %w", err)
	}
	return AccountOutput{ID: acc.ID(), Balance: acc.Balance()}, nil
}
