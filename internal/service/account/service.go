// Package account implements the ledger use cases: deposit, withdraw, transfer
// and balance lookup. Each use case is built from a Store and keeps no state of its own.
package account

import (
	"context"

	"github.com/tinoosan/minledger/internal/errs"
)

// AccountOutput is the id/balance pair returned by the mutating use cases.
type AccountOutput struct {
	ID      string
	Balance int64
}

type DepositInput struct {
	Destination string
	Amount      int64
}

type WithdrawInput struct {
	Origin string
	Amount int64
}

type TransferInput struct {
	Origin      string
	Destination string
	Amount      int64
}

type TransferOutput struct {
	Origin      AccountOutput
	Destination AccountOutput
}

type BalanceInput struct {
	AccountID string
}

type BalanceOutput struct {
	Balance int64
}

// Service bundles the use cases for the HTTP layer.
type Service interface {
	Deposit(ctx context.Context, in DepositInput) (AccountOutput, error)
	Withdraw(ctx context.Context, in WithdrawInput) (AccountOutput, error)
	Transfer(ctx context.Context, in TransferInput) (TransferOutput, error)
	Balance(ctx context.Context, in BalanceInput) (BalanceOutput, error)
}

type service struct {
	deposit  *Deposit
	withdraw *Withdraw
	transfer *Transfer
	balance  *GetBalance
}

func New(store Store) Service {
	return &service{
		deposit:  NewDeposit(store),
		withdraw: NewWithdraw(store),
		transfer: NewTransfer(store),
		balance:  NewGetBalance(store),
	}
}

func (s *service) Deposit(ctx context.Context, in DepositInput) (AccountOutput, error) {
	return s.deposit.Execute(ctx, in)
}

func (s *service) Withdraw(ctx context.Context, in WithdrawInput) (AccountOutput, error) {
	return s.withdraw.Execute(ctx, in)
}

func (s *service) Transfer(ctx context.Context, in TransferInput) (TransferOutput, error) {
	return s.transfer.Execute(ctx, in)
}

func (s *service) Balance(ctx context.Context, in BalanceInput) (BalanceOutput, error) {
	return s.balance.Execute(ctx, in)
}

const (
	msgAmountNotPositive   = "Amount must be greater than zero"
	msgSameAccount         = "Origin and destination must be different"
	msgAccountNotFound     = "Account not found"
	msgOriginNotFound      = "Origin account not found"
	msgOriginRequired      = "Origin is required"
	msgDestinationRequired = "Destination is required"
	msgAccountIDRequired   = "Account Id is required"
)

func validateAmount(amount int64) error {
	if amount <= 0 {
		return errs.Invalid(msgAmountNotPositive)
	}
	return nil
}
