package ledger

import "github.com/tinoosan/minledger/internal/errs"

const (
	msgAmountNotPositive = "Amount must be greater than zero"
	msgInsufficientFunds = "Insufficient funds"
	msgIDRequired        = "Account Id is required"
	msgNegativeBalance   = "Balance must not be negative"
)

// Account holds an identity and a balance in minor units of the ledger currency.
// The balance only changes through Deposit and Withdraw and never goes negative.
type Account struct {
	id      string
	balance int64
}

// NewAccount creates an account with an initial balance. It does not validate:
// callers pass a non-empty id and a non-negative balance, or use Restore for
// values read from outside the process.
func NewAccount(id string, balance int64) Account {
	return Account{id: id, balance: balance}
}

// Restore rebuilds an account from stored or configured values, rejecting an
// empty id or a negative balance with InvalidParameter.
func Restore(id string, balance int64) (Account, error) {
	if id == "" {
		return Account{}, errs.Invalid(msgIDRequired)
	}
	if balance < 0 {
		return Account{}, errs.Invalid(msgNegativeBalance)
	}
	return NewAccount(id, balance), nil
}

// ID returns the immutable account identifier.
func (a Account) ID() string { return a.id }

// Balance returns the current balance.
func (a Account) Balance() int64 { return a.balance }

// Deposit credits amount to the account.
func (a *Account) Deposit(amount int64) error {
	if amount <= 0 {
		return errs.Invalid(msgAmountNotPositive)
	}
	a.balance += amount
	return nil
}

// Withdraw debits amount from the account. The balance is left untouched on error.
func (a *Account) Withdraw(amount int64) error {
	if amount <= 0 {
		return errs.Invalid(msgAmountNotPositive)
	}
	if amount > a.balance {
		return errs.InsufficientFunds(msgInsufficientFunds)
	}
	a.balance -= amount
	return nil
}
