package account

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tinoosan/minledger/internal/errs"
	"github.com/tinoosan/minledger/internal/ledger"
)

// Transfer moves funds between two distinct accounts. A missing destination is
// created with a zero balance, mirroring Deposit; a missing origin is NotFound.
type Transfer struct {
	store Store
}

func NewTransfer(store Store) *Transfer { return &Transfer{store: store} }

func (u *Transfer) Execute(ctx context.Context, in TransferInput) (TransferOutput, error) {
	if err := validateAmount(in.Amount); err != nil {
		return TransferOutput{}, err
	}
	if in.Origin == "" {
		return TransferOutput{}, errs.Invalid(msgOriginRequired)
	}
	if in.Destination == "" {
		return TransferOutput{}, errs.Invalid(msgDestinationRequired)
	}
	if in.Origin == in.Destination {
		return TransferOutput{}, errs.Invalid(msgSameAccount)
	}

	origin, destination, err := u.load(ctx, in.Origin, in.Destination)
	if err != nil {
		return TransferOutput{}, err
	}

	// Funds are checked only after both reads so NotFound wins over InsufficientFunds.
	if err := origin.Withdraw(in.Amount); err != nil {
		return TransferOutput{}, err
	}
	if err := destination.Deposit(in.Amount); err != nil {
		return TransferOutput{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := u.store.Save(gctx, origin); err != nil {
			return fmt.Errorf("save origin: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := u.store.Save(gctx, destination); err != nil {
			return fmt.Errorf("save destination: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return TransferOutput{}, err
	}

	return TransferOutput{
		Origin:      AccountOutput{ID: origin.ID(), Balance: origin.Balance()},
		Destination: AccountOutput{ID: destination.ID(), Balance: destination.Balance()},
	}, nil
}

// load fetches both accounts concurrently.
func (u *Transfer) load(ctx context.Context, originID, destinationID string) (ledger.Account, ledger.Account, error) {
	var (
		origin, destination           ledger.Account
		originFound, destinationFound bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		origin, originFound, err = u.store.Get(gctx, originID)
		if err != nil {
			return fmt.Errorf("load origin: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		destination, destinationFound, err = u.store.Get(gctx, destinationID)
		if err != nil {
			return fmt.Errorf("load destination: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ledger.Account{}, ledger.Account{}, err
	}
	if !originFound {
		return ledger.Account{}, ledger.Account{}, errs.NotFound(msgOriginNotFound)
	}
	if !destinationFound {
		destination = ledger.NewAccount(destinationID, 0)
	}
	return origin, destination, nil
}
