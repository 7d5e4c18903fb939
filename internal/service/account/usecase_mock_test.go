package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tinoosan/minledger/internal/errs"
	"github.com/tinoosan/minledger/internal/ledger"
	"github.com/tinoosan/minledger/internal/service/account"
	"github.com/tinoosan/minledger/internal/service/account/mocks"
)

var errStoreDown = errors.New("store down")

// Validation failures must be reported before the store is touched; the mock
// has no expectations so any call fails the test.
func TestUsecases_ValidateBeforeStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	ctx := context.Background()

	_, err := account.NewDeposit(store).Execute(ctx, account.DepositInput{Destination: "100", Amount: 0})
	require.ErrorIs(t, err, errs.ErrInvalidParameter)

	_, err = account.NewWithdraw(store).Execute(ctx, account.WithdrawInput{Origin: "100", Amount: -5})
	require.ErrorIs(t, err, errs.ErrInvalidParameter)

	_, err = account.NewTransfer(store).Execute(ctx, account.TransferInput{Origin: "100", Destination: "100", Amount: 5})
	require.ErrorIs(t, err, errs.ErrInvalidParameter)

	_, err = account.NewGetBalance(store).Execute(ctx, account.BalanceInput{})
	require.ErrorIs(t, err, errs.ErrInvalidParameter)
}

func TestDeposit_SavesNewAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	gomock.InOrder(
		store.EXPECT().Get(gomock.Any(), "100").Return(ledger.Account{}, false, nil),
		store.EXPECT().Save(gomock.Any(), ledger.NewAccount("100", 10)).Return(nil),
	)

	out, err := account.NewDeposit(store).Execute(context.Background(), account.DepositInput{Destination: "100", Amount: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.Balance)
}

func TestWithdraw_InsufficientFundsDoesNotSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "100").Return(ledger.NewAccount("100", 3), true, nil)

	_, err := account.NewWithdraw(store).Execute(context.Background(), account.WithdrawInput{Origin: "100", Amount: 4})
	require.ErrorIs(t, err, errs.ErrInsufficientFunds)
}

func TestTransfer_ReadsBothThenSavesBoth(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	getOrigin := store.EXPECT().Get(gomock.Any(), "100").Return(ledger.NewAccount("100", 15), true, nil)
	getDest := store.EXPECT().Get(gomock.Any(), "300").Return(ledger.Account{}, false, nil)
	store.EXPECT().Save(gomock.Any(), ledger.NewAccount("100", 0)).Return(nil).After(getOrigin).After(getDest)
	store.EXPECT().Save(gomock.Any(), ledger.NewAccount("300", 15)).Return(nil).After(getOrigin).After(getDest)

	out, err := account.NewTransfer(store).Execute(context.Background(), account.TransferInput{Origin: "100", Destination: "300", Amount: 15})
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Origin.Balance)
	assert.Equal(t, int64(15), out.Destination.Balance)
}

// A missing origin wins over insufficient funds: both reads happen, nothing is saved.
func TestTransfer_NotFoundBeforeFundsCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "100").Return(ledger.Account{}, false, nil)
	store.EXPECT().Get(gomock.Any(), "200").Return(ledger.NewAccount("200", 0), true, nil)

	_, err := account.NewTransfer(store).Execute(context.Background(), account.TransferInput{Origin: "100", Destination: "200", Amount: 1_000_000})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUsecases_PropagateStoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)
		store.EXPECT().Get(gomock.Any(), "100").Return(ledger.Account{}, false, errStoreDown)

		_, err := account.NewGetBalance(store).Execute(ctx, account.BalanceInput{AccountID: "100"})
		require.ErrorIs(t, err, errStoreDown)
		assert.Equal(t, errs.KindUnknown, errs.KindOf(err))
	})

	t.Run("save", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)
		store.EXPECT().Get(gomock.Any(), "100").Return(ledger.NewAccount("100", 10), true, nil)
		store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errStoreDown)

		_, err := account.NewWithdraw(store).Execute(ctx, account.WithdrawInput{Origin: "100", Amount: 1})
		require.ErrorIs(t, err, errStoreDown)
	})

	t.Run("transfer read", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)
		store.EXPECT().Get(gomock.Any(), "100").Return(ledger.NewAccount("100", 10), true, nil).AnyTimes()
		store.EXPECT().Get(gomock.Any(), "200").Return(ledger.Account{}, false, errStoreDown)

		_, err := account.NewTransfer(store).Execute(ctx, account.TransferInput{Origin: "100", Destination: "200", Amount: 1})
		require.ErrorIs(t, err, errStoreDown)
	})
}
