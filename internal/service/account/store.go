package account

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"

	"github.com/tinoosan/minledger/internal/ledger"
)

// Store is the account repository the use cases depend on.
// Get reports a missing account with found == false and a nil error;
// err is reserved for infrastructure failures. Save upserts by id.
type Store interface {
	Get(ctx context.Context, id string) (acc ledger.Account, found bool, err error)
	Save(ctx context.Context, acc ledger.Account) error
}
