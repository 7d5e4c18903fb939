package httpapi

import (
	"context"

	"github.com/tinoosan/minledger/internal/service/account"
)

// Store is the account store plus the reset hook used by POST /reset.
type Store interface {
	account.Store
	// Reset drops every account.
	Reset(ctx context.Context) error
}

// ReadyChecker is optionally implemented by stores to indicate readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}
